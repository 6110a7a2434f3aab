package logger

var _ Logger = Nop{}

// Nop is a logger.Logger implementation that discards every entry.
type Nop struct{}

// Debug does nothing.
func (Nop) Debug(string, ...Field) {}

// Info does nothing.
func (Nop) Info(string, ...Field) {}

// Error does nothing.
func (Nop) Error(string, ...Field) {}
