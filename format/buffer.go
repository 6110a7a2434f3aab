package format

import "bytes"

// Buffer is an in-memory format context with an explicit mode.
//
// Both byte sequences and strings are stored as-is: the framing is left
// to whoever consumes the buffer content, e.g. encoding/gob for the value
// returned by an encoding.BinaryMarshaler.
type Buffer struct {
	humanReadable bool
	data          []byte
}

// NewBuffer returns a Buffer with the given mode and initial content.
func NewBuffer(humanReadable bool, data []byte) *Buffer {
	return &Buffer{
		humanReadable: humanReadable,
		data:          data,
	}
}

// IsHumanReadable returns the mode the Buffer has been created with.
func (b *Buffer) IsHumanReadable() bool { return b.humanReadable }

// EncodeBytes replaces the Buffer content with a copy of v.
func (b *Buffer) EncodeBytes(v []byte) error {
	b.data = append(b.data[:0], v...)
	return nil
}

// EncodeString replaces the Buffer content with v.
func (b *Buffer) EncodeString(v string) error {
	b.data = append(b.data[:0], v...)
	return nil
}

// DecodeBytes returns a copy of the Buffer content.
func (b *Buffer) DecodeBytes() ([]byte, error) {
	return bytes.Clone(b.data), nil
}

// DecodeString returns the Buffer content as a string.
func (b *Buffer) DecodeString() (string, error) {
	return string(b.data), nil
}

// Bytes returns the Buffer content.
func (b *Buffer) Bytes() []byte {
	return b.data
}
