package record

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/get-eventually/go-base64bytes/serde"
)

// Interface implementation assertion.
var _ Store[any] = new(InMemoryStore[any])

// InMemoryStore is a thread-safe, in-memory Store implementation.
//
// Records are kept in their serialized form, so every Save and Get
// goes through the provided serde.Serde.
type InMemoryStore[T any] struct {
	serde serde.Serde[T, []byte]

	mx      sync.RWMutex
	records map[uuid.UUID][]byte
}

// NewInMemoryStore creates a new record.InMemoryStore instance
// using the provided serde.Serde to store its records.
func NewInMemoryStore[T any](s serde.Serde[T, []byte]) *InMemoryStore[T] {
	return &InMemoryStore[T]{
		serde:   s,
		mx:      sync.RWMutex{},
		records: make(map[uuid.UUID][]byte),
	}
}

func contextErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("record.InMemoryStore: context error, %w", err)
	}

	return nil
}

// Get implements the record.Getter interface.
func (s *InMemoryStore[T]) Get(ctx context.Context, id uuid.UUID) (T, error) {
	var zeroValue T

	if err := contextErr(ctx); err != nil {
		return zeroValue, err
	}

	s.mx.RLock()
	payload, ok := s.records[id]
	s.mx.RUnlock()

	if !ok {
		return zeroValue, fmt.Errorf("record.InMemoryStore: failed to get record %s, %w", id, ErrNotFound)
	}

	value, err := s.serde.Deserialize(payload)
	if err != nil {
		return zeroValue, fmt.Errorf("record.InMemoryStore: failed to deserialize record %s, %w", id, err)
	}

	return value, nil
}

// Save implements the record.Saver interface.
func (s *InMemoryStore[T]) Save(ctx context.Context, id uuid.UUID, value T) error {
	if err := contextErr(ctx); err != nil {
		return err
	}

	payload, err := s.serde.Serialize(value)
	if err != nil {
		return fmt.Errorf("record.InMemoryStore: failed to serialize record %s, %w", id, err)
	}

	s.mx.Lock()
	defer s.mx.Unlock()

	s.records[id] = payload

	return nil
}

// Delete implements the record.Deleter interface.
func (s *InMemoryStore[T]) Delete(ctx context.Context, id uuid.UUID) error {
	if err := contextErr(ctx); err != nil {
		return err
	}

	s.mx.Lock()
	defer s.mx.Unlock()

	if _, ok := s.records[id]; !ok {
		return fmt.Errorf("record.InMemoryStore: failed to delete record %s, %w", id, ErrNotFound)
	}

	delete(s.records, id)

	return nil
}

// Payload returns the serialized form of the record with the given id,
// as it is kept in memory.
func (s *InMemoryStore[T]) Payload(id uuid.UUID) ([]byte, bool) {
	s.mx.RLock()
	defer s.mx.RUnlock()

	payload, ok := s.records[id]

	return payload, ok
}
