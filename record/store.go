// Package record contains the storage abstractions for records, values
// containing base64bytes.Bytes fields that get persisted through a
// serde.Serde to some byte-oriented storage.
package record

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNotFound is returned by a Store when the requested record does not exist.
	ErrNotFound = errors.New("record: not found")

	// ErrFormatMismatch is returned by a Store when the requested record
	// has been saved using a different serde.Format than the one the Store uses.
	ErrFormatMismatch = errors.New("record: stored format does not match the store format")
)

// Getter is a Store interface component, that can be used for retrieving
// records from some storage.
type Getter[T any] interface {
	Get(ctx context.Context, id uuid.UUID) (T, error)
}

// Saver is a Store interface component, that can be used for storing
// records in some storage.
//
// Saving a record with an existing id replaces the previous value.
type Saver[T any] interface {
	Save(ctx context.Context, id uuid.UUID, value T) error
}

// Deleter is a Store interface component, that can be used for removing
// records from some storage.
//
// ErrNotFound is returned if no record exists with the given id.
type Deleter interface {
	Delete(ctx context.Context, id uuid.UUID) error
}

// Store is used to get, save and delete records of type T.
type Store[T any] interface {
	Getter[T]
	Saver[T]
	Deleter
}

// FusedStore is a convenience type that can be used to fuse together
// different implementations for the Getter, Saver and Deleter interface components.
type FusedStore[T any] struct {
	Getter[T]
	Saver[T]
	Deleter
}

// GetMany retrieves the records with the given ids concurrently,
// returning them in the same order as the ids.
//
// The first error encountered is returned, and cancels the remaining calls.
func GetMany[T any](ctx context.Context, getter Getter[T], ids ...uuid.UUID) ([]T, error) {
	results := make([]T, len(ids))
	group, ctx := errgroup.WithContext(ctx)

	for i, id := range ids {
		i, id := i, id

		group.Go(func() error {
			value, err := getter.Get(ctx, id)
			if err != nil {
				return err
			}

			results[i] = value

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
