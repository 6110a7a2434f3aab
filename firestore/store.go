// Package recordfirestore contains a record.Store implementation
// backed by Google Cloud Firestore.
package recordfirestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/get-eventually/go-base64bytes/logger"
	"github.com/get-eventually/go-base64bytes/record"
	"github.com/get-eventually/go-base64bytes/serde"
)

var _ record.Store[any] = new(Store[any])

// document is the Firestore representation of a record.
type document struct {
	Format        string    `firestore:"format"`
	HumanReadable bool      `firestore:"human_readable"`
	Payload       []byte    `firestore:"payload"`
	UpdatedAt     time.Time `firestore:"updated_at"`
}

// Store is a record.Store implementation using a Firestore collection,
// by default "Records", with one document per record using the record id
// as document id.
//
// Payloads are kept as Firestore bytes values, together with the
// serde.Format they have been serialized with.
type Store[T any] struct {
	client     *firestore.Client
	serde      serde.Serde[T, []byte]
	format     serde.Format
	collection string
	logger     logger.Logger
}

// NewStore returns a new Store instance using the provided Firestore client
// and serde.Serde to store records of type T.
func NewStore[T any](client *firestore.Client, s serde.Serde[T, []byte], options ...Option[*Store[T]]) *Store[T] {
	format, _ := serde.FormatOf(s)

	store := &Store[T]{
		client:     client,
		serde:      s,
		format:     format,
		collection: DefaultCollection,
		logger:     logger.Nop{},
	}

	for _, opt := range options {
		opt.apply(store)
	}

	return store
}

func (s *Store[T]) doc(id uuid.UUID) *firestore.DocumentRef {
	return s.client.Collection(s.collection).Doc(id.String())
}

// Get implements the record.Getter interface.
//
// record.ErrFormatMismatch is returned if the record has been saved
// using a serde with a different serde.Format.
func (s *Store[T]) Get(ctx context.Context, id uuid.UUID) (T, error) {
	var zeroValue T

	snapshot, err := s.doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return zeroValue, fmt.Errorf("firestore.Store: failed to get record %s, %w", id, record.ErrNotFound)
	}

	if err != nil {
		return zeroValue, fmt.Errorf("firestore.Store: failed to fetch record %s, %w", id, err)
	}

	var doc document
	if err := snapshot.DataTo(&doc); err != nil {
		return zeroValue, fmt.Errorf("firestore.Store: failed to read record %s document, %w", id, err)
	}

	if doc.Format != s.format.Name {
		return zeroValue, fmt.Errorf("firestore.Store: record %s has format %q, expected %q, %w",
			id, doc.Format, s.format.Name, record.ErrFormatMismatch)
	}

	value, err := s.serde.Deserialize(doc.Payload)
	if err != nil {
		return zeroValue, fmt.Errorf("firestore.Store: failed to deserialize record %s, %w", id, err)
	}

	return value, nil
}

// Save implements the record.Saver interface.
func (s *Store[T]) Save(ctx context.Context, id uuid.UUID, value T) error {
	payload, err := s.serde.Serialize(value)
	if err != nil {
		return fmt.Errorf("firestore.Store: failed to serialize record %s, %w", id, err)
	}

	if _, err := s.doc(id).Set(ctx, document{
		Format:        s.format.Name,
		HumanReadable: s.format.HumanReadable,
		Payload:       payload,
		UpdatedAt:     time.Now().UTC(),
	}); err != nil {
		return fmt.Errorf("firestore.Store: failed to save record %s, %w", id, err)
	}

	logger.Debug(s.logger, "firestore.Store: record saved",
		logger.With("id", id),
		logger.With("format", s.format.Name),
		logger.With("size", len(payload)),
	)

	return nil
}

// Delete implements the record.Deleter interface.
func (s *Store[T]) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.doc(id).Delete(ctx, firestore.Exists)
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("firestore.Store: failed to delete record %s, %w", id, record.ErrNotFound)
	}

	if err != nil {
		return fmt.Errorf("firestore.Store: failed to delete record %s, %w", id, err)
	}

	logger.Debug(s.logger, "firestore.Store: record deleted", logger.With("id", id))

	return nil
}
