package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/get-eventually/go-base64bytes/logger"
	"github.com/get-eventually/go-base64bytes/postgres/internal"
	"github.com/get-eventually/go-base64bytes/record"
	"github.com/get-eventually/go-base64bytes/serde"
)

var _ record.Store[any] = new(Store[any])

// Store is a record.Store implementation targeted to PostgreSQL databases.
//
// Records are kept in a single table, by default "records", together with
// the serde.Format of their payload: binary formats keep base64bytes.Bytes
// fields as raw bytes, human-readable ones as base-64 text.
type Store[T any] struct {
	conn      *pgxpool.Pool
	serde     serde.Serde[T, []byte]
	format    serde.Format
	tableName string
	logger    logger.Logger
}

// NewStore returns a new Store instance using the provided connection pool
// and serde.Serde to store records of type T.
//
// The serde.Format recorded with each payload is taken from the serde,
// if it implements serde.Formatted.
func NewStore[T any](conn *pgxpool.Pool, s serde.Serde[T, []byte], options ...Option[*Store[T]]) *Store[T] {
	format, _ := serde.FormatOf(s)

	store := &Store[T]{
		conn:      conn,
		serde:     s,
		format:    format,
		tableName: DefaultTableName,
		logger:    logger.Nop{},
	}

	for _, opt := range options {
		opt.apply(store)
	}

	return store
}

func (s *Store[T]) table() string {
	return pgx.Identifier{s.tableName}.Sanitize()
}

// Get implements the record.Getter interface.
//
// record.ErrFormatMismatch is returned if the record has been saved
// using a serde with a different serde.Format.
func (s *Store[T]) Get(ctx context.Context, id uuid.UUID) (T, error) {
	var (
		zeroValue T
		format    string
		payload   []byte
	)

	row := s.conn.QueryRow(ctx, `SELECT format, payload FROM `+s.table()+` WHERE id = $1`, id)

	err := row.Scan(&format, &payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return zeroValue, fmt.Errorf("postgres.Store: failed to get record %s, %w", id, record.ErrNotFound)
	}

	if err != nil {
		return zeroValue, fmt.Errorf("postgres.Store: failed to fetch record from database, %w", err)
	}

	if format != s.format.Name {
		return zeroValue, fmt.Errorf("postgres.Store: record %s has format %q, expected %q, %w",
			id, format, s.format.Name, record.ErrFormatMismatch)
	}

	value, err := s.serde.Deserialize(payload)
	if err != nil {
		return zeroValue, fmt.Errorf("postgres.Store: failed to deserialize record %s, %w", id, err)
	}

	return value, nil
}

// Save implements the record.Saver interface.
//
// The record is inserted, or replaced if it already exists, in a transaction.
func (s *Store[T]) Save(ctx context.Context, id uuid.UUID, value T) error {
	payload, err := s.serde.Serialize(value)
	if err != nil {
		return fmt.Errorf("postgres.Store: failed to serialize record %s, %w", id, err)
	}

	if err := internal.RunTransaction(ctx, s.conn, internal.ReadWrite, func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(
			ctx,
			`INSERT INTO `+s.table()+` (id, format, human_readable, payload, updated_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE SET
				format = EXCLUDED.format,
				human_readable = EXCLUDED.human_readable,
				payload = EXCLUDED.payload,
				updated_at = EXCLUDED.updated_at`,
			id, s.format.Name, s.format.HumanReadable, payload, time.Now().UTC(),
		)

		return err
	}); err != nil {
		return fmt.Errorf("postgres.Store: failed to save record %s, %w", id, err)
	}

	logger.Debug(s.logger, "postgres.Store: record saved",
		logger.With("id", id),
		logger.With("format", s.format.Name),
		logger.With("size", len(payload)),
	)

	return nil
}

// Delete implements the record.Deleter interface.
func (s *Store[T]) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.conn.Exec(ctx, `DELETE FROM `+s.table()+` WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres.Store: failed to delete record %s, %w", id, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("postgres.Store: failed to delete record %s, %w", id, record.ErrNotFound)
	}

	logger.Debug(s.logger, "postgres.Store: record deleted", logger.With("id", id))

	return nil
}
