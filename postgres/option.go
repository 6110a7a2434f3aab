package postgres

import (
	"github.com/get-eventually/go-base64bytes/logger"
)

// Option can be used to change the configuration of an object.
type Option[T any] interface {
	apply(T)
}

type option[T any] func(T)

func newOption[T any](f func(T)) option[T] { return option[T](f) }

func (apply option[T]) apply(val T) { apply(val) }

// DefaultTableName is the default table name a Store points to,
// as created by RunMigrations.
const DefaultTableName = "records"

// WithTableName allows you to specify a different table name
// that a Store should manage.
//
// The table must have the same columns as the one created by RunMigrations.
func WithTableName[T any](tableName string) Option[*Store[T]] {
	return newOption(func(store *Store[T]) {
		store.tableName = tableName
	})
}

// WithLogger allows you to specify a logger.Logger instance the Store
// uses to report its operations.
func WithLogger[T any](l logger.Logger) Option[*Store[T]] {
	return newOption(func(store *Store[T]) {
		store.logger = l
	})
}
