package recordfirestore

import "github.com/get-eventually/go-base64bytes/logger"

// Option can be used to change the configuration of an object.
type Option[T any] interface {
	apply(T)
}

type option[T any] func(T)

func newOption[T any](f func(T)) option[T] { return option[T](f) }

func (apply option[T]) apply(val T) { apply(val) }

// DefaultCollection is the default collection name a Store points to.
const DefaultCollection = "Records"

// WithCollection allows you to specify a different collection
// that a Store should manage.
func WithCollection[T any](collection string) Option[*Store[T]] {
	return newOption(func(store *Store[T]) {
		store.collection = collection
	})
}

// WithLogger allows you to specify a logger.Logger instance the Store
// uses to report its operations.
func WithLogger[T any](l logger.Logger) Option[*Store[T]] {
	return newOption(func(store *Store[T]) {
		store.logger = l
	})
}
