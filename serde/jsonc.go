package serde

import (
	"github.com/tidwall/jsonc"
)

// NewJSONC returns a new serde instance for JSON documents that may contain
// comments and trailing commas, such as hand-written configuration files.
//
// Serialization produces plain JSON. Deserialization strips comments and
// trailing commas before decoding the document as JSON.
func NewJSONC[T any](factory func() T) Described[T, []byte] {
	deserialize := NewJSONDeserializer(factory)

	deserializer := func(data []byte) (T, error) {
		return deserialize(jsonc.ToJSON(data))
	}

	return Describe[T, []byte](FormatJSONC, Fuse[T, []byte](
		NewJSONSerializer[T](),
		AsDeserializerFunc(deserializer),
	))
}
