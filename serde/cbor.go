package serde

import (
	"fmt"

	"github.com/get-eventually/go-base64bytes/format"
)

// NewCBORSerializer returns a serializer function where the input data (T)
// gets serialized to CBOR, using Core Deterministic Encoding.
func NewCBORSerializer[T any]() SerializerFunc[T, []byte] {
	return func(t T) ([]byte, error) {
		data, err := format.MarshalCBOR(t)
		if err != nil {
			return nil, fmt.Errorf("serde.CBOR: failed to serialize data, %w", err)
		}

		return data, nil
	}
}

// NewCBORDeserializer returns a deserializer function where CBOR data
// is deserialized into the specified data type.
//
// A data factory function is required for creating new instances of the type
// (especially if pointer semantics is used).
func NewCBORDeserializer[T any](factory func() T) DeserializerFunc[T, []byte] {
	return func(data []byte) (T, error) {
		var zeroValue T

		model := factory()
		if err := format.UnmarshalCBOR(data, &model); err != nil {
			return zeroValue, fmt.Errorf("serde.CBOR: failed to deserialize data, %w", err)
		}

		return model, nil
	}
}

// NewCBOR returns a new serde instance where some data (`T`) gets serialized to
// and deserialized from CBOR.
//
// base64bytes.Bytes fields are written as CBOR byte strings.
func NewCBOR[T any](factory func() T) Described[T, []byte] {
	return Describe[T, []byte](FormatCBOR, Fuse(
		NewCBORSerializer[T](),
		NewCBORDeserializer(factory),
	))
}
