package serde

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// NewTOML returns a new serde instance where some data (`T`) gets serialized to
// and deserialized from a TOML document.
//
// TOML has no byte string type: base64bytes.Bytes fields go through
// their encoding.TextMarshaler implementation and are written as base-64 strings.
//
// The document root must be a table, so T is usually a struct
// or a pointer to a struct.
func NewTOML[T any](factory func() T) Described[T, []byte] {
	serializer := func(t T) ([]byte, error) {
		data, err := toml.Marshal(t)
		if err != nil {
			return nil, fmt.Errorf("serde.TOML: failed to serialize data, %w", err)
		}

		return data, nil
	}

	deserializer := func(data []byte) (T, error) {
		var zeroValue T

		model := factory()
		if err := toml.Unmarshal(data, &model); err != nil {
			return zeroValue, fmt.Errorf("serde.TOML: failed to deserialize data, %w", err)
		}

		return model, nil
	}

	return Describe[T, []byte](FormatTOML, Fuse[T, []byte](
		AsSerializerFunc(serializer),
		AsDeserializerFunc(deserializer),
	))
}
