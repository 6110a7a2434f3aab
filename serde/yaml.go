package serde

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// NewYAMLSerializer returns a serializer function where the input data (T)
// gets serialized to a YAML document.
func NewYAMLSerializer[T any]() SerializerFunc[T, []byte] {
	return func(t T) ([]byte, error) {
		data, err := yaml.Marshal(t)
		if err != nil {
			return nil, fmt.Errorf("serde.YAML: failed to serialize data, %w", err)
		}

		return data, nil
	}
}

// NewYAMLDeserializer returns a deserializer function where a YAML document
// is deserialized into the specified data type.
//
// A data factory function is required for creating new instances of the type
// (especially if pointer semantics is used).
func NewYAMLDeserializer[T any](factory func() T) DeserializerFunc[T, []byte] {
	return func(data []byte) (T, error) {
		var zeroValue T

		model := factory()
		if err := yaml.Unmarshal(data, &model); err != nil {
			return zeroValue, fmt.Errorf("serde.YAML: failed to deserialize data, %w", err)
		}

		return model, nil
	}
}

// NewYAML returns a new serde instance where some data (`T`) gets serialized to
// and deserialized from a YAML document.
//
// base64bytes.Bytes fields are written as base-64 strings.
func NewYAML[T any](factory func() T) Described[T, []byte] {
	return Describe[T, []byte](FormatYAML, Fuse(
		NewYAMLSerializer[T](),
		NewYAMLDeserializer(factory),
	))
}
