package serde

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// NewGOB returns a new serde instance where some data (`T`) gets serialized to
// and deserialized from a self-describing gob stream.
//
// base64bytes.Bytes fields go through their encoding.BinaryMarshaler
// implementation and are written as raw bytes. As with any gob value,
// empty fields are omitted from the stream and left untouched on decoding.
func NewGOB[T any](factory func() T) Described[T, []byte] {
	serializer := func(t T) ([]byte, error) {
		var buf bytes.Buffer
		if err := gob.NewEncoder(&buf).Encode(t); err != nil {
			return nil, fmt.Errorf("serde.GOB: failed to serialize data, %w", err)
		}

		return buf.Bytes(), nil
	}

	deserializer := func(data []byte) (T, error) {
		var zeroValue T

		model := factory()
		if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&model); err != nil {
			return zeroValue, fmt.Errorf("serde.GOB: failed to deserialize data, %w", err)
		}

		return model, nil
	}

	return Describe[T, []byte](FormatGOB, Fuse[T, []byte](
		AsSerializerFunc(serializer),
		AsDeserializerFunc(deserializer),
	))
}
