package serde

import (
	"bytes"
	"fmt"

	"github.com/get-eventually/go-base64bytes"
	"github.com/get-eventually/go-base64bytes/format"
)

// NewBinary returns a new serde instance for raw byte payloads, framed
// with the fixed-width length prefix of format.BinaryEncoder.
//
// Deserialization rejects payloads with trailing data after the frame.
// Options, such as format.WithMaxLength, are applied to the decoder.
func NewBinary[T ~[]byte](opts ...format.BinaryOption) Described[T, []byte] {
	serializer := func(t T) ([]byte, error) {
		var buf bytes.Buffer
		buf.Grow(format.BinaryPrefixSize + len(t))

		if err := base64bytes.Encode(format.NewBinaryEncoder(&buf), []byte(t)); err != nil {
			return nil, fmt.Errorf("serde.Binary: failed to serialize data, %w", err)
		}

		return buf.Bytes(), nil
	}

	deserializer := func(data []byte) (T, error) {
		r := bytes.NewReader(data)

		v, err := base64bytes.Decode(format.NewBinaryDecoder(r, opts...))
		if err != nil {
			return nil, fmt.Errorf("serde.Binary: failed to deserialize data, %w", err)
		}

		if r.Len() > 0 {
			return nil, fmt.Errorf("serde.Binary: failed to deserialize data, %d bytes of trailing data", r.Len())
		}

		return T(v), nil
	}

	return Describe[T, []byte](FormatBinary, Fuse[T, []byte](
		AsSerializerFunc(serializer),
		AsDeserializerFunc(deserializer),
	))
}
