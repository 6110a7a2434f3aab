package serde

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// NewMsgPack returns a new serde instance where some data (`T`) gets serialized to
// and deserialized from MessagePack.
//
// base64bytes.Bytes fields are written as MessagePack bin values.
func NewMsgPack[T any](factory func() T) Described[T, []byte] {
	serializer := func(t T) ([]byte, error) {
		data, err := msgpack.Marshal(t)
		if err != nil {
			return nil, fmt.Errorf("serde.MsgPack: failed to serialize data, %w", err)
		}

		return data, nil
	}

	deserializer := func(data []byte) (T, error) {
		var zeroValue T

		model := factory()
		if err := msgpack.Unmarshal(data, &model); err != nil {
			return zeroValue, fmt.Errorf("serde.MsgPack: failed to deserialize data, %w", err)
		}

		return model, nil
	}

	return Describe[T, []byte](FormatMsgPack, Fuse[T, []byte](
		AsSerializerFunc(serializer),
		AsDeserializerFunc(deserializer),
	))
}
