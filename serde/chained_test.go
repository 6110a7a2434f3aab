package serde_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/get-eventually/go-base64bytes"
	"github.com/get-eventually/go-base64bytes/serde"
)

func TestChained(t *testing.T) {
	mySerde := serde.Chain(blobSerde, serde.NewJSON(newBlobJSON))

	data := blob{
		Kind:    blobText,
		Name:    "hello.txt",
		Content: base64bytes.Bytes("hello"),
	}

	expected := []byte(`{"kind":"TEXT","name":"hello.txt","content":"aGVsbG8="}`)

	bytes, err := mySerde.Serialize(data)
	assert.NoError(t, err)
	assert.Equal(t, expected, bytes)

	deserialized, err := mySerde.Deserialize(bytes)
	assert.NoError(t, err)
	assert.Equal(t, data, deserialized)

	t.Run("it keeps raw bytes through a binary second stage", func(t *testing.T) {
		mySerde := serde.Chain(blobSerde, serde.NewCBOR(newBlobJSON))

		bytes, err := mySerde.Serialize(data)
		assert.NoError(t, err)
		assert.Contains(t, string(bytes), "hello")
		assert.NotContains(t, string(bytes), "aGVsbG8=")

		deserialized, err := mySerde.Deserialize(bytes)
		assert.NoError(t, err)
		assert.Equal(t, data, deserialized)
	})
}
