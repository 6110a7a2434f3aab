package serde_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/type/date"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/get-eventually/go-base64bytes/serde"
)

func newBytesValue() *wrapperspb.BytesValue { return new(wrapperspb.BytesValue) }

func newDate() *date.Date { return new(date.Date) }

func TestProto(t *testing.T) {
	mySerde := serde.NewProto(newBytesValue)
	msg := wrapperspb.Bytes([]byte{0x00, 0x01, 0x02})

	data, err := mySerde.Serialize(msg)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x0a, 0x03, 0x00, 0x01, 0x02}, data)

	got, err := mySerde.Deserialize(data)
	require.NoError(t, err)
	assert.True(t, proto.Equal(msg, got))

	_, err = mySerde.Deserialize([]byte{0x0a, 0x03, 0x00})
	assert.Error(t, err)

	format, _ := serde.FormatOf(mySerde)
	assert.False(t, format.HumanReadable)
}

func TestProtoJSON(t *testing.T) {
	mySerde := serde.NewProtoJSON(newBytesValue)
	msg := wrapperspb.Bytes([]byte{0x00, 0x01, 0x02})

	data, err := mySerde.Serialize(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `"AAEC"`, string(data))

	got, err := mySerde.Deserialize(data)
	require.NoError(t, err)
	assert.True(t, proto.Equal(msg, got))

	format, _ := serde.FormatOf(mySerde)
	assert.True(t, format.HumanReadable)
}

func TestProto_AnyMessage(t *testing.T) {
	msg := &date.Date{Year: 2024, Month: 2, Day: 29}

	t.Run("it round trips through the binary serde", func(t *testing.T) {
		mySerde := serde.NewProto(newDate)

		data, err := mySerde.Serialize(msg)
		require.NoError(t, err)

		got, err := mySerde.Deserialize(data)
		require.NoError(t, err)
		assert.True(t, proto.Equal(msg, got))
	})

	t.Run("it round trips through the json serde", func(t *testing.T) {
		mySerde := serde.NewProtoJSON(newDate)

		data, err := mySerde.Serialize(msg)
		require.NoError(t, err)
		assert.JSONEq(t, `{"year":2024,"month":2,"day":29}`, string(data))

		got, err := mySerde.Deserialize(data)
		require.NoError(t, err)
		assert.True(t, proto.Equal(msg, got))
	})
}
