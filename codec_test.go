package base64bytes_test

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/get-eventually/go-base64bytes"
	"github.com/get-eventually/go-base64bytes/format"
)

var testLengths = []int{0, 1, 10, 1000, 65536}

func randomBytes(t testing.TB, n int) []byte {
	t.Helper()

	v := make([]byte, n)
	_, err := rand.Read(v)
	require.NoError(t, err)

	return v
}

// fakeContext is a format context recording what has been written,
// and failing with the configured error, if any.
type fakeContext struct {
	humanReadable bool
	err           error

	bytes     []byte
	str       string
	wrapCalls int
}

func (c *fakeContext) IsHumanReadable() bool { return c.humanReadable }

func (c *fakeContext) EncodeBytes(v []byte) error {
	c.bytes = v
	return c.err
}

func (c *fakeContext) EncodeString(v string) error {
	c.str = v
	return c.err
}

func (c *fakeContext) DecodeBytes() ([]byte, error) {
	if c.err != nil {
		return nil, c.err
	}

	return c.bytes, nil
}

func (c *fakeContext) DecodeString() (string, error) {
	if c.err != nil {
		return "", c.err
	}

	return c.str, nil
}

type wrappingContext struct {
	*fakeContext
}

func (c wrappingContext) WrapError(err error) error {
	c.wrapCalls++
	return fmt.Errorf("at offset 42: %w", err)
}

func TestEncode(t *testing.T) {
	t.Run("it writes a base-64 string in human-readable formats", func(t *testing.T) {
		ctx := &fakeContext{humanReadable: true}

		require.NoError(t, base64bytes.Encode(ctx, []byte{0x00, 0x01, 0x02}))
		assert.Equal(t, "AAEC", ctx.str)
		assert.Nil(t, ctx.bytes)
	})

	t.Run("it writes an empty string for empty input in human-readable formats", func(t *testing.T) {
		ctx := &fakeContext{humanReadable: true, str: "untouched"}

		require.NoError(t, base64bytes.Encode(ctx, []byte{}))
		assert.Equal(t, "", ctx.str)
	})

	t.Run("it writes raw bytes in binary formats", func(t *testing.T) {
		ctx := &fakeContext{humanReadable: false}
		data := []byte{0x00, 0x01, 0x02}

		require.NoError(t, base64bytes.Encode(ctx, data))
		assert.Equal(t, data, ctx.bytes)
		assert.Empty(t, ctx.str)
	})

	t.Run("it propagates write errors unchanged", func(t *testing.T) {
		errWrite := errors.New("write failed")

		for _, humanReadable := range []bool{true, false} {
			ctx := &fakeContext{humanReadable: humanReadable, err: errWrite}

			err := base64bytes.Encode(ctx, []byte("hello"))
			assert.Same(t, errWrite, err)
		}
	})

	t.Run("it accepts strings and named byte types", func(t *testing.T) {
		ctx := &fakeContext{humanReadable: true}

		require.NoError(t, base64bytes.EncodeFrom(ctx, "hello"))
		assert.Equal(t, "aGVsbG8=", ctx.str)

		require.NoError(t, base64bytes.EncodeFrom(ctx, base64bytes.Bytes("hello")))
		assert.Equal(t, "aGVsbG8=", ctx.str)
	})
}

func TestDecode(t *testing.T) {
	t.Run("it decodes base-64 strings in human-readable formats", func(t *testing.T) {
		v, err := base64bytes.Decode(&fakeContext{humanReadable: true, str: "AAEC"})
		require.NoError(t, err)
		assert.Equal(t, []byte{0x00, 0x01, 0x02}, v)
	})

	t.Run("it returns an empty, non-nil slice for empty values", func(t *testing.T) {
		for _, ctx := range []*fakeContext{
			{humanReadable: true, str: ""},
			{humanReadable: false, bytes: nil},
		} {
			v, err := base64bytes.Decode(ctx)
			require.NoError(t, err)
			assert.NotNil(t, v)
			assert.Empty(t, v)
		}
	})

	t.Run("it rejects malformed base-64 without returning partial data", func(t *testing.T) {
		for _, input := range []string{
			"not-valid-base64!",
			"AAE",  // Missing padding.
			"AAF=", // Non-zero trailing bits.
			"AA=C", // Padding in the middle.
			"AAEC\n",
			"AA\r\nEC",
			"\nA\nA\nE\nC\n",
		} {
			v, err := base64bytes.Decode(&fakeContext{humanReadable: true, str: input})
			assert.Nil(t, v, input)
			assert.ErrorIs(t, err, base64bytes.ErrInvalidBase64, input)

			var corrupt base64.CorruptInputError
			assert.ErrorAs(t, err, &corrupt, input)
			assert.ErrorContains(t, err, "base64bytes: invalid base64: illegal base64 data", input)
		}
	})

	t.Run("it rejects line breaks in human-readable hosts", func(t *testing.T) {
		v, err := base64bytes.Decode(format.NewJSONDecoder([]byte(`"AA\nEC"`)))
		assert.Nil(t, v)
		assert.ErrorIs(t, err, base64bytes.ErrInvalidBase64)
		assert.ErrorContains(t, err, "illegal base64 data at input byte 2")

		var b base64bytes.Bytes
		assert.ErrorIs(t, b.UnmarshalText([]byte("AA\nEC")), base64bytes.ErrInvalidBase64)
		assert.Nil(t, b)
	})

	t.Run("it passes its own errors through the decoder error wrapper", func(t *testing.T) {
		ctx := wrappingContext{&fakeContext{humanReadable: true, str: "not-valid-base64!"}}

		_, err := base64bytes.Decode(ctx)
		assert.ErrorIs(t, err, base64bytes.ErrInvalidBase64)
		assert.ErrorContains(t, err, "at offset 42: base64bytes: invalid base64")
	})

	t.Run("it propagates read errors unchanged", func(t *testing.T) {
		errRead := errors.New("read failed")

		for _, humanReadable := range []bool{true, false} {
			ctx := wrappingContext{&fakeContext{humanReadable: humanReadable, err: errRead}}

			v, err := base64bytes.Decode(ctx)
			assert.Nil(t, v)
			assert.Same(t, errRead, err)
			assert.Zero(t, ctx.wrapCalls)
		}
	})
}

func TestRoundTrip(t *testing.T) {
	t.Run("it round-trips through a binary format", func(t *testing.T) {
		for _, n := range testLengths {
			data := randomBytes(t, n)

			var buf bytes.Buffer
			require.NoError(t, base64bytes.Encode(format.NewBinaryEncoder(&buf), data))

			// The binary representation is just the length, followed by the raw bytes.
			encoded := buf.Bytes()
			require.Len(t, encoded, format.BinaryPrefixSize+n)
			assert.Equal(t, uint64(n), binary.LittleEndian.Uint64(encoded[:format.BinaryPrefixSize]))
			assert.Equal(t, data, encoded[format.BinaryPrefixSize:])

			decoded, err := base64bytes.Decode(format.NewBinaryDecoder(&buf))
			require.NoError(t, err)
			assert.Equal(t, data, decoded)
		}
	})

	t.Run("it round-trips through a human-readable format", func(t *testing.T) {
		for _, n := range testLengths {
			data := randomBytes(t, n)

			enc := format.NewJSONEncoder()
			require.NoError(t, base64bytes.Encode(enc, data))
			assert.JSONEq(t, fmt.Sprintf("%q", base64.StdEncoding.EncodeToString(data)), string(enc.Data()))

			decoded, err := base64bytes.Decode(format.NewJSONDecoder(enc.Data()))
			require.NoError(t, err)
			assert.Equal(t, data, decoded)
		}
	})

	t.Run("it decodes the same content from both modes", func(t *testing.T) {
		data := randomBytes(t, 1000)

		var buf bytes.Buffer
		require.NoError(t, base64bytes.Encode(format.NewBinaryEncoder(&buf), data))

		enc := format.NewYAMLEncoder()
		require.NoError(t, base64bytes.Encode(enc, data))

		fromBinary, err := base64bytes.Decode(format.NewBinaryDecoder(&buf))
		require.NoError(t, err)

		fromText, err := base64bytes.Decode(format.NewYAMLDecoder(enc.Node()))
		require.NoError(t, err)

		assert.Equal(t, data, fromBinary)
		assert.Equal(t, fromBinary, fromText)
	})

	t.Run("it can be used concurrently on independent buffers", func(t *testing.T) {
		group, _ := errgroup.WithContext(context.Background())

		for i := 0; i < 64; i++ {
			data := randomBytes(t, i*31)
			humanReadable := i%2 == 0

			group.Go(func() error {
				buf := format.NewBuffer(humanReadable, nil)
				if err := base64bytes.Encode(buf, data); err != nil {
					return err
				}

				decoded, err := base64bytes.Decode(buf)
				if err != nil {
					return err
				}

				if !bytes.Equal(data, decoded) {
					return fmt.Errorf("round trip mismatch for length %d", len(data))
				}

				return nil
			})
		}

		assert.NoError(t, group.Wait())
	})
}
