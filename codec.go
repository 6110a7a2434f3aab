package base64bytes

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidBase64 is returned by Decode when a human-readable value
// is not valid standard base-64.
//
// The returned error also wraps the base64.CorruptInputError describing
// the offending input position.
var ErrInvalidBase64 = errors.New("base64bytes: invalid base64")

// stdEncoding is the RFC 4648 standard alphabet with padding.
// Strict mode rejects non-zero trailing bits, but still skips CR and LF:
// Decode rejects those before decoding.
var stdEncoding = base64.StdEncoding.Strict()

// Encoder is the serializing side of a format context, provided by
// the host serialization framework.
type Encoder interface {
	// IsHumanReadable reports whether the active format is intended
	// for human consumption.
	IsHumanReadable() bool
	// EncodeBytes writes v as a length-prefixed raw byte sequence,
	// using the framing defined by the host format.
	EncodeBytes(v []byte) error
	// EncodeString writes v as a text string.
	EncodeString(v string) error
}

// Decoder is the deserializing side of a format context, provided by
// the host serialization framework.
type Decoder interface {
	// IsHumanReadable reports whether the active format is intended
	// for human consumption.
	IsHumanReadable() bool
	// DecodeBytes reads a length-prefixed raw byte sequence.
	DecodeBytes() ([]byte, error)
	// DecodeString reads a text string.
	DecodeString() (string, error)
}

// ErrorWrapper can be implemented by a Decoder to decorate the errors
// produced by Decode itself (e.g. with a position in the input).
//
// Implementations must wrap the given error, so that errors.Is keeps
// matching ErrInvalidBase64.
type ErrorWrapper interface {
	WrapError(err error) error
}

// Encode writes v through enc: as a standard base-64 string if the format
// is human-readable, or as a raw byte sequence otherwise.
//
// Errors returned by enc are propagated unchanged.
func Encode(enc Encoder, v []byte) error {
	if enc.IsHumanReadable() {
		return enc.EncodeString(stdEncoding.EncodeToString(v))
	}

	return enc.EncodeBytes(v)
}

// EncodeFrom is like Encode, but accepts any byte-like value.
func EncodeFrom[T ~[]byte | ~string](enc Encoder, v T) error {
	return Encode(enc, []byte(v))
}

// Decode reads a byte sequence from dec, mirroring the representation
// chosen by Encode for the same format.
//
// The returned slice is never nil on success and is owned by the caller.
// Errors returned by dec are propagated unchanged; an invalid base-64
// string results in an error matching ErrInvalidBase64.
func Decode(dec Decoder) ([]byte, error) {
	if !dec.IsHumanReadable() {
		v, err := dec.DecodeBytes()
		if err != nil {
			return nil, err
		}

		if v == nil {
			v = []byte{}
		}

		return v, nil
	}

	s, err := dec.DecodeString()
	if err != nil {
		return nil, err
	}

	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return nil, invalidBase64(dec, base64.CorruptInputError(i))
	}

	v, err := stdEncoding.DecodeString(s)
	if err != nil {
		return nil, invalidBase64(dec, err)
	}

	return v, nil
}

func invalidBase64(dec Decoder, cause error) error {
	err := fmt.Errorf("%w: %w", ErrInvalidBase64, cause)

	if w, ok := dec.(ErrorWrapper); ok {
		return w.WrapError(err)
	}

	return err
}
