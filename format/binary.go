package format

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"unicode/utf8"
)

// BinaryPrefixSize is the size in bytes of the length prefix written
// by BinaryEncoder before every byte sequence and string.
const BinaryPrefixSize = 8

// binaryChunkSize caps the up-front allocation made for a sequence,
// so that a corrupted length prefix cannot allocate unbounded memory
// before the input runs out.
const binaryChunkSize = 64 * 1024

// ErrLengthExceeded is returned by BinaryDecoder when a length prefix is
// larger than the configured maximum length.
var ErrLengthExceeded = errors.New("format.Binary: length prefix exceeds maximum length")

// BinaryEncoder writes values using a fixed-width framing: an unsigned
// 64 bits little-endian length, followed by the raw data.
type BinaryEncoder struct {
	w io.Writer
}

// NewBinaryEncoder returns a BinaryEncoder writing to w.
func NewBinaryEncoder(w io.Writer) *BinaryEncoder {
	return &BinaryEncoder{w: w}
}

// IsHumanReadable always returns false.
func (*BinaryEncoder) IsHumanReadable() bool { return false }

func (e *BinaryEncoder) write(v []byte) error {
	var prefix [BinaryPrefixSize]byte
	binary.LittleEndian.PutUint64(prefix[:], uint64(len(v)))

	if _, err := e.w.Write(prefix[:]); err != nil {
		return fmt.Errorf("format.Binary: failed to write length prefix, %w", err)
	}

	if _, err := e.w.Write(v); err != nil {
		return fmt.Errorf("format.Binary: failed to write data, %w", err)
	}

	return nil
}

// EncodeBytes writes the length of v, followed by v.
func (e *BinaryEncoder) EncodeBytes(v []byte) error {
	return e.write(v)
}

// EncodeString writes the length of v in bytes, followed by v.
func (e *BinaryEncoder) EncodeString(v string) error {
	return e.write([]byte(v))
}

// BinaryOption configures a BinaryDecoder.
type BinaryOption func(*BinaryDecoder)

// WithMaxLength limits the length of the sequences a BinaryDecoder accepts.
func WithMaxLength(n uint64) BinaryOption {
	return func(d *BinaryDecoder) {
		d.maxLength = n
	}
}

// BinaryDecoder reads values written by a BinaryEncoder.
type BinaryDecoder struct {
	r         io.Reader
	maxLength uint64
}

// NewBinaryDecoder returns a BinaryDecoder reading from r.
//
// By default the only length limit is math.MaxInt.
func NewBinaryDecoder(r io.Reader, options ...BinaryOption) *BinaryDecoder {
	d := &BinaryDecoder{
		r:         r,
		maxLength: math.MaxInt,
	}

	for _, option := range options {
		option(d)
	}

	return d
}

// IsHumanReadable always returns false.
func (*BinaryDecoder) IsHumanReadable() bool { return false }

func (d *BinaryDecoder) read() ([]byte, error) {
	var prefix [BinaryPrefixSize]byte
	if _, err := io.ReadFull(d.r, prefix[:]); err != nil {
		return nil, fmt.Errorf("format.Binary: failed to read length prefix, %w", err)
	}

	length := binary.LittleEndian.Uint64(prefix[:])
	if length > d.maxLength || length > math.MaxInt {
		return nil, fmt.Errorf("%w: %d > %d", ErrLengthExceeded, length, min(d.maxLength, math.MaxInt))
	}

	buf := bytes.NewBuffer(make([]byte, 0, min(length, binaryChunkSize)))

	n, err := io.CopyN(buf, d.r, int64(length))
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}

		return nil, fmt.Errorf("format.Binary: failed to read data (%d of %d bytes), %w", n, length, err)
	}

	return buf.Bytes(), nil
}

// DecodeBytes reads a length prefix, then as many bytes.
func (d *BinaryDecoder) DecodeBytes() ([]byte, error) {
	return d.read()
}

// DecodeString reads a length prefix, then as many bytes of UTF-8 text.
func (d *BinaryDecoder) DecodeString() (string, error) {
	v, err := d.read()
	if err != nil {
		return "", err
	}

	if !utf8.Valid(v) {
		return "", fmt.Errorf("format.Binary: string is not valid UTF-8")
	}

	return string(v), nil
}
