package format

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// ErrUnexpectedField is returned by WireDecoder when the next field in the
// message does not have the expected field number or wire type.
var ErrUnexpectedField = errors.New("format.Protowire: unexpected field")

// WireEncoder appends a single length-delimited field to a Protobuf message.
//
// Protobuf is a binary format: raw byte sequences are written as a
// `bytes` field, with a varint length prefix.
type WireEncoder struct {
	num protowire.Number
	buf []byte
}

// NewWireEncoder returns a WireEncoder appending a field with number num to buf.
func NewWireEncoder(num protowire.Number, buf []byte) *WireEncoder {
	return &WireEncoder{num: num, buf: buf}
}

// IsHumanReadable always returns false.
func (*WireEncoder) IsHumanReadable() bool { return false }

// EncodeBytes appends v as a `bytes` field.
func (e *WireEncoder) EncodeBytes(v []byte) error {
	if !e.num.IsValid() {
		return fmt.Errorf("format.Protowire: invalid field number %d", e.num)
	}

	e.buf = protowire.AppendTag(e.buf, e.num, protowire.BytesType)
	e.buf = protowire.AppendBytes(e.buf, v)

	return nil
}

// EncodeString appends v as a `string` field.
func (e *WireEncoder) EncodeString(v string) error {
	if !e.num.IsValid() {
		return fmt.Errorf("format.Protowire: invalid field number %d", e.num)
	}

	e.buf = protowire.AppendTag(e.buf, e.num, protowire.BytesType)
	e.buf = protowire.AppendString(e.buf, v)

	return nil
}

// Bytes returns the message written so far.
func (e *WireEncoder) Bytes() []byte {
	return e.buf
}

// WireDecoder consumes a single length-delimited field from a Protobuf message.
type WireDecoder struct {
	num  protowire.Number
	data []byte
}

// NewWireDecoder returns a WireDecoder expecting the next field in data
// to have number num.
func NewWireDecoder(num protowire.Number, data []byte) *WireDecoder {
	return &WireDecoder{num: num, data: data}
}

// IsHumanReadable always returns false.
func (*WireDecoder) IsHumanReadable() bool { return false }

func (d *WireDecoder) consume() ([]byte, error) {
	num, typ, n := protowire.ConsumeTag(d.data)
	if n < 0 {
		return nil, fmt.Errorf("format.Protowire: failed to read field tag, %w", protowire.ParseError(n))
	}

	if num != d.num || typ != protowire.BytesType {
		return nil, fmt.Errorf("%w: got field %d of wire type %d, expected field %d of wire type %d",
			ErrUnexpectedField, num, typ, d.num, protowire.BytesType)
	}

	v, m := protowire.ConsumeBytes(d.data[n:])
	if m < 0 {
		return nil, fmt.Errorf("format.Protowire: failed to read field %d, %w", num, protowire.ParseError(m))
	}

	d.data = d.data[n+m:]

	return v, nil
}

// DecodeBytes consumes a `bytes` field and returns a copy of its value.
func (d *WireDecoder) DecodeBytes() ([]byte, error) {
	v, err := d.consume()
	if err != nil {
		return nil, err
	}

	return append([]byte{}, v...), nil
}

// DecodeString consumes a `string` field.
func (d *WireDecoder) DecodeString() (string, error) {
	v, err := d.consume()
	if err != nil {
		return "", err
	}

	return string(v), nil
}

// Remaining returns the part of the message not consumed yet.
func (d *WireDecoder) Remaining() []byte {
	return d.data
}
