package format

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// MsgPackEncoder writes values through a msgpack.Encoder.
//
// MessagePack is a binary format: raw byte sequences are written using
// the bin 8/16/32 families, with a 1, 2 or 4 bytes length prefix.
type MsgPackEncoder struct {
	enc *msgpack.Encoder
}

// NewMsgPackEncoder returns a MsgPackEncoder writing to enc.
func NewMsgPackEncoder(enc *msgpack.Encoder) *MsgPackEncoder {
	return &MsgPackEncoder{enc: enc}
}

// IsHumanReadable always returns false.
func (*MsgPackEncoder) IsHumanReadable() bool { return false }

// EncodeBytes writes v as a MessagePack bin value.
func (e *MsgPackEncoder) EncodeBytes(v []byte) error {
	if v == nil {
		// A nil slice would be encoded as nil.
		v = []byte{}
	}

	if err := e.enc.EncodeBytes(v); err != nil {
		return fmt.Errorf("format.MsgPack: failed to encode bytes, %w", err)
	}

	return nil
}

// EncodeString writes v as a MessagePack str value.
func (e *MsgPackEncoder) EncodeString(v string) error {
	if err := e.enc.EncodeString(v); err != nil {
		return fmt.Errorf("format.MsgPack: failed to encode string, %w", err)
	}

	return nil
}

// MsgPackDecoder reads values through a msgpack.Decoder.
type MsgPackDecoder struct {
	dec *msgpack.Decoder
}

// NewMsgPackDecoder returns a MsgPackDecoder reading from dec.
func NewMsgPackDecoder(dec *msgpack.Decoder) *MsgPackDecoder {
	return &MsgPackDecoder{dec: dec}
}

// IsHumanReadable always returns false.
func (*MsgPackDecoder) IsHumanReadable() bool { return false }

func (d *MsgPackDecoder) expect(kind string, accepts func(byte) bool) error {
	code, err := d.dec.PeekCode()
	if err != nil {
		return fmt.Errorf("format.MsgPack: failed to peek next value, %w", err)
	}

	if !accepts(code) {
		return fmt.Errorf("format.MsgPack: expected a %s value, got code 0x%02x", kind, code)
	}

	return nil
}

// DecodeBytes reads a MessagePack bin value.
//
// Other value kinds, str included, are rejected.
func (d *MsgPackDecoder) DecodeBytes() ([]byte, error) {
	if err := d.expect("bin", msgpcode.IsBin); err != nil {
		return nil, err
	}

	v, err := d.dec.DecodeBytes()
	if err != nil {
		return nil, fmt.Errorf("format.MsgPack: failed to decode bytes, %w", err)
	}

	return v, nil
}

// DecodeString reads a MessagePack str value.
func (d *MsgPackDecoder) DecodeString() (string, error) {
	if err := d.expect("str", msgpcode.IsString); err != nil {
		return "", err
	}

	v, err := d.dec.DecodeString()
	if err != nil {
		return "", fmt.Errorf("format.MsgPack: failed to decode string, %w", err)
	}

	return v, nil
}

// SkipNil consumes the next value and returns true if it is nil,
// or leaves the decoder untouched and returns false otherwise.
func SkipNil(dec *msgpack.Decoder) (bool, error) {
	code, err := dec.PeekCode()
	if err != nil {
		return false, fmt.Errorf("format.MsgPack: failed to peek next value, %w", err)
	}

	if code != msgpcode.Nil {
		return false, nil
	}

	if err := dec.DecodeNil(); err != nil {
		return false, fmt.Errorf("format.MsgPack: failed to decode nil, %w", err)
	}

	return true, nil
}
