package base64bytes

import (
	"bytes"
	"encoding"
	"encoding/json"

	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/get-eventually/go-base64bytes/format"
)

var (
	_ json.Marshaler             = Bytes(nil)
	_ json.Unmarshaler           = (*Bytes)(nil)
	_ yaml.Marshaler             = Bytes(nil)
	_ yaml.Unmarshaler           = (*Bytes)(nil)
	_ cbor.Marshaler             = Bytes(nil)
	_ cbor.Unmarshaler           = (*Bytes)(nil)
	_ msgpack.CustomEncoder      = Bytes(nil)
	_ msgpack.CustomDecoder      = (*Bytes)(nil)
	_ encoding.TextMarshaler     = Bytes(nil)
	_ encoding.TextUnmarshaler   = (*Bytes)(nil)
	_ encoding.BinaryMarshaler   = Bytes(nil)
	_ encoding.BinaryUnmarshaler = (*Bytes)(nil)
)

// Bytes is a byte slice that serializes as a standard base-64 string in
// human-readable formats, and as a raw byte sequence in binary formats.
//
// Use it as a record field type in place of []byte:
//
//	type Attachment struct {
//		Name    string            `json:"name" cbor:"name"`
//		Content base64bytes.Bytes `json:"content" cbor:"content"`
//	}
//
// JSON, YAML and text-based formats (through encoding.TextMarshaler) are
// treated as human-readable; CBOR, MessagePack and binary formats (through
// encoding.BinaryMarshaler, e.g. encoding/gob) are treated as binary.
//
// A null value in the input leaves the Bytes untouched, following the
// encoding/json convention for Unmarshalers.
type Bytes []byte

// String returns the standard base-64 representation of b.
func (b Bytes) String() string {
	return stdEncoding.EncodeToString(b)
}

// Equal reports whether b and other have the same content.
// A nil value is equal to an empty one.
func (b Bytes) Equal(other Bytes) bool {
	return bytes.Equal(b, other)
}

// MarshalJSON encodes b as a JSON base-64 string.
func (b Bytes) MarshalJSON() ([]byte, error) {
	enc := format.NewJSONEncoder()
	if err := Encode(enc, b); err != nil {
		return nil, err
	}

	return enc.Data(), nil
}

// UnmarshalJSON decodes a JSON base-64 string into b.
func (b *Bytes) UnmarshalJSON(data []byte) error {
	if format.IsJSONNull(data) {
		return nil
	}

	return b.decode(format.NewJSONDecoder(data))
}

// MarshalYAML encodes b as a YAML base-64 string scalar.
func (b Bytes) MarshalYAML() (any, error) {
	enc := format.NewYAMLEncoder()
	if err := Encode(enc, b); err != nil {
		return nil, err
	}

	return enc.Node(), nil
}

// UnmarshalYAML decodes a YAML base-64 string scalar into b.
func (b *Bytes) UnmarshalYAML(value *yaml.Node) error {
	if format.IsYAMLNull(value) {
		return nil
	}

	return b.decode(format.NewYAMLDecoder(value))
}

// MarshalCBOR encodes b as a CBOR byte string.
func (b Bytes) MarshalCBOR() ([]byte, error) {
	enc := format.NewCBOREncoder()
	if err := Encode(enc, b); err != nil {
		return nil, err
	}

	return enc.Data(), nil
}

// UnmarshalCBOR decodes a CBOR byte string into b.
func (b *Bytes) UnmarshalCBOR(data []byte) error {
	if format.IsCBORNull(data) {
		return nil
	}

	return b.decode(format.NewCBORDecoder(data))
}

// EncodeMsgpack encodes b as a MessagePack bin value.
func (b Bytes) EncodeMsgpack(enc *msgpack.Encoder) error {
	return Encode(format.NewMsgPackEncoder(enc), b)
}

// DecodeMsgpack decodes a MessagePack bin value into b.
func (b *Bytes) DecodeMsgpack(dec *msgpack.Decoder) error {
	isNil, err := format.SkipNil(dec)
	if err != nil || isNil {
		return err
	}

	return b.decode(format.NewMsgPackDecoder(dec))
}

// MarshalText returns the standard base-64 representation of b.
func (b Bytes) MarshalText() ([]byte, error) {
	buf := format.NewBuffer(true, nil)
	if err := Encode(buf, b); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// UnmarshalText decodes a standard base-64 text into b.
func (b *Bytes) UnmarshalText(text []byte) error {
	return b.decode(format.NewBuffer(true, text))
}

// MarshalBinary returns a copy of b.
func (b Bytes) MarshalBinary() ([]byte, error) {
	buf := format.NewBuffer(false, nil)
	if err := Encode(buf, b); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// UnmarshalBinary sets b to a copy of data.
func (b *Bytes) UnmarshalBinary(data []byte) error {
	return b.decode(format.NewBuffer(false, data))
}

func (b *Bytes) decode(dec Decoder) error {
	v, err := Decode(dec)
	if err != nil {
		return err
	}

	*b = v

	return nil
}
