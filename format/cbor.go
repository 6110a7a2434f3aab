package format

import (
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// encMode uses Core Deterministic Encoding (RFC 8949 §4.2): the same
// logical data always produces identical bytes.
var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("format: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		// Decoding into any must produce maps usable with encoding/json.
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("format: CBOR decoder initialization failed: " + err.Error())
	}
}

// MarshalCBOR encodes v to CBOR using Core Deterministic Encoding.
func MarshalCBOR(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// UnmarshalCBOR decodes CBOR data into v.
func UnmarshalCBOR(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// IsCBORNull returns true if data is the CBOR null or undefined simple value.
func IsCBORNull(data []byte) bool {
	return len(data) == 1 && (data[0] == 0xf6 || data[0] == 0xf7)
}

// CBOREncoder writes a single CBOR data item.
//
// CBOR is a binary format: raw byte sequences are written as byte strings
// (major type 2), with the length encoded in the item head.
type CBOREncoder struct {
	data []byte
}

// NewCBOREncoder returns a new, empty CBOREncoder.
func NewCBOREncoder() *CBOREncoder {
	return new(CBOREncoder)
}

// IsHumanReadable always returns false.
func (*CBOREncoder) IsHumanReadable() bool { return false }

// EncodeBytes writes v as a CBOR byte string.
func (e *CBOREncoder) EncodeBytes(v []byte) error {
	if v == nil {
		// A nil slice would be encoded as null.
		v = []byte{}
	}

	data, err := encMode.Marshal(v)
	if err != nil {
		return fmt.Errorf("format.CBOR: failed to encode bytes, %w", err)
	}

	e.data = data

	return nil
}

// EncodeString writes v as a CBOR text string.
func (e *CBOREncoder) EncodeString(v string) error {
	data, err := encMode.Marshal(v)
	if err != nil {
		return fmt.Errorf("format.CBOR: failed to encode string, %w", err)
	}

	e.data = data

	return nil
}

// Data returns the CBOR data item written so far.
func (e *CBOREncoder) Data() []byte {
	return e.data
}

// CBORDecoder reads a single CBOR data item.
type CBORDecoder struct {
	data []byte
}

// NewCBORDecoder returns a CBORDecoder reading from the given data item.
func NewCBORDecoder(data []byte) *CBORDecoder {
	return &CBORDecoder{data: data}
}

// IsHumanReadable always returns false.
func (*CBORDecoder) IsHumanReadable() bool { return false }

// DecodeBytes reads a CBOR byte string.
func (d *CBORDecoder) DecodeBytes() ([]byte, error) {
	var v []byte
	if err := decMode.Unmarshal(d.data, &v); err != nil {
		return nil, fmt.Errorf("format.CBOR: failed to decode bytes, %w", err)
	}

	return v, nil
}

// DecodeString reads a CBOR text string.
func (d *CBORDecoder) DecodeString() (string, error) {
	var v string
	if err := decMode.Unmarshal(d.data, &v); err != nil {
		return "", fmt.Errorf("format.CBOR: failed to decode string, %w", err)
	}

	return v, nil
}
