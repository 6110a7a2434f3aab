package format

import (
	"encoding/json"
	"fmt"
)

// JSONEncoder writes a single JSON value.
//
// JSON is a human-readable format. Raw byte sequences, when requested
// explicitly, are written as an array of byte values.
type JSONEncoder struct {
	data []byte
}

// NewJSONEncoder returns a new, empty JSONEncoder.
func NewJSONEncoder() *JSONEncoder {
	return new(JSONEncoder)
}

// IsHumanReadable always returns true.
func (*JSONEncoder) IsHumanReadable() bool { return true }

// EncodeBytes writes v as a JSON array of numbers.
func (e *JSONEncoder) EncodeBytes(v []byte) error {
	values := make([]int, len(v))
	for i, b := range v {
		values[i] = int(b)
	}

	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("format.JSON: failed to encode bytes, %w", err)
	}

	e.data = data

	return nil
}

// EncodeString writes v as a JSON string.
func (e *JSONEncoder) EncodeString(v string) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("format.JSON: failed to encode string, %w", err)
	}

	e.data = data

	return nil
}

// Data returns the JSON value written so far.
func (e *JSONEncoder) Data() json.RawMessage {
	return e.data
}

// JSONDecoder reads a single JSON value.
type JSONDecoder struct {
	data []byte
}

// NewJSONDecoder returns a JSONDecoder reading from the given raw JSON value.
func NewJSONDecoder(data []byte) *JSONDecoder {
	return &JSONDecoder{data: data}
}

// IsHumanReadable always returns true.
func (*JSONDecoder) IsHumanReadable() bool { return true }

// DecodeBytes reads a JSON array of numbers in the [0, 255] range.
func (d *JSONDecoder) DecodeBytes() ([]byte, error) {
	var values []int
	if err := json.Unmarshal(d.data, &values); err != nil {
		return nil, fmt.Errorf("format.JSON: failed to decode bytes, %w", err)
	}

	v := make([]byte, len(values))

	for i, value := range values {
		if value < 0 || value > 0xff {
			return nil, fmt.Errorf("format.JSON: byte value %d out of range at index %d", value, i)
		}

		v[i] = byte(value)
	}

	return v, nil
}

// DecodeString reads a JSON string.
func (d *JSONDecoder) DecodeString() (string, error) {
	var v string
	if err := json.Unmarshal(d.data, &v); err != nil {
		return "", fmt.Errorf("format.JSON: failed to decode string, %w", err)
	}

	return v, nil
}

// IsJSONNull returns true if data is the JSON null literal.
func IsJSONNull(data []byte) bool {
	return string(data) == "null"
}
