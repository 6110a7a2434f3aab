package format

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	yamlStrTag  = "!!str"
	yamlIntTag  = "!!int"
	yamlNullTag = "!!null"
)

// YAMLEncoder builds a single YAML node.
//
// YAML is a human-readable format. Raw byte sequences, when requested
// explicitly, are written as a flow sequence of integers.
type YAMLEncoder struct {
	node *yaml.Node
}

// NewYAMLEncoder returns a new, empty YAMLEncoder.
func NewYAMLEncoder() *YAMLEncoder {
	return new(YAMLEncoder)
}

// IsHumanReadable always returns true.
func (*YAMLEncoder) IsHumanReadable() bool { return true }

// EncodeBytes writes v as a flow sequence of integers.
func (e *YAMLEncoder) EncodeBytes(v []byte) error {
	node := &yaml.Node{
		Kind:    yaml.SequenceNode,
		Style:   yaml.FlowStyle,
		Content: make([]*yaml.Node, 0, len(v)),
	}

	for _, b := range v {
		node.Content = append(node.Content, &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   yamlIntTag,
			Value: strconv.Itoa(int(b)),
		})
	}

	e.node = node

	return nil
}

// EncodeString writes v as a string scalar.
func (e *YAMLEncoder) EncodeString(v string) error {
	e.node = &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   yamlStrTag,
		Value: v,
	}

	return nil
}

// Node returns the YAML node written so far.
func (e *YAMLEncoder) Node() *yaml.Node {
	return e.node
}

// YAMLDecoder reads from a single YAML node.
//
// Errors produced by base64bytes.Decode are decorated with the line
// of the node in the source document.
type YAMLDecoder struct {
	node *yaml.Node
}

// NewYAMLDecoder returns a YAMLDecoder reading from the given node.
func NewYAMLDecoder(node *yaml.Node) *YAMLDecoder {
	return &YAMLDecoder{node: node}
}

// IsHumanReadable always returns true.
func (*YAMLDecoder) IsHumanReadable() bool { return true }

// DecodeBytes reads a sequence of integers in the [0, 255] range.
func (d *YAMLDecoder) DecodeBytes() ([]byte, error) {
	if d.node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("format.YAML: line %d: expected a sequence, got %s", d.node.Line, d.node.ShortTag())
	}

	v := make([]byte, len(d.node.Content))

	for i, item := range d.node.Content {
		var value int
		if err := item.Decode(&value); err != nil {
			return nil, fmt.Errorf("format.YAML: line %d: failed to decode byte at index %d, %w", item.Line, i, err)
		}

		if value < 0 || value > 0xff {
			return nil, fmt.Errorf("format.YAML: line %d: byte value %d out of range at index %d", item.Line, value, i)
		}

		v[i] = byte(value)
	}

	return v, nil
}

// DecodeString reads the value of a scalar node.
func (d *YAMLDecoder) DecodeString() (string, error) {
	if d.node.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("format.YAML: line %d: expected a scalar, got %s", d.node.Line, d.node.ShortTag())
	}

	return d.node.Value, nil
}

// WrapError adds the line of the decoded node to err.
func (d *YAMLDecoder) WrapError(err error) error {
	return fmt.Errorf("format.YAML: line %d: %w", d.node.Line, err)
}

// IsYAMLNull returns true if node is a null scalar.
func IsYAMLNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == yamlNullTag
}
