// Package attachment contains the Attachment record: a named file content
// with its checksum, both stored as base64bytes.Bytes fields.
package attachment

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/get-eventually/go-base64bytes"
	"github.com/get-eventually/go-base64bytes/serde"
)

// ErrUnknownFormat is returned by SerdeFor when no serde exists for the
// requested format name.
var ErrUnknownFormat = errors.New("attachment: unknown format")

// Attachment is a file attached to some other entity, carrying its content
// and the SHA-256 checksum of the content.
type Attachment struct {
	Name     string            `json:"name" yaml:"name" toml:"name" cbor:"name" msgpack:"name"`
	Content  base64bytes.Bytes `json:"content" yaml:"content" toml:"content" cbor:"content" msgpack:"content"`
	Checksum base64bytes.Bytes `json:"checksum" yaml:"checksum" toml:"checksum" cbor:"checksum" msgpack:"checksum"`
}

// New returns a new Attachment with the given name and content,
// computing the content checksum.
func New(name string, content []byte) *Attachment {
	checksum := sha256.Sum256(content)

	return &Attachment{
		Name:     name,
		Content:  content,
		Checksum: checksum[:],
	}
}

// Verify returns true if the Attachment checksum matches its content.
func (a *Attachment) Verify() bool {
	checksum := sha256.Sum256(a.Content)
	return a.Checksum.Equal(checksum[:])
}

// Equal reports whether a and other have the same name, content and checksum.
// Nil and empty contents are considered equal.
func (a *Attachment) Equal(other *Attachment) bool {
	if a == nil || other == nil {
		return a == other
	}

	return a.Name == other.Name &&
		a.Content.Equal(other.Content) &&
		a.Checksum.Equal(other.Checksum)
}

func newAttachment() *Attachment { return new(Attachment) }

// Serdes returns the document serdes that can be used to serialize
// Attachment records, both in human-readable and binary formats.
func Serdes() []serde.Described[*Attachment, []byte] {
	return []serde.Described[*Attachment, []byte]{
		serde.NewJSON(newAttachment),
		serde.NewJSONC(newAttachment),
		serde.NewYAML(newAttachment),
		serde.NewTOML(newAttachment),
		serde.NewCBOR(newAttachment),
		serde.NewMsgPack(newAttachment),
		serde.NewGOB(newAttachment),
	}
}

// SerdeFor returns the serde producing the format with the given name.
func SerdeFor(name string) (serde.Described[*Attachment, []byte], error) {
	for _, s := range Serdes() {
		if s.Format().Name == name {
			return s, nil
		}
	}

	return serde.Described[*Attachment, []byte]{}, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}
