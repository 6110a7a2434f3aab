// Package base64bytes contains a format-adaptive codec for byte sequences.
//
// Serialization frameworks usually encode a []byte value the same way
// regardless of the target format. That works great for binary formats,
// where a length-prefixed raw sequence is compact and cheap, but it's far
// from ideal for human-readable formats: arrays of numbers are verbose and
// no more readable than the bytes themselves.
//
// This package asks the format context whether the output is meant for
// human consumption: if so, bytes are written as a standard base-64 string
// (RFC 4648, with padding); otherwise they are written as a raw byte sequence
// using the framing of the host format.
//
// Use Encode and Decode to implement your own serialization hooks, or
// the Bytes type as a drop-in field type for JSON, YAML, CBOR, MessagePack,
// text-based and binary-based formats.
//
// The `format` package contains the format contexts for the supported
// frameworks, `serde` allows to build document-level serializers on top of them,
// and `record`, `postgres` and `firestore` persist records through a serde.
package base64bytes
