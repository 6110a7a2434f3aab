// Package format contains the format contexts used to plug base64bytes
// into concrete serialization frameworks.
//
// Every context reports whether its format is human-readable, and knows
// how to write and read both a raw byte sequence and a text string using
// the framing of the underlying framework:
//
//   - JSON (encoding/json) and YAML (gopkg.in/yaml.v3) are human-readable;
//   - CBOR (github.com/fxamacker/cbor/v2), MessagePack (github.com/vmihailenco/msgpack/v5),
//     Protobuf wire fields and the fixed-width Binary format are binary;
//   - Buffer is an in-memory context with an explicit mode, used to back
//     encoding.TextMarshaler and encoding.BinaryMarshaler implementations.
//
// Contexts are not safe for concurrent use: create one per value.
package format
