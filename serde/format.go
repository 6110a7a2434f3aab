package serde

// Format describes the representation a serde produces.
type Format struct {
	// Name is a short identifier of the format, e.g. "json" or "cbor".
	Name string

	// HumanReadable reports whether the format is a textual one,
	// in which case base64bytes.Bytes values are written as base-64 strings
	// rather than raw byte sequences.
	HumanReadable bool
}

// Formats produced by the serdes in this package.
var (
	FormatJSON      = Format{Name: "json", HumanReadable: true}
	FormatJSONC     = Format{Name: "jsonc", HumanReadable: true}
	FormatYAML      = Format{Name: "yaml", HumanReadable: true}
	FormatTOML      = Format{Name: "toml", HumanReadable: true}
	FormatProtoJSON = Format{Name: "protojson", HumanReadable: true}
	FormatCBOR      = Format{Name: "cbor", HumanReadable: false}
	FormatMsgPack   = Format{Name: "msgpack", HumanReadable: false}
	FormatGOB       = Format{Name: "gob", HumanReadable: false}
	FormatProto     = Format{Name: "proto", HumanReadable: false}
	FormatBinary    = Format{Name: "binary", HumanReadable: false}
)

// String returns the Format name.
func (f Format) String() string { return f.Name }

// Formatted is implemented by serdes that know which Format they produce.
type Formatted interface {
	Format() Format
}

// FormatOf returns the Format of the given value, if it implements the
// Formatted interface and reports a non-empty Format name.
func FormatOf(v any) (Format, bool) {
	formatted, ok := v.(Formatted)
	if !ok {
		return Format{}, false
	}

	format := formatted.Format()

	return format, format.Name != ""
}

// Described is a Serde annotated with the Format it produces.
type Described[Src any, Dst any] struct {
	Serde[Src, Dst]

	format Format
}

// Format implements the serde.Formatted interface.
func (d Described[Src, Dst]) Format() Format { return d.format }

// Describe annotates the given Serde with the Format it produces.
func Describe[Src, Dst any](format Format, serde Serde[Src, Dst]) Described[Src, Dst] {
	return Described[Src, Dst]{
		Serde:  serde,
		format: format,
	}
}
