package analyzer

import "github.com/alexhholmes/capnpc-js/internal/schema"

// Section is the part of a struct's encoding that holds a value
type Section int

const (
	NoSection      Section = iota // void: occupies nothing
	DataSection                   // fixed-size data words
	PointerSection                // pointer words
)

func (s Section) String() string {
	switch s {
	case DataSection:
		return "data"
	case PointerSection:
		return "pointers"
	default:
		return "none"
	}
}

// SectionOf returns the section a value of the given kind lives in
func SectionOf(k schema.TypeKind) Section {
	switch k {
	case schema.Void:
		return NoSection
	case schema.Bool, schema.Int8, schema.Int16, schema.Int32, schema.Int64,
		schema.Uint8, schema.Uint16, schema.Uint32, schema.Uint64,
		schema.Float32, schema.Float64, schema.Enum:
		return DataSection
	default:
		return PointerSection
	}
}

// BitWidth returns the size in bits of a data-section kind.
// Returns 0 for void and pointer kinds.
func BitWidth(k schema.TypeKind) int {
	switch k {
	case schema.Bool:
		return 1
	case schema.Int8, schema.Uint8:
		return 8
	case schema.Int16, schema.Uint16, schema.Enum:
		return 16
	case schema.Int32, schema.Uint32, schema.Float32:
		return 32
	case schema.Int64, schema.Uint64, schema.Float64:
		return 64
	}
	return 0
}

// ShortName returns the suffix the runtime uses to select a data accessor
// (hasDataField_<suffix>, getDataField_<suffix>, ...). Enums are stored as uint16.
// Returns "" for kinds without a data accessor.
func ShortName(k schema.TypeKind) string {
	switch k {
	case schema.Enum:
		return "uint16"
	case schema.Bool, schema.Int8, schema.Int16, schema.Int32, schema.Int64,
		schema.Uint8, schema.Uint16, schema.Uint32, schema.Uint64,
		schema.Float32, schema.Float64:
		return k.String()
	}
	return ""
}
