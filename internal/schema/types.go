package schema

import "fmt"

// TypeKind identifies the shape of a type reference or value
type TypeKind int

const (
	Void TypeKind = iota
	Bool
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float32
	Float64
	Text
	Data
	List
	Enum
	Struct
	Interface
	AnyPointer
)

var typeKindNames = [...]string{
	Void:       "void",
	Bool:       "bool",
	Int8:       "int8",
	Int16:      "int16",
	Int32:      "int32",
	Int64:      "int64",
	Uint8:      "uint8",
	Uint16:     "uint16",
	Uint32:     "uint32",
	Uint64:     "uint64",
	Float32:    "float32",
	Float64:    "float64",
	Text:       "text",
	Data:       "data",
	List:       "list",
	Enum:       "enum",
	Struct:     "struct",
	Interface:  "interface",
	AnyPointer: "anyPointer",
}

func (k TypeKind) String() string {
	if k >= 0 && int(k) < len(typeKindNames) {
		return typeKindNames[k]
	}
	return "unknown"
}

// ParseTypeKind maps a kind name ("uint32", "text", "anyPointer", ...) back to its TypeKind.
// "object" is accepted as an older spelling of anyPointer.
func ParseTypeKind(s string) (TypeKind, error) {
	if s == "object" {
		return AnyPointer, nil
	}
	for k, name := range typeKindNames {
		if name == s {
			return TypeKind(k), nil
		}
	}
	return Void, fmt.Errorf("unknown type kind %q", s)
}

// IsPointer reports whether values of this kind live in the pointer section
func (k TypeKind) IsPointer() bool {
	switch k {
	case Text, Data, List, Struct, Interface, AnyPointer:
		return true
	}
	return false
}

// Type is a type reference. Element is set for lists, TypeID for enums, structs and interfaces.
type Type struct {
	Kind    TypeKind
	Element *Type
	TypeID  uint64
}

// ListOf builds a list type reference
func ListOf(elem Type) Type {
	return Type{Kind: List, Element: &elem}
}

// Value is a default value or constant payload. Only the member matching Kind is meaningful.
type Value struct {
	Kind  TypeKind
	Bool  bool
	Int   int64   // Int8..Int64
	Uint  uint64  // Uint8..Uint64
	Float float64 // Float32, Float64
	Enum  uint16
	Text  string
	Data  []byte

	// Present marks a non-null pointer for Text, Data, List, Struct, Interface and AnyPointer values.
	Present bool
}

// IsZero reports whether the value is the zero value of its kind.
// For pointer kinds that means the pointer is absent.
func (v Value) IsZero() bool {
	switch v.Kind {
	case Void:
		return true
	case Bool:
		return !v.Bool
	case Int8, Int16, Int32, Int64:
		return v.Int == 0
	case Uint8, Uint16, Uint32, Uint64:
		return v.Uint == 0
	case Float32, Float64:
		return v.Float == 0
	case Enum:
		return v.Enum == 0
	default:
		return !v.Present
	}
}

// Size returns the element count of a blob value; zero for every other kind
func (v Value) Size() int {
	switch v.Kind {
	case Text:
		return len(v.Text)
	case Data:
		return len(v.Data)
	}
	return 0
}
