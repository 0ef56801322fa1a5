package schema

import "fmt"

// NodeKind identifies which payload of a Node is populated
type NodeKind int

const (
	FileNode NodeKind = iota
	StructNode
	EnumNode
	InterfaceNode
	ConstNode
	AnnotationNode
)

func (k NodeKind) String() string {
	switch k {
	case FileNode:
		return "file"
	case StructNode:
		return "struct"
	case EnumNode:
		return "enum"
	case InterfaceNode:
		return "interface"
	case ConstNode:
		return "const"
	case AnnotationNode:
		return "annotation"
	default:
		return "unknown"
	}
}

// ParseNodeKind is the inverse of NodeKind.String
func ParseNodeKind(s string) (NodeKind, error) {
	for k := FileNode; k <= AnnotationNode; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return FileNode, fmt.Errorf("unknown node kind %q", s)
}

// NoDiscriminant marks a field that is not a union member
const NoDiscriminant uint16 = 0xffff

// FieldKind distinguishes slot fields from group fields
type FieldKind int

const (
	SlotField FieldKind = iota
	GroupField
)

// FieldSlot is the physical placement of a slot field.
// Offset is in units of the type's own width (bits for bool, elements otherwise);
// for pointer types it is the pointer index.
type FieldSlot struct {
	Offset  uint32
	Type    Type
	Default Value

	// DefaultOffset is the word offset of the default value's pointer inside
	// the containing node's Encoded form. Zero when there is no pointer default.
	DefaultOffset uint32
}

// Field belongs to exactly one struct node
type Field struct {
	Name              string
	CodeOrder         uint16
	DiscriminantValue uint16
	Kind              FieldKind
	Slot              FieldSlot
	GroupID           uint64 // GroupField only
}

// InUnion reports whether the field shares the struct's discriminant
func (f *Field) InUnion() bool {
	return f.DiscriminantValue != NoDiscriminant
}

// StructInfo is the payload of a struct (or group) node
type StructInfo struct {
	DataWordCount         uint16
	PointerCount          uint16
	PreferredListEncoding uint16
	IsGroup               bool
	DiscriminantCount     uint16
	DiscriminantOffset    uint32 // in 16-bit units
	Fields                []Field
}

type Enumerant struct {
	Name      string
	CodeOrder uint16
}

type EnumInfo struct {
	Enumerants []Enumerant
}

type Method struct {
	Name      string
	CodeOrder uint16
}

type InterfaceInfo struct {
	Methods []Method
}

// ConstInfo is the payload of a const node. ValueOffset is the word offset of the
// value's pointer inside the node's Encoded form (pointer kinds only).
type ConstInfo struct {
	Type        Type
	Value       Value
	ValueOffset uint32
}

type NestedNode struct {
	Name string
	ID   uint64
}

// Annotation is an annotation application. Only text-valued annotations are carried.
type Annotation struct {
	ID   uint64
	Text string
}

// Node is an immutable schema declaration
type Node struct {
	ID                      uint64
	Kind                    NodeKind
	DisplayName             string
	DisplayNamePrefixLength int
	ScopeID                 uint64
	Nested                  []NestedNode
	Annotations             []Annotation

	// Encoded is the node's canonical encoding, embedded into output for runtime reflection
	Encoded []byte

	Struct    *StructInfo
	Enum      *EnumInfo
	Interface *InterfaceInfo
	Const     *ConstInfo
}

// ShortName is the display name without its scope prefix
func (n *Node) ShortName() string {
	if n.DisplayNamePrefixLength > 0 && n.DisplayNamePrefixLength <= len(n.DisplayName) {
		return n.DisplayName[n.DisplayNamePrefixLength:]
	}
	return n.DisplayName
}

// Annotation looks up an applied annotation by id
func (n *Node) Annotation(id uint64) (Annotation, bool) {
	for _, a := range n.Annotations {
		if a.ID == id {
			return a, true
		}
	}
	return Annotation{}, false
}

// IsTopLevel reports whether the node has no enclosing scope (file nodes)
func (n *Node) IsTopLevel() bool {
	return n.ScopeID == 0
}
