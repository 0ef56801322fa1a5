package parser

// Document is the serialized form of a code generator request. Ids are
// 64-bit node identities; offsets are in 64-bit words into a node's encoded form.
type Document struct {
	Nodes          []NodeDoc          `json:"nodes" yaml:"nodes"`
	RequestedFiles []RequestedFileDoc `json:"requestedFiles" yaml:"requestedFiles"`
}

type NodeDoc struct {
	ID                      uint64          `json:"id" yaml:"id"`
	Kind                    string          `json:"kind" yaml:"kind"`
	DisplayName             string          `json:"displayName" yaml:"displayName"`
	DisplayNamePrefixLength int             `json:"displayNamePrefixLength,omitempty" yaml:"displayNamePrefixLength,omitempty"`
	ScopeID                 uint64          `json:"scopeId,omitempty" yaml:"scopeId,omitempty"`
	Encoded                 string          `json:"encoded,omitempty" yaml:"encoded,omitempty"` // base64
	Nested                  []NestedDoc     `json:"nested,omitempty" yaml:"nested,omitempty"`
	Annotations             []AnnotationDoc `json:"annotations,omitempty" yaml:"annotations,omitempty"`

	Struct    *StructDoc    `json:"struct,omitempty" yaml:"struct,omitempty"`
	Enum      *EnumDoc      `json:"enum,omitempty" yaml:"enum,omitempty"`
	Interface *InterfaceDoc `json:"interface,omitempty" yaml:"interface,omitempty"`
	Const     *ConstDoc     `json:"const,omitempty" yaml:"const,omitempty"`
}

type NestedDoc struct {
	Name string `json:"name" yaml:"name"`
	ID   uint64 `json:"id" yaml:"id"`
}

type AnnotationDoc struct {
	ID   uint64 `json:"id" yaml:"id"`
	Text string `json:"text,omitempty" yaml:"text,omitempty"`
}

type StructDoc struct {
	DataWordCount         uint16     `json:"dataWordCount" yaml:"dataWordCount"`
	PointerCount          uint16     `json:"pointerCount" yaml:"pointerCount"`
	PreferredListEncoding uint16     `json:"preferredListEncoding" yaml:"preferredListEncoding"`
	IsGroup               bool       `json:"isGroup,omitempty" yaml:"isGroup,omitempty"`
	DiscriminantCount     uint16     `json:"discriminantCount,omitempty" yaml:"discriminantCount,omitempty"`
	DiscriminantOffset    uint32     `json:"discriminantOffset,omitempty" yaml:"discriminantOffset,omitempty"`
	Fields                []FieldDoc `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// FieldDoc carries exactly one of Slot or Group. A missing DiscriminantValue
// means the field is not a union member.
type FieldDoc struct {
	Name              string    `json:"name" yaml:"name"`
	CodeOrder         uint16    `json:"codeOrder" yaml:"codeOrder"`
	DiscriminantValue *uint16   `json:"discriminantValue,omitempty" yaml:"discriminantValue,omitempty"`
	Slot              *SlotDoc  `json:"slot,omitempty" yaml:"slot,omitempty"`
	Group             *GroupDoc `json:"group,omitempty" yaml:"group,omitempty"`
}

type SlotDoc struct {
	Offset        uint32    `json:"offset" yaml:"offset"`
	Type          TypeDoc   `json:"type" yaml:"type"`
	Default       *ValueDoc `json:"default,omitempty" yaml:"default,omitempty"`
	DefaultOffset uint32    `json:"defaultOffset,omitempty" yaml:"defaultOffset,omitempty"`
}

type GroupDoc struct {
	TypeID uint64 `json:"typeId" yaml:"typeId"`
}

type TypeDoc struct {
	Kind        string   `json:"kind" yaml:"kind"`
	ElementType *TypeDoc `json:"elementType,omitempty" yaml:"elementType,omitempty"`
	TypeID      uint64   `json:"typeId,omitempty" yaml:"typeId,omitempty"`
}

// ValueDoc is a default or constant value. FloatBits, when set, gives the exact
// IEEE pattern (32 or 64 bits by kind) and overrides Float.
type ValueDoc struct {
	Kind      string  `json:"kind,omitempty" yaml:"kind,omitempty"`
	Bool      bool    `json:"bool,omitempty" yaml:"bool,omitempty"`
	Int       int64   `json:"int,omitempty" yaml:"int,omitempty"`
	Uint      uint64  `json:"uint,omitempty" yaml:"uint,omitempty"`
	Float     float64 `json:"float,omitempty" yaml:"float,omitempty"`
	FloatBits *uint64 `json:"floatBits,omitempty" yaml:"floatBits,omitempty"`
	Enum      uint16  `json:"enum,omitempty" yaml:"enum,omitempty"`
	Text      string  `json:"text,omitempty" yaml:"text,omitempty"`
	Data      string  `json:"data,omitempty" yaml:"data,omitempty"` // base64
	Present   bool    `json:"present,omitempty" yaml:"present,omitempty"`
}

type EnumDoc struct {
	Enumerants []MemberDoc `json:"enumerants" yaml:"enumerants"`
}

type InterfaceDoc struct {
	Methods []MemberDoc `json:"methods,omitempty" yaml:"methods,omitempty"`
}

// MemberDoc is an enumerant or a method
type MemberDoc struct {
	Name      string `json:"name" yaml:"name"`
	CodeOrder uint16 `json:"codeOrder" yaml:"codeOrder"`
}

type ConstDoc struct {
	Type        TypeDoc  `json:"type" yaml:"type"`
	Value       ValueDoc `json:"value" yaml:"value"`
	ValueOffset uint32   `json:"valueOffset,omitempty" yaml:"valueOffset,omitempty"`
}

type RequestedFileDoc struct {
	ID       uint64      `json:"id" yaml:"id"`
	Filename string      `json:"filename" yaml:"filename"`
	Imports  []NestedDoc `json:"imports,omitempty" yaml:"imports,omitempty"`
}
