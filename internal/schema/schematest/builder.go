// Package schematest builds small schema graphs for tests.
package schematest

import (
	"encoding/binary"

	"github.com/alexhholmes/capnpc-js/internal/schema"
)

// Builder accumulates nodes under a single file node
type Builder struct {
	File  *schema.Node
	nodes []*schema.Node
	byID  map[uint64]*schema.Node
}

// NewFile starts a graph rooted at a file node
func NewFile(id uint64, filename string) *Builder {
	file := &schema.Node{
		ID:          id,
		Kind:        schema.FileNode,
		DisplayName: filename,
		Encoded:     encodedFor(id, 1),
	}
	b := &Builder{File: file, byID: map[uint64]*schema.Node{}}
	b.add(file)
	return b
}

func (b *Builder) add(n *schema.Node) *schema.Node {
	b.nodes = append(b.nodes, n)
	b.byID[n.ID] = n
	return n
}

// Add registers a node built elsewhere (for example a node of another file)
func (b *Builder) Add(n *schema.Node) *schema.Node {
	return b.add(n)
}

// Node returns a previously added node
func (b *Builder) Node(id uint64) *schema.Node {
	return b.byID[id]
}

func (b *Builder) declare(parentID, id uint64, name string, kind schema.NodeKind) *schema.Node {
	parent := b.byID[parentID]
	sep := "."
	if parent.Kind == schema.FileNode {
		sep = ":"
	}
	prefix := parent.DisplayName + sep
	n := &schema.Node{
		ID:                      id,
		Kind:                    kind,
		DisplayName:             prefix + name,
		DisplayNamePrefixLength: len(prefix),
		ScopeID:                 parentID,
		Encoded:                 encodedFor(id, 2),
	}
	parent.Nested = append(parent.Nested, schema.NestedNode{Name: name, ID: id})
	return b.add(n)
}

// Struct declares a struct nested in parentID
func (b *Builder) Struct(parentID, id uint64, name string, fields ...schema.Field) *schema.Node {
	n := b.declare(parentID, id, name, schema.StructNode)
	n.Struct = &schema.StructInfo{DataWordCount: 1, PointerCount: 1, PreferredListEncoding: 7, Fields: fields}
	return n
}

// Group declares the anonymous struct backing a group field. Groups are not
// listed among the parent's nested nodes.
func (b *Builder) Group(parentID, id uint64, fieldName string, fields ...schema.Field) *schema.Node {
	parent := b.byID[parentID]
	n := &schema.Node{
		ID:                      id,
		Kind:                    schema.StructNode,
		DisplayName:             parent.DisplayName + "." + fieldName,
		DisplayNamePrefixLength: len(parent.DisplayName) + 1,
		ScopeID:                 parentID,
		Encoded:                 encodedFor(id, 2),
		Struct:                  &schema.StructInfo{IsGroup: true, Fields: fields},
	}
	return b.add(n)
}

// Union makes a struct (or group) a union with its discriminant at offset (16-bit units)
func (b *Builder) Union(id uint64, discriminantOffset uint32) *schema.Node {
	n := b.byID[id]
	n.Struct.DiscriminantOffset = discriminantOffset
	var count uint16
	for _, f := range n.Struct.Fields {
		if f.InUnion() {
			count++
		}
	}
	n.Struct.DiscriminantCount = count
	return n
}

// Enum declares an enum with enumerants in ordinal order
func (b *Builder) Enum(parentID, id uint64, name string, enumerants ...string) *schema.Node {
	n := b.declare(parentID, id, name, schema.EnumNode)
	n.Enum = &schema.EnumInfo{}
	for i, e := range enumerants {
		n.Enum.Enumerants = append(n.Enum.Enumerants, schema.Enumerant{Name: e, CodeOrder: uint16(i)})
	}
	return n
}

// Const declares a constant
func (b *Builder) Const(parentID, id uint64, name string, typ schema.Type, v schema.Value, valueOffset uint32) *schema.Node {
	n := b.declare(parentID, id, name, schema.ConstNode)
	n.Const = &schema.ConstInfo{Type: typ, Value: v, ValueOffset: valueOffset}
	return n
}

func (b *Builder) Interface(parentID, id uint64, name string, methods ...string) *schema.Node {
	n := b.declare(parentID, id, name, schema.InterfaceNode)
	n.Interface = &schema.InterfaceInfo{}
	for i, m := range methods {
		n.Interface.Methods = append(n.Interface.Methods, schema.Method{Name: m, CodeOrder: uint16(i)})
	}
	return n
}

func (b *Builder) Annotation(parentID, id uint64, name string) *schema.Node {
	return b.declare(parentID, id, name, schema.AnnotationNode)
}

// Graph indexes every node added so far; it panics on duplicate ids
func (b *Builder) Graph() *schema.Graph {
	g, err := schema.NewGraph(b.nodes)
	if err != nil {
		panic(err)
	}
	return g
}

// Nodes returns every node in insertion order
func (b *Builder) Nodes() []*schema.Node {
	return b.nodes
}

// Requested describes the builder's file as a requested file
func (b *Builder) Requested(imports ...schema.Import) schema.RequestedFile {
	return schema.RequestedFile{ID: b.File.ID, Filename: b.File.DisplayName, Imports: imports}
}

// Slot builds a slot field at the given offset
func Slot(name string, t schema.Type, offset uint32) schema.Field {
	return schema.Field{
		Name:              name,
		DiscriminantValue: schema.NoDiscriminant,
		Kind:              schema.SlotField,
		Slot:              schema.FieldSlot{Offset: offset, Type: t, Default: schema.Value{Kind: t.Kind}},
	}
}

// Prim is shorthand for a slot of a primitive or blob kind
func Prim(name string, k schema.TypeKind, offset uint32) schema.Field {
	return Slot(name, schema.Type{Kind: k}, offset)
}

// GroupField builds a field referring to a group node
func GroupField(name string, groupID uint64) schema.Field {
	return schema.Field{
		Name:              name,
		DiscriminantValue: schema.NoDiscriminant,
		Kind:              schema.GroupField,
		GroupID:           groupID,
	}
}

// Member marks a field as a union member
func Member(f schema.Field, discriminant uint16) schema.Field {
	f.DiscriminantValue = discriminant
	return f
}

// WithDefault attaches a default value; offset is only meaningful for pointer defaults
func WithDefault(f schema.Field, v schema.Value, offset uint32) schema.Field {
	f.Slot.Default = v
	f.Slot.DefaultOffset = offset
	return f
}

func encodedFor(id uint64, words int) []byte {
	out := make([]byte, 8*words)
	binary.LittleEndian.PutUint64(out, id)
	return out
}
