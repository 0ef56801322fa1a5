package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGraph_Duplicate(t *testing.T) {
	_, err := NewGraph([]*Node{{ID: 1}, {ID: 1}})
	require.ErrorIs(t, err, ErrDuplicateNode)
}

func TestGraph_Node(t *testing.T) {
	g, err := NewGraph([]*Node{{ID: 1, DisplayName: "a.capnp"}})
	require.NoError(t, err)
	assert.Equal(t, 1, g.Len())

	n, err := g.Node(1)
	require.NoError(t, err)
	assert.Equal(t, "a.capnp", n.DisplayName)

	_, err = g.Node(2)
	require.ErrorIs(t, err, ErrUnknownNode)
}

func TestGraph_ScopedName(t *testing.T) {
	file := &Node{ID: 1, Kind: FileNode, DisplayName: "a.capnp", Nested: []NestedNode{{Name: "Foo", ID: 2}}}
	foo := &Node{ID: 2, Kind: StructNode, DisplayName: "a.capnp:Foo", ScopeID: 1}
	orphan := &Node{ID: 3, Kind: StructNode, DisplayName: "a.capnp:Lost", ScopeID: 1}
	g, err := NewGraph([]*Node{file, foo, orphan})
	require.NoError(t, err)

	parent, name, err := g.ScopedName(foo)
	require.NoError(t, err)
	assert.Same(t, file, parent)
	assert.Equal(t, "Foo", name)

	_, _, err = g.ScopedName(orphan)
	require.ErrorIs(t, err, ErrScopeMismatch)
	assert.Contains(t, err.Error(), "a.capnp:Lost")
}

func TestNode_ShortNameAndAnnotation(t *testing.T) {
	n := &Node{
		DisplayName:             "dir/a.capnp:Outer.Inner",
		DisplayNamePrefixLength: len("dir/a.capnp:Outer."),
		Annotations:             []Annotation{{ID: 9, Text: "ns"}},
	}
	assert.Equal(t, "Inner", n.ShortName())

	a, ok := n.Annotation(9)
	require.True(t, ok)
	assert.Equal(t, "ns", a.Text)

	_, ok = n.Annotation(10)
	assert.False(t, ok)
}

func TestParseKinds(t *testing.T) {
	for k := Void; k <= AnyPointer; k++ {
		got, err := ParseTypeKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	got, err := ParseTypeKind("object")
	require.NoError(t, err)
	assert.Equal(t, AnyPointer, got)

	_, err = ParseTypeKind("uint128")
	assert.Error(t, err)

	nk, err := ParseNodeKind("annotation")
	require.NoError(t, err)
	assert.Equal(t, AnnotationNode, nk)
	_, err = ParseNodeKind("module")
	assert.Error(t, err)
}

func TestValue_IsZero(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{"void", Value{Kind: Void}, true},
		{"false", Value{Kind: Bool}, true},
		{"true", Value{Kind: Bool, Bool: true}, false},
		{"int zero", Value{Kind: Int32}, true},
		{"int negative", Value{Kind: Int32, Int: -1}, false},
		{"uint", Value{Kind: Uint64, Uint: 1}, false},
		{"float zero", Value{Kind: Float64}, true},
		{"enum", Value{Kind: Enum, Enum: 2}, false},
		{"absent text", Value{Kind: Text}, true},
		{"empty but present text", Value{Kind: Text, Present: true}, false},
		{"present struct", Value{Kind: Struct, Present: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.IsZero())
		})
	}
}
