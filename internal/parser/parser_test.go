package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexhholmes/capnpc-js/internal/schema"
)

func shapesRequest(t *testing.T, path string) *schema.Request {
	t.Helper()
	doc, err := ReadFile(path, FormatAuto)
	require.NoError(t, err)
	req, err := doc.Request()
	require.NoError(t, err)
	return req
}

func TestReadFile_JSONAndYAMLAgree(t *testing.T) {
	fromJSON := shapesRequest(t, "testdata/shapes.json")
	fromYAML := shapesRequest(t, "testdata/shapes.yaml")
	assert.Equal(t, fromJSON, fromYAML)

	require.Len(t, fromJSON.Nodes, 2)
	point := fromJSON.Nodes[1]
	assert.Equal(t, uint64(0x100b), point.ID)
	assert.Equal(t, schema.StructNode, point.Kind)
	assert.Equal(t, "Point", point.ShortName())
	assert.Equal(t, uint64(0x100b), uint64(point.Encoded[0])|uint64(point.Encoded[1])<<8)
	assert.Len(t, point.Encoded, 16)

	require.Len(t, point.Struct.Fields, 2)
	y := point.Struct.Fields[1]
	assert.Equal(t, schema.NoDiscriminant, y.DiscriminantValue)
	assert.Equal(t, schema.Float64, y.Slot.Type.Kind)
	assert.Equal(t, 1.0, y.Slot.Default.Float)
	assert.Equal(t, schema.Value{Kind: schema.Float64}, point.Struct.Fields[0].Slot.Default)

	assert.Equal(t, []schema.RequestedFile{{ID: 0x100a, Filename: "shapes.capnp"}}, fromJSON.RequestedFiles)
}

func TestDecode_Zstd(t *testing.T) {
	plain, err := os.ReadFile("testdata/shapes.yaml")
	require.NoError(t, err)

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	compressed := enc.EncodeAll(plain, nil)
	require.NoError(t, enc.Close())

	doc, err := Decode(compressed, FormatAuto)
	require.NoError(t, err)
	require.Len(t, doc.Nodes, 2)
	assert.Equal(t, "shapes.capnp:Point", doc.Nodes[1].DisplayName)

	path := filepath.Join(t.TempDir(), "req.yaml.zst")
	require.NoError(t, os.WriteFile(path, compressed, 0o644))
	doc, err = ReadFile(path, FormatAuto)
	require.NoError(t, err)
	assert.Len(t, doc.RequestedFiles, 1)
}

func TestDecode_Strict(t *testing.T) {
	_, err := Decode([]byte(`{"nodes": [], "requestedFiles": [], "extra": 1}`), FormatAuto)
	assert.ErrorIs(t, err, ErrInvalidDocument)

	_, err = Decode([]byte("nodes: []\nbogus: true\n"), FormatYAML)
	assert.ErrorIs(t, err, ErrInvalidDocument)

	_, err = Decode(nil, FormatYAML)
	assert.ErrorIs(t, err, ErrInvalidDocument)

	_, err = Decode([]byte("{}"), Format(42))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatAuto, "auto": FormatAuto, "JSON": FormatJSON, "yaml": FormatYAML, "yml": FormatYAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("toml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestFormatFromExt(t *testing.T) {
	assert.Equal(t, FormatJSON, formatFromExt("a/b.json"))
	assert.Equal(t, FormatYAML, formatFromExt("b.YML"))
	assert.Equal(t, FormatJSON, formatFromExt("b.json.zst"))
	assert.Equal(t, FormatAuto, formatFromExt("request"))
}

func TestSniff(t *testing.T) {
	assert.Equal(t, FormatJSON, sniff([]byte("  \n{\"nodes\": []}")))
	assert.Equal(t, FormatYAML, sniff([]byte("nodes: []")))
	assert.Equal(t, FormatYAML, sniff(nil))
}

func TestRequest_Conversion(t *testing.T) {
	src := `
nodes:
  - id: 1
    kind: struct
    displayName: a.capnp:U
    struct:
      dataWordCount: 1
      pointerCount: 2
      preferredListEncoding: 7
      discriminantCount: 2
      discriminantOffset: 3
      fields:
        - name: label
          codeOrder: 0
          discriminantValue: 0
          slot: {offset: 0, type: {kind: text}, default: {text: hi}, defaultOffset: 2}
        - name: grp
          codeOrder: 1
          discriminantValue: 1
          group: {typeId: 2}
        - name: tags
          codeOrder: 2
          slot: {offset: 1, type: {kind: list, elementType: {kind: data}}}
  - id: 3
    kind: const
    displayName: a.capnp:big
    const:
      type: {kind: float32}
      value: {kind: float32, floatBits: 0x7f800000}
  - id: 4
    kind: interface
    displayName: a.capnp:Svc
  - id: 5
    kind: const
    displayName: a.capnp:blob
    const:
      type: {kind: data}
      value: {data: AQID}
      valueOffset: 1
requestedFiles: []
`
	doc, err := Decode([]byte(src), FormatAuto)
	require.NoError(t, err)
	req, err := doc.Request()
	require.NoError(t, err)
	require.Len(t, req.Nodes, 4)

	u := req.Nodes[0].Struct
	assert.Equal(t, uint32(3), u.DiscriminantOffset)
	label := u.Fields[0]
	assert.Equal(t, uint16(0), label.DiscriminantValue)
	assert.True(t, label.Slot.Default.Present)
	assert.Equal(t, "hi", label.Slot.Default.Text)
	assert.Equal(t, uint32(2), label.Slot.DefaultOffset)

	assert.Equal(t, schema.GroupField, u.Fields[1].Kind)
	assert.Equal(t, uint64(2), u.Fields[1].GroupID)

	tags := u.Fields[2].Slot.Type
	assert.Equal(t, schema.List, tags.Kind)
	require.NotNil(t, tags.Element)
	assert.Equal(t, schema.Data, tags.Element.Kind)

	big := req.Nodes[1].Const
	assert.True(t, big.Value.Float > 1e308)

	assert.NotNil(t, req.Nodes[2].Interface)

	blob := req.Nodes[3].Const
	assert.Equal(t, []byte{1, 2, 3}, blob.Value.Data)
	assert.True(t, blob.Value.Present)
}

func TestRequest_Invalid(t *testing.T) {
	tests := []struct {
		name string
		node string
		msg  string
	}{
		{"unknown kind", `{id: 1, kind: module, displayName: x}`, "unknown node kind"},
		{"bad base64", `{id: 1, kind: file, displayName: x, encoded: "!!"}`, "encoded"},
		{"struct without payload", `{id: 1, kind: struct, displayName: x}`, "without struct payload"},
		{"enum without payload", `{id: 1, kind: enum, displayName: x}`, "without enum payload"},
		{"const without payload", `{id: 1, kind: const, displayName: x}`, "without const payload"},
		{"field without placement", `{id: 1, kind: struct, displayName: x, struct: {fields: [{name: f}]}}`, "neither slot nor group"},
		{
			"field with both placements",
			`{id: 1, kind: struct, displayName: x, struct: {fields: [{name: f, slot: {offset: 0, type: {kind: bool}}, group: {typeId: 2}}]}}`,
			"both slot and group",
		},
		{"list without element", `{id: 1, kind: const, displayName: x, const: {type: {kind: list}, value: {}}}`, "without elementType"},
		{"struct type without id", `{id: 1, kind: const, displayName: x, const: {type: {kind: struct}, value: {}}}`, "without typeId"},
		{"mismatched value", `{id: 1, kind: const, displayName: x, const: {type: {kind: bool}, value: {kind: text}}}`, "text value for bool type"},
		{"float bits on int", `{id: 1, kind: const, displayName: x, const: {type: {kind: int8}, value: {floatBits: 1}}}`, "floatBits"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Decode([]byte("nodes:\n  - "+tt.node+"\nrequestedFiles: []\n"), FormatYAML)
			require.NoError(t, err)
			_, err = doc.Request()
			require.ErrorIs(t, err, ErrInvalidDocument)
			assert.True(t, strings.Contains(err.Error(), tt.msg), err.Error())
		})
	}
}
