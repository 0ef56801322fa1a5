package parser

import (
	"encoding/base64"
	"fmt"
	"math"

	"github.com/alexhholmes/capnpc-js/internal/schema"
)

// Request converts the document into the schema model. Structural problems are
// reported as ErrInvalidDocument; graph integrity is checked later, by name resolution.
func (d *Document) Request() (*schema.Request, error) {
	req := &schema.Request{Nodes: make([]*schema.Node, 0, len(d.Nodes))}
	for i := range d.Nodes {
		n, err := d.Nodes[i].node()
		if err != nil {
			return nil, fmt.Errorf("%w: node %d (@%#x): %v", ErrInvalidDocument, i, d.Nodes[i].ID, err)
		}
		req.Nodes = append(req.Nodes, n)
	}

	for _, rf := range d.RequestedFiles {
		file := schema.RequestedFile{ID: rf.ID, Filename: rf.Filename}
		for _, imp := range rf.Imports {
			file.Imports = append(file.Imports, schema.Import{ID: imp.ID, Name: imp.Name})
		}
		req.RequestedFiles = append(req.RequestedFiles, file)
	}
	return req, nil
}

func (nd *NodeDoc) node() (*schema.Node, error) {
	kind, err := schema.ParseNodeKind(nd.Kind)
	if err != nil {
		return nil, err
	}
	encoded, err := base64.StdEncoding.DecodeString(nd.Encoded)
	if err != nil {
		return nil, fmt.Errorf("encoded: %v", err)
	}

	n := &schema.Node{
		ID:                      nd.ID,
		Kind:                    kind,
		DisplayName:             nd.DisplayName,
		DisplayNamePrefixLength: nd.DisplayNamePrefixLength,
		ScopeID:                 nd.ScopeID,
		Encoded:                 encoded,
	}
	for _, nested := range nd.Nested {
		n.Nested = append(n.Nested, schema.NestedNode{Name: nested.Name, ID: nested.ID})
	}
	for _, a := range nd.Annotations {
		n.Annotations = append(n.Annotations, schema.Annotation{ID: a.ID, Text: a.Text})
	}

	switch kind {
	case schema.StructNode:
		if nd.Struct == nil {
			return nil, fmt.Errorf("struct node without struct payload")
		}
		n.Struct, err = nd.Struct.info()
	case schema.EnumNode:
		if nd.Enum == nil {
			return nil, fmt.Errorf("enum node without enum payload")
		}
		n.Enum = &schema.EnumInfo{}
		for _, e := range nd.Enum.Enumerants {
			n.Enum.Enumerants = append(n.Enum.Enumerants, schema.Enumerant{Name: e.Name, CodeOrder: e.CodeOrder})
		}
	case schema.InterfaceNode:
		n.Interface = &schema.InterfaceInfo{}
		if nd.Interface != nil {
			for _, m := range nd.Interface.Methods {
				n.Interface.Methods = append(n.Interface.Methods, schema.Method{Name: m.Name, CodeOrder: m.CodeOrder})
			}
		}
	case schema.ConstNode:
		if nd.Const == nil {
			return nil, fmt.Errorf("const node without const payload")
		}
		n.Const, err = nd.Const.info()
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (sd *StructDoc) info() (*schema.StructInfo, error) {
	st := &schema.StructInfo{
		DataWordCount:         sd.DataWordCount,
		PointerCount:          sd.PointerCount,
		PreferredListEncoding: sd.PreferredListEncoding,
		IsGroup:               sd.IsGroup,
		DiscriminantCount:     sd.DiscriminantCount,
		DiscriminantOffset:    sd.DiscriminantOffset,
	}
	for i := range sd.Fields {
		f, err := sd.Fields[i].field()
		if err != nil {
			return nil, fmt.Errorf("field %q: %v", sd.Fields[i].Name, err)
		}
		st.Fields = append(st.Fields, f)
	}
	return st, nil
}

func (fd *FieldDoc) field() (schema.Field, error) {
	f := schema.Field{
		Name:              fd.Name,
		CodeOrder:         fd.CodeOrder,
		DiscriminantValue: schema.NoDiscriminant,
	}
	if fd.DiscriminantValue != nil {
		f.DiscriminantValue = *fd.DiscriminantValue
	}

	switch {
	case fd.Slot != nil && fd.Group != nil:
		return f, fmt.Errorf("both slot and group set")
	case fd.Group != nil:
		f.Kind = schema.GroupField
		f.GroupID = fd.Group.TypeID
		return f, nil
	case fd.Slot != nil:
		t, err := fd.Slot.Type.typ()
		if err != nil {
			return f, err
		}
		f.Kind = schema.SlotField
		f.Slot = schema.FieldSlot{Offset: fd.Slot.Offset, Type: t, DefaultOffset: fd.Slot.DefaultOffset}
		f.Slot.Default = schema.Value{Kind: t.Kind}
		if fd.Slot.Default != nil {
			if f.Slot.Default, err = fd.Slot.Default.value(t.Kind); err != nil {
				return f, fmt.Errorf("default: %v", err)
			}
		}
		return f, nil
	}
	return f, fmt.Errorf("neither slot nor group set")
}

func (cd *ConstDoc) info() (*schema.ConstInfo, error) {
	t, err := cd.Type.typ()
	if err != nil {
		return nil, err
	}
	v, err := cd.Value.value(t.Kind)
	if err != nil {
		return nil, fmt.Errorf("value: %v", err)
	}
	return &schema.ConstInfo{Type: t, Value: v, ValueOffset: cd.ValueOffset}, nil
}

func (td *TypeDoc) typ() (schema.Type, error) {
	kind, err := schema.ParseTypeKind(td.Kind)
	if err != nil {
		return schema.Type{}, err
	}
	t := schema.Type{Kind: kind}
	switch kind {
	case schema.List:
		if td.ElementType == nil {
			return t, fmt.Errorf("list type without elementType")
		}
		elem, err := td.ElementType.typ()
		if err != nil {
			return t, fmt.Errorf("element: %v", err)
		}
		t.Element = &elem
	case schema.Enum, schema.Struct, schema.Interface:
		if td.TypeID == 0 {
			return t, fmt.Errorf("%s type without typeId", kind)
		}
		t.TypeID = td.TypeID
	}
	return t, nil
}

// value converts a value of the given type kind. The document may omit kind.
func (vd *ValueDoc) value(kind schema.TypeKind) (schema.Value, error) {
	if vd.Kind != "" {
		k, err := schema.ParseTypeKind(vd.Kind)
		if err != nil {
			return schema.Value{}, err
		}
		if k != kind {
			return schema.Value{}, fmt.Errorf("%s value for %s type", k, kind)
		}
	}

	v := schema.Value{
		Kind:    kind,
		Bool:    vd.Bool,
		Int:     vd.Int,
		Uint:    vd.Uint,
		Float:   vd.Float,
		Enum:    vd.Enum,
		Text:    vd.Text,
		Present: vd.Present,
	}
	if vd.FloatBits != nil {
		switch kind {
		case schema.Float32:
			if *vd.FloatBits > math.MaxUint32 {
				return v, fmt.Errorf("floatBits %#x overflows float32", *vd.FloatBits)
			}
			v.Float = float64(math.Float32frombits(uint32(*vd.FloatBits)))
		case schema.Float64:
			v.Float = math.Float64frombits(*vd.FloatBits)
		default:
			return v, fmt.Errorf("floatBits on %s value", kind)
		}
	}
	if vd.Data != "" {
		data, err := base64.StdEncoding.DecodeString(vd.Data)
		if err != nil {
			return v, fmt.Errorf("data: %v", err)
		}
		v.Data = data
	}
	if (kind == schema.Text && v.Text != "") || (kind == schema.Data && len(v.Data) > 0) {
		v.Present = true
	}
	return v, nil
}
