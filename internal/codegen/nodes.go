package codegen

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/alexhholmes/capnpc-js/internal/schema"
)

// nodeText is the generated text of a node and its descendants
type nodeText struct {
	// def declares the node inside its scope: an object member for nested
	// nodes, a module assignment for top-level ones
	def string

	// schemas embeds the encoded form of the node and every descendant
	schemas string
}

// nodeText generates a node. path is the dotted name of the enclosing scope
// within the file ("" at top level).
func (c *fileContext) nodeText(path, name string, n *schema.Node, depth int) (nodeText, error) {
	if n.Kind == schema.FileNode {
		return nodeText{}, fmt.Errorf("%s: %w", n.DisplayName, ErrFileNode)
	}

	full := name
	if path != "" {
		full = path + "." + name
	}

	children, err := c.childTexts(full, n, depth+2)
	if err != nil {
		return nodeText{}, err
	}

	out := nodeText{schemas: schemaDef(n)}
	for _, child := range children {
		out.schemas += child.schemas
	}

	d := declaration{topLevel: path == "", name: name, depth: depth}
	switch n.Kind {
	case schema.StructNode:
		out.def, err = c.structDef(d, full, n, children)
	case schema.EnumNode:
		out.def = enumDef(d, n)
	case schema.ConstNode:
		var needsSchema bool
		out.def, needsSchema, err = c.constDef(d, n)
		if !needsSchema {
			out.schemas = ""
		}
	case schema.InterfaceNode:
		// Interfaces only act as a namespace for their nested declarations
		if len(children) > 0 {
			out.def = d.object(nil, children)
		}
	case schema.AnnotationNode:
	}
	if err != nil {
		return nodeText{}, fmt.Errorf("%s: %w", n.DisplayName, err)
	}
	return out, nil
}

// childTexts generates nested declarations followed by the struct's groups,
// which are declared under the title-cased field name
func (c *fileContext) childTexts(full string, n *schema.Node, depth int) ([]nodeText, error) {
	var out []nodeText
	for _, nested := range n.Nested {
		child, err := c.graph.Node(nested.ID)
		if err != nil {
			return nil, fmt.Errorf("nested %s of %s: %w", nested.Name, n.DisplayName, err)
		}
		text, err := c.nodeText(full, nested.Name, child, depth)
		if err != nil {
			return nil, err
		}
		out = append(out, text)
	}

	if n.Kind != schema.StructNode || n.Struct == nil {
		return out, nil
	}
	for i := range n.Struct.Fields {
		f := &n.Struct.Fields[i]
		if f.Kind != schema.GroupField {
			continue
		}
		group, err := c.graph.Node(f.GroupID)
		if err != nil {
			return nil, fmt.Errorf("group %s of %s: %w", f.Name, n.DisplayName, err)
		}
		text, err := c.nodeText(full, toTitleCase(f.Name), group, depth)
		if err != nil {
			return nil, err
		}
		out = append(out, text)
	}
	return out, nil
}

func schemaDef(n *schema.Node) string {
	return fmt.Sprintf("%sschemas['%s'] = [\n%s%s\n%s];\n",
		indent(1), hexID(n.ID), indent(2), bytesLiteral(n.Encoded, 2), indent(1))
}

// declaration is where a node's definition is placed
type declaration struct {
	topLevel bool
	name     string
	depth    int
}

// object wraps members in an immediately invoked function returning an object
func (d declaration) object(members []string, children []nodeText) string {
	var b strings.Builder
	if d.topLevel {
		fmt.Fprintf(&b, "%smodule.%s = function() {\n", indent(d.depth), d.name)
	} else {
		fmt.Fprintf(&b, "%s%s: function() {\n", indent(d.depth), d.name)
	}
	fmt.Fprintf(&b, "%sreturn {\n", indent(d.depth+1))
	for _, child := range children {
		b.WriteString(child.def)
	}
	for _, m := range members {
		b.WriteString(m)
	}
	fmt.Fprintf(&b, "%s};\n", indent(d.depth+1))
	if d.topLevel {
		fmt.Fprintf(&b, "%s}();\n\n", indent(d.depth))
	} else {
		fmt.Fprintf(&b, "%s}(),\n", indent(d.depth))
	}
	return b.String()
}

func enumDef(d declaration, n *schema.Node) string {
	if n.Enum == nil {
		return d.object(nil, nil)
	}
	ind := indent(d.depth + 2)
	var members []string
	names := make([]string, len(n.Enum.Enumerants))
	for i, e := range n.Enum.Enumerants {
		members = append(members, fmt.Sprintf("%s%s: %d,\n", ind, toUpperCase(e.Name), i))
		names[i] = strconv.Quote(e.Name)
	}
	members = append(members, fmt.Sprintf("%sVALUE_NAMES: [%s],\n", ind, strings.Join(names, ", ")))
	return d.object(members, nil)
}

// membersByDiscriminant orders union members by discriminant value, then the
// remaining fields in declaration order. A union's which() indexes this order.
func membersByDiscriminant(fields []schema.Field) []*schema.Field {
	out := make([]*schema.Field, 0, len(fields))
	for i := range fields {
		if fields[i].InUnion() {
			out = append(out, &fields[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DiscriminantValue < out[j].DiscriminantValue
	})
	for i := range fields {
		if !fields[i].InUnion() {
			out = append(out, &fields[i])
		}
	}
	return out
}

func quotedNames(fields []*schema.Field) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = strconv.Quote(f.Name)
	}
	return strings.Join(names, ", ")
}

// memberTables lists each member's has and get accessors for ToStringHelper.
// Interface fields have no accessors and report as unset.
func memberTables(fields []*schema.Field) (gets, hases string) {
	g := make([]string, len(fields))
	h := make([]string, len(fields))
	for i, f := range fields {
		if kindOf(f) == interfaceField {
			g[i] = "function() { return undefined; }"
			h[i] = "function() { return false; }"
			continue
		}
		g[i] = "this.get" + toTitleCase(f.Name)
		h[i] = "this.has" + toTitleCase(f.Name)
	}
	return strings.Join(g, ", "), strings.Join(h, ", ")
}

func (c *fileContext) structDef(d declaration, full string, n *schema.Node, children []nodeText) (string, error) {
	st := n.Struct
	if st == nil {
		return "", fmt.Errorf("struct node without struct payload")
	}
	qual := "module." + full
	ind := indent(d.depth + 2)

	var reader, builder strings.Builder
	for i := range st.Fields {
		b, err := c.fieldBindings(qual, n, &st.Fields[i], d.depth+3)
		if err != nil {
			return "", err
		}
		reader.WriteString(b.reader)
		builder.WriteString(b.builder)
	}

	var members []string
	if st.DiscriminantCount > 0 {
		for _, f := range st.Fields {
			if f.InUnion() {
				members = append(members, fmt.Sprintf("%s%s: %d,\n", ind, toUpperCase(f.Name), f.DiscriminantValue))
			}
		}
	}

	declared := make([]*schema.Field, len(st.Fields))
	for i := range st.Fields {
		declared[i] = &st.Fields[i]
	}
	byDisc := membersByDiscriminant(st.Fields)

	members = append(members,
		fmt.Sprintf("%sSTRUCT_SIZE: new capnp.genhelper.StructSize(%d, %d, %d),\n", ind, st.DataWordCount, st.PointerCount, st.PreferredListEncoding),
		fmt.Sprintf("%sELEMENT_SIZE: 7, // INLINE_COMPOSITE\n", ind),
		fmt.Sprintf("%sFIELD_LIST: [%s],\n", ind, quotedNames(declared)),
		fmt.Sprintf("%sFIELDS_BY_DISCRIMINANT: [%s],\n", ind, quotedNames(byDisc)),
		fmt.Sprintf("%stoString: function() { return '%s'; },\n", ind, full),
		fmt.Sprintf("%sgetOrphanReader: function(builder) { return new this.Reader(builder.asStructReader(this.STRUCT_SIZE)); },\n", ind),
		fmt.Sprintf("%sgetOrphan: function(builder) { return new this.Builder(builder.asStruct(this.STRUCT_SIZE)); },\n", ind),
		fmt.Sprintf("%scopyOrphan: capnp.layout.OrphanBuilder.copyStruct,\n", ind),
		viewDef(viewSpec{
			name:     "Reader",
			param:    "_reader",
			preamble: "if (_reader === undefined) _reader = capnp.genhelper.NullStructReader;",
			tail: []string{
				"this._getParentType = function() { return " + qual + "; };",
				"this._getInnerReader = function() { return _reader; };",
				"this.totalSizeInWords = function() { return _reader.totalSize(); };",
				"this._getReader = function() { return _reader; };",
			},
		}, d.depth+2, d.name, n, qual, byDisc, reader.String()),
		viewDef(viewSpec{
			name:  "Builder",
			param: "_builder",
			tail: []string{
				"this.asReader = function() { return new " + qual + ".Reader(_builder.asReader()); };",
				"this._getReader = function() { return _builder.asReader(); };",
				"this.totalSizeInWords = function() { return this.asReader().totalSizeInWords(); };",
			},
		}, d.depth+2, d.name, n, qual, byDisc, builder.String()),
	)
	return d.object(members, children), nil
}

// viewSpec describes the parts of a Reader or Builder constructor that differ
type viewSpec struct {
	name     string
	param    string
	preamble string
	tail     []string
}

// viewDef emits a view constructor. name is the declared name, title-cased for groups.
func viewDef(v viewSpec, depth int, name string, n *schema.Node, qual string, byDisc []*schema.Field, accessors string) string {
	st := n.Struct
	ind := indent(depth + 1)

	var b strings.Builder
	fmt.Fprintf(&b, "%s%s: function(%s) {\n", indent(depth), v.name, v.param)
	if v.preamble != "" {
		b.WriteString(ind + v.preamble + "\n")
	}
	if st.DiscriminantCount > 0 {
		fmt.Fprintf(&b, "%sthis.which = function() { return %s.getDataField_uint16(%d); };\n", ind, v.param, st.DiscriminantOffset)
	}
	b.WriteString(accessors)
	for _, line := range v.tail {
		b.WriteString(ind + line + "\n")
	}

	gets, hases := memberTables(byDisc)
	fmt.Fprintf(&b, "%sthis.GET_MEMBER = [%s];\n", ind, gets)
	fmt.Fprintf(&b, "%sthis.HAS_MEMBER = [%s];\n", ind, hases)
	which := ""
	if st.DiscriminantCount > 0 {
		which = ", this.which()"
	}
	fmt.Fprintf(&b, "%sthis.toString = function() { return capnp.genhelper.ToStringHelper(this, %q, %s.FIELDS_BY_DISCRIMINANT, this.HAS_MEMBER, this.GET_MEMBER%s); };\n",
		ind, name+"."+v.name, qual, which)
	fmt.Fprintf(&b, "%s},\n", indent(depth))
	return b.String()
}
