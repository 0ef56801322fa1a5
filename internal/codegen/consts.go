package codegen

import (
	"fmt"

	"github.com/alexhholmes/capnpc-js/internal/schema"
)

// constDef declares a constant. Primitive values are inlined; blob, struct and
// list values reference the node's embedded encoded form, which needsSchema
// reports must be emitted.
func (c *fileContext) constDef(d declaration, n *schema.Node) (def string, needsSchema bool, err error) {
	k := n.Const
	if k == nil {
		return "", false, fmt.Errorf("const node without const payload")
	}

	var expr string
	switch k.Type.Kind {
	case schema.Text, schema.Data:
		// Text readers take a word offset; data views take a byte offset
		class, offset := "ConstText", uint64(k.ValueOffset)
		if k.Type.Kind == schema.Data {
			class, offset = "ConstData", offset*8
		}
		expr = fmt.Sprintf("new capnp.genhelper.%s(%s, %d, %d)",
			class, schemaRef(n.ID), offset, k.Value.Size())
		needsSchema = true

	case schema.Struct, schema.List:
		typ, err := c.typeName(k.Type)
		if err != nil {
			return "", false, err
		}
		class := "ConstStruct"
		if k.Type.Kind == schema.List {
			class = "ConstList"
		}
		expr = fmt.Sprintf("new capnp.genhelper.%s(%s, %s, %d)", class, typ, schemaRef(n.ID), k.ValueOffset)
		needsSchema = true

	case schema.Interface, schema.AnyPointer:
		return "", false, nil

	default:
		expr, err = c.literal(k.Type, k.Value)
		if err != nil {
			return "", false, err
		}
	}

	if d.topLevel {
		return fmt.Sprintf("%smodule.%s = %s;\n\n", indent(d.depth), toUpperCase(d.name), expr), needsSchema, nil
	}
	return fmt.Sprintf("%s%s: %s,\n", indent(d.depth), toUpperCase(d.name), expr), needsSchema, nil
}
