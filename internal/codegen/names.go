package codegen

import (
	"fmt"
	"strings"

	"github.com/alexhholmes/capnpc-js/internal/schema"
)

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}

func hexID(id uint64) string {
	return fmt.Sprintf("%x", id)
}

// toUpperCase turns a camelCase member name into UPPER_SNAKE_CASE
func toUpperCase(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)
	for _, c := range []byte(name) {
		switch {
		case 'a' <= c && c <= 'z':
			b.WriteByte(c - 'a' + 'A')
		case b.Len() > 0 && 'A' <= c && c <= 'Z':
			b.WriteByte('_')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// toTitleCase upper-cases the first letter
func toTitleCase(name string) string {
	if name == "" || name[0] < 'a' || name[0] > 'z' {
		return name
	}
	return string(name[0]-'a'+'A') + name[1:]
}

// generatedModule is the Closure namespace a file's bindings are provided under
func generatedModule(fileID uint64) string {
	return "capnp_generated_" + hexID(fileID)
}

// qualifiedName resolves a declaration to the expression naming it in the
// generated file. A reference into another file records that file as used.
func (c *fileContext) qualifiedName(n *schema.Node) (string, error) {
	if n.IsTopLevel() {
		if n.ID != c.request.ID {
			c.used[n.ID] = struct{}{}
		}
		if _, ok := n.Annotation(NamespaceAnnotationID); ok {
			return generatedModule(n.ID), nil
		}
		if n.ID == c.request.ID {
			return "module", nil
		}
		return "import_" + hexID(n.ID), nil
	}

	parent, name, err := c.graph.ScopedName(n)
	if err != nil {
		return "", err
	}
	prefix, err := c.qualifiedName(parent)
	if err != nil {
		return "", err
	}
	return prefix + "." + name, nil
}

func (c *fileContext) qualifiedNameOf(id uint64) (string, error) {
	n, err := c.graph.Node(id)
	if err != nil {
		return "", err
	}
	return c.qualifiedName(n)
}

var primitiveTypeNames = map[schema.TypeKind]string{
	schema.Void:    "capnp.prim.Void",
	schema.Bool:    "capnp.prim.bool",
	schema.Int8:    "capnp.prim.int8_t",
	schema.Int16:   "capnp.prim.int16_t",
	schema.Int32:   "capnp.prim.int32_t",
	schema.Int64:   "capnp.prim.int64_t",
	schema.Uint8:   "capnp.prim.uint8_t",
	schema.Uint16:  "capnp.prim.uint16_t",
	schema.Uint32:  "capnp.prim.uint32_t",
	schema.Uint64:  "capnp.prim.uint64_t",
	schema.Float32: "capnp.prim.float32_t",
	schema.Float64: "capnp.prim.float64_t",
	schema.Text:    "capnp.blob.Text",
	schema.Data:    "capnp.blob.Data",
}

// typeName resolves a type reference to the runtime class used for its accessors
func (c *fileContext) typeName(t schema.Type) (string, error) {
	if name, ok := primitiveTypeNames[t.Kind]; ok {
		return name, nil
	}

	switch t.Kind {
	case schema.Enum, schema.Struct, schema.Interface:
		return c.qualifiedNameOf(t.TypeID)

	case schema.List:
		if t.Element == nil {
			return "", fmt.Errorf("list type without element type")
		}
		elem := *t.Element
		switch elem.Kind {
		case schema.Text:
			return "capnp.list.ListOfBlobs(capnp.blob.Text)", nil
		case schema.Data:
			return "capnp.list.ListOfBlobs(capnp.blob.Data)", nil
		}

		inner, err := c.typeName(elem)
		if err != nil {
			return "", err
		}
		switch elem.Kind {
		case schema.Struct, schema.Interface, schema.AnyPointer:
			return "capnp.list.ListOfStructs(" + inner + ")", nil
		case schema.List:
			return "capnp.list.ListOfLists(" + inner + ")", nil
		case schema.Enum:
			return "capnp.list.ListOfEnums(" + inner + ")", nil
		default:
			return "capnp.list.ListOfPrimitives(" + inner + ")", nil
		}

	case schema.AnyPointer:
		// Object accessors take the target class from the caller
		return "", nil
	}
	return "", fmt.Errorf("no type name for %s", t.Kind)
}
