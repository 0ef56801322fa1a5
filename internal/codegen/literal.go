package codegen

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/alexhholmes/capnpc-js/internal/schema"
)

// literal renders a primitive or enum value as a JavaScript expression.
// 64-bit integers are [hi, lo] pairs, matching the runtime's representation.
func (c *fileContext) literal(t schema.Type, v schema.Value) (string, error) {
	switch t.Kind {
	case schema.Void:
		return "undefined", nil
	case schema.Bool:
		return strconv.FormatBool(v.Bool), nil
	case schema.Int8, schema.Int16, schema.Int32:
		return strconv.FormatInt(v.Int, 10), nil
	case schema.Uint8, schema.Uint16, schema.Uint32:
		return strconv.FormatUint(v.Uint, 10), nil
	case schema.Int64:
		return splitInt64(v.Int), nil
	case schema.Uint64:
		return splitUint64(v.Uint), nil
	case schema.Float32:
		return formatFloat(v.Float, 32), nil
	case schema.Float64:
		return formatFloat(v.Float, 64), nil
	case schema.Enum:
		return c.enumLiteral(t.TypeID, v.Enum)
	}
	return "", fmt.Errorf("%s: %w", t.Kind, ErrNotLiteral)
}

func (c *fileContext) enumLiteral(enumID uint64, ordinal uint16) (string, error) {
	n, err := c.graph.Node(enumID)
	if err != nil {
		return "", err
	}
	name, err := c.qualifiedName(n)
	if err != nil {
		return "", err
	}
	if n.Enum == nil || int(ordinal) >= len(n.Enum.Enumerants) {
		// Values from a newer schema revision have no symbolic name
		return strconv.FormatUint(uint64(ordinal), 10), nil
	}
	return name + "." + toUpperCase(n.Enum.Enumerants[ordinal].Name), nil
}

func splitInt64(v int64) string {
	return fmt.Sprintf("[%d, %d]", v>>32, uint32(v))
}

func splitUint64(v uint64) string {
	return fmt.Sprintf("[%d, %d]", v>>32, uint32(v))
}

func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'g', -1, bits)
}

// defaultMask renders the XOR mask that makes a zeroed slot read as the
// field's default. ok is false when the default is zero and no mask applies.
func defaultMask(v schema.Value) (mask string, ok bool) {
	switch v.Kind {
	case schema.Bool:
		return "true", v.Bool
	case schema.Int8, schema.Int16, schema.Int32:
		return strconv.FormatInt(v.Int, 10), v.Int != 0
	case schema.Uint8, schema.Uint16, schema.Uint32:
		return strconv.FormatUint(v.Uint, 10), v.Uint != 0
	case schema.Int64:
		return splitInt64(v.Int), v.Int != 0
	case schema.Uint64:
		return splitUint64(v.Uint), v.Uint != 0
	case schema.Float32:
		// Compare bits so a -0 default still gets a mask
		bits := math.Float32bits(float32(v.Float))
		return strconv.FormatUint(uint64(bits), 10), bits != 0
	case schema.Float64:
		bits := math.Float64bits(v.Float)
		return splitUint64(bits), bits != 0
	case schema.Enum:
		return strconv.FormatUint(uint64(v.Enum), 10), v.Enum != 0
	}
	return "", false
}

// zeroLiteral is the value written when clearing a data slot of the given kind
func zeroLiteral(k schema.TypeKind) string {
	switch k {
	case schema.Bool:
		return "false"
	case schema.Int64, schema.Uint64, schema.Float64:
		return "[0, 0]"
	default:
		return "0"
	}
}

// bytesLiteral renders an encoded node as rows of eight right-aligned bytes
func bytesLiteral(data []byte, depth int) string {
	var b strings.Builder
	for i, c := range data {
		if i > 0 && i%8 == 0 {
			b.WriteString("\n")
			b.WriteString(indent(depth))
		}
		fmt.Fprintf(&b, "%4d", c)
		if i < len(data)-1 {
			b.WriteString(",")
		}
	}
	return b.String()
}

// schemaRef is the expression for the embedded encoded form of a node
func schemaRef(id uint64) string {
	return "new Uint8Array(schemas['" + hexID(id) + "']).buffer"
}
