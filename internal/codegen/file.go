package codegen

import (
	"fmt"
	"path"
	"strings"

	"github.com/alexhholmes/capnpc-js/internal/schema"
)

const fileHeader = "// Generated by Cap'n Proto compiler, DO NOT EDIT\n"

// fileText generates the complete source of a file node. Imports are known
// only after every declaration has been generated, so the preamble comes last.
func (c *fileContext) fileText(file *schema.Node) (string, error) {
	var defs, schemas strings.Builder
	for _, nested := range file.Nested {
		n, err := c.graph.Node(nested.ID)
		if err != nil {
			return "", fmt.Errorf("nested %s: %w", nested.Name, err)
		}
		text, err := c.nodeText("", nested.Name, n, 1)
		if err != nil {
			return "", err
		}
		defs.WriteString(text.def)
		schemas.WriteString(text.schemas)
	}

	mod := generatedModule(file.ID)
	ns, hasNamespace := file.Annotation(NamespaceAnnotationID)
	used := c.usedImports()

	var b strings.Builder
	b.WriteString(fileHeader)
	fmt.Fprintf(&b, "// source: %s\n\n", path.Base(file.DisplayName))

	fmt.Fprintf(&b, "goog.provide('%s');\n", mod)
	if hasNamespace {
		fmt.Fprintf(&b, "goog.provide('%s');\n", ns.Text)
	}
	b.WriteString("\ngoog.require('capnp.genhelper');\n")
	b.WriteString("goog.require('goog.object');\n")
	for _, imp := range used {
		fmt.Fprintf(&b, "goog.require('%s');\n", generatedModule(imp.ID))
	}

	b.WriteString("\n(function() {\n\n")
	fmt.Fprintf(&b, "%svar module = %s;\n", indent(1), mod)
	fmt.Fprintf(&b, "%svar schemas = {};\n", indent(1))
	for _, imp := range used {
		fmt.Fprintf(&b, "%svar import_%s = %s; // %s\n", indent(1), hexID(imp.ID), generatedModule(imp.ID), imp.Name)
	}
	b.WriteString("\n")

	b.WriteString(schemas.String())
	b.WriteString("\n")
	b.WriteString(defs.String())

	if hasNamespace {
		fmt.Fprintf(&b, "%sgoog.object.extend(%s, %s);\n", indent(1), ns.Text, mod)
	}
	b.WriteString("})();\n")
	return b.String(), nil
}
