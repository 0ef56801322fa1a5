package codegen

import (
	"errors"
	"fmt"

	"github.com/alexhholmes/capnpc-js/internal/schema"
)

// NamespaceAnnotationID is the annotation that exports a file's bindings under a
// Closure namespace. Files carrying it are referenced by their generated module name.
const NamespaceAnnotationID uint64 = 0x8db73c0d097e6e8b

var (
	// ErrNotLiteral is returned when a literal is requested for a pointer-kind value
	ErrNotLiteral = errors.New("value has no literal form")

	// ErrFileNode is returned when a file node is declared as a nested node
	ErrFileNode = errors.New("file node cannot be declared inside a scope")
)

// Generator generates JavaScript bindings for the files of one schema graph.
// It keeps no per-file state, so one Generator may serve concurrent GenerateFile calls.
type Generator struct {
	graph *schema.Graph
}

// FileOutput is the generated text for one requested file
type FileOutput struct {
	ID       uint64
	Filename string // display name of the file node, used to place the output
	Source   string

	// UsedImports lists the requested file's imports that generated code
	// references, in request order
	UsedImports []schema.Import
}

// NewGenerator creates a generator over an indexed schema graph
func NewGenerator(g *schema.Graph) *Generator {
	return &Generator{graph: g}
}

// GenerateFile generates the bindings for a requested file
func (g *Generator) GenerateFile(req schema.RequestedFile) (*FileOutput, error) {
	file, err := g.graph.Node(req.ID)
	if err != nil {
		return nil, fmt.Errorf("requested file %s: %w", req.Filename, err)
	}
	if file.Kind != schema.FileNode {
		return nil, fmt.Errorf("requested file %s is a %s node", req.Filename, file.Kind)
	}

	ctx := newFileContext(g.graph, req)
	text, err := ctx.fileText(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file.DisplayName, err)
	}

	return &FileOutput{
		ID:          file.ID,
		Filename:    file.DisplayName,
		Source:      text,
		UsedImports: ctx.usedImports(),
	}, nil
}
