package codegen

import (
	"github.com/alexhholmes/capnpc-js/internal/schema"
)

// fileContext is the state of generating one requested file. Name resolution
// records every other file it reaches into used.
type fileContext struct {
	graph   *schema.Graph
	request schema.RequestedFile
	used    map[uint64]struct{}
}

func newFileContext(g *schema.Graph, req schema.RequestedFile) *fileContext {
	return &fileContext{
		graph:   g,
		request: req,
		used:    make(map[uint64]struct{}),
	}
}

// usedImports filters the request's imports to those referenced so far
func (c *fileContext) usedImports() []schema.Import {
	var out []schema.Import
	for _, imp := range c.request.Imports {
		if _, ok := c.used[imp.ID]; ok {
			out = append(out, imp)
		}
	}
	return out
}
