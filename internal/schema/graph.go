package schema

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownNode is returned when an id has no node in the graph
	ErrUnknownNode = errors.New("unknown schema node")

	// ErrScopeMismatch is the graph-integrity violation: a node's scope does not list it as nested
	ErrScopeMismatch = errors.New("node's scope does not contain it as a nested node")

	ErrDuplicateNode = errors.New("duplicate schema node id")
)

// Import is one import of a requested file
type Import struct {
	ID   uint64
	Name string
}

// RequestedFile is a file node selected for generation
type RequestedFile struct {
	ID       uint64
	Filename string
	Imports  []Import
}

// Request is the complete generator input
type Request struct {
	Nodes          []*Node
	RequestedFiles []RequestedFile
}

// Graph is an id-keyed arena of nodes. It is never mutated after construction,
// so it may be shared by concurrent generations.
type Graph struct {
	nodes map[uint64]*Node
}

// NewGraph indexes nodes by id
func NewGraph(nodes []*Node) (*Graph, error) {
	g := &Graph{nodes: make(map[uint64]*Node, len(nodes))}
	for _, n := range nodes {
		if _, ok := g.nodes[n.ID]; ok {
			return nil, fmt.Errorf("@%#x: %w", n.ID, ErrDuplicateNode)
		}
		g.nodes[n.ID] = n
	}
	return g, nil
}

// Node returns the node with the given id
func (g *Graph) Node(id uint64) (*Node, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("@%#x: %w", id, ErrUnknownNode)
	}
	return n, nil
}

func (g *Graph) Len() int {
	return len(g.nodes)
}

// ScopedName returns the parent of a nested node and the name under which the
// parent declares it. It fails with ErrScopeMismatch when the back-link is missing.
func (g *Graph) ScopedName(n *Node) (*Node, string, error) {
	parent, err := g.Node(n.ScopeID)
	if err != nil {
		return nil, "", fmt.Errorf("scope of %s: %w", n.DisplayName, err)
	}
	for _, nested := range parent.Nested {
		if nested.ID == n.ID {
			return parent, nested.Name, nil
		}
	}
	return nil, "", fmt.Errorf("%s (@%#x) in %s (@%#x): %w",
		n.DisplayName, n.ID, parent.DisplayName, parent.ID, ErrScopeMismatch)
}
