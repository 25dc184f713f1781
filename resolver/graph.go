package resolver

import (
	"slices"
	"strings"

	"github.com/erraggy/oassplit/document"
	"github.com/erraggy/oassplit/oaserrors"
)

// CircularReference is a cycle in the component graph. Cycle starts and
// ends with the same identity; ID is that identity.
type CircularReference struct {
	ID    document.ComponentID
	Cycle []document.ComponentID
}

// String renders the cycle as "schemas/A -> schemas/B -> schemas/A".
func (c CircularReference) String() string {
	parts := make([]string, len(c.Cycle))
	for i, id := range c.Cycle {
		parts[i] = id.String()
	}
	return strings.Join(parts, " -> ")
}

// ReferenceError converts the cycle to a circular oaserrors.ReferenceError.
func (c CircularReference) ReferenceError() *oaserrors.ReferenceError {
	parts := make([]string, len(c.Cycle))
	for i, id := range c.Cycle {
		parts[i] = id.String()
	}
	return &oaserrors.ReferenceError{
		Source:     c.ID.String(),
		IsCircular: true,
		Cycle:      parts,
	}
}

// Graph is the component dependency graph of a document. Edges follow
// local references between component bodies.
type Graph struct {
	order []document.ComponentID
	index map[document.ComponentID]int
	edges map[document.ComponentID][]document.ComponentID
}

// NewGraph builds the component graph of doc.
func NewGraph(doc *document.Document) *Graph {
	g := &Graph{
		order: doc.ComponentIDs(),
		index: make(map[document.ComponentID]int),
		edges: make(map[document.ComponentID][]document.ComponentID),
	}
	for i, id := range g.order {
		g.index[id] = i
	}
	for _, id := range g.order {
		body, _ := doc.Component(id)
		refs := CollectValue(doc, body, Location{Kind: LocationComponent, Component: id})
		for _, target := range Targets(refs) {
			if _, exists := g.index[target]; exists {
				g.edges[id] = append(g.edges[id], target)
			}
		}
	}
	return g
}

// Dependencies returns the direct dependencies of id.
func (g *Graph) Dependencies(id document.ComponentID) []document.ComponentID {
	return g.edges[id]
}

// Closure returns every existing component reachable from roots, roots
// included, in document order.
func (g *Graph) Closure(roots []document.ComponentID) []document.ComponentID {
	visited := make(map[document.ComponentID]bool)
	stack := slices.Clone(roots)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[id] {
			continue
		}
		if _, exists := g.index[id]; !exists {
			continue
		}
		visited[id] = true
		stack = append(stack, g.edges[id]...)
	}
	out := make([]document.ComponentID, 0, len(visited))
	for id := range visited {
		out = append(out, id)
	}
	slices.SortFunc(out, func(a, b document.ComponentID) int {
		return g.index[a] - g.index[b]
	})
	return out
}

// Closure is shorthand for NewGraph(doc).Closure(roots).
func Closure(doc *document.Document, roots []document.ComponentID) []document.ComponentID {
	return NewGraph(doc).Closure(roots)
}

// Cycles finds every elementary cycle reachable by depth-first search. Each
// back edge yields one cycle; cycles that are rotations of one another are
// reported once.
func (g *Graph) Cycles() []CircularReference {
	const (
		white = iota
		gray
		black
	)
	color := make(map[document.ComponentID]int)
	var chain []document.ComponentID
	seen := make(map[string]bool)
	var cycles []CircularReference

	var visit func(id document.ComponentID)
	visit = func(id document.ComponentID) {
		color[id] = gray
		chain = append(chain, id)
		for _, next := range g.edges[id] {
			switch color[next] {
			case white:
				visit(next)
			case gray:
				start := slices.Index(chain, next)
				loop := slices.Clone(chain[start:])
				key := canonicalKey(loop)
				if !seen[key] {
					seen[key] = true
					cycles = append(cycles, CircularReference{ID: next, Cycle: append(loop, next)})
				}
			}
		}
		chain = chain[:len(chain)-1]
		color[id] = black
	}
	for _, id := range g.order {
		if color[id] == white {
			visit(id)
		}
	}
	return cycles
}

// canonicalKey renders the rotation of loop that starts at its smallest
// identity.
func canonicalKey(loop []document.ComponentID) string {
	minAt := 0
	for i, id := range loop {
		if id.String() < loop[minAt].String() {
			minAt = i
		}
	}
	var b strings.Builder
	for i := range loop {
		b.WriteString(loop[(minAt+i)%len(loop)].String())
		b.WriteByte('|')
	}
	return b.String()
}
