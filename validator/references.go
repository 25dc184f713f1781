package validator

import (
	"fmt"

	"github.com/erraggy/oassplit/document"
	"github.com/erraggy/oassplit/internal/issues"
	"github.com/erraggy/oassplit/resolver"
)

// references reports dangling references as errors, and cycles and
// components nothing reaches as warnings.
func (c *check) references() {
	res := resolver.Resolve(c.doc, resolver.WithLogger(c.v.Logger))
	ops := make(map[string]*document.Operation)
	for _, op := range c.doc.Operations() {
		ops[op.Key()] = op
	}
	graph := resolver.NewGraph(c.doc)
	reach := c.reachingOperations(graph)

	for _, e := range res.Unresolved {
		opts := []func(*Issue){withField("$ref"), c.withSpecRef("reference-object")}
		if op, ok := ops[e.Source]; ok {
			opts = append(opts, withOperation(op))
		} else if id, err := document.ParseComponentID(e.Source); err == nil {
			opts = append(opts, withComponent(reach[id]))
		}
		c.addError(e.Source, e.Error(), opts...)
	}
	for _, cycle := range res.Cycles {
		c.addWarning(cycle.ID.String(), "circular reference "+cycle.String(),
			withComponent(reach[cycle.ID]))
	}

	var roots []document.ComponentID
	for _, r := range res.References {
		if r.From.Kind != resolver.LocationComponent {
			if id, ok := r.Target(); ok {
				roots = append(roots, id)
			}
		}
	}
	used := make(map[document.ComponentID]bool)
	for _, id := range graph.Closure(roots) {
		used[id] = true
	}
	for _, id := range c.doc.ComponentIDs() {
		if !used[id] {
			c.addWarning(id.String(), fmt.Sprintf("component %s is not referenced", id),
				func(i *Issue) { i.OperationContext = issues.Unused() })
		}
	}
}

// reachingOperations maps every component to the operations whose closure
// includes it, in document order.
func (c *check) reachingOperations(graph *resolver.Graph) map[document.ComponentID][]*document.Operation {
	out := make(map[document.ComponentID][]*document.Operation)
	for _, item := range c.doc.Paths {
		for _, op := range item.Operations {
			roots := resolver.Targets(resolver.CollectOperation(c.doc, item, op))
			for _, id := range graph.Closure(roots) {
				out[id] = append(out[id], op)
			}
		}
	}
	return out
}

func withComponent(ops []*document.Operation) func(*Issue) {
	return func(i *Issue) {
		if len(ops) == 0 {
			i.OperationContext = issues.Unused()
			return
		}
		ctx := operationContext(ops[0])
		ctx.Component = true
		ctx.AdditionalRefs = len(ops) - 1
		i.OperationContext = ctx
	}
}
