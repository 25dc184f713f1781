package splitter

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/erraggy/oassplit/document"
	"github.com/erraggy/oassplit/internal/naming"
	"github.com/erraggy/oassplit/manifest"
	"github.com/erraggy/oassplit/oaserrors"
	"github.com/erraggy/oassplit/resolver"
)

// Unit is one produced document.
type Unit struct {
	// Name is the group key or part name, e.g. "users" or "users_part2".
	Name     string
	File     string
	Document *document.Document
	// Residual marks the zero-operation unit.
	Residual bool
}

// Result is the outcome of Split.
type Result struct {
	// Units are in manifest order.
	Units    []*Unit
	Manifest *manifest.Manifest
	// Cycles found in the source document. They are carried into the units
	// unchanged.
	Cycles []resolver.CircularReference
	Format document.Format
}

type group struct {
	key string
	ops []*document.Operation
}

// Split partitions doc into unit documents. Every unit is self-contained:
// it carries the components its operations reach and passes reference
// resolution on its own. Nothing in doc is modified.
func Split(doc *document.Document, opts ...Option) (*Result, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("splitter: %w", err)
	}
	ops := doc.Operations()
	if len(ops) == 0 {
		return nil, &oaserrors.EmptyDocumentError{Source: cfg.Source}
	}
	log := cfg.Logger.With("strategy", string(cfg.Strategy))

	source := resolver.Resolve(doc, resolver.WithLogger(log))
	if err := source.Err(); err != nil {
		return nil, fmt.Errorf("splitter: source document: %w", err)
	}

	a := newAssembler(doc)
	var alloc naming.Allocator
	if cfg.Residual {
		alloc.Reserve(ResidualUnitName)
	}

	var units []*Unit
	for _, g := range partition(ops, cfg) {
		units = append(units, &Unit{
			Name:     g.key,
			File:     unitFile(alloc.Unique(naming.FileStem(g.key)), cfg.Format),
			Document: a.unit(g.key, g.ops),
		})
	}

	if residual := a.residual(units); residual != nil {
		if cfg.Residual {
			units = append([]*Unit{{
				Name:     ResidualUnitName,
				File:     unitFile(ResidualUnitName, cfg.Format),
				Document: residual,
				Residual: true,
			}}, units...)
		} else {
			log.Warn("residual unit disabled: unreferenced components, unused tags and webhooks are dropped",
				"components", residual.ComponentCount())
		}
	}

	if err := verify(units, log); err != nil {
		return nil, err
	}

	m := &manifest.Manifest{Strategy: string(cfg.Strategy), Source: cfg.Source, MaxOperations: cfg.MaxOperations}
	for _, u := range units {
		m.Units = append(m.Units, manifest.NewUnit(u.File, u.Document))
		log.Info("unit created", "file", u.File,
			"operations", u.Document.OperationCount(),
			"components", u.Document.ComponentCount())
	}
	return &Result{Units: units, Manifest: m, Cycles: source.Cycles, Format: cfg.Format}, nil
}

func unitFile(stem string, format document.Format) string {
	return "spec_" + stem + format.Ext()
}

// verify re-resolves every unit. Any dangling reference fails the split.
func verify(units []*Unit, log document.Logger) error {
	var errs []error
	for _, u := range units {
		res := resolver.Resolve(u.Document)
		if err := res.Err(); err != nil {
			errs = append(errs, fmt.Errorf("splitter: unit %s: %w", u.File, err))
		}
		for _, ext := range res.External {
			log.Debug("external reference left in unit", "file", u.File, "ref", ext.Ref)
		}
	}
	return errors.Join(errs...)
}

// groupKey returns the grouping key of op under a grouping strategy.
func groupKey(op *document.Operation, s Strategy) string {
	if s == StrategyByTag {
		tags := op.Tags()
		if len(tags) == 0 || tags[0] == "" {
			return "untagged"
		}
		return tags[0]
	}
	first, _, _ := strings.Cut(strings.Trim(op.Path, "/"), "/")
	first = strings.NewReplacer("{", "", "}", "").Replace(first)
	if first == "" {
		return "root"
	}
	return first
}

// partition groups operations, keeping document order inside every group
// and ordering groups by first appearance.
func partition(ops []*document.Operation, cfg Config) []group {
	if cfg.Strategy == StrategyBySize {
		var out []group
		for i, chunk := range chunks(ops, cfg.MaxOperations) {
			out = append(out, group{key: fmt.Sprintf("part%03d", i+1), ops: chunk})
		}
		return out
	}

	var keyed []group
	index := make(map[string]int)
	for _, op := range ops {
		key := groupKey(op, cfg.Strategy)
		i, ok := index[key]
		if !ok {
			i = len(keyed)
			index[key] = i
			keyed = append(keyed, group{key: key})
		}
		keyed[i].ops = append(keyed[i].ops, op)
	}

	var out []group
	part := 0
	for _, g := range keyed {
		if cfg.MaxOperations == 0 || len(g.ops) <= cfg.MaxOperations {
			out = append(out, g)
			continue
		}
		for i, chunk := range chunks(g.ops, cfg.MaxOperations) {
			name := fmt.Sprintf("%s_part%d", g.key, i+1)
			if cfg.Numbering == NumberingGlobal {
				part++
				name = fmt.Sprintf("part%03d", part)
			}
			out = append(out, group{key: name, ops: chunk})
		}
	}
	return out
}

func chunks(ops []*document.Operation, size int) [][]*document.Operation {
	var out [][]*document.Operation
	for chunk := range slices.Chunk(ops, size) {
		out = append(out, chunk)
	}
	return out
}

// assembler builds unit documents from one source document.
type assembler struct {
	doc   *document.Document
	graph *resolver.Graph
	// shared are components referenced from top-level fields every unit
	// carries, such as document-level security.
	shared []document.ComponentID
	// covered records components placed in some operation unit.
	covered map[document.ComponentID]bool
}

func newAssembler(doc *document.Document) *assembler {
	a := &assembler{
		doc:     doc,
		graph:   resolver.NewGraph(doc),
		covered: make(map[document.ComponentID]bool),
	}
	for key := range doc.Extra.All() {
		if carriedByEveryUnit(key) {
			a.shared = append(a.shared, resolver.Targets(resolver.CollectField(doc, key))...)
		}
	}
	return a
}

func carriedByEveryUnit(key string) bool {
	return key != "tags" && key != "webhooks"
}

func (a *assembler) skeleton(name string) *document.Document {
	u := document.New(a.doc.VersionKey, a.doc.Version)
	if a.doc.Info != nil {
		u.Info = a.doc.Info.Clone()
	}
	u.Info.Set(manifest.PartKey, document.String(name))
	for key, v := range a.doc.Extra.All() {
		if carriedByEveryUnit(key) {
			u.Extra.Set(key, v.Clone())
		}
	}
	for key, v := range a.doc.ComponentsExtra.All() {
		u.ComponentsExtra.Set(key, v.Clone())
	}
	return u
}

func (a *assembler) addComponents(u *document.Document, roots []document.ComponentID) {
	for _, id := range a.graph.Closure(roots) {
		body, _ := a.doc.Component(id)
		u.SetComponent(id, body.Clone())
	}
}

// unit builds an operation unit.
func (a *assembler) unit(name string, ops []*document.Operation) *document.Document {
	u := a.skeleton(name)
	roots := slices.Clone(a.shared)
	used := make(map[string]bool)
	for _, op := range ops {
		item := a.doc.PathItem(op.Path)
		u.AddOperation(op.Clone(), item.Shared)
		roots = append(roots, resolver.Targets(resolver.CollectOperation(a.doc, item, op))...)
		for _, tag := range op.Tags() {
			used[tag] = true
		}
	}
	if tags, ok := a.doc.Extra.Get("tags"); ok {
		if filtered := filterTags(tags, used); filtered.Len() > 0 {
			u.Extra.Set("tags", filtered)
		}
	}
	a.addComponents(u, roots)
	for _, id := range u.ComponentIDs() {
		a.covered[id] = true
	}
	return u
}

// residual builds the zero-operation unit, or returns nil when the
// operation units already carry everything: every component, every tag
// definition in its declared order, webhooks and path items without
// operations.
func (a *assembler) residual(units []*Unit) *document.Document {
	var leftover []document.ComponentID
	for _, id := range a.doc.ComponentIDs() {
		if !a.covered[id] {
			leftover = append(leftover, id)
		}
	}
	var emptyItems []*document.PathItem
	for _, item := range a.doc.Paths {
		if len(item.Operations) == 0 {
			emptyItems = append(emptyItems, item)
		}
	}
	_, hasWebhooks := a.doc.Extra.Get("webhooks")
	if len(leftover) == 0 && len(emptyItems) == 0 && !hasWebhooks && tagOrderSurvives(a.doc, units) {
		return nil
	}

	u := a.skeleton(ResidualUnitName)
	roots := slices.Concat(leftover, a.shared)
	if tags, ok := a.doc.Extra.Get("tags"); ok {
		u.Extra.Set("tags", tags.Clone())
	}
	if hooks, ok := a.doc.Extra.Get("webhooks"); ok {
		u.Extra.Set("webhooks", hooks.Clone())
		roots = append(roots, resolver.Targets(resolver.CollectField(a.doc, "webhooks"))...)
	}
	for _, item := range emptyItems {
		u.Paths = append(u.Paths, item.Clone())
		roots = append(roots, resolver.Targets(resolver.CollectValue(a.doc,
			document.ObjectValue(item.Shared),
			resolver.Location{Kind: resolver.LocationPathItem, Path: item.Path}))...)
	}
	a.addComponents(u, roots)
	return u
}

// filterTags keeps the tag definitions named in used, in declared order.
func filterTags(tags document.Value, used map[string]bool) document.Value {
	items, ok := tags.AsArray()
	if !ok {
		return document.Array()
	}
	var out []document.Value
	for _, item := range items {
		if used[tagName(item)] {
			out = append(out, item.Clone())
		}
	}
	return document.Array(out...)
}

func tagName(v document.Value) string {
	name, _ := v.Field("name")
	s, _ := name.AsString()
	return s
}

// tagOrderSurvives reports whether merging the units' tag lists in order
// reproduces the source tag list.
func tagOrderSurvives(doc *document.Document, units []*Unit) bool {
	tags, ok := doc.Extra.Get("tags")
	if !ok {
		return true
	}
	items, _ := tags.AsArray()
	want := make([]string, 0, len(items))
	for _, item := range items {
		want = append(want, tagName(item))
	}
	var got []string
	seen := make(map[string]bool)
	for _, u := range units {
		v, _ := u.Document.Extra.Get("tags")
		unitTags, _ := v.AsArray()
		for _, item := range unitTags {
			if name := tagName(item); !seen[name] {
				seen[name] = true
				got = append(got, name)
			}
		}
	}
	return slices.Equal(want, got)
}
