package resolver

import (
	"errors"
	"fmt"

	"github.com/erraggy/oassplit/document"
	"github.com/erraggy/oassplit/internal/pathutil"
	"github.com/erraggy/oassplit/oaserrors"
)

// Kind classifies how a reference was written.
type Kind uint8

const (
	// KindPointer is a "$ref" string.
	KindPointer Kind = iota
	// KindSecurity is a security requirement naming a security scheme.
	KindSecurity
	// KindDiscriminator is a discriminator mapping value, either a pointer
	// or a bare schema name.
	KindDiscriminator
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindPointer:
		return "pointer"
	case KindSecurity:
		return "security"
	case KindDiscriminator:
		return "discriminator"
	}
	return "unknown"
}

// LocationKind identifies the part of a document holding a reference.
type LocationKind uint8

const (
	// LocationOperation is an operation body.
	LocationOperation LocationKind = iota
	// LocationPathItem is the shared fields of a path item.
	LocationPathItem
	// LocationComponent is a component body.
	LocationComponent
	// LocationDocument is a top-level document field.
	LocationDocument
)

// Location is where a reference was found.
type Location struct {
	Kind      LocationKind
	Path      string // operation and path item locations
	Method    string // operation locations
	Component document.ComponentID
	Field     string // top-level field for document locations
}

// String renders the location for messages, e.g. "GET /users" or
// "schemas/User".
func (l Location) String() string {
	switch l.Kind {
	case LocationOperation:
		return (&document.Operation{Path: l.Path, Method: l.Method}).Key()
	case LocationPathItem:
		return "path " + l.Path
	case LocationComponent:
		return l.Component.String()
	}
	return l.Field
}

// Reference is one reference occurrence.
type Reference struct {
	// Ref is the string as written. For security references it is the
	// scheme name.
	Ref     string
	Pointer pathutil.Pointer
	Kind    Kind
	From    Location
	// At is the JSON pointer of the occurrence inside its containing body.
	At string
	// Err is set when Ref is not a valid pointer.
	Err error
}

// External reports whether the reference targets another file.
func (r Reference) External() bool {
	return r.Err == nil && !r.Pointer.IsLocal()
}

// Target returns the local component the reference designates.
func (r Reference) Target() (document.ComponentID, bool) {
	if r.Err != nil || !r.Pointer.IsLocal() || !r.Pointer.IsComponent() {
		return document.ComponentID{}, false
	}
	return document.ComponentID{Category: r.Pointer.Category, Name: r.Pointer.Name}, true
}

func (r Reference) errorf(external bool, format string, args ...any) *oaserrors.ReferenceError {
	return &oaserrors.ReferenceError{
		Ref:      r.Ref,
		Source:   r.From.String(),
		Location: r.At,
		External: external,
		Message:  fmt.Sprintf(format, args...),
	}
}

type collector struct {
	doc  *document.Document
	refs []Reference
}

func (c *collector) visitor(from Location) visitFunc {
	return func(ref string, kind Kind, at []string) {
		r := Reference{Ref: ref, Kind: kind, From: from, At: formatAt(at)}
		switch {
		case kind == KindSecurity:
			r.Pointer = pathutil.Pointer{Category: c.doc.SecurityCategory(), Name: ref, OAS2: c.doc.IsOAS2()}
		case kind == KindDiscriminator && !isPointerShaped(ref):
			// A bare mapping value names a schema.
			r.Pointer, r.Err = pathutil.ParsePointer(pathutil.ComponentPointer(c.doc.SchemaCategory(), ref, c.doc.IsOAS2()))
		default:
			r.Pointer, r.Err = pathutil.ParsePointer(ref)
		}
		c.refs = append(c.refs, r)
	}
}

func (c *collector) pathItem(item *document.PathItem) {
	walkValue(document.ObjectValue(item.Shared), nil,
		c.visitor(Location{Kind: LocationPathItem, Path: item.Path}))
}

func (c *collector) operation(op *document.Operation) {
	visit := c.visitor(Location{Kind: LocationOperation, Path: op.Path, Method: op.Method})
	body := document.ObjectValue(op.Body)
	walkValue(body, nil, visit)
	if sec, ok := body.Field("security"); ok {
		walkSecurity(sec, []string{"security"}, visit)
	}
}

func (c *collector) field(key string, v document.Value) {
	visit := c.visitor(Location{Kind: LocationDocument, Field: key})
	if key == "security" {
		walkSecurity(v, []string{key}, visit)
		return
	}
	walkValue(v, []string{key}, visit)
}

// Collect returns every reference in the document, depth first, in
// document order: path items and their operations, then components, then
// the remaining top-level fields.
func Collect(doc *document.Document) []Reference {
	c := &collector{doc: doc}
	for _, item := range doc.Paths {
		c.pathItem(item)
		for _, op := range item.Operations {
			c.operation(op)
		}
	}
	for _, id := range doc.ComponentIDs() {
		body, _ := doc.Component(id)
		walkValue(body, nil, c.visitor(Location{Kind: LocationComponent, Component: id}))
	}
	for key, v := range doc.Extra.All() {
		c.field(key, v)
	}
	return c.refs
}

// CollectOperation returns the references of one operation together with
// the shared fields of its path item.
func CollectOperation(doc *document.Document, item *document.PathItem, op *document.Operation) []Reference {
	c := &collector{doc: doc}
	if item != nil {
		c.pathItem(item)
	}
	c.operation(op)
	return c.refs
}

// CollectField returns the references inside one top-level field.
func CollectField(doc *document.Document, key string) []Reference {
	c := &collector{doc: doc}
	if v, ok := doc.Extra.Get(key); ok {
		c.field(key, v)
	}
	return c.refs
}

// CollectValue returns the references inside an arbitrary body.
func CollectValue(doc *document.Document, v document.Value, from Location) []Reference {
	c := &collector{doc: doc}
	walkValue(v, nil, c.visitor(from))
	return c.refs
}

// Targets returns the distinct local components designated by refs in
// order of first appearance.
func Targets(refs []Reference) []document.ComponentID {
	seen := make(map[document.ComponentID]bool)
	var out []document.ComponentID
	for _, r := range refs {
		id, ok := r.Target()
		if ok && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// SiblingLookup returns the decoded document behind a file locator.
type SiblingLookup func(file string) (*document.Document, bool)

// Option configures Resolve.
type Option func(*config)

type config struct {
	siblings       SiblingLookup
	strictExternal bool
	logger         document.Logger
}

// WithSiblings resolves external references through lookup.
func WithSiblings(lookup SiblingLookup) Option {
	return func(c *config) { c.siblings = lookup }
}

// WithStrictExternal reports external references as unresolved when no
// sibling lookup is configured.
func WithStrictExternal(strict bool) Option {
	return func(c *config) { c.strictExternal = strict }
}

// WithLogger sets the logger.
func WithLogger(l document.Logger) Option {
	return func(c *config) { c.logger = document.LoggerOrNop(l) }
}

// Result is the outcome of Resolve.
type Result struct {
	References []Reference
	// Unresolved holds one error per reference that does not resolve.
	Unresolved []*oaserrors.ReferenceError
	// External holds references into other files.
	External []Reference
	// Cycles are circular chains in the component graph. They are warnings.
	Cycles []CircularReference
}

// Err joins every unresolved reference error, or returns nil.
func (r *Result) Err() error {
	if len(r.Unresolved) == 0 {
		return nil
	}
	errs := make([]error, len(r.Unresolved))
	for i, e := range r.Unresolved {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// Resolve checks that every reference in doc resolves and reports cycles.
// Problems are collected, never reported first-hit.
func Resolve(doc *document.Document, opts ...Option) *Result {
	cfg := config{logger: document.NopLogger{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	res := &Result{References: Collect(doc)}
	for _, r := range res.References {
		if err := resolveOne(doc, r, &cfg, res); err != nil {
			res.Unresolved = append(res.Unresolved, err)
		}
	}
	res.Cycles = NewGraph(doc).Cycles()
	for _, c := range res.Cycles {
		cfg.logger.Warn("circular reference", "cycle", c.String())
	}
	cfg.logger.Debug("references resolved",
		"references", len(res.References),
		"unresolved", len(res.Unresolved),
		"external", len(res.External),
		"cycles", len(res.Cycles))
	return res
}

func resolveOne(doc *document.Document, r Reference, cfg *config, res *Result) *oaserrors.ReferenceError {
	if r.Err != nil {
		return r.errorf(false, "%v", r.Err)
	}
	if r.Kind == KindSecurity {
		if !doc.HasComponent(document.ComponentID{Category: r.Pointer.Category, Name: r.Pointer.Name}) {
			return r.errorf(false, "no security scheme named %q", r.Ref)
		}
		return nil
	}
	if r.External() {
		res.External = append(res.External, r)
		if cfg.siblings == nil {
			if cfg.strictExternal {
				return r.errorf(true, "no sibling lookup configured")
			}
			return nil
		}
		sibling, ok := cfg.siblings(r.Pointer.File)
		if !ok {
			return r.errorf(true, "file %s not found", r.Pointer.File)
		}
		if _, ok := sibling.Lookup(r.Pointer.Tokens); !ok {
			return r.errorf(true, "target not found in %s", r.Pointer.File)
		}
		return nil
	}
	if _, ok := doc.Lookup(r.Pointer.Tokens); !ok {
		return r.errorf(false, "target not found")
	}
	return nil
}
