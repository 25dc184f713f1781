package document

import (
	"fmt"
	"slices"
	"strings"

	"github.com/erraggy/oassplit/internal/pathutil"
)

// Methods are the path item fields that hold operations, in specification
// order. "query" is the OAS 3.2 addition.
var Methods = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace", "query"}

// IsMethod reports whether key names an operation inside a path item.
func IsMethod(key string) bool {
	return slices.Contains(Methods, key)
}

// Version keys identifying the document dialect.
const (
	VersionKeyOpenAPI = "openapi"
	VersionKeySwagger = "swagger"
)

// ComponentID identifies a reusable component by category and name.
type ComponentID struct {
	Category string
	Name     string
}

// String returns the "category/name" form used in manifests and messages.
func (id ComponentID) String() string {
	return id.Category + "/" + id.Name
}

// MarshalText renders the "category/name" form.
func (id ComponentID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// Pointer returns the local $ref string addressing the component.
func (id ComponentID) Pointer(oas2 bool) string {
	return pathutil.ComponentPointer(id.Category, id.Name, oas2)
}

// ParseComponentID parses the "category/name" form. The name may itself
// contain slashes; the category never does.
func ParseComponentID(s string) (ComponentID, error) {
	category, name, ok := strings.Cut(s, "/")
	if !ok || category == "" || name == "" {
		return ComponentID{}, fmt.Errorf("document: invalid component identity %q", s)
	}
	return ComponentID{Category: category, Name: name}, nil
}

// Operation is one (path, method) pair and its body.
type Operation struct {
	Path   string
	Method string
	Body   *Object
}

// Tags returns the operation's tag names in declaration order.
func (op *Operation) Tags() []string {
	v, ok := op.Body.Get("tags")
	if !ok {
		return nil
	}
	return v.Strings()
}

// Key returns "METHOD /path".
func (op *Operation) Key() string {
	return strings.ToUpper(op.Method) + " " + op.Path
}

// Clone deep-copies the operation.
func (op *Operation) Clone() *Operation {
	return &Operation{Path: op.Path, Method: op.Method, Body: op.Body.Clone()}
}

// PathItem groups the operations of one path with its non-verb fields.
type PathItem struct {
	Path string
	// Shared holds path-level fields that are not operations, such as
	// parameters, summary, servers or $ref.
	Shared     *Object
	Operations []*Operation
}

// Operation returns the operation for method, or nil.
func (p *PathItem) Operation(method string) *Operation {
	for _, op := range p.Operations {
		if op.Method == method {
			return op
		}
	}
	return nil
}

// MergeShared copies members of shared that p lacks. Keys present in both
// with different values keep p's value and are returned.
func (p *PathItem) MergeShared(shared *Object) []string {
	var divergent []string
	for k, v := range shared.All() {
		existing, ok := p.Shared.Get(k)
		switch {
		case !ok:
			p.Shared.Set(k, v.Clone())
		case !Equal(existing, v):
			divergent = append(divergent, k)
		}
	}
	return divergent
}

// Object renders the path item with shared fields first.
func (p *PathItem) Object() *Object {
	out := p.Shared.Clone()
	for _, op := range p.Operations {
		out.Set(op.Method, ObjectValue(op.Body))
	}
	return out
}

// Clone deep-copies the path item.
func (p *PathItem) Clone() *PathItem {
	out := &PathItem{Path: p.Path, Shared: p.Shared.Clone()}
	for _, op := range p.Operations {
		out.Operations = append(out.Operations, op.Clone())
	}
	return out
}

// Document is an OpenAPI 2.0 or 3.x document broken into the parts the
// split and merge engines work on. Field order inside every object is
// preserved.
type Document struct {
	// VersionKey is "openapi" or "swagger".
	VersionKey string
	Version    string
	Info       *Object
	Paths      []*PathItem
	// Components maps category to an object of name to body. For OAS 2.0
	// the categories are the top-level definitions, parameters, responses
	// and securityDefinitions fields.
	Components *Object
	// ComponentsExtra holds members of the OAS 3.x components object that
	// are not categories, typically vendor extensions.
	ComponentsExtra *Object
	// Extra holds every other top-level field in source order.
	Extra *Object
}

// New returns an empty document of the given dialect.
func New(versionKey, version string) *Document {
	return &Document{
		VersionKey:      versionKey,
		Version:         version,
		Info:            NewObject(),
		Components:      NewObject(),
		ComponentsExtra: NewObject(),
		Extra:           NewObject(),
	}
}

// IsOAS2 reports whether the document is Swagger 2.0.
func (d *Document) IsOAS2() bool {
	return d.VersionKey == VersionKeySwagger
}

// SchemaCategory returns "definitions" for OAS 2.0 and "schemas" otherwise.
func (d *Document) SchemaCategory() string {
	if d.IsOAS2() {
		return "definitions"
	}
	return "schemas"
}

// SecurityCategory returns the category that security requirements name.
func (d *Document) SecurityCategory() string {
	if d.IsOAS2() {
		return "securityDefinitions"
	}
	return "securitySchemes"
}

// Operations returns every operation in document order.
func (d *Document) Operations() []*Operation {
	var ops []*Operation
	for _, item := range d.Paths {
		ops = append(ops, item.Operations...)
	}
	return ops
}

// OperationCount returns the number of operations.
func (d *Document) OperationCount() int {
	n := 0
	for _, item := range d.Paths {
		n += len(item.Operations)
	}
	return n
}

// PathItem returns the item for path, or nil.
func (d *Document) PathItem(path string) *PathItem {
	for _, item := range d.Paths {
		if item.Path == path {
			return item
		}
	}
	return nil
}

// AddOperation appends op under its path, creating the path item with a
// copy of shared when needed. For an existing item, shared members it lacks
// are added. It reports false, changing nothing, when the path already has
// an operation for op.Method.
func (d *Document) AddOperation(op *Operation, shared *Object) bool {
	item := d.PathItem(op.Path)
	if item == nil {
		item = &PathItem{Path: op.Path, Shared: NewObject()}
		d.Paths = append(d.Paths, item)
	} else if item.Operation(op.Method) != nil {
		return false
	}
	item.MergeShared(shared)
	item.Operations = append(item.Operations, op)
	return true
}

// Category returns the name-to-body object of a category, or nil.
func (d *Document) Category(category string) *Object {
	v, ok := d.Components.Get(category)
	if !ok {
		return nil
	}
	o, _ := v.AsObject()
	return o
}

// Component returns the body of a component.
func (d *Document) Component(id ComponentID) (Value, bool) {
	return d.Category(id.Category).Get(id.Name)
}

// HasComponent reports whether the component exists.
func (d *Document) HasComponent(id ComponentID) bool {
	_, ok := d.Component(id)
	return ok
}

// SetComponent inserts or replaces a component body.
func (d *Document) SetComponent(id ComponentID, body Value) {
	if d.Components == nil {
		d.Components = NewObject()
	}
	cat := d.Category(id.Category)
	if cat == nil {
		cat = NewObject()
		d.Components.Set(id.Category, ObjectValue(cat))
	}
	cat.Set(id.Name, body)
}

// DeleteComponent removes a component, dropping its category when it
// becomes empty.
func (d *Document) DeleteComponent(id ComponentID) bool {
	cat := d.Category(id.Category)
	if !cat.Delete(id.Name) {
		return false
	}
	if cat.Len() == 0 {
		d.Components.Delete(id.Category)
	}
	return true
}

// ComponentIDs lists every component in document order.
func (d *Document) ComponentIDs() []ComponentID {
	var ids []ComponentID
	for category, v := range d.Components.All() {
		names, _ := v.AsObject()
		for _, name := range names.Keys() {
			ids = append(ids, ComponentID{Category: category, Name: name})
		}
	}
	return ids
}

// ComponentCount returns the number of components.
func (d *Document) ComponentCount() int {
	n := 0
	for _, v := range d.Components.All() {
		n += v.Len()
	}
	return n
}

// Root renders the document as a single object. Empty categories are
// omitted; paths is always present.
func (d *Document) Root() *Object {
	root := NewObject()
	if d.VersionKey != "" {
		root.Set(d.VersionKey, String(d.Version))
	}
	if d.Info != nil {
		root.Set("info", ObjectValue(d.Info))
	}
	for k, v := range d.Extra.All() {
		root.Set(k, v)
	}
	root.Set("paths", ObjectValue(d.pathsObject()))
	if d.IsOAS2() {
		for category, v := range d.Components.All() {
			if v.Len() > 0 {
				root.Set(category, v)
			}
		}
		return root
	}
	if comps := d.componentsObject(); comps.Len() > 0 {
		root.Set(pathutil.ComponentsRoot, ObjectValue(comps))
	}
	return root
}

func (d *Document) pathsObject() *Object {
	paths := NewObject()
	for _, item := range d.Paths {
		paths.Set(item.Path, ObjectValue(item.Object()))
	}
	return paths
}

func (d *Document) componentsObject() *Object {
	comps := NewObject()
	for category, v := range d.Components.All() {
		if v.Len() > 0 {
			comps.Set(category, v)
		}
	}
	for k, v := range d.ComponentsExtra.All() {
		comps.Set(k, v)
	}
	return comps
}

// Lookup evaluates a local JSON pointer given as unescaped tokens.
func (d *Document) Lookup(tokens []string) (Value, bool) {
	if len(tokens) == 0 {
		return ObjectValue(d.Root()), true
	}
	head, rest := tokens[0], tokens[1:]
	switch {
	case head == d.VersionKey && d.VersionKey != "":
		if len(rest) > 0 {
			return Value{}, false
		}
		return String(d.Version), true
	case head == "info":
		if d.Info == nil {
			return Value{}, false
		}
		return ObjectValue(d.Info).Lookup(rest)
	case head == "paths":
		if len(rest) == 0 {
			return ObjectValue(d.pathsObject()), true
		}
		item := d.PathItem(rest[0])
		if item == nil {
			return Value{}, false
		}
		return ObjectValue(item.Object()).Lookup(rest[1:])
	case d.IsOAS2() && pathutil.IsCategory(head, true):
		v, ok := d.Components.Get(head)
		if !ok {
			return Value{}, false
		}
		return v.Lookup(rest)
	case !d.IsOAS2() && head == pathutil.ComponentsRoot:
		return ObjectValue(d.componentsObject()).Lookup(rest)
	}
	v, ok := d.Extra.Get(head)
	if !ok {
		return Value{}, false
	}
	return v.Lookup(rest)
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	out := &Document{
		VersionKey:      d.VersionKey,
		Version:         d.Version,
		Components:      d.Components.Clone(),
		ComponentsExtra: d.ComponentsExtra.Clone(),
		Extra:           d.Extra.Clone(),
	}
	if d.Info != nil {
		out.Info = d.Info.Clone()
	}
	for _, item := range d.Paths {
		out.Paths = append(out.Paths, item.Clone())
	}
	return out
}

// Equal reports whether two documents are structurally identical modulo
// key ordering.
func (d *Document) Equal(other *Document) bool {
	if d == nil || other == nil {
		return d == other
	}
	return ObjectsEqual(d.Root(), other.Root())
}
