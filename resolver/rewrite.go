package resolver

import (
	"github.com/erraggy/oassplit/document"
	"github.com/erraggy/oassplit/internal/pathutil"
)

// Mapping drives rewrite mode.
//
// IDs renames components addressed by local pointers. Files maps a file
// locator to a new locator; the empty string turns the pointer local.
// Pointers that were external before rewriting are never renamed through
// IDs, since that table belongs to the document being rewritten. FileIDs
// holds the renames of a remapped file, applied to pointers into it.
type Mapping struct {
	IDs     map[document.ComponentID]document.ComponentID
	Files   map[string]string
	FileIDs map[string]map[document.ComponentID]document.ComponentID
}

// Empty reports whether the mapping changes nothing.
func (m Mapping) Empty() bool {
	return len(m.IDs) == 0 && len(m.Files) == 0
}

type rewriter struct {
	m        Mapping
	security string
	schemas  string
	count    int
}

func newRewriter(doc *document.Document, m Mapping) *rewriter {
	return &rewriter{m: m, security: doc.SecurityCategory(), schemas: doc.SchemaCategory()}
}

// Rewrite applies m to every reference in doc in place and returns the
// number of rewritten occurrences. Component registry keys are not renamed.
func Rewrite(doc *document.Document, m Mapping) int {
	if m.Empty() {
		return 0
	}
	r := newRewriter(doc, m)
	for _, item := range doc.Paths {
		r.value(document.ObjectValue(item.Shared))
		for _, op := range item.Operations {
			r.value(document.ObjectValue(op.Body))
			if sec, ok := op.Body.Get("security"); ok {
				r.securityRequirements(sec)
			}
		}
	}
	for _, id := range doc.ComponentIDs() {
		body, _ := doc.Component(id)
		r.value(body)
	}
	for key, v := range doc.Extra.All() {
		if key == "security" {
			r.securityRequirements(v)
			continue
		}
		r.value(v)
	}
	return r.count
}

// RewriteValue applies m to the $ref strings and discriminator mappings in
// v in place. doc supplies the dialect.
func RewriteValue(doc *document.Document, v document.Value, m Mapping) int {
	if m.Empty() {
		return 0
	}
	r := newRewriter(doc, m)
	r.value(v)
	return r.count
}

func (r *rewriter) value(v document.Value) {
	switch v.Kind() {
	case document.KindArray:
		items, _ := v.AsArray()
		for _, item := range items {
			r.value(item)
		}
	case document.KindObject:
		obj, _ := v.AsObject()
		for key, member := range obj.All() {
			if key == "$ref" {
				if ref, ok := member.AsString(); ok {
					if out, changed := r.pointer(ref); changed {
						obj.Set(key, document.String(out))
					}
					continue
				}
			}
			if key == "discriminator" {
				r.discriminator(member)
			}
			r.value(member)
		}
	}
}

func (r *rewriter) pointer(ref string) (string, bool) {
	p, err := pathutil.ParsePointer(ref)
	if err != nil {
		return ref, false
	}
	if !p.IsLocal() {
		newFile, ok := r.m.Files[p.File]
		if !ok || newFile == p.File {
			return ref, false
		}
		if to, ok := r.m.FileIDs[p.File][document.ComponentID{Category: p.Category, Name: p.Name}]; ok && p.IsComponent() {
			p.Category, p.Name = to.Category, to.Name
		}
		p.File = newFile
	} else if p.IsComponent() {
		to, ok := r.m.IDs[document.ComponentID{Category: p.Category, Name: p.Name}]
		if !ok {
			return ref, false
		}
		p.Category, p.Name = to.Category, to.Name
	} else {
		return ref, false
	}
	out := pathutil.FormatPointer(p)
	if out == ref {
		return ref, false
	}
	r.count++
	return out, true
}

func (r *rewriter) discriminator(v document.Value) {
	mapping, ok := v.Field("mapping")
	if !ok {
		return
	}
	m, ok := mapping.AsObject()
	if !ok {
		return
	}
	for key, target := range m.All() {
		s, ok := target.AsString()
		if !ok {
			continue
		}
		if isPointerShaped(s) {
			if out, changed := r.pointer(s); changed {
				m.Set(key, document.String(out))
			}
			continue
		}
		// Bare schema names.
		if to, ok := r.m.IDs[document.ComponentID{Category: r.schemas, Name: s}]; ok && to.Name != s {
			m.Set(key, document.String(to.Name))
			r.count++
		}
	}
}

// securityRequirements renames scheme keys, keeping member order.
func (r *rewriter) securityRequirements(v document.Value) {
	reqs, ok := v.AsArray()
	if !ok {
		return
	}
	for i, req := range reqs {
		obj, ok := req.AsObject()
		if !ok {
			continue
		}
		renamed := false
		out := document.NewObject()
		for name, scopes := range obj.All() {
			if to, ok := r.m.IDs[document.ComponentID{Category: r.security, Name: name}]; ok && to.Name != name {
				name = to.Name
				renamed = true
				r.count++
			}
			out.Set(name, scopes)
		}
		if renamed {
			reqs[i] = document.ObjectValue(out)
		}
	}
}
