package merger

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/erraggy/oassplit/document"
	"github.com/erraggy/oassplit/internal/naming"
	"github.com/erraggy/oassplit/internal/severity"
	"github.com/erraggy/oassplit/resolver"
)

// Resolution records how a component conflict was resolved.
type Resolution string

const (
	ResolutionKeptFirst Resolution = "kept-first"
	ResolutionKeptLast  Resolution = "kept-last"
	ResolutionRenamed   Resolution = "renamed"
	ResolutionFailed    Resolution = "failed"
)

// maxRenameAttempts bounds the search for a free renamed identity.
const maxRenameAttempts = 10000

// ConflictRecord describes one component defined with different bodies by
// two units.
type ConflictRecord struct {
	ID document.ComponentID `json:"id"`
	// Bodies are the body in place when the conflict was found and the
	// incoming body, in that order.
	Bodies []document.Value `json:"bodies"`
	// Sources are the unit files of Bodies.
	Sources    []string   `json:"sources"`
	Resolution Resolution `json:"resolution"`
	// NewID is the identity given to the incoming body when renamed.
	NewID    document.ComponentID `json:"new_id,omitzero"`
	Severity severity.Severity    `json:"severity"`
}

// String describes the conflict and its resolution.
func (c ConflictRecord) String() string {
	msg := fmt.Sprintf("component %s differs between %s and %s", c.ID, c.Sources[0], c.Sources[1])
	switch c.Resolution {
	case ResolutionRenamed:
		return msg + "; renamed to " + c.NewID.String()
	case ResolutionKeptFirst:
		return msg + "; keeping " + c.Sources[0]
	case ResolutionKeptLast:
		return msg + "; keeping " + c.Sources[1]
	}
	return msg
}

// deduper folds unit components into one namespace. Units are added in
// manifest order; the outcome depends only on that order and the policy.
type deduper struct {
	out    *document.Document
	policy Policy
	tmpl   *naming.Template
	log    document.Logger
	// owner is the unit that placed the current body of an identity.
	owner map[document.ComponentID]string
	// variants are the renamed identities created for a base identity.
	variants  map[document.ComponentID][]document.ComponentID
	conflicts []ConflictRecord
	failed    []string
	// dropped counts identical duplicates.
	dropped int
}

func newDeduper(out *document.Document, cfg Config) (*deduper, error) {
	tmpl, err := naming.ParseTemplate(cfg.RenameTemplate)
	if err != nil {
		return nil, err
	}
	return &deduper{
		out:      out,
		policy:   cfg.Policy,
		tmpl:     tmpl,
		log:      cfg.Logger,
		owner:    make(map[document.ComponentID]string),
		variants: make(map[document.ComponentID][]document.ComponentID),
	}, nil
}

// add merges the components of u and returns the renames the unit's own
// references need.
func (d *deduper) add(u *unit) (map[document.ComponentID]document.ComponentID, error) {
	ids := u.doc.ComponentIDs()
	renames := map[document.ComponentID]document.ComponentID{}
	if d.policy == PolicyRename {
		var err error
		if renames, err = d.renames(u, ids); err != nil {
			return nil, err
		}
	}
	m := resolver.Mapping{IDs: renames}
	for _, id := range ids {
		body := d.rewritten(u, id, m)
		target, renamed := renames[id]
		if !renamed {
			target = id
		}
		existing, exists := d.out.Component(target)
		switch {
		case !exists:
			d.out.SetComponent(target, body)
			d.owner[target] = u.file
			if renamed {
				d.variants[id] = append(d.variants[id], target)
				d.record(id, body, u, ResolutionRenamed, target)
			}
		case document.Equal(existing, body):
			if renamed {
				d.record(id, body, u, ResolutionRenamed, target)
			} else {
				d.dropped++
			}
		default:
			d.resolve(id, existing, body, u)
		}
	}
	return renames, nil
}

func (d *deduper) rewritten(u *unit, id document.ComponentID, m resolver.Mapping) document.Value {
	body, _ := u.doc.Component(id)
	body = body.Clone()
	resolver.RewriteValue(u.doc, body, m)
	return body
}

// renames computes the identities the unit's conflicting components move
// to. Renaming one component changes the bodies that reference it, so the
// comparison repeats until no decision changes.
func (d *deduper) renames(u *unit, ids []document.ComponentID) (map[document.ComponentID]document.ComponentID, error) {
	current := map[document.ComponentID]document.ComponentID{}
	fresh := map[document.ComponentID]document.ComponentID{}
	for range len(ids) + 1 {
		m := resolver.Mapping{IDs: current}
		next := map[document.ComponentID]document.ComponentID{}
		for _, id := range ids {
			existing, ok := d.out.Component(id)
			if !ok {
				continue
			}
			body := d.rewritten(u, id, m)
			if document.Equal(existing, body) {
				continue
			}
			if v, ok := d.matchVariant(id, body); ok {
				next[id] = v
				continue
			}
			if _, ok := fresh[id]; !ok {
				newID, err := d.freshID(u, id, fresh)
				if err != nil {
					return nil, err
				}
				fresh[id] = newID
			}
			next[id] = fresh[id]
		}
		if maps.Equal(next, current) {
			break
		}
		current = next
	}
	return current, nil
}

func (d *deduper) matchVariant(id document.ComponentID, body document.Value) (document.ComponentID, bool) {
	for _, v := range d.variants[id] {
		if existing, ok := d.out.Component(v); ok && document.Equal(existing, body) {
			return v, true
		}
	}
	return document.ComponentID{}, false
}

// freshID renders the rename template until it yields an identity unused
// by the merged document, the unit and the unit's other renames.
func (d *deduper) freshID(u *unit, id document.ComponentID, taken map[document.ComponentID]document.ComponentID) (document.ComponentID, error) {
	used := slices.Collect(maps.Values(taken))
	var prev string
	for index := 2; index < maxRenameAttempts; index++ {
		rendered, err := d.tmpl.Render(naming.RenameContext{
			Name:     id.Name,
			Category: id.Category,
			Source:   u.stem,
			Index:    index,
		})
		if err != nil {
			return document.ComponentID{}, fmt.Errorf("merger: renaming %s: %w", id, err)
		}
		name := rendered
		if rendered == prev {
			name = rendered + "_" + strconv.Itoa(index)
		}
		prev = rendered
		candidate := document.ComponentID{Category: id.Category, Name: name}
		if !d.out.HasComponent(candidate) && !u.doc.HasComponent(candidate) && !slices.Contains(used, candidate) {
			return candidate, nil
		}
	}
	return document.ComponentID{}, fmt.Errorf("merger: no free name for %s after %d attempts", id, maxRenameAttempts)
}

// resolve applies a keep or fail policy to a conflicting body.
func (d *deduper) resolve(id document.ComponentID, existing, body document.Value, u *unit) {
	switch d.policy {
	case PolicyKeepLast:
		d.recordPair(id, existing, body, u, ResolutionKeptLast, document.ComponentID{})
		d.out.SetComponent(id, body)
		d.owner[id] = u.file
	case PolicyFail:
		d.recordPair(id, existing, body, u, ResolutionFailed, document.ComponentID{})
		if !slices.Contains(d.failed, id.String()) {
			d.failed = append(d.failed, id.String())
		}
	default:
		d.recordPair(id, existing, body, u, ResolutionKeptFirst, document.ComponentID{})
	}
}

func (d *deduper) record(id document.ComponentID, body document.Value, u *unit, res Resolution, newID document.ComponentID) {
	base, _ := d.out.Component(id)
	d.recordPair(id, base, body, u, res, newID)
}

func (d *deduper) recordPair(id document.ComponentID, existing, body document.Value, u *unit, res Resolution, newID document.ComponentID) {
	sev := severity.SeverityWarning
	if res == ResolutionFailed {
		sev = severity.SeverityError
	}
	c := ConflictRecord{
		ID:         id,
		Bodies:     []document.Value{existing.Clone(), body.Clone()},
		Sources:    []string{d.owner[id], u.file},
		Resolution: res,
		NewID:      newID,
		Severity:   sev,
	}
	d.conflicts = append(d.conflicts, c)
	d.log.Debug("component conflict", "component", id.String(), "resolution", string(res), "unit", u.file)
}
