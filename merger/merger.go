package merger

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/erraggy/oassplit/document"
	"github.com/erraggy/oassplit/internal/severity"
	"github.com/erraggy/oassplit/manifest"
	"github.com/erraggy/oassplit/oaserrors"
	"github.com/erraggy/oassplit/resolver"
	"github.com/erraggy/oassplit/validator"
)

// State is a step of a merge run.
type State uint8

const (
	StateLoading State = iota
	StateUnioning
	StateDeduplicating
	StateRewriting
	StateValidating
	StateDone
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateUnioning:
		return "unioning"
	case StateDeduplicating:
		return "deduplicating"
	case StateRewriting:
		return "rewriting"
	case StateValidating:
		return "validating"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// MarshalText renders the state name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Input is one decoded unit file.
type Input struct {
	// File is the unit's file name as listed in the manifest.
	File     string
	Document *document.Document
}

// Stats counts what a merge did.
type Stats struct {
	Units      int `json:"units"`
	Operations int `json:"operations"`
	Components int `json:"components"`
	// Deduplicated counts identical component copies that were dropped.
	Deduplicated int `json:"deduplicated"`
	Conflicts    int `json:"conflicts"`
	Renamed      int `json:"renamed"`
	// Rewrites counts rewritten reference occurrences.
	Rewrites int `json:"rewrites"`
}

// Result is the outcome of Merge.
type Result struct {
	// Document is the merged document, nil when the merge failed.
	Document  *document.Document
	Conflicts []ConflictRecord
	Warnings  []Warning
	// Issues are reported by the configured Validator.
	Issues []validator.Issue
	Cycles []resolver.CircularReference
	// Trace lists the states the run passed through, ending in StateDone
	// or StateFailed.
	Trace []State
	Stats Stats
}

// State returns the final state of the run.
func (r *Result) State() State {
	if len(r.Trace) == 0 {
		return StateLoading
	}
	return r.Trace[len(r.Trace)-1]
}

type unit struct {
	file string
	// stem is the file name without "spec_" and extension, used by rename
	// templates as .Source.
	stem string
	// doc is a private copy; the merged document shares its values.
	doc     *document.Document
	renames map[document.ComponentID]document.ComponentID
	// shared lists path-level fields the unit contributed.
	shared []sharedField
}

type sharedField struct {
	target *document.Object
	path   string
	key    string
}

func unitStem(file string) string {
	stem := strings.TrimSuffix(file, path.Ext(file))
	return strings.TrimPrefix(stem, "spec_")
}

// Merge assembles the units listed in m into one document. Inputs are
// matched to manifest entries by file name and merged in manifest order.
//
// The run is all-or-nothing. On failure the returned Result carries the
// trace and whatever conflicts were found, Document is nil and the error
// says why.
func Merge(m *manifest.Manifest, inputs []Input, opts ...Option) (*Result, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("merger: %w", err)
	}
	r := &run{cfg: cfg, log: cfg.Logger, res: &Result{}}
	doc, err := r.execute(m, inputs)
	if err != nil {
		r.log.Debug("merge failed", "state", r.state.String(), "error", err)
		r.enter(StateFailed)
		return r.res, err
	}
	r.res.Document = doc
	r.enter(StateDone)
	return r.res, nil
}

type run struct {
	cfg   Config
	log   document.Logger
	res   *Result
	state State
}

func (r *run) enter(s State) {
	r.state = s
	r.res.Trace = append(r.res.Trace, s)
	r.log.Debug("merge state", "state", s.String())
}

func (r *run) warn(w Warning) {
	r.res.Warnings = append(r.res.Warnings, w)
	r.log.Warn(w.Message, "category", string(w.Category))
}

func (r *run) execute(m *manifest.Manifest, inputs []Input) (*document.Document, error) {
	r.enter(StateLoading)
	units, err := r.load(m, inputs)
	if err != nil {
		return nil, err
	}

	r.enter(StateUnioning)
	out, err := r.union(units)
	if err != nil {
		return nil, err
	}

	r.enter(StateDeduplicating)
	if err := r.dedupe(out, units); err != nil {
		return nil, err
	}

	r.enter(StateRewriting)
	if err := r.rewrite(out, units); err != nil {
		return nil, err
	}

	r.enter(StateValidating)
	if err := r.validate(out); err != nil {
		return nil, err
	}
	r.res.Stats.Units = len(units)
	r.res.Stats.Operations = out.OperationCount()
	r.res.Stats.Components = out.ComponentCount()
	return out, nil
}

// load checks the inputs against the manifest and orders them.
func (r *run) load(m *manifest.Manifest, inputs []Input) ([]*unit, error) {
	if m == nil {
		return nil, &oaserrors.ConfigError{Option: "manifest", Message: "a manifest is required"}
	}
	mm := &oaserrors.ManifestMismatchError{}
	byFile := make(map[string]*document.Document, len(inputs))
	for _, in := range inputs {
		if _, dup := byFile[in.File]; dup {
			mm.Problems = append(mm.Problems, "unit file "+in.File+" supplied twice")
			continue
		}
		byFile[in.File] = in.Document
	}
	if err := m.Check(byFile); err != nil {
		var checked *oaserrors.ManifestMismatchError
		if !errors.As(err, &checked) {
			return nil, fmt.Errorf("merger: %w", err)
		}
		mm.Missing = checked.Missing
		mm.Extra = checked.Extra
		mm.Problems = append(mm.Problems, checked.Problems...)
	}
	if len(m.Units) == 0 {
		mm.Problems = append(mm.Problems, "manifest lists no units")
	}

	var units []*unit
	for _, entry := range m.Units {
		doc, ok := byFile[entry.File]
		if !ok {
			continue
		}
		if len(units) > 0 && doc.VersionKey != units[0].doc.VersionKey {
			mm.Problems = append(mm.Problems, fmt.Sprintf("%s: %s %s cannot merge with %s %s",
				entry.File, doc.VersionKey, doc.Version, units[0].doc.VersionKey, units[0].doc.Version))
			continue
		}
		units = append(units, &unit{file: entry.File, stem: unitStem(entry.File), doc: doc.Clone()})
	}
	if !mm.Empty() {
		return nil, mm
	}
	r.log.Debug("units loaded", "units", len(units))
	return units, nil
}

func partlessInfo(info *document.Object) *document.Object {
	if info == nil {
		return nil
	}
	out := info.Clone()
	out.Delete(manifest.PartKey)
	if out.Len() == 0 {
		return nil
	}
	return out
}

// union places every operation, path-level field and document-level field
// into the merged document. The merged document shares values with the
// units so rewriting a unit updates it.
func (r *run) union(units []*unit) (*document.Document, error) {
	first := units[0]
	out := document.New(first.doc.VersionKey, first.doc.Version)
	out.Info = partlessInfo(first.doc.Info)

	owners := make(map[string]string)
	fieldOwners := make(map[string]string)
	var dups []error
	for _, u := range units {
		if u.doc.Version != out.Version {
			r.warn(newVersionWarning(out.Version, u.doc.Version, u.file))
		}
		if u != first && !document.ObjectsEqual(partlessInfo(u.doc.Info), out.Info) {
			r.warn(newFieldWarning("info", first.file, u.file))
		}
		for _, item := range u.doc.Paths {
			target := out.PathItem(item.Path)
			if target == nil {
				target = &document.PathItem{Path: item.Path, Shared: document.NewObject()}
				out.Paths = append(out.Paths, target)
			}
			for key, v := range item.Shared.All() {
				ownerKey := item.Path + "\x00" + key
				existing, ok := target.Shared.Get(key)
				if !ok {
					target.Shared.Set(key, v)
					fieldOwners[ownerKey] = u.file
					u.shared = append(u.shared, sharedField{target: target.Shared, path: item.Path, key: key})
					continue
				}
				if !document.Equal(existing, v) {
					r.warn(newPathFieldWarning(item.Path, key, fieldOwners[ownerKey], u.file))
				}
			}
			for _, op := range item.Operations {
				key := op.Key()
				if owner, dup := owners[key]; dup {
					dups = append(dups, &oaserrors.DuplicateOperationError{
						Path:   op.Path,
						Method: op.Method,
						Units:  []string{owner, u.file},
					})
					continue
				}
				owners[key] = u.file
				target.Operations = append(target.Operations, op)
			}
		}
		r.unionFields(out.Extra, u.doc.Extra, u.file, fieldOwners, "")
		r.unionFields(out.ComponentsExtra, u.doc.ComponentsExtra, u.file, fieldOwners, "components.")
	}
	if len(dups) > 0 {
		return nil, errors.Join(dups...)
	}
	return out, nil
}

// unionFields merges top-level fields: tags by name, servers structurally,
// everything else first wins.
func (r *run) unionFields(target, from *document.Object, file string, owners map[string]string, prefix string) {
	for key, v := range from.All() {
		existing, ok := target.Get(key)
		if !ok {
			target.Set(key, v)
			owners[prefix+key] = file
			continue
		}
		switch {
		case prefix == "" && key == "tags":
			target.Set(key, mergeTags(existing, v))
		case prefix == "" && key == "servers":
			target.Set(key, appendMissing(existing, v))
		case !document.Equal(existing, v):
			r.warn(newFieldWarning(prefix+key, owners[prefix+key], file))
		}
	}
}

// mergeTags appends tag definitions with new names. A definition already
// present gains the fields it lacks, such as a description.
func mergeTags(existing, incoming document.Value) document.Value {
	have, _ := existing.AsArray()
	out := append([]document.Value(nil), have...)
	add, _ := incoming.AsArray()
	for _, tag := range add {
		name, ok := tag.Field("name")
		if !ok {
			continue
		}
		found := -1
		for i, t := range out {
			if n, ok := t.Field("name"); ok && document.Equal(n, name) {
				found = i
				break
			}
		}
		if found < 0 {
			out = append(out, tag)
			continue
		}
		dst, ok1 := out[found].AsObject()
		src, ok2 := tag.AsObject()
		if !ok1 || !ok2 {
			continue
		}
		for k, v := range src.All() {
			if !dst.Has(k) {
				dst.Set(k, v.Clone())
			}
		}
	}
	return document.Array(out...)
}

// appendMissing appends the items of incoming not structurally present in
// existing.
func appendMissing(existing, incoming document.Value) document.Value {
	have, _ := existing.AsArray()
	out := append([]document.Value(nil), have...)
	add, _ := incoming.AsArray()
	for _, item := range add {
		present := false
		for _, h := range out {
			if document.Equal(h, item) {
				present = true
				break
			}
		}
		if !present {
			out = append(out, item)
		}
	}
	return document.Array(out...)
}

func (r *run) dedupe(out *document.Document, units []*unit) error {
	d, err := newDeduper(out, r.cfg)
	if err != nil {
		return &oaserrors.ConfigError{Option: "rename-template", Value: r.cfg.RenameTemplate, Cause: err}
	}
	for _, u := range units {
		if u.renames, err = d.add(u); err != nil {
			return err
		}
	}
	r.res.Conflicts = d.conflicts
	r.res.Stats.Deduplicated = d.dropped
	r.res.Stats.Conflicts = len(d.conflicts)
	for _, c := range d.conflicts {
		if c.Resolution == ResolutionRenamed {
			r.res.Stats.Renamed++
		}
		if c.Resolution != ResolutionFailed {
			r.warn(newConflictWarning(c))
		}
	}
	if len(d.failed) > 0 {
		return &oaserrors.ComponentConflictError{Identities: d.failed}
	}
	return nil
}

// rewrite applies the rename tables to each unit's references and turns
// references into sibling unit files into local pointers.
func (r *run) rewrite(out *document.Document, units []*unit) error {
	byFile := make(map[string]*unit, len(units))
	for _, u := range units {
		byFile[u.file] = u
	}

	files := make(map[string]string)
	fileIDs := make(map[string]map[document.ComponentID]document.ComponentID)
	mm := &oaserrors.ManifestMismatchError{}
	var unresolved []error
	for _, u := range units {
		for _, ref := range resolver.Collect(u.doc) {
			if !ref.External() {
				continue
			}
			sibling, ok := byFile[path.Clean(ref.Pointer.File)]
			if !ok {
				if r.cfg.PreserveExternal {
					r.warn(newExternalWarning(ref.Ref, u.file))
					continue
				}
				mm.Problems = append(mm.Problems, fmt.Sprintf("%s: reference %s points outside the manifest", u.file, ref.Ref))
				continue
			}
			if _, ok := sibling.doc.Lookup(ref.Pointer.Tokens); !ok {
				unresolved = append(unresolved, &oaserrors.ReferenceError{
					Ref:      ref.Ref,
					Source:   u.file + ": " + ref.From.String(),
					Location: ref.At,
					External: true,
					Message:  "target not found in " + sibling.file,
				})
				continue
			}
			files[ref.Pointer.File] = ""
			fileIDs[ref.Pointer.File] = sibling.renames
		}
	}
	if !mm.Empty() {
		return mm
	}
	if len(unresolved) > 0 {
		return errors.Join(unresolved...)
	}

	for _, u := range units {
		n := resolver.Rewrite(u.doc, resolver.Mapping{IDs: u.renames, Files: files, FileIDs: fileIDs})
		// Rewriting replaces scalar members such as a path-level $ref in the
		// unit's own objects; copy them into the merged path items.
		for _, f := range u.shared {
			if v, ok := u.doc.PathItem(f.path).Shared.Get(f.key); ok {
				f.target.Set(f.key, v)
			}
		}
		r.res.Stats.Rewrites += n
		if n > 0 {
			r.log.Debug("references rewritten", "unit", u.file, "rewrites", n)
		}
	}
	if len(files) > 0 {
		m := resolver.Mapping{Files: files, FileIDs: fileIDs}
		for _, id := range out.ComponentIDs() {
			body, _ := out.Component(id)
			r.res.Stats.Rewrites += resolver.RewriteValue(out, body, m)
		}
	}
	return nil
}

// validate resolves the merged document and runs the configured validator.
func (r *run) validate(out *document.Document) error {
	res := resolver.Resolve(out, resolver.WithLogger(r.log))
	if err := res.Err(); err != nil {
		return fmt.Errorf("merger: merged document: %w", err)
	}
	r.res.Cycles = res.Cycles
	for _, c := range res.Cycles {
		r.res.Warnings = append(r.res.Warnings, Warning{
			Category: WarnCircularReference,
			Path:     c.ID.String(),
			Message:  "circular reference " + c.String(),
			Severity: severity.SeverityWarning,
		})
	}
	if r.cfg.Validator != nil {
		vr := r.cfg.Validator.Validate(out)
		r.res.Issues = vr.Issues()
		r.log.Debug("validated merged document", "issues", len(r.res.Issues), "valid", vr.Valid)
	}
	return nil
}
