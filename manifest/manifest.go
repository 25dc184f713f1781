// Package manifest describes how a document was split: the strategy, the
// source, and for every unit file its operation count and the components it
// carries. The merge engine checks unit files against it before merging.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/erraggy/oassplit/document"
	"github.com/erraggy/oassplit/internal/fileutil"
	"github.com/erraggy/oassplit/oaserrors"
)

// FileName is the manifest file written next to the unit files.
const FileName = "split_mapping.json"

// PartKey is the info extension naming the unit a document was split into.
// Merge strips it.
const PartKey = "x-split-part"

// Manifest is the record written alongside split units.
type Manifest struct {
	Strategy string `json:"strategy"`
	Source   string `json:"source"`
	// MaxOperations is the strategy ceiling used for the split, 0 if none.
	MaxOperations int    `json:"max_operations,omitempty"`
	Units         []Unit `json:"units"`
}

// Unit is one entry of the manifest.
type Unit struct {
	File           string `json:"file"`
	OperationCount int    `json:"operation_count"`
	// Components are identities in "category/name" form.
	Components []string `json:"components"`
}

// ComponentIDs parses the unit's component identities.
func (u Unit) ComponentIDs() ([]document.ComponentID, error) {
	ids := make([]document.ComponentID, 0, len(u.Components))
	for _, s := range u.Components {
		id, err := document.ParseComponentID(s)
		if err != nil {
			return nil, fmt.Errorf("manifest: unit %s: %w", u.File, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// NewUnit builds the entry for a unit document.
func NewUnit(file string, doc *document.Document) Unit {
	ids := doc.ComponentIDs()
	u := Unit{File: file, OperationCount: doc.OperationCount(), Components: make([]string, len(ids))}
	for i, id := range ids {
		u.Components[i] = id.String()
	}
	return u
}

// Files returns the unit file names in manifest order.
func (m *Manifest) Files() []string {
	files := make([]string, len(m.Units))
	for i, u := range m.Units {
		files[i] = u.File
	}
	return files
}

// Unit returns the entry for file.
func (m *Manifest) Unit(file string) (Unit, bool) {
	for _, u := range m.Units {
		if u.File == file {
			return u, true
		}
	}
	return Unit{}, false
}

// Validate checks the manifest on its own: file names present and unique,
// counts non-negative, identities well formed.
func (m *Manifest) Validate() error {
	mm := &oaserrors.ManifestMismatchError{}
	seen := make(map[string]bool, len(m.Units))
	for i, u := range m.Units {
		switch {
		case u.File == "":
			mm.Problems = append(mm.Problems, fmt.Sprintf("unit %d has no file name", i))
		case seen[u.File]:
			mm.Problems = append(mm.Problems, "duplicate entry "+u.File)
		case filepath.Base(u.File) != u.File || u.File == "." || u.File == "..":
			mm.Problems = append(mm.Problems, u.File+": unit file must be a plain file name")
		}
		seen[u.File] = true
		if u.OperationCount < 0 {
			mm.Problems = append(mm.Problems, fmt.Sprintf("%s: negative operation_count %d", u.File, u.OperationCount))
		}
		if _, err := u.ComponentIDs(); err != nil {
			mm.Problems = append(mm.Problems, err.Error())
		}
	}
	if m.MaxOperations < 0 {
		mm.Problems = append(mm.Problems, fmt.Sprintf("negative max_operations %d", m.MaxOperations))
	}
	if mm.Empty() {
		return nil
	}
	return mm
}

// Check compares the manifest against decoded unit documents keyed by file
// name. Every listed file must be present and no others; operation counts
// must match and declared components must exist in their unit.
func (m *Manifest) Check(units map[string]*document.Document) error {
	mm := &oaserrors.ManifestMismatchError{}
	if err := m.Validate(); err != nil {
		errors.As(err, &mm)
	}
	listed := make(map[string]bool, len(m.Units))
	for _, u := range m.Units {
		listed[u.File] = true
		doc, ok := units[u.File]
		if !ok {
			mm.Missing = append(mm.Missing, u.File)
			continue
		}
		if n := doc.OperationCount(); n != u.OperationCount {
			mm.Problems = append(mm.Problems, fmt.Sprintf("%s: has %d operation(s), manifest says %d", u.File, n, u.OperationCount))
		}
		ids, err := u.ComponentIDs()
		if err != nil {
			continue
		}
		for _, id := range ids {
			if !doc.HasComponent(id) {
				mm.Problems = append(mm.Problems, fmt.Sprintf("%s: declared component %s is missing", u.File, id))
			}
		}
	}
	for file := range units {
		if !listed[file] {
			mm.Extra = append(mm.Extra, file)
		}
	}
	slices.Sort(mm.Extra)
	if mm.Empty() {
		return nil
	}
	return mm
}

// Parse decodes a manifest. Unknown fields are ignored.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, &oaserrors.DecodeError{Path: FileName, Message: "invalid manifest", Cause: err}
	}
	return &m, nil
}

// Marshal encodes the manifest as indented JSON.
func (m *Manifest) Marshal() ([]byte, error) {
	out := *m
	out.Units = make([]Unit, len(m.Units))
	for i, u := range m.Units {
		if u.Components == nil {
			u.Components = []string{}
		}
		out.Units[i] = u
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&out); err != nil {
		return nil, fmt.Errorf("manifest: encoding: %w", err)
	}
	return buf.Bytes(), nil
}

// Load reads and parses a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		var decErr *oaserrors.DecodeError
		if errors.As(err, &decErr) {
			decErr.Path = path
		}
		return nil, err
	}
	return m, nil
}

// Save writes the manifest to path atomically.
func (m *Manifest) Save(path string) error {
	data, err := m.Marshal()
	if err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(path, data, fileutil.ReadableByAll)
}
