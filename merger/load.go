package merger

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/erraggy/oassplit/document"
	"github.com/erraggy/oassplit/internal/fileutil"
	"github.com/erraggy/oassplit/manifest"
	"github.com/erraggy/oassplit/oaserrors"
)

// unitPatterns match the unit files of a split directory.
var unitPatterns = []string{"spec_*.json", "spec_*.yaml", "spec_*.yml"}

// LoadDir reads the manifest and unit files of a split directory with at
// most limit concurrent reads (0 means the number of CPUs). A spec_* file
// the manifest does not list is a mismatch. Without a manifest, the spec_*
// files of dir are loaded in name order and a manifest is synthesized from
// them.
func LoadDir(ctx context.Context, dir string, limit int) (*manifest.Manifest, []Input, error) {
	m, err := manifest.Load(filepath.Join(dir, manifest.FileName))
	switch {
	case err == nil:
		if err := m.Validate(); err != nil {
			return nil, nil, err
		}
		if err := checkDir(dir, m); err != nil {
			return nil, nil, err
		}
		inputs, err := readUnits(ctx, dir, m.Files(), limit)
		if err != nil {
			return nil, nil, err
		}
		return m, inputs, nil
	case errors.Is(err, fs.ErrNotExist):
		return synthesize(ctx, dir, limit)
	default:
		return nil, nil, err
	}
}

// unitFiles returns the base names of the spec_* files in dir, sorted.
func unitFiles(dir string) ([]string, error) {
	var files []string
	for _, pattern := range unitPatterns {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("merger: %w", err)
		}
		for _, match := range matches {
			files = append(files, filepath.Base(match))
		}
	}
	slices.Sort(files)
	return files, nil
}

// checkDir compares the unit files on disk with the manifest.
func checkDir(dir string, m *manifest.Manifest) error {
	onDisk, err := unitFiles(dir)
	if err != nil {
		return err
	}
	listed := m.Files()
	mm := &oaserrors.ManifestMismatchError{}
	for _, file := range listed {
		if _, err := os.Stat(filepath.Join(dir, file)); errors.Is(err, fs.ErrNotExist) {
			mm.Missing = append(mm.Missing, file)
		}
	}
	for _, file := range onDisk {
		if !slices.Contains(listed, file) {
			mm.Extra = append(mm.Extra, file)
		}
	}
	if mm.Empty() {
		return nil
	}
	return mm
}

func synthesize(ctx context.Context, dir string, limit int) (*manifest.Manifest, []Input, error) {
	files, err := unitFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return nil, nil, &oaserrors.ManifestMismatchError{
			Problems: []string{fmt.Sprintf("%s has no %s and no spec_* files", dir, manifest.FileName)},
		}
	}
	inputs, err := readUnits(ctx, dir, files, limit)
	if err != nil {
		return nil, nil, err
	}
	m := &manifest.Manifest{Source: dir}
	for _, in := range inputs {
		m.Units = append(m.Units, manifest.NewUnit(in.File, in.Document))
	}
	return m, inputs, nil
}

func readUnits(ctx context.Context, dir string, files []string, limit int) ([]Input, error) {
	paths := make([]string, len(files))
	var missing []string
	for i, file := range files {
		paths[i] = filepath.Join(dir, file)
		if _, err := os.Stat(paths[i]); errors.Is(err, fs.ErrNotExist) {
			missing = append(missing, file)
		}
	}
	if len(missing) > 0 {
		return nil, &oaserrors.ManifestMismatchError{Missing: missing}
	}
	data, err := fileutil.ReadFiles(ctx, paths, limit)
	if err != nil {
		return nil, fmt.Errorf("merger: %w", err)
	}
	inputs := make([]Input, len(files))
	var errs []error
	for i, file := range files {
		doc, err := document.Decode(data[i], document.FormatFromPath(file), document.WithSource(paths[i]))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		inputs[i] = Input{File: file, Document: doc}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return inputs, nil
}

// WriteResult writes doc to path atomically with owner-only permissions.
// The format follows the extension; JSON when it is not recognized.
func WriteResult(doc *document.Document, path string) error {
	format := document.FormatFromPath(path)
	if format == document.FormatUnknown {
		format = document.FormatJSON
	}
	data, err := document.Encode(doc, format)
	if err != nil {
		return fmt.Errorf("merger: encoding %s: %w", path, err)
	}
	if err := fileutil.WriteFileAtomic(path, data, fileutil.OwnerReadWrite); err != nil {
		return fmt.Errorf("merger: %w", err)
	}
	return nil
}
