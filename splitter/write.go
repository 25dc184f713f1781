package splitter

import (
	"context"
	"fmt"

	"github.com/erraggy/oassplit/document"
	"github.com/erraggy/oassplit/internal/fileutil"
	"github.com/erraggy/oassplit/manifest"
)

// Files encodes every unit in res.Format plus the manifest. Unit files are
// owner-only; the manifest is readable by all.
func (res *Result) Files() ([]fileutil.File, error) {
	files := make([]fileutil.File, 0, len(res.Units)+1)
	for _, u := range res.Units {
		data, err := document.Encode(u.Document, res.Format)
		if err != nil {
			return nil, fmt.Errorf("splitter: encoding %s: %w", u.File, err)
		}
		files = append(files, fileutil.File{Name: u.File, Data: data, Perm: fileutil.OwnerReadWrite})
	}
	data, err := res.Manifest.Marshal()
	if err != nil {
		return nil, fmt.Errorf("splitter: encoding manifest: %w", err)
	}
	files = append(files, fileutil.File{Name: manifest.FileName, Data: data, Perm: fileutil.ReadableByAll})
	return files, nil
}

// WriteUnits writes the units and the manifest into dir with at most limit
// concurrent writes (0 means the number of CPUs). Either every file is
// written or none is.
func WriteUnits(ctx context.Context, dir string, res *Result, limit int) error {
	files, err := res.Files()
	if err != nil {
		return err
	}
	if err := fileutil.WriteFilesAtomic(ctx, dir, files, limit); err != nil {
		return fmt.Errorf("splitter: %w", err)
	}
	return nil
}
