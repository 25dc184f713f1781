// Package fileutil holds file permissions and the bounded, staged file I/O
// used by the split and merge commands.
package fileutil

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
)

// OwnerReadWrite is the file permission mode for spec output files
// containing potentially sensitive API data (owner read/write only).
const OwnerReadWrite os.FileMode = 0o600

// ReadableByAll is the file permission mode for the split manifest and
// other files meant to be shared.
const ReadableByAll os.FileMode = 0o644

// DirMode is the permission mode for created output directories.
const DirMode os.FileMode = 0o755

// DefaultLimit is the default bound on concurrent file operations.
func DefaultLimit() int {
	return runtime.NumCPU()
}

func limitOrDefault(limit int) int {
	if limit <= 0 {
		return DefaultLimit()
	}
	return limit
}

// File is one file to write.
type File struct {
	// Name is a base name inside the target directory.
	Name string
	Data []byte
	Perm os.FileMode
}

// ReadFiles reads paths with at most limit concurrent reads. Results are in
// input order. The first error cancels outstanding reads.
func ReadFiles(ctx context.Context, paths []string, limit int) ([][]byte, error) {
	out := make([][]byte, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limitOrDefault(limit))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("fileutil: reading %s: %w", path, err)
			}
			out[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// WriteFilesAtomic writes files into dir all-or-nothing. Files are first
// written concurrently into a staging directory inside dir, then renamed
// into place. Any failure removes the staged files and restores files that
// were already replaced.
func WriteFilesAtomic(ctx context.Context, dir string, files []File, limit int) (err error) {
	seen := make(map[string]bool, len(files))
	for _, f := range files {
		if err := checkName(f.Name); err != nil {
			return err
		}
		if seen[f.Name] {
			return fmt.Errorf("fileutil: duplicate file name %s", f.Name)
		}
		seen[f.Name] = true
	}
	if err := os.MkdirAll(dir, DirMode); err != nil {
		return fmt.Errorf("fileutil: creating %s: %w", dir, err)
	}
	staging, err := os.MkdirTemp(dir, ".staging-*")
	if err != nil {
		return fmt.Errorf("fileutil: creating staging directory: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(staging); rmErr != nil && err == nil {
			err = fmt.Errorf("fileutil: removing staging directory: %w", rmErr)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limitOrDefault(limit))
	for _, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perm := f.Perm
			if perm == 0 {
				perm = OwnerReadWrite
			}
			if err := os.WriteFile(filepath.Join(staging, f.Name), f.Data, perm); err != nil {
				return fmt.Errorf("fileutil: staging %s: %w", f.Name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return commit(dir, staging, files)
}

type committed struct {
	target string
	backup string // empty when the target did not exist
}

func commit(dir, staging string, files []File) error {
	var done []committed
	for _, f := range files {
		target := filepath.Join(dir, f.Name)
		c := committed{target: target}
		if _, err := os.Lstat(target); err == nil {
			c.backup = filepath.Join(staging, ".backup-"+f.Name)
			if err := os.Rename(target, c.backup); err != nil {
				return errors.Join(fmt.Errorf("fileutil: replacing %s: %w", target, err), rollback(done))
			}
		}
		if err := os.Rename(filepath.Join(staging, f.Name), target); err != nil {
			if c.backup != "" {
				_ = os.Rename(c.backup, target)
			}
			return errors.Join(fmt.Errorf("fileutil: writing %s: %w", target, err), rollback(done))
		}
		done = append(done, c)
	}
	return nil
}

func rollback(done []committed) error {
	var errs []error
	for i := len(done) - 1; i >= 0; i-- {
		c := done[i]
		if err := os.Remove(c.target); err != nil {
			errs = append(errs, err)
			continue
		}
		if c.backup != "" {
			if err := os.Rename(c.backup, c.target); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func checkName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("fileutil: invalid file name %q", name)
	}
	return nil
}

// WriteFileAtomic writes data to path through a temporary file in the same
// directory and a rename, so readers never see a partial file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DirMode); err != nil {
		return fmt.Errorf("fileutil: creating %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("fileutil: creating temporary file: %w", err)
	}
	name := tmp.Name()
	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if err := errors.Join(werr, cerr); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("fileutil: writing %s: %w", path, err)
	}
	if err := os.Chmod(name, perm); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("fileutil: setting permissions on %s: %w", path, err)
	}
	if err := os.Rename(name, path); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("fileutil: writing %s: %w", path, err)
	}
	return nil
}
