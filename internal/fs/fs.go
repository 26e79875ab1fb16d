// Package fs adapts the operating system to the outline service ports.
package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Dir implements the outline.FileSystem port over one flat directory.
// Every method maps to a single syscall-equivalent step and honors
// context cancellation before touching the disk.
type Dir struct {
	Root string
}

func (d *Dir) path(name string) string {
	return filepath.Join(d.Root, name)
}

// List returns the names of the .md files directly inside the
// directory. Subdirectories are never descended into.
func (d *Dir) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(d.Root)
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", d.Root)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".md") {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Read returns the full content of a file.
func (d *Dir) Read(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(d.path(name))
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", name)
	}
	return string(data), nil
}

// Write creates or replaces a file. The content lands in a temporary
// file first and is moved into place with a rename, so readers never
// observe a half-written node file.
func (d *Dir) Write(ctx context.Context, name, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(d.Root, ".lmk-write-*")
	if err != nil {
		return errors.Wrapf(err, "staging %s", name)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrapf(err, "staging %s", name)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "staging %s", name)
	}
	if err := os.Rename(tmpName, d.path(name)); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "writing %s", name)
	}
	return nil
}

// Rename moves a file within the directory.
func (d *Dir) Rename(ctx context.Context, oldName, newName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Rename(d.path(oldName), d.path(newName)); err != nil {
		return errors.Wrapf(err, "renaming %s to %s", oldName, newName)
	}
	return nil
}

// Delete unlinks a file.
func (d *Dir) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(d.path(name)); err != nil {
		return errors.Wrapf(err, "deleting %s", name)
	}
	return nil
}

// Exists reports whether a file is present.
func (d *Dir) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := os.Stat(d.path(name))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Wrapf(err, "checking %s", name)
}

// Size returns the byte size of a file, for display purposes.
func (d *Dir) Size(ctx context.Context, name string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	info, err := os.Stat(d.path(name))
	if err != nil {
		return 0, errors.Wrapf(err, "checking %s", name)
	}
	return info.Size(), nil
}

// MarkerDir is the per-project directory holding the lock file and the
// optional config.
const MarkerDir = ".linemark"

// FindProjectRoot walks up from dir looking for a .linemark directory
// and returns the directory containing it.
func FindProjectRoot(dir string) (string, error) {
	for {
		info, err := os.Stat(filepath.Join(dir, MarkerDir))
		if err == nil && info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.Errorf("no %s directory found above %s", MarkerDir, dir)
		}
		dir = parent
	}
}

// InitProject creates the .linemark marker directory under dir.
func InitProject(dir string) error {
	if err := os.MkdirAll(filepath.Join(dir, MarkerDir), 0o755); err != nil {
		return errors.Wrapf(err, "initializing %s", dir)
	}
	return nil
}
