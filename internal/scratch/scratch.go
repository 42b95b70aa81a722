// Package scratch manages the per-request temporary files the extraction
// engine writes into. Each file lives alone in a fresh directory so removing
// the directory also removes any partial or intermediate files.
package scratch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"media-fetcher/internal/logging"
	"media-fetcher/internal/metrics"
)

// dirPattern is the os.MkdirTemp pattern for scratch directories.
const dirPattern = "media-fetcher-*"

// File is a scratch file owned by exactly one request.
type File struct {
	dir  string
	name string
	ext  string

	once sync.Once
}

// New creates a fresh directory under root (os.TempDir() when empty) and
// reserves a random file name with the given extension inside it. The file
// itself is not created.
func New(root, ext string) (*File, error) {
	if ext == "" {
		return nil, errors.New("scratch file extension is required")
	}

	dir, err := os.MkdirTemp(root, dirPattern)
	if err != nil {
		return nil, fmt.Errorf("creating scratch directory: %w", err)
	}

	return &File{
		dir:  dir,
		name: uuid.NewString(),
		ext:  ext,
	}, nil
}

// Dir returns the containing directory.
func (f *File) Dir() string {
	return f.dir
}

// Ext returns the file extension without the dot.
func (f *File) Ext() string {
	return f.ext
}

// Path returns the full path of the scratch file.
func (f *File) Path() string {
	return filepath.Join(f.dir, f.name+"."+f.ext)
}

// Template returns an engine output template that resolves to Path once the
// engine substitutes the final extension.
func (f *File) Template() string {
	return filepath.Join(f.dir, f.name+".%(ext)s")
}

// Resolve returns the path of the file the engine produced. It prefers Path
// and otherwise accepts a single finished file sharing the reserved name.
func (f *File) Resolve() (string, error) {
	if info, err := os.Stat(f.Path()); err == nil && info.Mode().IsRegular() {
		return f.Path(), nil
	}

	matches, err := filepath.Glob(filepath.Join(f.dir, f.name+".*"))
	if err != nil {
		return "", fmt.Errorf("searching scratch directory: %w", err)
	}

	var found []string
	for _, m := range matches {
		switch filepath.Ext(m) {
		case ".part", ".ytdl", ".temp", ".tmp":
			continue
		}
		if info, err := os.Stat(m); err == nil && info.Mode().IsRegular() {
			found = append(found, m)
		}
	}

	switch len(found) {
	case 0:
		return "", fmt.Errorf("engine produced no output file in %s: %w", f.dir, os.ErrNotExist)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("engine produced %d candidate output files in %s", len(found), f.dir)
	}
}

// Remove deletes the scratch directory and everything in it. It is safe to
// call more than once; failures are logged and counted, never returned.
func (f *File) Remove() {
	if f == nil {
		return
	}
	f.once.Do(func() {
		if err := os.RemoveAll(f.dir); err != nil {
			logging.Warn("Failed to remove scratch directory %s: %v", f.dir, err)
			metrics.ScratchCleanupErrorsTotal.Inc()
			return
		}
		logging.Debug("Removed scratch directory %s", f.dir)
	})
}
