package scratch

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"media-fetcher/internal/logging"
	"media-fetcher/internal/metrics"
)

// Space is the set of scratch directories under one root.
type Space struct {
	root string
}

// NewSpace returns the scratch space under root (os.TempDir() when empty).
func NewSpace(root string) Space {
	if root == "" {
		root = os.TempDir()
	}
	return Space{root: root}
}

// Root returns the directory scratch directories are created in.
func (s Space) Root() string {
	return s.root
}

func (s Space) dirs() ([]string, error) {
	return filepath.Glob(filepath.Join(s.root, dirPattern))
}

// ScratchStats counts the scratch directories on disk and the bytes in them.
// Directories removed while walking are skipped.
func (s Space) ScratchStats() (metrics.Stats, error) {
	dirs, err := s.dirs()
	if err != nil {
		return metrics.Stats{}, err
	}

	var stats metrics.Stats
	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return nil
				}
				return err
			}
			if d.Type().IsRegular() {
				if info, err := d.Info(); err == nil {
					stats.Bytes += info.Size()
				}
			}
			return nil
		})
		if err != nil {
			return metrics.Stats{}, err
		}
		stats.Directories++
	}
	return stats, nil
}

// Sweep removes scratch directories last modified before now minus olderThan.
// It is meant for leftovers of a previous process and returns how many were
// removed.
func (s Space) Sweep(olderThan time.Duration) (int, error) {
	dirs, err := s.dirs()
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-olderThan)
	removed := 0
	var errs []error
	for _, dir := range dirs {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			metrics.ScratchCleanupErrorsTotal.Inc()
			errs = append(errs, err)
			continue
		}
		removed++
	}

	if removed > 0 {
		logging.Info("Removed %d stale scratch directories from %s", removed, s.root)
	}
	return removed, errors.Join(errs...)
}
