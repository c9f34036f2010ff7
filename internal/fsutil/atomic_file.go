// Package fsutil provides crash-safe file writes for records and artifacts.
package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// AtomicFile is a file that only appears at its final path once Commit succeeds.
//
// Data is written to a temporary file in the destination directory. Commit flushes it,
// applies the permissions and renames it over the destination, so readers observe either
// the previous content or the complete new content. Discard removes the temporary file.
type AtomicFile struct {
	f         *os.File
	path      string
	perm      os.FileMode
	finalized bool
}

// CreateAtomic starts writing a file that will replace path on Commit.
func CreateAtomic(path string, perm os.FileMode) (*AtomicFile, error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	f, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file for %s: %w", path, err)
	}
	return &AtomicFile{f: f, path: path, perm: perm}, nil
}

// Write appends p to the temporary file.
func (a *AtomicFile) Write(p []byte) (int, error) {
	return a.f.Write(p)
}

// Name returns the temporary file path.
func (a *AtomicFile) Name() string {
	return a.f.Name()
}

// Path returns the destination path.
func (a *AtomicFile) Path() string {
	return a.path
}

// Commit syncs, closes, chmods and renames the temporary file onto the destination.
// On failure the temporary file is removed.
func (a *AtomicFile) Commit() error {
	if a.finalized {
		return errors.New("atomic file already finalized")
	}
	a.finalized = true

	tmp := a.f.Name()
	err := a.f.Sync()
	if closeErr := a.f.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmp, a.perm)
	}
	if err == nil {
		err = os.Rename(tmp, a.path)
	}
	if err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to commit %s: %w", a.path, err)
	}

	return SyncDir(filepath.Dir(a.path))
}

// Discard abandons the write. It is a no-op after Commit, so it can be deferred.
func (a *AtomicFile) Discard() {
	if a.finalized {
		return
	}
	a.finalized = true
	_ = a.f.Close()
	_ = os.Remove(a.f.Name())
}

// SyncDir flushes directory metadata so a completed rename survives a crash.
func SyncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("failed to open directory %s: %w", dir, err)
	}
	defer func() {
		_ = d.Close()
	}()
	if err := d.Sync(); err != nil {
		return fmt.Errorf("failed to sync directory %s: %w", dir, err)
	}
	return nil
}
