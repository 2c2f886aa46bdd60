// Package fileutil writes output files so that readers never observe a
// partially written file.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// Indirections for tests that simulate filesystem failures.
var (
	osRename       = os.Rename
	tempFileWrite  = func(f *os.File, data []byte) (int, error) { return f.Write(data) }
	tempFileSync   = func(f *os.File) error { return f.Sync() }
	tempFileClose  = func(f *os.File) error { return f.Close() }
	defaultDirPerm = os.FileMode(0755)
)

// WriteFileAtomic writes data to a temp file in path's directory, syncs it to
// disk and renames it over path. On failure path is left untouched and the temp file removed.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, defaultDirPerm); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tempFileWrite(tmp, data); err != nil {
		tempFileClose(tmp)
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tempFileSync(tmp); err != nil {
		tempFileClose(tmp)
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}
	if err := tempFileClose(tmp); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := osRename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename into place: %w", err)
	}
	return nil
}
