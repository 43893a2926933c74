// Package storage is the file store the importer works against: listing
// the import folder and relocating page images into a process's master
// image directory.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// Store defines the file operations the import pipeline needs. The local
// filesystem implementation below is the default; tests may substitute
// their own.
type Store interface {
	// List returns the full paths of the regular files in dir, sorted by
	// name. Directory order on disk is not guaranteed, so the sort keeps
	// discovery deterministic.
	List(dir string) ([]string, error)

	// CopyFile copies src to dst, creating dst's directory if needed.
	CopyFile(src, dst string) error

	// Move moves src to dst, creating dst's directory if needed.
	Move(src, dst string) error

	// CreateDirectories creates dir and any missing parents.
	CreateDirectories(dir string) error
}

// Local is the filesystem-backed Store.
type Local struct{}

// NewLocal returns a filesystem-backed store.
func NewLocal() *Local {
	return &Local{}
}

func (l *Local) List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)

	return files, nil
}

func (l *Local) CreateDirectories(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

func (l *Local) CopyFile(src, dst string) error {
	if err := l.CreateDirectories(filepath.Dir(dst)); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", dst, err)
	}

	return nil
}

func (l *Local) Move(src, dst string) error {
	if err := l.CreateDirectories(filepath.Dir(dst)); err != nil {
		return err
	}

	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	// Rename fails across filesystems; fall back to copy + remove.
	if err := l.CopyFile(src, dst); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("failed to remove %s after copy: %w", src, err)
	}

	return nil
}
