// Package fs provides the low-level file primitives the trash backends
// build on.
package fs

import (
	"fmt"
	"os"
	"path/filepath"

	cp "github.com/otiai10/copy"
)

// CreateExclusive creates a new file with O_EXCL to ensure atomic creation.
// Returns an error satisfying os.IsExist if the file already exists.
func CreateExclusive(path string, perm os.FileMode) (*os.File, error) {
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
}

// Move moves a file or directory from src to dst. When the rename fails
// because src and dst live on different filesystems and fallbackCopy is
// true, it falls back to copy and delete, preserving times and symlinks.
func Move(src, dst string, fallbackCopy bool) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !fallbackCopy || !isCrossDevice(err) {
		return err
	}

	opts := cp.Options{
		OnSymlink:     func(string) cp.SymlinkAction { return cp.Shallow },
		PreserveTimes: true,
	}
	if err := cp.Copy(src, dst, opts); err != nil {
		_ = os.RemoveAll(dst)
		return fmt.Errorf("failed to copy across devices: %w", err)
	}
	if err := os.RemoveAll(src); err != nil {
		return fmt.Errorf("failed to remove source after copy: %w", err)
	}
	return nil
}

// EnsureDir creates dir and any missing parents with the given mode.
func EnsureDir(dir string, perm os.FileMode) error {
	return os.MkdirAll(dir, perm)
}

// EnsureParent creates the parent directory of path.
func EnsureParent(path string, perm os.FileMode) error {
	return os.MkdirAll(filepath.Dir(path), perm)
}
