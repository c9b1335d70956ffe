package cli

import (
	"path/filepath"
	"strings"
)

// isUnsafePath reports whether the given path should never be trashed.
func isUnsafePath(path string) (bool, error) {
	// Check the original input before any normalization so "." and ".."
	// are caught as typed.
	originalBase := filepath.Base(path)
	if originalBase == "." || originalBase == ".." {
		return true, nil
	}

	cleaned := filepath.Clean(path)
	if cleaned == "/" {
		return true, nil
	}

	if strings.HasPrefix(path, "//") {
		return true, nil
	}

	return false, nil
}
