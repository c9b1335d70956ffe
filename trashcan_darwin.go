//go:build darwin

package trashcan

import (
	"github.com/FreeSlave/trashcan/internal/darwin"
	"github.com/FreeSlave/trashcan/internal/trash"
)

// MoveToTrashWithOptions moves path to the Finder trash. The freedesktop
// options have no meaning on macOS and are ignored.
func MoveToTrashWithOptions(path string, _ Options) error {
	return darwin.MoveToTrash(path)
}

// The macOS backend implements placement only; the trash contents belong
// to Finder.
func openBackend(_ Options) (backend, error) {
	return nil, trash.ErrNotSupported
}
