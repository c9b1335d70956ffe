//go:build !linux && !freebsd && !openbsd && !netbsd && !windows && !darwin

package trashcan

import "github.com/FreeSlave/trashcan/internal/trash"

func MoveToTrashWithOptions(path string, _ Options) error {
	return trash.NewOpError("put", path, trash.ErrNotSupported)
}

func openBackend(_ Options) (backend, error) {
	return nil, trash.ErrNotSupported
}
