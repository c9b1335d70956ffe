//go:build linux || freebsd || openbsd || netbsd

package trashcan

import (
	"iter"

	"github.com/FreeSlave/trashcan/internal/xdg"
)

// MoveToTrashWithOptions moves path into a trash directory selected per
// the freedesktop Trash Can Specification and the given options.
func MoveToTrashWithOptions(path string, opts Options) error {
	storage, err := xdg.NewStorage(opts)
	if err != nil {
		return err
	}
	return storage.Put(path)
}

type freedesktopBackend struct {
	storage *xdg.Storage
}

func openBackend(opts Options) (backend, error) {
	storage, err := xdg.NewStorage(opts)
	if err != nil {
		return nil, err
	}
	return &freedesktopBackend{storage: storage}, nil
}

func (b *freedesktopBackend) items() iter.Seq[*Item] { return b.storage.Items() }

func (b *freedesktopBackend) restore(item *Item) error { return xdg.Restore(item) }

func (b *freedesktopBackend) erase(item *Item) error { return xdg.Erase(item) }

func (b *freedesktopBackend) displayName() string { return xdg.DisplayName() }

func (b *freedesktopBackend) close() error { return nil }
