//go:build windows

package trashcan

import (
	"iter"

	"github.com/FreeSlave/trashcan/internal/shell"
)

// MoveToTrashWithOptions sends path to the recycle bin. The freedesktop
// options have no meaning on Windows and are ignored.
func MoveToTrashWithOptions(path string, _ Options) error {
	return shell.MoveToTrash(path)
}

type windowsBackend struct {
	bin *shell.Bin
}

func openBackend(_ Options) (backend, error) {
	bin, err := shell.Open()
	if err != nil {
		return nil, err
	}
	return &windowsBackend{bin: bin}, nil
}

func (b *windowsBackend) items() iter.Seq[*Item] { return b.bin.Items() }

func (b *windowsBackend) restore(item *Item) error { return b.bin.Restore(item) }

func (b *windowsBackend) erase(item *Item) error { return b.bin.Erase(item) }

func (b *windowsBackend) displayName() string { return b.bin.DisplayName() }

func (b *windowsBackend) close() error { return b.bin.Close() }
