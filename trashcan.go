// Package trashcan implements a cross-platform "trash can" abstraction
// over the native facilities of freedesktop-compliant Unix systems, the
// Windows recycle bin, and the macOS Finder trash.
//
// Two capabilities are exposed: moving an absolute filesystem path into
// the platform's trash can, and enumerating, restoring or permanently
// erasing items already present there.
//
//	if err := trashcan.MoveToTrash("/home/user/old-report.txt"); err != nil {
//		log.Fatal(err)
//	}
//
//	can, err := trashcan.NewTrashcan()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer can.Close()
//	for item := range can.Items() {
//		fmt.Println(item.Name, item.OriginalPath)
//	}
//
// On freedesktop systems placement follows the Trash Can Specification:
// per-volume trash directories with sticky-bit checks and configurable
// fallbacks, collision-free naming under concurrent trashing, and
// .trashinfo metadata created atomically alongside the payload. Windows
// goes through the Shell COM interfaces; macOS supports placement only.
package trashcan

import (
	"iter"

	"github.com/FreeSlave/trashcan/internal/trash"
)

// Options controls freedesktop trash placement; see the field docs on the
// underlying type. Other platforms accept and ignore it.
type Options = trash.Options

// DefaultOptions returns the option set with all flags on.
func DefaultOptions() Options { return trash.DefaultOptions() }

// Item is a single entry in a trash can.
type Item = trash.Item

// Error kinds surfaced by the library. Match with errors.Is.
var (
	ErrNotAbsolute       = trash.ErrNotAbsolute
	ErrNotFound          = trash.ErrNotFound
	ErrAccessDenied      = trash.ErrAccessDenied
	ErrTopDirUnavailable = trash.ErrTopDirUnavailable
	ErrNotSupported      = trash.ErrNotSupported
	ErrCorruptInfo       = trash.ErrCorruptInfo
)

// IoError wraps an underlying syscall, COM or HRESULT failure together
// with its numeric code.
type IoError = trash.IoError

// MoveToTrash moves the file or directory at path into the trash can,
// using the default options. path must be absolute and exist.
func MoveToTrash(path string) error {
	return MoveToTrashWithOptions(path, DefaultOptions())
}

// Trashcan is a process-scoped handle on the platform trash can. It owns
// any backend session state (the COM apartment and bound shell folder on
// Windows); Close releases it. Items obtained from a Trashcan must not be
// used after it is closed.
type Trashcan struct {
	impl backend
}

// backend is what a platform implementation provides to the facade.
type backend interface {
	items() iter.Seq[*Item]
	restore(*Item) error
	erase(*Item) error
	displayName() string
	close() error
}

// NewTrashcan opens a handle using the default options.
func NewTrashcan() (*Trashcan, error) {
	return NewTrashcanWithOptions(DefaultOptions())
}

// NewTrashcanWithOptions opens a handle with explicit freedesktop options.
func NewTrashcanWithOptions(opts Options) (*Trashcan, error) {
	impl, err := openBackend(opts)
	if err != nil {
		return nil, err
	}
	return &Trashcan{impl: impl}, nil
}

// Items lazily enumerates every item in the trash can. Items are produced
// on demand; unreadable entries and trash roots are skipped rather than
// terminating the iteration.
func (t *Trashcan) Items() iter.Seq[*Item] {
	return t.impl.items()
}

// List collects all items into a slice.
func (t *Trashcan) List() []*Item {
	var items []*Item
	for item := range t.Items() {
		items = append(items, item)
	}
	return items
}

// Restore moves the item back to its original location. On freedesktop
// systems the parent directory is recreated when necessary; on Windows it
// must already exist.
func (t *Trashcan) Restore(item *Item) error {
	return t.impl.restore(item)
}

// Erase permanently deletes the item from the trash can. On freedesktop
// systems, erasing an item whose payload is already gone reports
// ErrNotFound; on Windows a failed shell operation surfaces as an IoError.
func (t *Trashcan) Erase(item *Item) error {
	return t.impl.erase(item)
}

// DisplayName returns a possibly localized human name for the trash can,
// or "" when the platform provides none. The result is cached.
func (t *Trashcan) DisplayName() string {
	return t.impl.displayName()
}

// Close releases the handle's backend state. Further use of the handle or
// of items obtained from it is invalid.
func (t *Trashcan) Close() error {
	return t.impl.close()
}
