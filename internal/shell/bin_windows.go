//go:build windows

package shell

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"math"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unsafe"

	"github.com/go-ole/go-ole"
	"golang.org/x/sys/windows"

	"github.com/FreeSlave/trashcan/internal/trash"
)

// Bin is a handle on the recycle bin special folder. It owns the COM
// apartment it initialized and every PIDL its enumeration handed out;
// both are released by Close. Items obtained from a Bin must not be used
// after the Bin is closed.
type Bin struct {
	desktop     *IShellFolder
	folder      *IShellFolder2
	binPidl     uintptr
	displayName string

	uninit bool

	mu    sync.Mutex
	items []*ItemID
	done  bool
}

// ItemID owns a child item identifier list returned by enumeration.
// It is freed exactly once through the shell task allocator.
type ItemID struct {
	pidl uintptr
	once sync.Once
}

// Free releases the identifier list. Safe to call more than once.
func (id *ItemID) Free() {
	id.once.Do(func() {
		coTaskMemFree(id.pidl)
		id.pidl = 0
	})
}

// Open initializes a single-threaded COM apartment, binds the desktop
// folder and the recycle bin special folder, and captures the bin's
// display name.
func Open() (*Bin, error) {
	b := &Bin{}

	err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED)
	switch {
	case err == nil:
		b.uninit = true
	case isAlreadyInitialized(err):
		// Another handle or the host app owns the apartment; leave its
		// lifetime alone.
	default:
		return nil, trash.NewOpError("open", "", err)
	}

	desktop, err := shGetDesktopFolder()
	if err != nil {
		b.teardown()
		return nil, trash.NewOpError("open", "", err)
	}
	b.desktop = desktop

	pidl, err := shGetSpecialFolderLocation(csidlBitbucket)
	if err != nil {
		b.teardown()
		return nil, trash.NewOpError("open", "", err)
	}
	b.binPidl = pidl

	folder, err := desktop.BindToObject(pidl, iidIShellFolder2)
	if err != nil {
		b.teardown()
		return nil, trash.NewOpError("open", "", err)
	}
	b.folder = folder

	if name, err := desktop.GetDisplayNameOf(pidl, shgdnNormal); err == nil {
		b.displayName = name
	}

	return b, nil
}

// DisplayName returns the recycle bin's display name as captured at
// construction time.
func (b *Bin) DisplayName() string {
	return b.displayName
}

// Close releases every outstanding item identifier, the bound folders and,
// when this handle initialized it, the COM apartment.
func (b *Bin) Close() error {
	b.mu.Lock()
	if b.done {
		b.mu.Unlock()
		return nil
	}
	b.done = true
	items := b.items
	b.items = nil
	b.mu.Unlock()

	for _, id := range items {
		id.Free()
	}
	b.teardown()
	return nil
}

func (b *Bin) teardown() {
	if b.folder != nil {
		b.folder.Release()
		b.folder = nil
	}
	if b.binPidl != 0 {
		coTaskMemFree(b.binPidl)
		b.binPidl = 0
	}
	if b.desktop != nil {
		b.desktop.Release()
		b.desktop = nil
	}
	if b.uninit {
		ole.CoUninitialize()
		b.uninit = false
	}
}

// MoveToTrash sends path to the recycle bin via SHFileOperationW with the
// undo-enabled silent flag set. The path list is double-NUL terminated.
func MoveToTrash(path string) error {
	if !filepath.IsAbs(path) {
		return trash.NewOpError("put", path, trash.ErrNotAbsolute)
	}

	buf, err := windows.UTF16FromString(path)
	if err != nil {
		return trash.NewOpError("put", path, err)
	}
	buf = append(buf, 0)

	op := shFileOpStructW{
		wFunc:  foDelete,
		pFrom:  &buf[0],
		fFlags: fofSilent | fofNoConfirmation | fofNoErrorUI | fofNoConfirmMkdir | fofAllowUndo,
	}
	ret, _, _ := procSHFileOperationW.Call(uintptr(unsafe.Pointer(&op)))
	if ret != 0 {
		return trash.NewOpError("put", path, &trash.IoError{Code: int64(ret)})
	}
	return nil
}

// Items lazily enumerates the recycle bin's children, folders and
// non-folders alike, hidden ones included. Each yielded item owns its
// PIDL; the Bin frees any not already freed when it closes.
func (b *Bin) Items() iter.Seq[*trash.Item] {
	return func(yield func(*trash.Item) bool) {
		enum, err := b.folder.EnumObjects(shcontfFolders | shcontfNonFolders | shcontfIncludeHidden)
		if err != nil || enum == nil {
			slog.Debug("recycle bin enumeration unavailable", "error", err)
			return
		}
		defer enum.Release()

		for {
			pidl, err := enum.Next()
			if err != nil || pidl == 0 {
				return
			}
			item := b.itemFromPidl(pidl)
			if item == nil {
				coTaskMemFree(pidl)
				continue
			}
			if !yield(item) {
				return
			}
		}
	}
}

func (b *Bin) itemFromPidl(pidl uintptr) *trash.Item {
	name, err := b.folder.GetDetailsOf(pidl, colName)
	if err != nil {
		return nil
	}

	// The name column drops the extension for registered types; the
	// extension column restores it when missing.
	if ext, err := b.folder.GetDetailsOf(pidl, colExtension); err == nil && ext != "" {
		if !strings.HasSuffix(strings.ToLower(name), strings.ToLower(ext)) {
			name += ext
		}
	}

	origDir, err := b.folder.GetDetailsOf(pidl, colOriginalLocation)
	if err != nil {
		return nil
	}

	var isDir bool
	if attrs, err := b.folder.GetAttributesOf(pidl, sfgaoFolder); err == nil {
		isDir = attrs&sfgaoFolder != 0
	}

	item := &trash.Item{
		Name:         name,
		OriginalPath: filepath.Join(origDir, name),
		DeletedAt:    b.deletionTime(pidl),
		IsDir:        isDir,
		Sys:          b.track(pidl),
	}
	return item
}

// deletionTime reads the date-deleted column and parses its locale
// string. The shell embeds directional marks in the text; U+200E and
// U+200F are stripped before the COM date routines see it.
func (b *Bin) deletionTime(pidl uintptr) (t time.Time) {
	value, err := b.folder.GetDetailsOf(pidl, colDateDeleted)
	if err != nil || value == "" {
		return
	}
	value = strings.Map(func(r rune) rune {
		if r == '\u200e' || r == '\u200f' {
			return -1
		}
		return r
	}, value)

	date, err := varDateFromString(value)
	if err != nil {
		return
	}
	parsed, err := ole.GetVariantDate(math.Float64bits(date))
	if err != nil {
		return
	}
	return parsed
}

func (b *Bin) track(pidl uintptr) *ItemID {
	id := &ItemID{pidl: pidl}
	b.mu.Lock()
	b.items = append(b.items, id)
	b.mu.Unlock()
	return id
}

// Restore moves the item back to its original parent directory through an
// IFileOperation.
func (b *Bin) Restore(item *trash.Item) error {
	id, err := b.itemID(item)
	if err != nil {
		return trash.NewOpError("restore", item.Name, err)
	}

	destDir := filepath.Dir(item.OriginalPath)
	dirPidl, err := ilCreateFromPath(destDir)
	if err != nil {
		return trash.NewOpError("restore", item.Name, err)
	}
	defer coTaskMemFree(dirPidl)

	destFolder, err := shCreateItemFromIDList(dirPidl)
	if err != nil {
		return trash.NewOpError("restore", item.Name, err)
	}
	defer destFolder.Release()

	src, err := b.shellItemFor(id)
	if err != nil {
		return trash.NewOpError("restore", item.Name, err)
	}
	defer src.Release()

	return b.performOperation("restore", item.Name, func(op *IFileOperation) error {
		return op.MoveItem(src, destFolder)
	})
}

// Erase permanently deletes the item from the recycle bin.
func (b *Bin) Erase(item *trash.Item) error {
	id, err := b.itemID(item)
	if err != nil {
		return trash.NewOpError("erase", item.Name, err)
	}

	src, err := b.shellItemFor(id)
	if err != nil {
		return trash.NewOpError("erase", item.Name, err)
	}
	defer src.Release()

	return b.performOperation("erase", item.Name, func(op *IFileOperation) error {
		return op.DeleteItem(src)
	})
}

func (b *Bin) performOperation(opName, name string, apply func(*IFileOperation) error) error {
	unk, err := ole.CreateInstance(clsidFileOperation, iidIFileOperation)
	if err != nil {
		return trash.NewOpError(opName, name, err)
	}
	op := (*IFileOperation)(unsafe.Pointer(unk))
	defer op.Release()

	if err := op.SetOperationFlags(fofNoConfirmation | fofNoErrorUI | fofSilent); err != nil {
		return trash.NewOpError(opName, name, err)
	}
	if err := apply(op); err != nil {
		return trash.NewOpError(opName, name, err)
	}
	if err := op.PerformOperations(); err != nil {
		return trash.NewOpError(opName, name, err)
	}
	return nil
}

// shellItemFor builds an IShellItem for a recycle bin child by combining
// the bin's PIDL with the child PIDL.
func (b *Bin) shellItemFor(id *ItemID) (*IShellItem, error) {
	full := ilCombine(b.binPidl, id.pidl)
	if full == 0 {
		return nil, errors.New("ILCombine failed")
	}
	defer coTaskMemFree(full)
	return shCreateItemFromIDList(full)
}

func (b *Bin) itemID(item *trash.Item) (*ItemID, error) {
	id, ok := item.Sys.(*ItemID)
	if !ok || id == nil || id.pidl == 0 {
		return nil, fmt.Errorf("%w: item has no shell identifier", trash.ErrNotFound)
	}
	b.mu.Lock()
	closed := b.done
	b.mu.Unlock()
	if closed {
		return nil, errors.New("trash can handle is closed")
	}
	return id, nil
}

func isAlreadyInitialized(err error) bool {
	var oleErr *ole.OleError
	if !errors.As(err, &oleErr) {
		return false
	}
	// S_FALSE: apartment already initialized on this thread.
	// RPC_E_CHANGED_MODE: initialized with a different model.
	return oleErr.Code() == 1 || oleErr.Code() == 0x80010106
}

// hresultErr maps a failed HRESULT to an IoError carrying the code.
func hresultErr(op string, hr uintptr) error {
	if int32(hr) >= 0 {
		return nil
	}
	return &trash.IoError{Code: int64(int32(hr)), Err: errors.New(op + " failed")}
}
