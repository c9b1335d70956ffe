//go:build linux || freebsd || openbsd || netbsd

package xdg

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/FreeSlave/trashcan/internal/fs"
	"github.com/FreeSlave/trashcan/internal/trash"
)

// Restore moves the item back to its original location. The parent
// directory is recreated first so restoration works even when the
// original tree is gone. The companion info file is removed best-effort;
// a failure there is logged, never raised.
func Restore(item *trash.Item) error {
	if item.OriginalPath == "" || item.TrashPath == "" {
		return trash.NewOpError("restore", item.Name, trash.ErrCorruptInfo)
	}

	if err := fs.EnsureParent(item.OriginalPath, 0755); err != nil {
		return trash.NewOpError("restore", item.OriginalPath, accessOr(err))
	}

	if err := fs.Move(item.TrashPath, item.OriginalPath, true); err != nil {
		if os.IsNotExist(err) {
			return trash.NewOpError("restore", item.TrashPath, trash.ErrNotFound)
		}
		return trash.NewOpError("restore", item.TrashPath, wrapSyscall(err))
	}

	removeInfoFile(item)
	return nil
}

// Erase permanently deletes the item's payload: directories recursively,
// anything else unlinked. Erasing an already-gone payload reports
// ErrNotFound rather than succeeding silently.
func Erase(item *trash.Item) error {
	if item.TrashPath == "" {
		return trash.NewOpError("erase", item.Name, trash.ErrCorruptInfo)
	}

	fi, err := os.Lstat(item.TrashPath)
	if err != nil {
		if os.IsNotExist(err) {
			return trash.NewOpError("erase", item.TrashPath, trash.ErrNotFound)
		}
		return trash.NewOpError("erase", item.TrashPath, wrapSyscall(err))
	}

	if fi.IsDir() {
		err = os.RemoveAll(item.TrashPath)
	} else {
		err = os.Remove(item.TrashPath)
	}
	if err != nil {
		return trash.NewOpError("erase", item.TrashPath, wrapSyscall(err))
	}

	removeInfoFile(item)
	return nil
}

func removeInfoFile(item *trash.Item) {
	if item.InfoPath == "" {
		return
	}
	if err := os.Remove(item.InfoPath); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove trashinfo", "path", item.InfoPath, "error", err)
	}
}

// infoPathFor derives the info file location from a payload path inside a
// trash root, i.e. base/files/<leaf> -> base/info/<leaf>.trashinfo.
func infoPathFor(trashPath string) string {
	base := filepath.Dir(filepath.Dir(trashPath))
	return filepath.Join(base, "info", infoNameFor(filepath.Base(trashPath)))
}
