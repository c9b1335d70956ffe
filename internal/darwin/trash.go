//go:build darwin

// Package darwin moves files to the Finder trash. It only implements
// placement; enumeration on macOS goes through Finder itself.
package darwin

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/FreeSlave/trashcan/internal/trash"
)

const script = `
on run argv
  tell application "Finder"
    repeat with f in argv
      move (f as POSIX file) to trash
    end repeat
  end tell
end run
`

// MoveToTrash asks Finder to move path to the trash.
func MoveToTrash(path string) error {
	if !filepath.IsAbs(path) {
		return trash.NewOpError("put", path, trash.ErrNotAbsolute)
	}
	if _, err := os.Lstat(path); err != nil {
		if os.IsNotExist(err) {
			return trash.NewOpError("put", path, trash.ErrNotFound)
		}
		return trash.NewOpError("put", path, err)
	}

	bin, err := exec.LookPath("osascript")
	if err != nil {
		return trash.NewOpError("put", path, trash.ErrNotSupported)
	}

	cmd := exec.Command(bin, "-e", script, path)
	if out, err := cmd.CombinedOutput(); err != nil {
		return trash.NewOpError("put", path, fmt.Errorf("osascript: %w: %s", err, out))
	}
	return nil
}
