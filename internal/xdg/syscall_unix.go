//go:build linux || freebsd || openbsd || netbsd

package xdg

import (
	"errors"
	"syscall"

	"github.com/FreeSlave/trashcan/internal/trash"
)

// wrapSyscall attaches the errno to syscall failures so callers can get
// at the numeric code; other errors pass through unchanged.
func wrapSyscall(err error) error {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return &trash.IoError{Code: int64(errno), Err: err}
	}
	return err
}
