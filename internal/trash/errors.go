package trash

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by trash operations.
var (
	// ErrNotAbsolute is returned when a source path is not absolute.
	ErrNotAbsolute = errors.New("path is not absolute")

	// ErrNotFound is returned when a source path or trashed item does not exist.
	ErrNotFound = errors.New("no such file or directory")

	// ErrAccessDenied is returned when a required directory or file cannot
	// be created or written.
	ErrAccessDenied = errors.New("access denied")

	// ErrTopDirUnavailable is returned when a volume's .Trash directory
	// fails the specification checks and no fallback is allowed.
	ErrTopDirUnavailable = errors.New("volume trash directory is unusable")

	// ErrNotSupported is returned on platforms without a trash implementation.
	ErrNotSupported = errors.New("trash can is not supported on this platform")

	// ErrCorruptInfo is returned when a .trashinfo file is unreadable or
	// lacks a mandatory Path entry.
	ErrCorruptInfo = errors.New("corrupt trashinfo file")
)

// OpError wraps an error with the operation and path that produced it.
type OpError struct {
	// Op is the operation that failed ("put", "restore", "erase", "open", "init").
	Op string

	// Path is the path involved, if any.
	Path string

	// Err is the underlying error.
	Err error
}

func (e *OpError) Error() string {
	if e.Path == "" {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() error { return e.Err }

// NewOpError creates a new OpError.
func NewOpError(op, path string, err error) error {
	return &OpError{Op: op, Path: path, Err: err}
}

// IoError carries the numeric code of an underlying syscall or COM failure.
type IoError struct {
	// Code is the platform error number (errno on Unix, HRESULT or the
	// SHFileOperation result on Windows).
	Code int64

	// Err is the underlying error.
	Err error
}

func (e *IoError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("i/o error (code %d): %v", e.Code, e.Err)
	}
	return fmt.Sprintf("i/o error (code %d)", e.Code)
}

func (e *IoError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsAccessDenied reports whether err is ErrAccessDenied.
func IsAccessDenied(err error) bool { return errors.Is(err, ErrAccessDenied) }

// IsTopDirUnavailable reports whether err is ErrTopDirUnavailable.
func IsTopDirUnavailable(err error) bool { return errors.Is(err, ErrTopDirUnavailable) }

// IsCorruptInfo reports whether err is ErrCorruptInfo.
func IsCorruptInfo(err error) bool { return errors.Is(err, ErrCorruptInfo) }
