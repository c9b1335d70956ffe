//go:build linux || freebsd || openbsd || netbsd

package xdg

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/FreeSlave/trashcan/internal/env"
	"github.com/FreeSlave/trashcan/internal/fs"
	"github.com/FreeSlave/trashcan/internal/trash"
)

// Storage places files into, and reads files back out of, the trash
// directories the current user can reach. It holds no mutable state and
// is safe for concurrent use.
type Storage struct {
	opts trash.Options

	// dataHome is the absolute XDG data home; the home trash lives at
	// dataHome/Trash.
	dataHome string

	uid int
}

// NewStorage resolves the data home directory and returns a storage bound
// to the given options. Failing to resolve the data home is fatal.
func NewStorage(opts trash.Options) (*Storage, error) {
	dataHome, err := env.DataHome()
	if err != nil {
		return nil, trash.NewOpError("init", "", err)
	}
	return &Storage{opts: opts, dataHome: dataHome, uid: os.Getuid()}, nil
}

// HomeTrashDir returns the home trash base directory.
func (s *Storage) HomeTrashDir() string {
	return filepath.Join(s.dataHome, "Trash")
}

// Put moves the file or directory at path into a trash can chosen
// according to the storage options. path must be absolute and exist.
func (s *Storage) Put(path string) error {
	if !filepath.IsAbs(path) {
		return trash.NewOpError("put", path, trash.ErrNotAbsolute)
	}
	if _, err := os.Lstat(path); err != nil {
		if os.IsNotExist(err) {
			return trash.NewOpError("put", path, trash.ErrNotFound)
		}
		return trash.NewOpError("put", path, wrapSyscall(err))
	}

	base, volumeRoot, usingTopdir, err := s.selectTrashDir(path)
	if err != nil {
		return trash.NewOpError("put", path, err)
	}
	slog.Debug("selected trash directory", "base", base, "topdir", usingTopdir)

	infoDir := filepath.Join(base, "info")
	filesDir := filepath.Join(base, "files")
	for _, dir := range []string{infoDir, filesDir} {
		if err := fs.EnsureDir(dir, 0700); err != nil {
			return trash.NewOpError("put", path, accessOr(err))
		}
	}

	// Per-volume items record the path relative to the volume root so the
	// trash stays meaningful if the volume is remounted elsewhere.
	recorded := path
	if usingTopdir {
		rel, err := filepath.Rel(volumeRoot, path)
		if err != nil {
			return trash.NewOpError("put", path, err)
		}
		recorded = rel
	}

	info := &Info{
		Path:         recorded,
		DeletionDate: time.Now().Truncate(time.Second),
	}
	body := info.Marshal()

	leaf, infoFile, err := s.claimName(infoDir, filesDir, filepath.Base(path))
	if err != nil {
		return trash.NewOpError("put", path, err)
	}
	infoPath := filepath.Join(infoDir, infoNameFor(leaf))

	if err := writeAll(infoFile, body); err != nil {
		_ = infoFile.Close()
		_ = os.Remove(infoPath)
		return trash.NewOpError("put", path, err)
	}
	if err := infoFile.Close(); err != nil {
		_ = os.Remove(infoPath)
		return trash.NewOpError("put", path, err)
	}

	target := filepath.Join(filesDir, leaf)
	if err := fs.Move(path, target, true); err != nil {
		// Do not leak a half-created info file to the next enumeration.
		_ = os.Remove(infoPath)
		return trash.NewOpError("put", path, wrapSyscall(err))
	}

	slog.Debug("trashed", "path", path, "as", leaf, "base", base)
	return nil
}

// claimName finds a leaf name free on both the info and files side and
// claims it by creating the info file exclusively. The exclusive create
// is the linearization point between concurrent trashers: whoever creates
// info/<leaf>.trashinfo owns that leaf.
func (s *Storage) claimName(infoDir, filesDir, base string) (string, *os.File, error) {
	leaf := base
	for n := 1; ; n++ {
		if _, err := os.Lstat(filepath.Join(filesDir, leaf)); err == nil {
			// Payload left behind by an earlier failed rename, or another
			// trasher mid-flight. Try the next name.
			leaf = numberedName(base, n)
			continue
		}

		f, err := fs.CreateExclusive(filepath.Join(infoDir, infoNameFor(leaf)), 0666)
		if err == nil {
			return leaf, f, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", nil, accessOr(err)
		}
		leaf = numberedName(base, n)
	}
}

// selectTrashDir picks the base directory for a new item. It returns the
// base, the volume root the recorded path should be relative to, and
// whether a per-volume trash was selected.
func (s *Storage) selectTrashDir(path string) (base, volumeRoot string, usingTopdir bool, err error) {
	home := s.HomeTrashDir()

	if !s.opts.UseTopDirs {
		return home, "", false, nil
	}

	fileTopDir, err := TopDir(path)
	if err != nil {
		return "", "", false, wrapSyscall(err)
	}
	// The data home may not exist yet; its volume is that of its nearest
	// existing ancestor.
	dataTopDir, err := topDirOfNearestExisting(s.dataHome)
	if err != nil {
		return "", "", false, wrapSyscall(err)
	}

	if fileTopDir == dataTopDir {
		return home, "", false, nil
	}

	base, topErr := s.adminTrashDir(fileTopDir)
	if topErr == nil {
		return base, fileTopDir, true, nil
	}
	slog.Debug("admin trash rejected", "topdir", fileTopDir, "error", topErr)

	if s.opts.FallbackToUserDir {
		base, userErr := s.userTrashDir(fileTopDir)
		if userErr == nil {
			return base, fileTopDir, true, nil
		}
		slog.Debug("user trash rejected", "topdir", fileTopDir, "error", userErr)
		topErr = userErr
	}

	if !s.opts.FallbackToHomeDir {
		return "", "", false, topErr
	}
	return home, "", false, nil
}

// adminTrashDir validates $topdir/.Trash per the specification and, on
// success, ensures the per-user subdirectory exists. The .Trash directory
// must exist, must not be a symbolic link, must be a directory and, when
// sticky-bit checking is on, must have the sticky bit set.
func (s *Storage) adminTrashDir(topdir string) (string, error) {
	adminDir := filepath.Join(topdir, ".Trash")
	fi, err := os.Lstat(adminDir)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", trash.ErrTopDirUnavailable, adminDir, err)
	}
	if fi.Mode()&os.ModeSymlink != 0 {
		return "", fmt.Errorf("%w: %s is a symbolic link", trash.ErrTopDirUnavailable, adminDir)
	}
	if !fi.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", trash.ErrTopDirUnavailable, adminDir)
	}
	if s.opts.CheckStickyBit && fi.Mode()&os.ModeSticky == 0 {
		return "", fmt.Errorf("%w: %s lacks the sticky bit", trash.ErrTopDirUnavailable, adminDir)
	}

	uidDir := filepath.Join(adminDir, strconv.Itoa(s.uid))
	if err := fs.EnsureDir(uidDir, 0700); err != nil {
		return "", fmt.Errorf("%w: %s: %v", trash.ErrTopDirUnavailable, uidDir, err)
	}
	return uidDir, nil
}

func topDirOfNearestExisting(path string) (string, error) {
	for p := path; ; {
		top, err := TopDir(p)
		if err == nil {
			return top, nil
		}
		parent := filepath.Dir(p)
		if parent == p {
			return "", err
		}
		p = parent
	}
}

// userTrashDir ensures the user-private $topdir/.Trash-$uid exists.
func (s *Storage) userTrashDir(topdir string) (string, error) {
	dir := filepath.Join(topdir, ".Trash-"+strconv.Itoa(s.uid))
	if err := fs.EnsureDir(dir, 0700); err != nil {
		return "", fmt.Errorf("%w: %s: %v", trash.ErrTopDirUnavailable, dir, err)
	}
	return dir, nil
}

// writeAll writes the whole body to w; a short write is an error.
func writeAll(w io.Writer, body string) error {
	n, err := io.WriteString(w, body)
	if err != nil {
		return err
	}
	if n != len(body) {
		return io.ErrShortWrite
	}
	return nil
}

// accessOr maps permission failures to ErrAccessDenied and leaves other
// errors to wrapSyscall.
func accessOr(err error) error {
	if os.IsPermission(err) {
		return fmt.Errorf("%w: %v", trash.ErrAccessDenied, err)
	}
	return wrapSyscall(err)
}
