//go:build linux || freebsd || openbsd || netbsd

package xdg

import (
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/FreeSlave/trashcan/internal/trash"
)

// Root is one reachable trash directory: a base holding info/ and files/,
// plus the volume root that relative Path= values resolve against.
type Root struct {
	// Base is the trash directory itself.
	Base string

	// VolumeRoot is the mount point of the volume holding this trash.
	VolumeRoot string

	// Home marks the home trash.
	Home bool
}

// Roots discovers every trash directory readable by the current user:
// the home trash plus, for every other mounted volume, the
// administrator-provided .Trash/$uid and the user-private .Trash-$uid.
// Probes that fail are skipped silently.
func (s *Storage) Roots() []Root {
	var roots []Root

	var homeVolume string
	home := s.HomeTrashDir()
	if filepath.IsAbs(home) {
		if fi, err := os.Lstat(home); err == nil && fi.IsDir() {
			if vol, err := TopDir(home); err == nil {
				homeVolume = vol
			}
			roots = append(roots, Root{Base: home, VolumeRoot: homeVolume, Home: true})
		}
	}

	volumes, err := MountedVolumes()
	if err != nil {
		slog.Debug("mount table unavailable", "error", err)
		return roots
	}

	uid := strconv.Itoa(s.uid)
	for _, volume := range volumes {
		if volume == homeVolume {
			continue
		}

		adminDir := filepath.Join(volume, ".Trash")
		if s.checkAdminDir(adminDir) {
			uidDir := filepath.Join(adminDir, uid)
			if fi, err := os.Lstat(uidDir); err == nil && fi.IsDir() {
				roots = append(roots, Root{Base: uidDir, VolumeRoot: volume})
			}
		}

		userDir := filepath.Join(volume, ".Trash-"+uid)
		if fi, err := os.Lstat(userDir); err == nil && fi.IsDir() {
			roots = append(roots, Root{Base: userDir, VolumeRoot: volume})
		}
	}

	return roots
}

// checkAdminDir applies the same link/dir/sticky checks as placement.
func (s *Storage) checkAdminDir(adminDir string) bool {
	fi, err := os.Lstat(adminDir)
	if err != nil || !fi.IsDir() || fi.Mode()&os.ModeSymlink != 0 {
		return false
	}
	if s.opts.CheckStickyBit && fi.Mode()&os.ModeSticky == 0 {
		return false
	}
	return true
}

// Items lazily yields every item across all trash roots. Per-entry read
// errors drop the entry; roots that cannot be listed yield nothing. Info
// files whose payload is missing are treated as not-yet items and skipped.
func (s *Storage) Items() iter.Seq[*trash.Item] {
	return func(yield func(*trash.Item) bool) {
		for _, root := range s.Roots() {
			infoDir := filepath.Join(root.Base, "info")
			entries, err := os.ReadDir(infoDir)
			if err != nil {
				slog.Debug("cannot list trash root", "dir", infoDir, "error", err)
				continue
			}
			for _, entry := range entries {
				item := s.itemFromEntry(root, entry.Name())
				if item == nil {
					continue
				}
				if !yield(item) {
					return
				}
			}
		}
	}
}

// itemFromEntry reconstructs an item from one info/ directory entry, or
// returns nil when the entry does not describe a live item.
func (s *Storage) itemFromEntry(root Root, infoName string) *trash.Item {
	leaf := payloadNameFor(infoName)
	if leaf == "" {
		return nil
	}

	trashPath := filepath.Join(root.Base, "files", leaf)
	fi, err := os.Lstat(trashPath)
	if err != nil {
		// A writer may have claimed the name but not moved the payload yet.
		return nil
	}

	infoPath := infoPathFor(trashPath)
	f, err := os.Open(infoPath)
	if err != nil {
		return nil
	}
	info, err := ParseInfo(f)
	_ = f.Close()
	if err != nil {
		slog.Debug("skipping corrupt trashinfo", "path", infoPath, "error", err)
		return nil
	}

	original := info.Path
	if !strings.HasPrefix(original, "/") {
		original = filepath.Join(root.VolumeRoot, original)
	}

	return &trash.Item{
		Name:         leaf,
		OriginalPath: original,
		TrashPath:    trashPath,
		InfoPath:     infoPath,
		DeletedAt:    info.DeletionDate,
		Size:         fi.Size(),
		IsDir:        fi.IsDir(),
		FileMode:     fi.Mode(),
	}
}
