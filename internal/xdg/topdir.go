//go:build linux || freebsd || openbsd || netbsd

package xdg

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/moby/sys/mountinfo"
	"golang.org/x/sys/unix"
)

// Filesystems that cannot carry trash directories.
var skipFSTypes = map[string]bool{
	"proc":        true,
	"sysfs":       true,
	"devtmpfs":    true,
	"devpts":      true,
	"tmpfs":       true,
	"cgroup":      true,
	"cgroup2":     true,
	"pstore":      true,
	"securityfs":  true,
	"debugfs":     true,
	"configfs":    true,
	"fusectl":     true,
	"bpf":         true,
	"nsfs":        true,
	"efivarfs":    true,
	"hugetlbfs":   true,
	"mqueue":      true,
	"binfmt_misc": true,
}

// TopDir returns the mount point of the filesystem containing path.
// It walks up the directory tree comparing lstat device numbers; the
// child directory where the device changes is the mount point. The walk
// terminates at the filesystem root, which is always a valid answer.
func TopDir(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	var st unix.Stat_t
	if err := unix.Lstat(abs, &st); err != nil {
		return "", &os.PathError{Op: "lstat", Path: abs, Err: err}
	}
	dev := st.Dev

	dir := abs
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached "/".
			return dir, nil
		}
		var pst unix.Stat_t
		if err := unix.Lstat(parent, &pst); err != nil {
			return "", &os.PathError{Op: "lstat", Path: parent, Err: err}
		}
		if pst.Dev != dev {
			return dir, nil
		}
		dir = parent
	}
}

// MountedVolumes returns the mount points of all volumes that can carry
// trash directories. Pseudo-filesystem entries are skipped by type; other
// entries are not checked further. A mount table that cannot be read or
// parsed fails the whole call.
func MountedVolumes() ([]string, error) {
	mounts, err := mountinfo.GetMounts(func(info *mountinfo.Info) (skip, stop bool) {
		if skipFSTypes[info.FSType] {
			return true, false
		}
		return false, false
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read mount table: %w", err)
	}

	seen := make(map[string]bool)
	var points []string
	for _, m := range mounts {
		if !seen[m.Mountpoint] {
			seen[m.Mountpoint] = true
			points = append(points, m.Mountpoint)
		}
	}
	if !seen["/"] {
		points = append(points, "/")
	}
	slog.Debug("scanned mount table", "volumes", len(points))
	return points, nil
}
