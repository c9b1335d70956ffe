//go:build linux || freebsd || openbsd || netbsd

package xdg

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/FreeSlave/trashcan/internal/trash"
)

func newTestStorage(t *testing.T) (*Storage, string) {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmp, "share"))

	s, err := NewStorage(trash.DefaultOptions())
	if err != nil {
		t.Fatalf("NewStorage() error = %v", err)
	}
	return s, tmp
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func readInfo(t *testing.T, path string) *Info {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open info: %v", err)
	}
	defer f.Close()
	info, err := ParseInfo(f)
	if err != nil {
		t.Fatalf("parse info: %v", err)
	}
	return info
}

func TestPutRejectsBadPaths(t *testing.T) {
	s, tmp := newTestStorage(t)

	t.Run("relative path", func(t *testing.T) {
		err := s.Put("relative/path")
		if !errors.Is(err, trash.ErrNotAbsolute) {
			t.Errorf("error = %v, want ErrNotAbsolute", err)
		}
	})

	t.Run("nonexistent path", func(t *testing.T) {
		err := s.Put(filepath.Join(tmp, "missing"))
		if !errors.Is(err, trash.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}

func TestPutFile(t *testing.T) {
	s, tmp := newTestStorage(t)

	src := filepath.Join(tmp, "docs", "foo.txt")
	writeFile(t, src, "hello trash")

	before := time.Now().Truncate(time.Second)
	if err := s.Put(src); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	after := time.Now()

	if _, err := os.Lstat(src); !os.IsNotExist(err) {
		t.Errorf("source still exists after Put")
	}

	home := s.HomeTrashDir()
	payload := filepath.Join(home, "files", "foo.txt")
	data, err := os.ReadFile(payload)
	if err != nil {
		t.Fatalf("payload missing: %v", err)
	}
	if string(data) != "hello trash" {
		t.Errorf("payload content = %q", data)
	}

	info := readInfo(t, filepath.Join(home, "info", "foo.txt.trashinfo"))
	if info.Path != src {
		t.Errorf("info Path = %q, want %q", info.Path, src)
	}
	if info.DeletionDate.Before(before) || info.DeletionDate.After(after) {
		t.Errorf("DeletionDate = %v not in [%v, %v]", info.DeletionDate, before, after)
	}
}

func TestPutDirectory(t *testing.T) {
	s, tmp := newTestStorage(t)

	src := filepath.Join(tmp, "project")
	writeFile(t, filepath.Join(src, "a", "b.txt"), "nested")
	writeFile(t, filepath.Join(src, "top.txt"), "top")

	if err := s.Put(src); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	payload := filepath.Join(s.HomeTrashDir(), "files", "project")
	data, err := os.ReadFile(filepath.Join(payload, "a", "b.txt"))
	if err != nil {
		t.Fatalf("nested file missing: %v", err)
	}
	if string(data) != "nested" {
		t.Errorf("nested content = %q", data)
	}
}

func TestPutSymlink(t *testing.T) {
	s, tmp := newTestStorage(t)

	target := filepath.Join(tmp, "target.txt")
	writeFile(t, target, "data")
	link := filepath.Join(tmp, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Fatal(err)
	}

	if err := s.Put(link); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	// The link itself moves; the target stays put.
	if _, err := os.Stat(target); err != nil {
		t.Errorf("symlink target was moved: %v", err)
	}
	payload := filepath.Join(s.HomeTrashDir(), "files", "link")
	fi, err := os.Lstat(payload)
	if err != nil {
		t.Fatalf("payload missing: %v", err)
	}
	if fi.Mode()&os.ModeSymlink == 0 {
		t.Errorf("payload is not a symlink")
	}
}

func TestPutCollisions(t *testing.T) {
	s, tmp := newTestStorage(t)

	src := filepath.Join(tmp, "x")
	for i := 0; i < 3; i++ {
		writeFile(t, src, fmt.Sprintf("generation %d", i))
		if err := s.Put(src); err != nil {
			t.Fatalf("Put() #%d error = %v", i, err)
		}
	}

	filesDir := filepath.Join(s.HomeTrashDir(), "files")
	for _, name := range []string{"x", "x 1", "x 2"} {
		if _, err := os.Lstat(filepath.Join(filesDir, name)); err != nil {
			t.Errorf("expected payload %q: %v", name, err)
		}
		infoPath := filepath.Join(s.HomeTrashDir(), "info", name+".trashinfo")
		if _, err := os.Lstat(infoPath); err != nil {
			t.Errorf("expected info file for %q: %v", name, err)
		}
	}
}

func TestPutCollisionsKeepExtension(t *testing.T) {
	s, tmp := newTestStorage(t)

	src := filepath.Join(tmp, "report.txt")
	for i := 0; i < 2; i++ {
		writeFile(t, src, "data")
		if err := s.Put(src); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
	}

	filesDir := filepath.Join(s.HomeTrashDir(), "files")
	for _, name := range []string{"report.txt", "report 1.txt"} {
		if _, err := os.Lstat(filepath.Join(filesDir, name)); err != nil {
			t.Errorf("expected payload %q: %v", name, err)
		}
	}
}

func TestPutConcurrentSameName(t *testing.T) {
	s, tmp := newTestStorage(t)

	const n = 8
	var sources []string
	for i := 0; i < n; i++ {
		src := filepath.Join(tmp, fmt.Sprintf("dir%d", i), "dup.txt")
		writeFile(t, src, fmt.Sprintf("content %d", i))
		sources = append(sources, src)
	}

	var g errgroup.Group
	for _, src := range sources {
		g.Go(func() error { return s.Put(src) })
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent Put error = %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(s.HomeTrashDir(), "files"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != n {
		t.Fatalf("got %d payloads, want %d", len(entries), n)
	}
	contents := make(map[string]bool)
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "dup") {
			t.Errorf("unexpected payload name %q", e.Name())
		}
		data, err := os.ReadFile(filepath.Join(s.HomeTrashDir(), "files", e.Name()))
		if err != nil {
			t.Fatal(err)
		}
		contents[string(data)] = true
	}
	if len(contents) != n {
		t.Errorf("lost data: only %d distinct payloads survived", len(contents))
	}
}

func TestRoundTripRestore(t *testing.T) {
	s, tmp := newTestStorage(t)

	src := filepath.Join(tmp, "deep", "tree", "file.bin")
	writeFile(t, src, "payload bytes")
	if err := s.Put(src); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	// The original directory tree disappears in between.
	if err := os.RemoveAll(filepath.Join(tmp, "deep")); err != nil {
		t.Fatal(err)
	}

	item := findByName(t, s, "file.bin")
	if item.OriginalPath != src {
		t.Errorf("OriginalPath = %q, want %q", item.OriginalPath, src)
	}
	if item.IsDir {
		t.Errorf("IsDir = true for a file")
	}

	if err := Restore(item); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	data, err := os.ReadFile(src)
	if err != nil {
		t.Fatalf("restored file missing: %v", err)
	}
	if string(data) != "payload bytes" {
		t.Errorf("restored content = %q", data)
	}
	if _, err := os.Lstat(item.InfoPath); !os.IsNotExist(err) {
		t.Errorf("info file still present after restore")
	}
}

func TestEraseTwice(t *testing.T) {
	s, tmp := newTestStorage(t)

	src := filepath.Join(tmp, "victim")
	writeFile(t, filepath.Join(src, "inner.txt"), "gone")
	if err := s.Put(src); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	item := findByName(t, s, "victim")
	if !item.IsDir {
		t.Errorf("IsDir = false for a directory")
	}

	if err := Erase(item); err != nil {
		t.Fatalf("Erase() error = %v", err)
	}
	if _, err := os.Lstat(item.TrashPath); !os.IsNotExist(err) {
		t.Errorf("payload still present after erase")
	}

	err := Erase(item)
	if !errors.Is(err, trash.ErrNotFound) {
		t.Errorf("second Erase() error = %v, want ErrNotFound", err)
	}
}

func TestItemsEnumeration(t *testing.T) {
	s, tmp := newTestStorage(t)

	names := []string{"one.txt", "two", "three.log"}
	for _, name := range names {
		src := filepath.Join(tmp, name)
		writeFile(t, src, name)
		if err := s.Put(src); err != nil {
			t.Fatalf("Put(%s) error = %v", name, err)
		}
	}

	seen := make(map[string]*trash.Item)
	for item := range s.Items() {
		seen[item.Name] = item
	}
	for _, name := range names {
		item, ok := seen[name]
		if !ok {
			t.Errorf("item %q not enumerated", name)
			continue
		}
		if item.OriginalPath != filepath.Join(tmp, name) {
			t.Errorf("OriginalPath = %q", item.OriginalPath)
		}
		if item.DeletedAt.IsZero() {
			t.Errorf("DeletedAt is zero for %q", name)
		}
	}
}

func TestItemsSkipsBrokenEntries(t *testing.T) {
	s, tmp := newTestStorage(t)

	src := filepath.Join(tmp, "good.txt")
	writeFile(t, src, "fine")
	if err := s.Put(src); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	infoDir := filepath.Join(s.HomeTrashDir(), "info")
	filesDir := filepath.Join(s.HomeTrashDir(), "files")

	// An info file without payload: a writer that has not moved yet.
	writeFile(t, filepath.Join(infoDir, "pending.trashinfo"), "[Trash Info]\nPath=/tmp/pending\n")

	// A payload with corrupt metadata.
	writeFile(t, filepath.Join(filesDir, "broken"), "data")
	writeFile(t, filepath.Join(infoDir, "broken.trashinfo"), "[Trash Info]\nDeletionDate=2020-01-02T03:04:05\n")

	var names []string
	for item := range s.Items() {
		if strings.HasPrefix(item.TrashPath, s.HomeTrashDir()) {
			names = append(names, item.Name)
		}
	}
	if len(names) != 1 || names[0] != "good.txt" {
		t.Errorf("enumerated %v, want just good.txt", names)
	}
}

func TestItemsEarlyStop(t *testing.T) {
	s, tmp := newTestStorage(t)

	for i := 0; i < 5; i++ {
		src := filepath.Join(tmp, fmt.Sprintf("f%d", i))
		writeFile(t, src, "x")
		if err := s.Put(src); err != nil {
			t.Fatal(err)
		}
	}

	count := 0
	for range s.Items() {
		count++
		if count == 2 {
			break
		}
	}
	if count != 2 {
		t.Errorf("iterated %d items after break, want 2", count)
	}
}

func TestAdminTrashDirChecks(t *testing.T) {
	s, _ := newTestStorage(t)

	t.Run("missing", func(t *testing.T) {
		topdir := t.TempDir()
		if _, err := s.adminTrashDir(topdir); !errors.Is(err, trash.ErrTopDirUnavailable) {
			t.Errorf("error = %v, want ErrTopDirUnavailable", err)
		}
	})

	t.Run("symlink", func(t *testing.T) {
		topdir := t.TempDir()
		real := filepath.Join(topdir, "real")
		if err := os.Mkdir(real, 0777); err != nil {
			t.Fatal(err)
		}
		if err := os.Symlink(real, filepath.Join(topdir, ".Trash")); err != nil {
			t.Fatal(err)
		}
		if _, err := s.adminTrashDir(topdir); !errors.Is(err, trash.ErrTopDirUnavailable) {
			t.Errorf("error = %v, want ErrTopDirUnavailable", err)
		}
	})

	t.Run("not a directory", func(t *testing.T) {
		topdir := t.TempDir()
		writeFile(t, filepath.Join(topdir, ".Trash"), "file")
		if _, err := s.adminTrashDir(topdir); !errors.Is(err, trash.ErrTopDirUnavailable) {
			t.Errorf("error = %v, want ErrTopDirUnavailable", err)
		}
	})

	t.Run("no sticky bit", func(t *testing.T) {
		topdir := t.TempDir()
		if err := os.Mkdir(filepath.Join(topdir, ".Trash"), 0777); err != nil {
			t.Fatal(err)
		}
		if _, err := s.adminTrashDir(topdir); !errors.Is(err, trash.ErrTopDirUnavailable) {
			t.Errorf("error = %v, want ErrTopDirUnavailable", err)
		}
	})

	t.Run("sticky directory accepted", func(t *testing.T) {
		topdir := t.TempDir()
		adminDir := filepath.Join(topdir, ".Trash")
		if err := os.Mkdir(adminDir, 0777); err != nil {
			t.Fatal(err)
		}
		if err := os.Chmod(adminDir, 0777|os.ModeSticky); err != nil {
			t.Fatal(err)
		}
		base, err := s.adminTrashDir(topdir)
		if err != nil {
			t.Fatalf("adminTrashDir() error = %v", err)
		}
		if filepath.Dir(base) != adminDir {
			t.Errorf("base = %q, want child of %q", base, adminDir)
		}
		if fi, err := os.Stat(base); err != nil || !fi.IsDir() {
			t.Errorf("uid directory not created: %v", err)
		}
	})

	t.Run("sticky check can be disabled", func(t *testing.T) {
		opts := trash.DefaultOptions()
		opts.CheckStickyBit = false
		loose, err := NewStorage(opts)
		if err != nil {
			t.Fatal(err)
		}
		topdir := t.TempDir()
		if err := os.Mkdir(filepath.Join(topdir, ".Trash"), 0777); err != nil {
			t.Fatal(err)
		}
		if _, err := loose.adminTrashDir(topdir); err != nil {
			t.Errorf("adminTrashDir() error = %v with sticky check off", err)
		}
	})
}

func TestUserTrashDir(t *testing.T) {
	s, _ := newTestStorage(t)

	topdir := t.TempDir()
	base, err := s.userTrashDir(topdir)
	if err != nil {
		t.Fatalf("userTrashDir() error = %v", err)
	}
	if !strings.HasPrefix(filepath.Base(base), ".Trash-") {
		t.Errorf("base = %q, want .Trash-$uid", base)
	}
	if fi, err := os.Stat(base); err != nil || !fi.IsDir() {
		t.Errorf("directory not created: %v", err)
	}
}

func findByName(t *testing.T, s *Storage, name string) *trash.Item {
	t.Helper()
	for item := range s.Items() {
		if item.Name == name {
			return item
		}
	}
	t.Fatalf("item %q not found in trash", name)
	return nil
}
