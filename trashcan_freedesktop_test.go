//go:build linux || freebsd || openbsd || netbsd

package trashcan_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/FreeSlave/trashcan"
)

func setupHome(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmp, "share"))
	return tmp
}

func TestMoveToTrashRejectsRelativePath(t *testing.T) {
	setupHome(t)
	err := trashcan.MoveToTrash("relative/path")
	if !errors.Is(err, trashcan.ErrNotAbsolute) {
		t.Errorf("error = %v, want ErrNotAbsolute", err)
	}
}

func TestMoveToTrashMissingSource(t *testing.T) {
	tmp := setupHome(t)
	err := trashcan.MoveToTrash(filepath.Join(tmp, "missing"))
	if !errors.Is(err, trashcan.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestRoundTrip(t *testing.T) {
	tmp := setupHome(t)

	// Names that must survive the URL encoding intact.
	names := []string{
		"plain.txt",
		"with space.txt",
		"per%cent",
		"ünïcode.bin",
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			src := filepath.Join(tmp, name)
			if err := os.WriteFile(src, []byte("body of "+name), 0644); err != nil {
				t.Fatal(err)
			}

			if err := trashcan.MoveToTrash(src); err != nil {
				t.Fatalf("MoveToTrash() error = %v", err)
			}
			if _, err := os.Lstat(src); !os.IsNotExist(err) {
				t.Fatal("source still exists")
			}

			can, err := trashcan.NewTrashcan()
			if err != nil {
				t.Fatalf("NewTrashcan() error = %v", err)
			}
			defer can.Close()

			var found *trashcan.Item
			for item := range can.Items() {
				if item.OriginalPath == src {
					found = item
					break
				}
			}
			if found == nil {
				t.Fatalf("item for %q not enumerated", src)
			}
			if found.IsDir {
				t.Error("IsDir = true for a file")
			}

			if err := can.Restore(found); err != nil {
				t.Fatalf("Restore() error = %v", err)
			}
			data, err := os.ReadFile(src)
			if err != nil {
				t.Fatalf("restored file missing: %v", err)
			}
			if string(data) != "body of "+name {
				t.Errorf("restored content = %q", data)
			}
		})
	}
}

func TestEraseIsNotIdempotent(t *testing.T) {
	tmp := setupHome(t)

	src := filepath.Join(tmp, "doomed")
	if err := os.WriteFile(src, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := trashcan.MoveToTrash(src); err != nil {
		t.Fatal(err)
	}

	can, err := trashcan.NewTrashcan()
	if err != nil {
		t.Fatal(err)
	}
	defer can.Close()

	var found *trashcan.Item
	for item := range can.Items() {
		if item.OriginalPath == src {
			found = item
			break
		}
	}
	if found == nil {
		t.Fatal("item not found")
	}

	if err := can.Erase(found); err != nil {
		t.Fatalf("Erase() error = %v", err)
	}
	if err := can.Erase(found); !errors.Is(err, trashcan.ErrNotFound) {
		t.Errorf("second Erase() error = %v, want ErrNotFound", err)
	}
}

func TestEmptyFileEnumeratedWithZeroSize(t *testing.T) {
	tmp := setupHome(t)

	src := filepath.Join(tmp, "empty")
	if err := os.WriteFile(src, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if err := trashcan.MoveToTrash(src); err != nil {
		t.Fatalf("MoveToTrash() error = %v", err)
	}

	can, err := trashcan.NewTrashcan()
	if err != nil {
		t.Fatal(err)
	}
	defer can.Close()

	for item := range can.Items() {
		if item.OriginalPath == src {
			if item.Size != 0 {
				t.Errorf("Size = %d, want 0", item.Size)
			}
			return
		}
	}
	t.Fatal("empty file not enumerated")
}
