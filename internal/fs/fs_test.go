package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCreateExclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "claim")

	f, err := CreateExclusive(path, 0666)
	if err != nil {
		t.Fatalf("CreateExclusive() error = %v", err)
	}
	if _, err := f.WriteString("first"); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := CreateExclusive(path, 0666); !errors.Is(err, os.ErrExist) {
		t.Errorf("second CreateExclusive() error = %v, want ErrExist", err)
	}
}

func TestMoveRename(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "src.txt")
	dst := filepath.Join(tmp, "sub", "dst.txt")
	if err := os.WriteFile(src, []byte("content"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		t.Fatal(err)
	}

	if err := Move(src, dst, false); err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("destination missing: %v", err)
	}
	if string(data) != "content" {
		t.Errorf("content = %q", data)
	}
	if _, err := os.Lstat(src); !os.IsNotExist(err) {
		t.Error("source still exists")
	}
}

func TestMoveMissingSource(t *testing.T) {
	tmp := t.TempDir()
	err := Move(filepath.Join(tmp, "nope"), filepath.Join(tmp, "dst"), true)
	if err == nil {
		t.Error("Move() of missing source succeeded")
	}
}
