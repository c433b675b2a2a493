package fsutil

import (
	"path/filepath"
	"testing"
)

func TestOSFileSystemAppend(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "log.csv")
	fs := OSFileSystem{}

	w, err := fs.OpenAppend(name)
	if err != nil {
		t.Fatalf("OpenAppend: %v", err)
	}
	if _, err := w.Write([]byte("one\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Reopening appends, never truncates.
	w, err = fs.OpenAppend(name)
	if err != nil {
		t.Fatalf("OpenAppend (reopen): %v", err)
	}
	if _, err := w.Write([]byte("two\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	w.Close()

	data, err := fs.ReadFile(name)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "one\ntwo\n" {
		t.Errorf("file contents = %q, want %q", data, "one\ntwo\n")
	}
}

func TestOSFileSystemMkdirAllAndExists(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b")
	fs := OSFileSystem{}

	if fs.Exists(nested) {
		t.Fatal("nested dir should not exist yet")
	}
	if err := fs.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if !fs.Exists(nested) {
		t.Error("nested dir should exist after MkdirAll")
	}
}

func TestMemoryFileSystemAppendVisibility(t *testing.T) {
	fs := NewMemoryFileSystem()

	w, err := fs.OpenAppend("/logs/2026-03-01.csv")
	if err != nil {
		t.Fatalf("OpenAppend: %v", err)
	}
	if _, err := w.Write([]byte("header\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	// Writes are visible before Close; the log writer relies on this for
	// its no-buffering durability contract.
	data, err := fs.ReadFile("/logs/2026-03-01.csv")
	if err != nil {
		t.Fatalf("ReadFile before Close: %v", err)
	}
	if string(data) != "header\n" {
		t.Errorf("contents = %q, want %q", data, "header\n")
	}

	if _, err := w.Write([]byte("row\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	w.Close()

	if _, err := w.Write([]byte("late\n")); err == nil {
		t.Error("Write after Close should fail")
	}

	data, _ = fs.ReadFile("/logs/2026-03-01.csv")
	if string(data) != "header\nrow\n" {
		t.Errorf("contents = %q, want %q", data, "header\nrow\n")
	}
}

func TestMemoryFileSystemStatAndRemove(t *testing.T) {
	fs := NewMemoryFileSystem()

	if _, err := fs.Stat("/missing"); err == nil {
		t.Error("Stat on missing file should fail")
	}

	w, _ := fs.OpenAppend("/f.csv")
	w.Write([]byte("abc"))
	w.Close()

	info, err := fs.Stat("/f.csv")
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Size() != 3 {
		t.Errorf("Size = %d, want 3", info.Size())
	}
	if info.IsDir() {
		t.Error("file reported as directory")
	}

	if err := fs.MkdirAll("/x/y", 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if !fs.Exists("/x") {
		t.Error("parent dir should exist after MkdirAll")
	}

	if err := fs.Remove("/f.csv"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if fs.Exists("/f.csv") {
		t.Error("file should not exist after Remove")
	}
	if err := fs.Remove("/f.csv"); err == nil {
		t.Error("Remove on missing file should fail")
	}
}
