package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiskStoreLoad(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "img-1.jpg"), []byte("jpeg-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewDiskStore(dir)
	data, err := store.Load("img-1.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Errorf("unexpected data %q", data)
	}
}

func TestDiskStoreLoadMissing(t *testing.T) {
	store := NewDiskStore(t.TempDir())
	if _, err := store.Load("missing.jpg"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDiskStoreRejectsBadKeys(t *testing.T) {
	store := NewDiskStore(t.TempDir())
	for _, key := range []string{"", "../etc/passwd", "/etc/passwd"} {
		if _, err := store.Load(key); err == nil {
			t.Errorf("expected key %q to be rejected", key)
		}
	}
}
