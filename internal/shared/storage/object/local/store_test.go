package local

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveWritesUnderPrefix(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := New(dir, "rekognition-input/")

	key, size, err := store.Save(context.Background(), "cat.png", bytes.NewReader([]byte("cat")))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if key != "rekognition-input/cat.png" {
		t.Fatalf("expected key rekognition-input/cat.png, got %q", key)
	}
	if size != 3 {
		t.Fatalf("expected size 3, got %d", size)
	}

	data, err := os.ReadFile(filepath.Join(dir, "rekognition-input", "cat.png"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "cat" {
		t.Fatalf("expected body %q, got %q", "cat", string(data))
	}
}

func TestSaveOverwrites(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := New(dir, "")

	if _, _, err := store.Save(context.Background(), "cat.png", bytes.NewReader([]byte("first"))); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if _, _, err := store.Save(context.Background(), "cat.png", bytes.NewReader([]byte("second"))); err != nil {
		t.Fatalf("second save: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "cat.png"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "second" {
		t.Fatalf("expected last write to win, got %q", string(data))
	}
}

func TestSaveStripsLocalPath(t *testing.T) {
	t.Parallel()

	store := New(t.TempDir(), "rekognition-input")

	key, _, err := store.Save(context.Background(), "some/dir/cat.png", bytes.NewReader([]byte("cat")))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if key != "rekognition-input/cat.png" {
		t.Fatalf("expected basename-only key, got %q", key)
	}
}
