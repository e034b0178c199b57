package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *DiskStore {
	t.Helper()
	store, err := NewDiskStore(t.TempDir(), "http://localhost:8080/media/")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func TestSaveUsesSlugKeyAndVersionedURL(t *testing.T) {
	store := newTestStore(t)
	store.now = func() time.Time { return time.Unix(1700000000, 0) }

	url, err := store.Save(context.Background(), "jean-dupont", "IMG_1234.JPG", strings.NewReader("photo-bytes"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if url != "http://localhost:8080/media/jean-dupont.jpg?v=1700000000" {
		t.Fatalf("unexpected url %q", url)
	}

	data, err := os.ReadFile(filepath.Join(store.dir, "jean-dupont.jpg"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "photo-bytes" {
		t.Fatalf("stored %q, want photo-bytes", data)
	}
}

func TestSaveReplacesPreviousExtension(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Save(context.Background(), "jean-dupont", "old.png", strings.NewReader("old")); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if _, err := store.Save(context.Background(), "jean-dupont", "new.webp", strings.NewReader("new")); err != nil {
		t.Fatalf("second save: %v", err)
	}

	if _, err := os.Stat(filepath.Join(store.dir, "jean-dupont.png")); !os.IsNotExist(err) {
		t.Fatal("previous photo with a different extension was not removed")
	}
	if _, err := os.Stat(filepath.Join(store.dir, "jean-dupont.webp")); err != nil {
		t.Fatalf("new photo missing: %v", err)
	}
}

func TestSaveRejectsUnsupportedExtension(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Save(context.Background(), "jean-dupont", "resume.pdf", strings.NewReader("x")); err == nil {
		t.Fatal("pdf accepted as a photo")
	}
}

func TestSaveRejectsBadSlug(t *testing.T) {
	store := newTestStore(t)

	for _, slug := range []string{"", "Jean", "a/b", "../escape", "a b"} {
		if _, err := store.Save(context.Background(), slug, "p.jpg", strings.NewReader("x")); err == nil {
			t.Fatalf("slug %q accepted", slug)
		}
	}
}

func TestRemoveDeletesAllVariants(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Save(context.Background(), "jean-dupont", "p.jpg", strings.NewReader("x")); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := store.Remove(context.Background(), "jean-dupont"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(store.dir, "jean-dupont.jpg")); !os.IsNotExist(err) {
		t.Fatal("photo survived remove")
	}

	// Removing an absent photo is a no-op.
	if err := store.Remove(context.Background(), "jean-dupont"); err != nil {
		t.Fatalf("second remove: %v", err)
	}
}
