package storage

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(t.TempDir(), "exam-pdfs")
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	return store
}

func TestLocalStore_SaveFetchDelete(t *testing.T) {
	store := newTestStore(t)
	content := []byte("lecture notes")

	n, err := store.Save("u1/m1/notes.txt", bytes.NewReader(content))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if n != int64(len(content)) {
		t.Errorf("written %d bytes, want %d", n, len(content))
	}

	got, err := store.Fetch("u1/m1/notes.txt")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("fetched %q, want %q", got, content)
	}

	if err := store.Delete("u1/m1/notes.txt"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Fetch("u1/m1/notes.txt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("after delete expected ErrNotFound, got %v", err)
	}

	// Deleting a missing key is not an error.
	if err := store.Delete("u1/m1/notes.txt"); err != nil {
		t.Errorf("second delete: %v", err)
	}
}

func TestLocalStore_FetchMissing(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Fetch("nobody/home.pdf"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLocalStore_RejectsTraversal(t *testing.T) {
	store := newTestStore(t)

	for _, key := range []string{"../outside.txt", "a/../../outside.txt", "/etc/passwd", "."} {
		if _, err := store.Save(key, strings.NewReader("x")); err == nil {
			t.Errorf("Save(%q) should be rejected", key)
		}
		if _, err := store.Fetch(key); err == nil {
			t.Errorf("Fetch(%q) should be rejected", key)
		}
	}
}

func TestLocalStore_NormalizeUsesBucket(t *testing.T) {
	store := newTestStore(t)
	got := store.Normalize("exam-pdfs/u1/m1/a.pdf")
	if got != "u1/m1/a.pdf" {
		t.Errorf("Normalize = %q, want bucket prefix stripped", got)
	}
}
