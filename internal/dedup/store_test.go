package dedup

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"adscout/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- Canonicalization ---

func TestCanonicalizeVariants(t *testing.T) {
	base := Canonicalize("https://example.com/story/abc")

	variants := []string{
		"https://Example.COM/story/abc",
		"https://example.com/story/abc/",
		"https://example.com:443/story/abc",
		"https://example.com/story/abc#comments",
		"https://example.com/story/abc?utm_source=slack&utm_medium=chat",
		"https://example.com/story/abc?fbclid=xyz123",
	}
	for _, v := range variants {
		if got := Canonicalize(v); got != base {
			t.Errorf("Canonicalize(%q) = %q, want %q", v, got, base)
		}
	}
}

func TestCanonicalizeQueryOrder(t *testing.T) {
	a := Canonicalize("https://example.com/p?b=2&a=1")
	b := Canonicalize("https://example.com/p?a=1&b=2")
	if a != b {
		t.Errorf("query order should not matter: %q vs %q", a, b)
	}
}

func TestCanonicalizeKeepsMeaningfulParams(t *testing.T) {
	got := Canonicalize("https://example.com/p?id=42&utm_campaign=x")
	if got != "https://example.com/p?id=42" {
		t.Errorf("got %q, want tracking param stripped and id kept", got)
	}
}

// --- Store semantics ---

func TestRecordIdempotent(t *testing.T) {
	s := NewMemStore()

	if !s.Record("https://example.com/a") {
		t.Fatal("first record should report new")
	}
	if s.Record("https://example.com/a") {
		t.Error("second record should report already present")
	}
	if !s.Seen("https://example.com/a") {
		t.Error("recorded URL should be seen")
	}
	if s.Len() != 1 {
		t.Errorf("store size changed on duplicate record: %d", s.Len())
	}
}

func TestSeenUsesCanonicalForm(t *testing.T) {
	s := NewMemStore()
	s.Record("https://Example.com/a/?utm_source=mail")

	if !s.Seen("https://example.com/a") {
		t.Error("canonical variants should hit the same entry")
	}
}

func TestFileStorePersistReload(t *testing.T) {
	dir := t.TempDir()

	s1, err := Open(dir, testLogger())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s1.Record("https://example.com/a")
	s1.Record("https://example.com/b")
	if err := s1.Persist(); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	s2, err := Open(dir, testLogger())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if s2.Len() != 2 {
		t.Fatalf("reloaded %d URLs, want 2", s2.Len())
	}
	if !s2.Seen("https://example.com/a") || !s2.Seen("https://example.com/b") {
		t.Error("persisted URLs lost on reload")
	}
}

func TestFileStoreFirstRun(t *testing.T) {
	s, err := Open(t.TempDir(), testLogger())
	if err != nil {
		t.Fatalf("missing file should not be an error, got %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("fresh store should be empty, got %d", s.Len())
	}
}

func TestFileStoreCorruptDegrades(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, storeFile), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Open(dir, testLogger())
	if !errors.Is(err, types.ErrStoreCorrupt) {
		t.Fatalf("expected ErrStoreCorrupt, got %v", err)
	}
	// Degraded store is still fully usable.
	if s.Len() != 0 {
		t.Errorf("corrupt store should load empty, got %d", s.Len())
	}
	s.Record("https://example.com/a")
	if err := s.Persist(); err != nil {
		t.Fatalf("Persist after corruption: %v", err)
	}

	s2, err := Open(dir, testLogger())
	if err != nil {
		t.Fatalf("reopen after repair: %v", err)
	}
	if !s2.Seen("https://example.com/a") {
		t.Error("repaired store lost entry")
	}
}

func TestFileStoreClear(t *testing.T) {
	dir := t.TempDir()
	s, _ := Open(dir, testLogger())
	s.Record("https://example.com/a")
	if err := s.Persist(); err != nil {
		t.Fatal(err)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if s.Len() != 0 {
		t.Error("cleared store should be empty")
	}
	s2, err := Open(dir, testLogger())
	if err != nil || s2.Len() != 0 {
		t.Errorf("cleared store should reload empty: len=%d err=%v", s2.Len(), err)
	}
}
