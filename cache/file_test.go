package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestFileStore_LoadMissingFile(t *testing.T) {
	logger, hook := test.NewNullLogger()
	s := NewFileStore(filepath.Join(t.TempDir(), "missing.json"), WithLogger(logger))

	s.Load(context.Background())

	if s.Len() != 0 {
		t.Errorf("Expected empty store, got %d entries", s.Len())
	}
	for _, entry := range hook.AllEntries() {
		if entry.Level <= logrus.WarnLevel {
			t.Errorf("Missing file should not warn, got %q", entry.Message)
		}
	}
}

func TestFileStore_LoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	logger, hook := test.NewNullLogger()
	s := NewFileStore(path, WithLogger(logger))
	s.Upsert(NewPairKey("en", "fr"), "stale", "value")

	s.Load(context.Background())

	if s.Len() != 0 {
		t.Errorf("Corrupt file should leave the store empty, got %d entries", s.Len())
	}
	if last := hook.LastEntry(); last == nil || last.Level != logrus.WarnLevel {
		t.Error("Expected a warning for the corrupt file")
	}
}

func TestFileStore_PersistAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.json")
	logger, _ := test.NewNullLogger()

	s := NewFileStore(path, WithLogger(logger))
	s.Load(context.Background())
	s.Upsert(NewPairKey("en", "fr"), "hello", "bonjour")
	s.Upsert(NewPairKey("en", "fr"), "<b>", "<b>")
	s.Upsert(NewPairKey("auto", "ja"), "hello", "こんにちは")

	if err := s.Persist(context.Background()); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}
	if s.Stats().Pending != 0 {
		t.Errorf("Expected nothing pending after persist, got %d", s.Stats().Pending)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Reading cache file: %v", err)
	}
	var onDisk map[string]map[string]string
	if err := json.Unmarshal(raw, &onDisk); err != nil {
		t.Fatalf("Cache file is not valid JSON: %v", err)
	}
	if onDisk["en:fr"]["hello"] != "bonjour" {
		t.Errorf("Expected en:fr partition on disk, got %v", onDisk)
	}

	reloaded := NewFileStore(path, WithLogger(logger))
	reloaded.Load(context.Background())

	if val, ok := reloaded.Lookup(NewPairKey("auto", "ja"), "hello"); !ok || val != "こんにちは" {
		t.Errorf("Reloaded store returned %q (ok=%v)", val, ok)
	}
	if reloaded.Len() != 3 {
		t.Errorf("Expected 3 entries after reload, got %d", reloaded.Len())
	}
}

func TestFileStore_PersistFailureKeepsMemory(t *testing.T) {
	dir := t.TempDir()
	// A directory at the target path makes the final rename fail.
	path := filepath.Join(dir, "cache.json")
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(path, "keep"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	logger, hook := test.NewNullLogger()
	s := NewFileStore(path, WithLogger(logger))
	s.Upsert(NewPairKey("en", "fr"), "hello", "bonjour")

	if err := s.Persist(context.Background()); err == nil {
		t.Fatal("Expected persist to fail")
	}

	if val, ok := s.Lookup(NewPairKey("en", "fr"), "hello"); !ok || val != "bonjour" {
		t.Error("In-memory entry should survive a failed persist")
	}
	if s.Stats().Pending != 1 {
		t.Errorf("Entry should stay pending, got %d", s.Stats().Pending)
	}
	if last := hook.LastEntry(); last == nil || last.Level != logrus.ErrorLevel {
		t.Error("Expected the persist failure to be logged")
	}

	leftovers, _ := filepath.Glob(filepath.Join(dir, ".transcache-*"))
	if len(leftovers) != 0 {
		t.Errorf("Temp files should be cleaned up, found %v", leftovers)
	}
}

func TestFileStore_Stats(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "cache.json"))
	s.Upsert(NewPairKey("en", "fr"), "hello", "bonjour")
	s.Upsert(NewPairKey("en", "de"), "hello", "hallo")

	stats := s.Stats()
	if stats.Backend != "file" || stats.Partitions != 2 || stats.Entries != 2 || stats.Pending != 2 {
		t.Errorf("Unexpected stats %+v", stats)
	}
}

// Verify FileStore implements Store
var _ Store = (*FileStore)(nil)
