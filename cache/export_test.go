package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	logger, _ := test.NewNullLogger()
	return NewFileStore(filepath.Join(t.TempDir(), "cache.json"), WithLogger(logger))
}

func TestExporter_ExportJSON(t *testing.T) {
	s := newTestFileStore(t)
	s.Upsert(NewPairKey("en", "fr"), "hello", "bonjour")
	s.Upsert(NewPairKey("en", "de"), "hello", "hallo")

	var buf bytes.Buffer
	if err := NewExporter(s).Export(&buf, FormatJSON, map[string]string{"host": "test"}); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var doc ExportFormat
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("Failed to parse export: %v", err)
	}

	if doc.Version != ExportVersion {
		t.Errorf("Expected version %s, got %s", ExportVersion, doc.Version)
	}
	if len(doc.Partitions) != 2 {
		t.Errorf("Expected 2 partitions, got %d", len(doc.Partitions))
	}
	if doc.Metadata["host"] != "test" {
		t.Errorf("Expected metadata, got %v", doc.Metadata)
	}
}

func TestExporter_ExportYAML(t *testing.T) {
	s := newTestFileStore(t)
	s.Upsert(NewPairKey("en", "fr"), "hello", "bonjour")

	var buf bytes.Buffer
	if err := NewExporter(s).Export(&buf, "yml", nil); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "en:fr") || !strings.Contains(out, "hello: bonjour") {
		t.Errorf("Unexpected YAML export:\n%s", out)
	}
}

func TestExporter_UnknownFormat(t *testing.T) {
	s := newTestFileStore(t)
	if err := NewExporter(s).Export(&bytes.Buffer{}, "xml", nil); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestImporter_ImportJSON(t *testing.T) {
	data := `{
		"version": "1.0",
		"exported_at": "2024-01-01T00:00:00Z",
		"partitions": {
			"en:fr": {"hello": "bonjour", "world": "monde"},
			"broken": {"x": "y"}
		}
	}`

	s := newTestFileStore(t)
	result, err := NewImporter(s).Import(context.Background(), strings.NewReader(data), FormatJSON)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if result.Imported != 2 || result.Skipped != 1 || result.Partitions != 1 {
		t.Errorf("Unexpected import result %+v", result)
	}
	if val, ok := s.Lookup(NewPairKey("en", "fr"), "world"); !ok || val != "monde" {
		t.Errorf("Imported entry missing, got %q", val)
	}
	if s.Stats().Pending != 0 {
		t.Error("Import should persist the imported entries")
	}
}

func TestExportImport_RoundTripYAML(t *testing.T) {
	src := newTestFileStore(t)
	src.Upsert(NewPairKey("auto", "es"), "Hello", "Hola")
	src.Upsert(NewPairKey("auto", "es"), "World", "Mundo")

	var buf bytes.Buffer
	if err := NewExporter(src).Export(&buf, FormatYAML, nil); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	dst := newTestFileStore(t)
	result, err := NewImporter(dst).Import(context.Background(), &buf, FormatYAML)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if result.Imported != 2 {
		t.Errorf("Expected 2 imported, got %d", result.Imported)
	}
	if val, ok := dst.Lookup(NewPairKey("auto", "es"), "World"); !ok || val != "Mundo" {
		t.Errorf("Round trip lost entry, got %q", val)
	}
}

func TestExportImport_Files(t *testing.T) {
	src := newTestFileStore(t)
	src.Upsert(NewPairKey("en", "fr"), "hello", "bonjour")

	path := filepath.Join(t.TempDir(), "export.yaml")
	if err := NewExporter(src).ExportToFile(path, nil); err != nil {
		t.Fatalf("ExportToFile failed: %v", err)
	}

	dst := newTestFileStore(t)
	if _, err := NewImporter(dst).ImportFromFile(context.Background(), path); err != nil {
		t.Fatalf("ImportFromFile failed: %v", err)
	}
	if val, _ := dst.Lookup(NewPairKey("en", "fr"), "hello"); val != "bonjour" {
		t.Errorf("Expected imported value, got %q", val)
	}
}

func TestImporter_InvalidJSON(t *testing.T) {
	s := newTestFileStore(t)
	if _, err := NewImporter(s).Import(context.Background(), strings.NewReader("invalid json"), FormatJSON); err == nil {
		t.Error("Expected error for invalid JSON")
	}
}
