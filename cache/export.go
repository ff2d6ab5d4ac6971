package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ExportVersion is the current export document version.
const ExportVersion = "1.0"

// Export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ExportFormat represents the document written by Export and read by Import.
type ExportFormat struct {
	Version    string                       `json:"version" yaml:"version"`
	ExportedAt string                       `json:"exported_at" yaml:"exported_at"`
	Partitions map[string]map[string]string `json:"partitions" yaml:"partitions"`
	Metadata   map[string]string            `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// ParseFormat normalizes a format name, defaulting to JSON.
func ParseFormat(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", name)
	}
}

// FormatFromPath guesses the format from a file extension.
func FormatFromPath(path string) string {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
		return FormatYAML
	}
	return FormatJSON
}

// Exporter provides cache export functionality.
type Exporter struct {
	store Store
}

// NewExporter creates a new cache exporter.
func NewExporter(store Store) *Exporter {
	return &Exporter{store: store}
}

// Export writes the store contents to w.
func (e *Exporter) Export(w io.Writer, format string, metadata map[string]string) error {
	format, err := ParseFormat(format)
	if err != nil {
		return err
	}

	doc := ExportFormat{
		Version:    ExportVersion,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Partitions: e.store.Entries(),
		Metadata:   metadata,
	}

	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		return nil
	}
}

// ExportToFile exports the store to a file, choosing the format from its
// extension.
func (e *Exporter) ExportToFile(path string, metadata map[string]string) error {
	f, err := os.Create(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	return e.Export(f, FormatFromPath(path), metadata)
}

// Importer provides cache import functionality.
type Importer struct {
	store Store
}

// NewImporter creates a new cache importer.
func NewImporter(store Store) *Importer {
	return &Importer{store: store}
}

// ImportResult contains statistics about the import operation.
type ImportResult struct {
	Version    string
	Metadata   map[string]string
	Partitions int
	Imported   int
	Skipped    int
}

// Import reads an export document, upserts every entry and persists once.
// Partition keys that are not of the "<source>:<target>" form are skipped.
func (i *Importer) Import(ctx context.Context, r io.Reader, format string) (*ImportResult, error) {
	format, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}

	var doc ExportFormat
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding YAML: %w", err)
		}
	default:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding JSON: %w", err)
		}
	}

	result := &ImportResult{
		Version:  doc.Version,
		Metadata: doc.Metadata,
	}

	for key, entries := range doc.Partitions {
		pair, ok := ParsePairKey(key)
		if !ok {
			result.Skipped += len(entries)
			continue
		}
		result.Partitions++
		for text, translated := range entries {
			i.store.Upsert(pair, text, translated)
			result.Imported++
		}
	}

	if result.Imported > 0 {
		if err := i.store.Persist(ctx); err != nil {
			return result, fmt.Errorf("persisting imported entries: %w", err)
		}
	}

	return result, nil
}

// ImportFromFile imports cache entries from a file, choosing the format from
// its extension.
func (i *Importer) ImportFromFile(ctx context.Context, path string) (*ImportResult, error) {
	f, err := os.Open(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return i.Import(ctx, f, FormatFromPath(path))
}
