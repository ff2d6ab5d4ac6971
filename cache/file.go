package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

// DefaultFilePath is the cache file used when no path is configured.
const DefaultFilePath = "translation_cache.json"

// FileStore is a Store mirrored to a single JSON file of the form
// {"<source>:<target>": {"<original>": "<translated>"}}.
type FileStore struct {
	*Partitions

	path   string
	logger *logrus.Logger
	mu     sync.Mutex // serializes file writes
}

// NewFileStore creates a FileStore backed by path. Call Load before use.
func NewFileStore(path string, opts ...Option) *FileStore {
	o := buildOptions(opts)
	if path == "" {
		path = DefaultFilePath
	}
	return &FileStore{
		Partitions: NewPartitions(o.maxEntries),
		path:       path,
		logger:     o.logger,
	}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the cache file. A missing, unreadable or corrupt file leaves the
// store empty.
func (s *FileStore) Load(ctx context.Context) {
	fields := logrus.Fields{"action": "cache_load", "backend": "file", "path": s.path}

	data, err := os.ReadFile(s.path) // #nosec G304 - path comes from operator config
	if err != nil {
		s.Replace(nil)
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.WithFields(fields).Debug("cache file not found, starting empty")
			return
		}
		s.logger.WithFields(fields).WithError(err).Warn("failed to read cache file, starting empty")
		return
	}

	var decoded map[string]map[string]string
	if err := json.Unmarshal(data, &decoded); err != nil {
		s.Replace(nil)
		s.logger.WithFields(fields).WithError(err).Warn("failed to parse cache file, starting empty")
		return
	}

	s.Replace(decoded)
	fields["entries"] = s.Len()
	s.logger.WithFields(fields).Info("loaded cached translations")
}

// Persist rewrites the whole cache file from memory. The new content is
// written to a temporary file in the same directory and renamed over the old
// one so a crash never leaves a truncated file behind.
func (s *FileStore) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	pending := s.Pending()
	if err := s.writeFile(s.Entries()); err != nil {
		s.logger.WithFields(logrus.Fields{
			"action":  "cache_persist",
			"backend": "file",
			"path":    s.path,
		}).WithError(err).Error("failed to save cache")
		return err
	}

	s.MarkPersisted(pending)
	return nil
}

func (s *FileStore) writeFile(entries map[string]map[string]string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".transcache-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	_, err = tmp.Write(buf.Bytes())
	if syncErr := tmp.Sync(); err == nil {
		err = syncErr
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing cache file: %w", err)
	}
	return nil
}

// Stats reports cache size and hit counters.
func (s *FileStore) Stats() Stats {
	return s.stats("file")
}

// Close is a no-op; the file is only open during Load and Persist.
func (s *FileStore) Close() error {
	return nil
}

// Verify FileStore implements Store
var _ Store = (*FileStore)(nil)
