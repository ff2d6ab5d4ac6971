package cache

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// DefaultSQLitePath is the database file used when no path is configured.
const DefaultSQLitePath = "transcache.db"

const createTranslationsTable = `
CREATE TABLE IF NOT EXISTS translations (
	pair_key TEXT NOT NULL,
	original TEXT NOT NULL,
	translated TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (pair_key, original)
);
`

// SQLiteStore is a Store mirrored to a SQLite table.
type SQLiteStore struct {
	*Partitions

	db     *sql.DB
	logger *logrus.Logger
	mu     sync.Mutex
}

// NewSQLiteStore opens (and migrates) the database at path. Call Load before
// use.
func NewSQLiteStore(path string, opts ...Option) (*SQLiteStore, error) {
	o := buildOptions(opts)
	if path == "" {
		path = DefaultSQLitePath
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createTranslationsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache db: %w", err)
	}

	return &SQLiteStore{
		Partitions: NewPartitions(o.maxEntries),
		db:         db,
		logger:     o.logger,
	}, nil
}

// Load reads every row into memory. A query failure leaves the store empty.
func (s *SQLiteStore) Load(ctx context.Context) {
	fields := logrus.Fields{"action": "cache_load", "backend": "sqlite"}

	data, err := s.readAll(ctx)
	if err != nil {
		s.Replace(nil)
		s.logger.WithFields(fields).WithError(err).Warn("failed to load cache from sqlite, starting empty")
		return
	}

	s.Replace(data)
	fields["entries"] = s.Len()
	s.logger.WithFields(fields).Info("loaded cached translations")
}

func (s *SQLiteStore) readAll(ctx context.Context) (map[string]map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT pair_key, original, translated FROM translations`)
	if err != nil {
		return nil, fmt.Errorf("query translations: %w", err)
	}
	defer rows.Close()

	data := make(map[string]map[string]string)
	for rows.Next() {
		var key, original, translated string
		if err := rows.Scan(&key, &original, &translated); err != nil {
			return nil, fmt.Errorf("scan translation: %w", err)
		}
		partition, ok := data[key]
		if !ok {
			partition = make(map[string]string)
			data[key] = partition
		}
		partition[original] = translated
	}
	return data, rows.Err()
}

// Persist writes every pending entry in a single transaction.
func (s *SQLiteStore) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := s.Pending()
	if len(pending) == 0 {
		return nil
	}

	if err := s.writePending(ctx, pending); err != nil {
		s.logger.WithFields(logrus.Fields{
			"action":  "cache_persist",
			"backend": "sqlite",
		}).WithError(err).Error("failed to save cache")
		return err
	}

	s.MarkPersisted(pending)
	return nil
}

func (s *SQLiteStore) writePending(ctx context.Context, pending map[string]map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cache tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO translations (pair_key, original, translated, created_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare cache put: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for key, entries := range pending {
		for original, translated := range entries {
			if _, err := stmt.ExecContext(ctx, key, original, translated, now); err != nil {
				return fmt.Errorf("cache put: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cache tx: %w", err)
	}
	return nil
}

// Stats reports cache size and hit counters.
func (s *SQLiteStore) Stats() Stats {
	return s.stats("sqlite")
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Verify SQLiteStore implements Store
var _ Store = (*SQLiteStore)(nil)
