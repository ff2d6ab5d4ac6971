// Package cache provides translation caching implementations.
package cache

import (
	"context"
	"strings"
)

// PairKey identifies one cache partition: the caller-supplied source and
// target language codes, compared by exact string match.
type PairKey struct {
	Source string
	Target string
}

// NewPairKey creates a PairKey from a source and target language code.
func NewPairKey(source, target string) PairKey {
	return PairKey{Source: source, Target: target}
}

// String returns the durable form of the key ("<source>:<target>").
func (k PairKey) String() string {
	return k.Source + ":" + k.Target
}

// ParsePairKey parses the "<source>:<target>" form. The split happens on the
// first colon.
func ParsePairKey(s string) (PairKey, bool) {
	source, target, ok := strings.Cut(s, ":")
	if !ok {
		return PairKey{}, false
	}
	return PairKey{Source: source, Target: target}, true
}

// Store is a persistent translation cache partitioned by language pair.
type Store interface {
	// Load reads the durable state. Failures are logged and leave the store
	// empty; they are never returned.
	Load(ctx context.Context)

	// Lookup returns the stored translation of text within pair.
	Lookup(pair PairKey, text string) (string, bool)

	// Upsert stores a translation in memory only.
	Upsert(pair PairKey, text, translated string)

	// LoadOrStore keeps an existing translation and reports it with loaded
	// true; otherwise it stores translated in memory.
	LoadOrStore(pair PairKey, text, translated string) (actual string, loaded bool)

	// Persist writes the in-memory state to durable storage.
	Persist(ctx context.Context) error

	// Entries returns a copy of every partition keyed by PairKey.String().
	Entries() map[string]map[string]string

	// Stats reports cache size and hit counters.
	Stats() Stats

	// Close releases the durable backend.
	Close() error
}

// Stats describes the state of a Store.
type Stats struct {
	Backend    string `json:"backend" yaml:"backend"`
	Partitions int    `json:"partitions" yaml:"partitions"`
	Entries    int    `json:"entries" yaml:"entries"`
	Pending    int    `json:"pending" yaml:"pending"`
	Hits       int64  `json:"hits" yaml:"hits"`
	Misses     int64  `json:"misses" yaml:"misses"`
	Dropped    int64  `json:"dropped" yaml:"dropped"`
}
