package cache

import (
	"sync"
	"sync/atomic"
)

// Partitions is the thread-safe in-memory mirror shared by every Store
// backend. It tracks which entries have not been persisted yet.
type Partitions struct {
	mu         sync.RWMutex
	data       map[string]map[string]string
	pending    map[string]map[string]struct{}
	maxEntries int

	hits    atomic.Int64
	misses  atomic.Int64
	dropped atomic.Int64
}

// NewPartitions creates an empty mirror. maxEntries bounds each partition;
// zero or negative means unbounded.
func NewPartitions(maxEntries int) *Partitions {
	if maxEntries < 0 {
		maxEntries = 0
	}
	return &Partitions{
		data:       make(map[string]map[string]string),
		pending:    make(map[string]map[string]struct{}),
		maxEntries: maxEntries,
	}
}

// Lookup returns the translation of text stored under pair.
func (p *Partitions) Lookup(pair PairKey, text string) (string, bool) {
	p.mu.RLock()
	translated, ok := p.data[pair.String()][text]
	p.mu.RUnlock()

	if ok {
		p.hits.Add(1)
	} else {
		p.misses.Add(1)
	}
	return translated, ok
}

// Upsert inserts or overwrites one entry and marks it pending.
func (p *Partitions) Upsert(pair PairKey, text, translated string) {
	key := pair.String()

	p.mu.Lock()
	defer p.mu.Unlock()

	p.insertLocked(key, text, translated)
}

func (p *Partitions) insertLocked(key, text, translated string) {
	partition, ok := p.data[key]
	if !ok {
		partition = make(map[string]string)
		p.data[key] = partition
	}

	if _, exists := partition[text]; !exists && p.maxEntries > 0 && len(partition) >= p.maxEntries {
		p.dropped.Add(1)
		return
	}

	partition[text] = translated

	marks, ok := p.pending[key]
	if !ok {
		marks = make(map[string]struct{})
		p.pending[key] = marks
	}
	marks[text] = struct{}{}
}

// LoadOrStore returns the existing translation of text under pair if there
// is one. Otherwise it stores translated, marks it pending and returns it
// with loaded false. A full partition returns translated without storing it.
func (p *Partitions) LoadOrStore(pair PairKey, text, translated string) (actual string, loaded bool) {
	key := pair.String()

	p.mu.Lock()
	defer p.mu.Unlock()

	if existing, ok := p.data[key][text]; ok {
		return existing, true
	}
	p.insertLocked(key, text, translated)
	return translated, false
}

// Replace swaps the whole state for data, as loaded from durable storage.
// Nothing is pending afterwards.
func (p *Partitions) Replace(data map[string]map[string]string) {
	fresh := make(map[string]map[string]string, len(data))
	for key, entries := range data {
		partition := make(map[string]string, len(entries))
		for text, translated := range entries {
			partition[text] = translated
		}
		fresh[key] = partition
	}

	p.mu.Lock()
	p.data = fresh
	p.pending = make(map[string]map[string]struct{})
	p.mu.Unlock()
}

// Entries returns a deep copy of every partition.
func (p *Partitions) Entries() map[string]map[string]string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make(map[string]map[string]string, len(p.data))
	for key, entries := range p.data {
		if len(entries) == 0 {
			continue
		}
		partition := make(map[string]string, len(entries))
		for text, translated := range entries {
			partition[text] = translated
		}
		out[key] = partition
	}
	return out
}

// Pending returns a copy of the entries not yet persisted.
func (p *Partitions) Pending() map[string]map[string]string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make(map[string]map[string]string, len(p.pending))
	for key, marks := range p.pending {
		partition := make(map[string]string, len(marks))
		for text := range marks {
			partition[text] = p.data[key][text]
		}
		out[key] = partition
	}
	return out
}

// MarkPersisted clears the pending mark of every flushed entry whose value
// has not changed since it was flushed.
func (p *Partitions) MarkPersisted(flushed map[string]map[string]string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for key, entries := range flushed {
		marks := p.pending[key]
		for text, translated := range entries {
			if p.data[key][text] == translated {
				delete(marks, text)
			}
		}
		if len(marks) == 0 {
			delete(p.pending, key)
		}
	}
}

// Len returns the total number of entries across all partitions.
func (p *Partitions) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	n := 0
	for _, entries := range p.data {
		n += len(entries)
	}
	return n
}

func (p *Partitions) stats(backend string) Stats {
	p.mu.RLock()
	partitions, entries, pending := 0, 0, 0
	for _, partition := range p.data {
		if len(partition) > 0 {
			partitions++
		}
		entries += len(partition)
	}
	for _, marks := range p.pending {
		pending += len(marks)
	}
	p.mu.RUnlock()

	return Stats{
		Backend:    backend,
		Partitions: partitions,
		Entries:    entries,
		Pending:    pending,
		Hits:       p.hits.Load(),
		Misses:     p.misses.Load(),
		Dropped:    p.dropped.Load(),
	}
}
