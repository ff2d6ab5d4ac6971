package transcache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/ZaguanLabs/transcache/cache"
)

// stubProvider translates "x" to "<target>:x" and records every call.
type stubProvider struct {
	mu       sync.Mutex
	calls    []TranslateRequest
	pairErr  error
	failCall map[int]error // call index -> error
	short    map[int]bool  // call index -> drop the last translation
}

func (p *stubProvider) ValidatePair(source, target string) error {
	return p.pairErr
}

func (p *stubProvider) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	p.mu.Lock()
	idx := len(p.calls)
	p.calls = append(p.calls, req)
	p.mu.Unlock()

	if err := p.failCall[idx]; err != nil {
		return nil, err
	}

	out := make([]string, len(req.Texts))
	for i, text := range req.Texts {
		out[i] = req.TargetLang + ":" + text
	}
	if p.short[idx] {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (p *stubProvider) Calls() []TranslateRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]TranslateRequest(nil), p.calls...)
}

func (p *stubProvider) SentTexts() []string {
	var texts []string
	for _, c := range p.Calls() {
		texts = append(texts, c.Texts...)
	}
	return texts
}

// recordingSleeper records requested pauses without sleeping.
type recordingSleeper struct {
	mu     sync.Mutex
	pauses []time.Duration
	err    error
}

func (s *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pauses = append(s.pauses, d)
	return s.err
}

func (s *recordingSleeper) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pauses)
}

// memStore is an in-memory cache.Store that counts Persist calls.
type memStore struct {
	*cache.Partitions

	mu          sync.Mutex
	persists    int
	persistErr  error
	persistCtxs []context.Context
}

func newMemStore() *memStore {
	return &memStore{Partitions: cache.NewPartitions(0)}
}

func (s *memStore) Load(ctx context.Context) {}

func (s *memStore) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persists++
	s.persistCtxs = append(s.persistCtxs, ctx)
	if s.persistErr != nil {
		return s.persistErr
	}
	s.MarkPersisted(s.Pending())
	return nil
}

func (s *memStore) Persists() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persists
}

func (s *memStore) Stats() cache.Stats {
	return cache.Stats{Backend: "memory", Entries: s.Len()}
}

func (s *memStore) Close() error { return nil }

var errBoom = errors.New("boom")

func nullLogger() (*logrus.Logger, *test.Hook) {
	return test.NewNullLogger()
}

func newTestCoordinator(p AIProvider, store cache.Store, sleeper Sleeper) *Coordinator {
	logger, _ := nullLogger()
	if sleeper == nil {
		sleeper = func(context.Context, time.Duration) error { return nil }
	}
	bt := NewBatchTranslator(p, WithSleeper(sleeper), WithBatchLogger(logger))
	return NewCoordinator(store, bt, WithLogger(logger))
}

func numbered(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return out
}
