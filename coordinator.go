package transcache

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ZaguanLabs/transcache/cache"
)

// Coordinator runs the cache-consult / batch-fill / cache-update cycle for
// translation requests.
type Coordinator struct {
	store      cache.Store
	translator *BatchTranslator
	logger     *logrus.Logger

	// writeMu serializes upsert+persist across concurrent requests.
	writeMu sync.Mutex
}

// CoordinatorOption is a functional option for configuring the Coordinator.
type CoordinatorOption func(*Coordinator)

// WithLogger sets the coordinator logger.
func WithLogger(logger *logrus.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCoordinator creates a Coordinator over a loaded store.
func NewCoordinator(store cache.Store, translator *BatchTranslator, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		store:      store,
		translator: translator,
		logger:     logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Store returns the underlying cache store.
func (c *Coordinator) Store() cache.Store {
	return c.store
}

// missing records one distinct cache miss and every input index holding it.
type missing struct {
	text    string
	indices []int
}

// Translate resolves every input text from the cache or the provider and
// returns the results in input order.
//
// An empty input returns an *InputError. A provider setup failure returns a
// *SetupError and leaves the cache untouched. Failed batches come back as
// untranslated text and that text is cached like any other result. A request
// fully served from the cache never touches durable storage.
func (c *Coordinator) Translate(ctx context.Context, in Input, source, target string) (*Result, error) {
	if in.Empty() {
		return nil, &InputError{Message: "invalid request", Cause: ErrNoText}
	}
	if source == "" {
		source = DefaultSourceLang
	}
	if target == "" {
		target = DefaultTargetLang
	}

	pair := cache.NewPairKey(source, target)
	result := &Result{
		Items:  make([]Translation, len(in.Texts)),
		Single: in.Single,
	}

	// Check cache for each text
	var misses []*missing
	seen := make(map[string]*missing)
	for i, text := range in.Texts {
		result.Items[i] = Translation{Original: text, Source: source}

		if translated, ok := c.store.Lookup(pair, text); ok {
			result.Items[i].Translated = translated
			result.CachedCount++
			continue
		}

		// Deduplicate cache misses
		if m, ok := seen[text]; ok {
			m.indices = append(m.indices, i)
			continue
		}
		m := &missing{text: text, indices: []int{i}}
		seen[text] = m
		misses = append(misses, m)
	}

	fields := logrus.Fields{
		"action": "translate",
		"pair":   pair.String(),
		"total":  len(in.Texts),
		"cached": result.CachedCount,
	}

	if len(misses) == 0 {
		c.logger.WithFields(fields).Debug("all items found in cache")
		return result, nil
	}

	texts := make([]string, len(misses))
	for i, m := range misses {
		texts[i] = m.text
	}

	fields["missing"] = len(texts)
	c.logger.WithFields(fields).Info("translating new items")

	batches, err := c.translator.TranslateMissing(ctx, texts, source, target)
	if err != nil {
		c.logger.WithFields(fields).WithError(err).Error("translation error")
		return nil, err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	upserted := 0
	for _, batch := range batches {
		outputs := batch.Outputs()
		for j, output := range outputs {
			m := misses[batch.Offset+j]

			// A concurrent request may have stored this text first; its value wins.
			translated, loaded := c.store.LoadOrStore(pair, m.text, output)
			if !loaded {
				upserted++
			}

			for _, idx := range m.indices {
				result.Items[idx].Translated = translated
				if batch.OK() {
					result.TranslatedCount++
				} else {
					result.FailedCount++
				}
			}
		}
	}

	// Persistence must not depend on the caller staying connected.
	if upserted > 0 {
		if err := c.store.Persist(context.WithoutCancel(ctx)); err != nil {
			cacheErr := &CacheError{Message: "failed to save cache", Cause: err}
			c.logger.WithFields(fields).WithError(cacheErr).Warn("translations returned without being persisted")
		}
	}

	return result, nil
}
