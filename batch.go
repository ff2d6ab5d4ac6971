package transcache

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultBatchSize is the number of texts sent per provider call.
	DefaultBatchSize = 10
	// DefaultBatchDelay is the pause before every batch after the first.
	DefaultBatchDelay = time.Second
)

// AIProvider is the interface for translation backends.
type AIProvider interface {
	// ValidatePair checks that the provider can translate from source to
	// target before any text is sent.
	ValidatePair(source, target string) error

	// Translate returns one translation per text, in order.
	Translate(ctx context.Context, req TranslateRequest) ([]string, error)
}

// Sleeper pauses between batches. It returns early with ctx.Err() when the
// context is cancelled.
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the default Sleeper.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// BatchResult is the outcome of one provider call.
type BatchResult struct {
	Offset       int      // Position of Texts[0] in the full input
	Texts        []string // Texts sent in this batch
	Translations []string // Provider output, nil when Err is set
	Err          error    // Provider failure for this batch only
}

// OK reports whether the batch was translated.
func (b BatchResult) OK() bool {
	return b.Err == nil
}

// Outputs applies the passthrough policy: a failed batch yields its own
// inputs unchanged.
func (b BatchResult) Outputs() []string {
	if b.Err != nil {
		return b.Texts
	}
	return b.Translations
}

// BatchTranslator sends texts to an AIProvider in fixed-size batches,
// strictly in order, pausing between batches.
type BatchTranslator struct {
	provider  AIProvider
	batchSize int
	delay     time.Duration
	sleep     Sleeper
	logger    *logrus.Logger
}

// BatchOption is a functional option for configuring the BatchTranslator.
type BatchOption func(*BatchTranslator)

// WithBatchSize sets the number of texts per provider call.
func WithBatchSize(n int) BatchOption {
	return func(b *BatchTranslator) {
		if n > 0 {
			b.batchSize = n
		}
	}
}

// WithBatchDelay sets the pause between batches.
func WithBatchDelay(d time.Duration) BatchOption {
	return func(b *BatchTranslator) {
		if d >= 0 {
			b.delay = d
		}
	}
}

// WithSleeper replaces the function used to pause between batches.
func WithSleeper(s Sleeper) BatchOption {
	return func(b *BatchTranslator) {
		if s != nil {
			b.sleep = s
		}
	}
}

// WithBatchLogger sets the logger used for batch failures.
func WithBatchLogger(logger *logrus.Logger) BatchOption {
	return func(b *BatchTranslator) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBatchTranslator creates a BatchTranslator for the given provider.
func NewBatchTranslator(provider AIProvider, opts ...BatchOption) *BatchTranslator {
	b := &BatchTranslator{
		provider:  provider,
		batchSize: DefaultBatchSize,
		delay:     DefaultBatchDelay,
		sleep:     SleepContext,
		logger:    logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// BatchSize returns the configured batch size.
func (b *BatchTranslator) BatchSize() int {
	return b.batchSize
}

// TranslateMissing translates texts and returns one BatchResult per batch.
// Only a failed provider setup (such as an unsupported language pair) is
// returned as an error; a failed batch is recorded in its BatchResult and
// processing continues with the next one.
func (b *BatchTranslator) TranslateMissing(ctx context.Context, texts []string, source, target string) ([]BatchResult, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	providerTarget := ProviderLanguage(target)
	if err := b.provider.ValidatePair(source, providerTarget); err != nil {
		return nil, &SetupError{Message: "translation service unavailable", Cause: err}
	}

	results := make([]BatchResult, 0, (len(texts)+b.batchSize-1)/b.batchSize)
	for offset := 0; offset < len(texts); offset += b.batchSize {
		end := offset + b.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := BatchResult{Offset: offset, Texts: texts[offset:end]}

		if offset > 0 {
			if err := b.sleep(ctx, b.delay); err != nil {
				batch.Err = err
				results = append(results, b.logFailure(batch, source, providerTarget))
				continue
			}
		}

		batch.Translations, batch.Err = b.callProvider(ctx, batch.Texts, source, providerTarget)
		if batch.Err != nil {
			batch.Translations = nil
			batch = b.logFailure(batch, source, providerTarget)
		}
		results = append(results, batch)
	}

	return results, nil
}

// Translate is TranslateMissing with the passthrough policy applied: it
// returns exactly one output per input.
func (b *BatchTranslator) Translate(ctx context.Context, texts []string, source, target string) ([]string, error) {
	results, err := b.TranslateMissing(ctx, texts, source, target)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(texts))
	for _, r := range results {
		out = append(out, r.Outputs()...)
	}
	return out, nil
}

func (b *BatchTranslator) callProvider(ctx context.Context, texts []string, source, target string) ([]string, error) {
	translations, err := b.provider.Translate(ctx, TranslateRequest{
		Texts:      texts,
		SourceLang: source,
		TargetLang: target,
	})
	if err != nil {
		return nil, err
	}
	if len(translations) != len(texts) {
		return nil, &CountMismatchError{Expected: len(texts), Got: len(translations)}
	}
	return translations, nil
}

func (b *BatchTranslator) logFailure(batch BatchResult, source, target string) BatchResult {
	b.logger.WithFields(logrus.Fields{
		"action": "batch_translate",
		"offset": batch.Offset,
		"size":   len(batch.Texts),
		"source": source,
		"target": target,
	}).WithError(batch.Err).Warn("batch translation failed, returning original text")
	return batch
}
