package cache

import "github.com/sirupsen/logrus"

type storeOptions struct {
	logger     *logrus.Logger
	maxEntries int
}

// Option configures a Store.
type Option func(*storeOptions)

// WithLogger sets the logger used for load and persist failures.
func WithLogger(logger *logrus.Logger) Option {
	return func(o *storeOptions) {
		o.logger = logger
	}
}

// WithMaxEntriesPerPartition bounds the number of entries kept per language
// pair. Zero means unbounded. Existing entries are never evicted; new texts
// for a full partition are simply not stored.
func WithMaxEntriesPerPartition(n int) Option {
	return func(o *storeOptions) {
		o.maxEntries = n
	}
}

func buildOptions(opts []Option) storeOptions {
	o := storeOptions{logger: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logrus.StandardLogger()
	}
	if o.maxEntries < 0 {
		o.maxEntries = 0
	}
	return o
}
