package evaluator

import (
	"time"

	"go.uber.org/zap"
)

type options struct {
	logger *zap.Logger
	now    func() time.Time
}

func newOptions(opt ...Option) *options {
	opts := &options{
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, o := range opt {
		o(opts)
	}
	return opts
}

// Option configures an evaluator.
type Option func(*options)

// WithLogger overrides the default no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithNowFunc overrides the clock used to timestamp reports.
func WithNowFunc(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}
