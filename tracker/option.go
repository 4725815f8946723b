package tracker

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/detectionlab/evalmetrics/exporter"
	"github.com/detectionlab/evalmetrics/history"
	"github.com/detectionlab/evalmetrics/threshold"
)

// defaultFrequency evaluates every epoch.
const defaultFrequency = 1

type options struct {
	frequency      int
	exporters      []exporter.Exporter
	historyManager history.Manager
	thresholds     threshold.Set
	logger         *zap.Logger
}

func newOptions(opt ...Option) (*options, error) {
	opts := &options{
		frequency: defaultFrequency,
		logger:    zap.NewNop(),
	}
	for _, o := range opt {
		o(opts)
	}
	if opts.frequency < 1 {
		return nil, fmt.Errorf("evaluation frequency must be >= 1, got %d", opts.frequency)
	}
	return opts, nil
}

// Option configures a tracker.
type Option func(*options)

// WithEvaluationFrequency evaluates every f-th epoch. Defaults to every epoch.
func WithEvaluationFrequency(f int) Option {
	return func(o *options) {
		o.frequency = f
	}
}

// WithExporters registers exporters to receive every recorded snapshot.
func WithExporters(exporters ...exporter.Exporter) Option {
	return func(o *options) {
		o.exporters = append(o.exporters, exporters...)
	}
}

// WithHistoryManager persists the run history on Close.
func WithHistoryManager(m history.Manager) Option {
	return func(o *options) {
		o.historyManager = m
	}
}

// WithThresholds sets the quality gate applied to the latest snapshot.
func WithThresholds(set threshold.Set) Option {
	return func(o *options) {
		o.thresholds = set
	}
}

// WithLogger overrides the default no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
