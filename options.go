//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//

package evalmetrics

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/detectionlab/evalmetrics/exporter"
	"github.com/detectionlab/evalmetrics/history"
	"github.com/detectionlab/evalmetrics/threshold"
	"github.com/detectionlab/evalmetrics/tracker"
)

const defaultComparisonParallelism = 4

type options struct {
	outputDir      string
	frequency      int
	thresholds     threshold.Set
	source         tracker.BatchFunc
	exporters      []exporter.Exporter
	historyManager history.Manager
	logger         *zap.Logger
	parallelism    int
}

func newOptions(opt ...Option) (*options, error) {
	opts := &options{
		outputDir:   defaultOutputDir,
		frequency:   defaultFrequency,
		logger:      zap.NewNop(),
		parallelism: defaultComparisonParallelism,
	}
	for _, o := range opt {
		o(opts)
	}
	if opts.outputDir == "" {
		return nil, fmt.Errorf("output dir is empty")
	}
	if opts.frequency < 1 {
		return nil, fmt.Errorf("evaluation frequency must be >= 1, got %d", opts.frequency)
	}
	if opts.parallelism < 1 {
		return nil, fmt.Errorf("comparison parallelism must be >= 1, got %d", opts.parallelism)
	}
	return opts, nil
}

// Option configures a pipeline.
type Option func(*options)

// WithConfig applies an externally loaded configuration. Later options
// override individual fields.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		if cfg.OutputDir != "" {
			o.outputDir = cfg.OutputDir
		}
		o.frequency = cfg.EvaluationFrequency
		o.thresholds = cfg.Thresholds
	}
}

// WithOutputDir sets the directory metric files are written to.
func WithOutputDir(dir string) Option {
	return func(o *options) {
		o.outputDir = dir
	}
}

// WithEvaluationFrequency evaluates every f-th epoch.
func WithEvaluationFrequency(f int) Option {
	return func(o *options) {
		o.frequency = f
	}
}

// WithThresholds sets the quality-gate minimums.
func WithThresholds(set threshold.Set) Option {
	return func(o *options) {
		o.thresholds = set
	}
}

// WithValidationSource sets the provider the tracker pulls validation
// batches from at epoch boundaries.
func WithValidationSource(source tracker.BatchFunc) Option {
	return func(o *options) {
		o.source = source
	}
}

// WithExporters replaces the default CSV exporter with the given set.
func WithExporters(exporters ...exporter.Exporter) Option {
	return func(o *options) {
		o.exporters = exporters
	}
}

// WithHistoryManager persists the run history through m at Close.
func WithHistoryManager(m history.Manager) Option {
	return func(o *options) {
		o.historyManager = m
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

// WithComparisonParallelism sizes the worker pool used by CompareModels.
func WithComparisonParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}
