//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package evalmetrics ties the metric subsystem together: a Pipeline wires a
// per-model tracker, a full-pass evaluator, exporters, thresholds and
// optional history persistence behind one constructor, and CompareModels
// evaluates several models concurrently and reports the winners.
package evalmetrics

import (
	"context"
	"errors"

	"github.com/detectionlab/evalmetrics/evaluator"
	"github.com/detectionlab/evalmetrics/exporter/csvfile"
	"github.com/detectionlab/evalmetrics/snapshot"
	"github.com/detectionlab/evalmetrics/status"
	"github.com/detectionlab/evalmetrics/threshold"
	"github.com/detectionlab/evalmetrics/tracker"
)

// Pipeline binds the evaluation components of one model to a shared
// configuration.
type Pipeline struct {
	modelName string
	opts      *options
	tracker   *tracker.Tracker
	evaluator *evaluator.Evaluator
}

// New creates a pipeline for the given model. Without WithExporters the
// tracker writes the per-epoch CSV under the output directory.
func New(modelName string, opt ...Option) (*Pipeline, error) {
	if modelName == "" {
		return nil, errors.New("model name is empty")
	}
	opts, err := newOptions(opt...)
	if err != nil {
		return nil, err
	}
	exporters := opts.exporters
	if exporters == nil {
		csvExporter, err := csvfile.New(opts.outputDir, modelName)
		if err != nil {
			return nil, err
		}
		exporters = append(exporters, csvExporter)
	}
	trackerOpts := []tracker.Option{
		tracker.WithEvaluationFrequency(opts.frequency),
		tracker.WithExporters(exporters...),
		tracker.WithThresholds(opts.thresholds),
		tracker.WithLogger(opts.logger),
	}
	if opts.historyManager != nil {
		trackerOpts = append(trackerOpts, tracker.WithHistoryManager(opts.historyManager))
	}
	tr, err := tracker.New(modelName, opts.source, trackerOpts...)
	if err != nil {
		return nil, err
	}
	ev, err := evaluator.New(modelName, opts.outputDir, evaluator.WithLogger(opts.logger))
	if err != nil {
		return nil, err
	}
	return &Pipeline{modelName: modelName, opts: opts, tracker: tr, evaluator: ev}, nil
}

// ModelName returns the model the pipeline is bound to.
func (p *Pipeline) ModelName() string {
	return p.modelName
}

// Tracker returns the epoch listener the training loop drives.
func (p *Pipeline) Tracker() *tracker.Tracker {
	return p.tracker
}

// Evaluator returns the on-demand full-pass evaluator.
func (p *Pipeline) Evaluator() *evaluator.Evaluator {
	return p.evaluator
}

// Validate gates a snapshot against the configured thresholds.
func (p *Pipeline) Validate(snap *snapshot.EvaluationSnapshot) bool {
	return threshold.Validate(snap, p.opts.thresholds)
}

// GateStatus reports the quality gate of the latest tracked snapshot.
func (p *Pipeline) GateStatus() status.GateStatus {
	snap, ok := p.tracker.Latest()
	if !ok {
		return status.GateStatusNotEvaluated
	}
	return threshold.Check(snap, p.opts.thresholds)
}

// Close flushes and closes the tracker, persisting history when a manager
// is configured.
func (p *Pipeline) Close(ctx context.Context) error {
	return p.tracker.Close(ctx)
}
