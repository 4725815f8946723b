//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package tracker collects evaluation snapshots at epoch boundaries and fans
// them out to exporters. One tracker owns the history of one training run;
// trackers share no state, so concurrent runs need no coordination.
package tracker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/detectionlab/evalmetrics/calculator"
	"github.com/detectionlab/evalmetrics/history"
	"github.com/detectionlab/evalmetrics/snapshot"
	"github.com/detectionlab/evalmetrics/threshold"
)

// Batch is one validation batch: aligned prediction and label sequences plus
// the training loss the loop observed for the epoch.
type Batch struct {
	// Predicted holds the predicted class per sample.
	Predicted []int
	// Actual holds the true class per sample.
	Actual []int
	// Loss is the training loss of the epoch, zero when unknown.
	Loss float64
}

// BatchFunc yields a fresh validation batch for one evaluation.
type BatchFunc func(ctx context.Context) (*Batch, error)

// EpochListener is the callback contract the training loop drives. Tracker
// implements it; the loop invokes it synchronously at epoch boundaries.
type EpochListener interface {
	// OnEpochStart records the epoch's wall-clock start. No other effect.
	OnEpochStart(epoch int)
	// OnEpochEnd evaluates the epoch if the frequency gate admits it.
	OnEpochEnd(ctx context.Context, epoch int) error
}

// Tracker is the stateful per-run metrics collector. The training loop is the
// single logical writer; History and Latest are safe to call concurrently
// with OnEpochEnd.
type Tracker struct {
	modelName string
	provider  BatchFunc
	opts      *options

	nowFunc func() time.Time

	epochStart     time.Time
	epochRunning   bool
	warnedNoSource bool

	mu      sync.RWMutex
	records []*snapshot.EvaluationSnapshot
}

var _ EpochListener = (*Tracker)(nil)

// New creates a tracker for one model's training run. The provider may be
// nil, in which case every OnEpochEnd is a warned no-op.
func New(modelName string, provider BatchFunc, opt ...Option) (*Tracker, error) {
	if modelName == "" {
		return nil, fmt.Errorf("model name is empty")
	}
	opts, err := newOptions(opt...)
	if err != nil {
		return nil, err
	}
	t := &Tracker{
		modelName: modelName,
		provider:  provider,
		opts:      opts,
		nowFunc:   time.Now,
	}
	return t, nil
}

// OnEpochStart records the wall-clock start of an epoch.
func (t *Tracker) OnEpochStart(epoch int) {
	_ = epoch
	t.epochStart = t.nowFunc()
	t.epochRunning = true
}

// OnEpochEnd evaluates one validation batch when the frequency gate admits
// the epoch, appends the snapshot to history, and forwards it to every
// exporter. Exporters fail independently: each failure is logged and
// collected, and never prevents the others from running or poisons history.
func (t *Tracker) OnEpochEnd(ctx context.Context, epoch int) error {
	trainingTimeMs := t.finishEpoch()
	if epoch%t.opts.frequency != 0 {
		return nil
	}
	if t.provider == nil {
		if !t.warnedNoSource {
			t.opts.logger.Warn("no validation source configured, skipping evaluation",
				zap.String("model", t.modelName))
			t.warnedNoSource = true
		}
		return nil
	}
	if last, ok := t.Latest(); ok && epoch <= last.Epoch {
		return fmt.Errorf("%w: epoch %d not greater than last recorded epoch %d",
			calculator.ErrInvalidInput, epoch, last.Epoch)
	}
	batch, err := t.provider(ctx)
	if err != nil {
		return fmt.Errorf("pull validation batch: %w", err)
	}
	snap, err := calculator.FromPredictions(batch.Predicted, batch.Actual, epoch, trainingTimeMs,
		calculator.WithLoss(batch.Loss))
	if err != nil {
		return fmt.Errorf("score validation batch: %w", err)
	}
	t.append(snap)
	return t.export(ctx, snap)
}

// History returns a copy of the recorded snapshots in epoch order. The copy
// shares no state with the tracker.
func (t *Tracker) History() []*snapshot.EvaluationSnapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*snapshot.EvaluationSnapshot, len(t.records))
	for i, snap := range t.records {
		out[i] = snap.Clone()
	}
	return out
}

// Latest returns a copy of the last recorded snapshot, or false when no
// evaluation has been recorded yet.
func (t *Tracker) Latest() (*snapshot.EvaluationSnapshot, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.records) == 0 {
		return nil, false
	}
	return t.records[len(t.records)-1].Clone(), true
}

// GateStatus checks the latest snapshot against the configured thresholds.
func (t *Tracker) GateStatus() bool {
	snap, ok := t.Latest()
	if !ok {
		return false
	}
	return threshold.Validate(snap, t.opts.thresholds)
}

// Close persists the run history through the configured manager, if any, and
// closes every exporter. Failures are collected, not short-circuited.
func (t *Tracker) Close(ctx context.Context) error {
	var errs error
	if t.opts.historyManager != nil {
		record := &history.Record{
			ModelName:  t.modelName,
			Snapshots:  t.History(),
			GateStatus: threshold.Check(t.latestOrNil(), t.opts.thresholds),
		}
		if _, err := t.opts.historyManager.Save(ctx, record); err != nil {
			t.opts.logger.Warn("persist run history",
				zap.String("model", t.modelName), zap.Error(err))
			errs = multierror.Append(errs, fmt.Errorf("persist history: %w", err))
		}
	}
	for _, e := range t.opts.exporters {
		if err := e.Close(); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("close exporter %s: %w", e.Name(), err))
		}
	}
	return errs
}

// finishEpoch returns the elapsed epoch time in milliseconds and resets the
// state machine. An OnEpochEnd without a preceding OnEpochStart reports 0.
func (t *Tracker) finishEpoch() int64 {
	if !t.epochRunning {
		return 0
	}
	t.epochRunning = false
	elapsed := t.nowFunc().Sub(t.epochStart)
	if elapsed < 0 {
		return 0
	}
	return elapsed.Milliseconds()
}

func (t *Tracker) append(snap *snapshot.EvaluationSnapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.records = append(t.records, snap)
}

func (t *Tracker) export(ctx context.Context, snap *snapshot.EvaluationSnapshot) error {
	var errs error
	for _, e := range t.opts.exporters {
		if err := e.Export(ctx, snap); err != nil {
			t.opts.logger.Warn("exporter failed, continuing",
				zap.String("model", t.modelName),
				zap.String("exporter", e.Name()),
				zap.Int("epoch", snap.Epoch),
				zap.Error(err))
			errs = multierror.Append(errs, fmt.Errorf("exporter %s: %w", e.Name(), err))
		}
	}
	return errs
}

func (t *Tracker) latestOrNil() *snapshot.EvaluationSnapshot {
	snap, ok := t.Latest()
	if !ok {
		return nil
	}
	return snap
}
