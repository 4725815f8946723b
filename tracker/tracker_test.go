//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//

package tracker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/detectionlab/evalmetrics/history/inmemory"
	"github.com/detectionlab/evalmetrics/snapshot"
	"github.com/detectionlab/evalmetrics/status"
	"github.com/detectionlab/evalmetrics/threshold"
)

func perfectBatch(ctx context.Context) (*Batch, error) {
	return &Batch{Predicted: []int{0, 1, 1, 0}, Actual: []int{0, 1, 1, 0}, Loss: 0.2}, nil
}

// recordingExporter captures exported snapshots and can be made to fail.
type recordingExporter struct {
	name     string
	fail     bool
	exported []*snapshot.EvaluationSnapshot
	closed   bool
}

func (e *recordingExporter) Name() string { return e.name }

func (e *recordingExporter) Export(ctx context.Context, snap *snapshot.EvaluationSnapshot) error {
	if e.fail {
		return errors.New("export refused")
	}
	e.exported = append(e.exported, snap)
	return nil
}

func (e *recordingExporter) Close() error {
	e.closed = true
	return nil
}

// TestOnEpochEnd_FrequencyGating verifies f=2 over 5 epochs records exactly {2, 4}.
func TestOnEpochEnd_FrequencyGating(t *testing.T) {
	tr, err := New("vgg16", perfectBatch, WithEvaluationFrequency(2))
	require.NoError(t, err)

	ctx := context.Background()
	for epoch := 1; epoch <= 5; epoch++ {
		tr.OnEpochStart(epoch)
		require.NoError(t, tr.OnEpochEnd(ctx, epoch))
	}

	hist := tr.History()
	require.Len(t, hist, 2)
	assert.Equal(t, 2, hist[0].Epoch)
	assert.Equal(t, 4, hist[1].Epoch)

	latest, ok := tr.Latest()
	require.True(t, ok)
	assert.Equal(t, 4, latest.Epoch)
}

// TestOnEpochEnd_NoProvider verifies a tracker without a validation source
// is a no-op that records nothing.
func TestOnEpochEnd_NoProvider(t *testing.T) {
	tr, err := New("vgg16", nil)
	require.NoError(t, err)

	require.NoError(t, tr.OnEpochEnd(context.Background(), 1))
	assert.Empty(t, tr.History())
	_, ok := tr.Latest()
	assert.False(t, ok)
}

// TestOnEpochEnd_WithoutStart verifies the permissive default: the snapshot
// is recorded with training time 0.
func TestOnEpochEnd_WithoutStart(t *testing.T) {
	tr, err := New("vgg16", perfectBatch)
	require.NoError(t, err)

	require.NoError(t, tr.OnEpochEnd(context.Background(), 1))
	hist := tr.History()
	require.Len(t, hist, 1)
	assert.Equal(t, int64(0), hist[0].TrainingTimeMs)
}

// TestOnEpochEnd_TrainingTime verifies elapsed time is measured from OnEpochStart.
func TestOnEpochEnd_TrainingTime(t *testing.T) {
	tr, err := New("vgg16", perfectBatch)
	require.NoError(t, err)

	base := time.Now()
	calls := 0
	tr.nowFunc = func() time.Time {
		calls++
		if calls == 1 {
			return base
		}
		return base.Add(1500 * time.Millisecond)
	}

	tr.OnEpochStart(1)
	require.NoError(t, tr.OnEpochEnd(context.Background(), 1))
	hist := tr.History()
	require.Len(t, hist, 1)
	assert.Equal(t, int64(1500), hist[0].TrainingTimeMs)
}

// TestOnEpochEnd_ExporterIsolation verifies a failing exporter neither stops
// the others nor prevents the history entry.
func TestOnEpochEnd_ExporterIsolation(t *testing.T) {
	bad := &recordingExporter{name: "bad", fail: true}
	good := &recordingExporter{name: "good"}
	tr, err := New("vgg16", perfectBatch, WithExporters(bad, good))
	require.NoError(t, err)

	err = tr.OnEpochEnd(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")

	require.Len(t, tr.History(), 1)
	require.Len(t, good.exported, 1)
	assert.Equal(t, 1, good.exported[0].Epoch)
}

// TestOnEpochEnd_ProviderError verifies a failing provider records nothing.
func TestOnEpochEnd_ProviderError(t *testing.T) {
	tr, err := New("vgg16", func(ctx context.Context) (*Batch, error) {
		return nil, errors.New("loader offline")
	})
	require.NoError(t, err)

	require.Error(t, tr.OnEpochEnd(context.Background(), 1))
	assert.Empty(t, tr.History())
}

// TestOnEpochEnd_NonIncreasingEpoch verifies repeated epochs are rejected
// and leave history intact.
func TestOnEpochEnd_NonIncreasingEpoch(t *testing.T) {
	tr, err := New("vgg16", perfectBatch)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, tr.OnEpochEnd(ctx, 2))
	require.Error(t, tr.OnEpochEnd(ctx, 2))
	require.Error(t, tr.OnEpochEnd(ctx, 1))
	assert.Len(t, tr.History(), 1)
}

// TestHistory_Copy verifies the returned history shares no state with the tracker.
func TestHistory_Copy(t *testing.T) {
	tr, err := New("vgg16", perfectBatch)
	require.NoError(t, err)
	require.NoError(t, tr.OnEpochEnd(context.Background(), 1))

	hist := tr.History()
	hist[0].PerClass[0].Precision = -1

	again := tr.History()
	assert.NotEqual(t, -1.0, again[0].PerClass[0].Precision)
}

// TestClose verifies history persistence and exporter shutdown.
func TestClose(t *testing.T) {
	manager := inmemory.NewManager()
	exp := &recordingExporter{name: "csv"}
	tr, err := New("vgg16", perfectBatch,
		WithExporters(exp),
		WithHistoryManager(manager),
		WithThresholds(threshold.Set{MinAccuracy: 0.5}),
	)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, tr.OnEpochEnd(ctx, 1))
	require.NoError(t, tr.Close(ctx))
	assert.True(t, exp.closed)

	ids, err := manager.List(ctx)
	require.NoError(t, err)
	require.Len(t, ids, 1)
	record, err := manager.Get(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, "vgg16", record.ModelName)
	assert.Equal(t, status.GateStatusPassed, record.GateStatus)
	require.Len(t, record.Snapshots, 1)
}

// TestGateStatus verifies the latest snapshot is checked against thresholds.
func TestGateStatus(t *testing.T) {
	tr, err := New("vgg16", perfectBatch, WithThresholds(threshold.Set{MinAccuracy: 0.5}))
	require.NoError(t, err)
	assert.False(t, tr.GateStatus())
	require.NoError(t, tr.OnEpochEnd(context.Background(), 1))
	assert.True(t, tr.GateStatus())
}

// TestNew_Validation verifies constructor checks.
func TestNew_Validation(t *testing.T) {
	_, err := New("", perfectBatch)
	require.Error(t, err)
	_, err = New("m", perfectBatch, WithEvaluationFrequency(0))
	require.Error(t, err)
}
