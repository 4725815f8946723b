//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//

package evaluator

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFindOptimalThresholds verifies the Youden's J argmax per class.
func TestFindOptimalThresholds(t *testing.T) {
	curves := map[int][]ROCPoint{
		0: {
			{Threshold: 0.1, TPR: 0.95, FPR: 0.60}, // J = 0.35
			{Threshold: 0.5, TPR: 0.85, FPR: 0.15}, // J = 0.70, best
			{Threshold: 0.9, TPR: 0.40, FPR: 0.02}, // J = 0.38
		},
		1: {
			{Threshold: 0.3, TPR: 0.70, FPR: 0.30}, // J = 0.40, best
			{Threshold: 0.7, TPR: 0.50, FPR: 0.20}, // J = 0.30
		},
	}
	got := FindOptimalThresholds(curves)
	require.Len(t, got, 2)
	assert.InDelta(t, 0.5, got[0].Threshold, 1e-12)
	assert.InDelta(t, 0.3, got[1].Threshold, 1e-12)
}

// TestFindOptimalThresholds_TieLowestThreshold verifies equal J values
// resolve to the lowest threshold regardless of input order.
func TestFindOptimalThresholds_TieLowestThreshold(t *testing.T) {
	curves := map[int][]ROCPoint{
		0: {
			{Threshold: 0.8, TPR: 0.70, FPR: 0.20}, // J = 0.5
			{Threshold: 0.2, TPR: 0.90, FPR: 0.40}, // J = 0.5, lower threshold
			{Threshold: 0.5, TPR: 0.60, FPR: 0.10}, // J = 0.5
		},
	}
	got := FindOptimalThresholds(curves)
	require.Len(t, got, 1)
	assert.InDelta(t, 0.2, got[0].Threshold, 1e-12)
}

// TestFindOptimalThresholds_EmptyCurve verifies classes without samples
// are omitted.
func TestFindOptimalThresholds_EmptyCurve(t *testing.T) {
	curves := map[int][]ROCPoint{
		0: {},
		1: {{Threshold: 0.5, TPR: 1, FPR: 0}},
	}
	got := FindOptimalThresholds(curves)
	require.Len(t, got, 1)
	_, ok := got[0]
	assert.False(t, ok)
}

// TestAUC verifies trapezoidal integration over FPR-sorted points.
func TestAUC(t *testing.T) {
	// Perfect classifier corner plus the two axis endpoints.
	perfect := []ROCPoint{
		{Threshold: 1.0, TPR: 0, FPR: 0},
		{Threshold: 0.5, TPR: 1, FPR: 0},
		{Threshold: 0.0, TPR: 1, FPR: 1},
	}
	assert.InDelta(t, 1.0, AUC(perfect), 1e-12)

	// Diagonal: random classifier.
	diagonal := []ROCPoint{
		{Threshold: 1.0, TPR: 0, FPR: 0},
		{Threshold: 0.5, TPR: 0.5, FPR: 0.5},
		{Threshold: 0.0, TPR: 1, FPR: 1},
	}
	assert.InDelta(t, 0.5, AUC(diagonal), 1e-12)

	// Ordering of the input must not matter.
	shuffled := []ROCPoint{diagonal[2], diagonal[0], diagonal[1]}
	assert.InDelta(t, 0.5, AUC(shuffled), 1e-12)

	assert.Zero(t, AUC(nil))
	assert.Zero(t, AUC(perfect[:1]))
}

// TestWriteThresholdCSV verifies the header, row order and formatting.
func TestWriteThresholdCSV(t *testing.T) {
	dir := t.TempDir()
	e, err := New("resnet", dir)
	require.NoError(t, err)

	thresholds := map[int]OptimalThreshold{
		2: {Threshold: 0.75, AUC: 0.91},
		0: {Threshold: 0.5, AUC: 0.88},
		1: {Threshold: 0.25, AUC: 0.97},
	}
	path, err := e.WriteThresholdCSV(thresholds)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "resnet_optimal_thresholds.csv"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"ClassIndex", "OptimalThreshold", "AUC"}, rows[0])
	assert.Equal(t, []string{"0", "0.500000", "0.880000"}, rows[1])
	assert.Equal(t, []string{"1", "0.250000", "0.970000"}, rows[2])
	assert.Equal(t, []string{"2", "0.750000", "0.910000"}, rows[3])
}
