//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package threshold provides the quality gate that decides whether a snapshot
// is good enough to release.
package threshold

import (
	"github.com/detectionlab/evalmetrics/snapshot"
	"github.com/detectionlab/evalmetrics/status"
)

// Set holds the configured minimums for the four global metrics.
type Set struct {
	// MinAccuracy is the minimum acceptable accuracy.
	MinAccuracy float64 `json:"minAccuracy"`
	// MinPrecision is the minimum acceptable macro precision.
	MinPrecision float64 `json:"minPrecision"`
	// MinRecall is the minimum acceptable macro recall.
	MinRecall float64 `json:"minRecall"`
	// MinF1 is the minimum acceptable macro F1.
	MinF1 float64 `json:"minF1"`
}

// Validate reports whether the snapshot meets or exceeds every threshold.
// A nil snapshot validates to false, never panics.
func Validate(snap *snapshot.EvaluationSnapshot, set Set) bool {
	if snap == nil {
		return false
	}
	return snap.Accuracy >= set.MinAccuracy &&
		snap.Precision >= set.MinPrecision &&
		snap.Recall >= set.MinRecall &&
		snap.F1 >= set.MinF1
}

// Check maps a snapshot onto a gate status. A nil snapshot is reported as
// not evaluated rather than failed.
func Check(snap *snapshot.EvaluationSnapshot, set Set) status.GateStatus {
	if snap == nil {
		return status.GateStatusNotEvaluated
	}
	if Validate(snap, set) {
		return status.GateStatusPassed
	}
	return status.GateStatusFailed
}
