//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package snapshot provides the immutable evaluation result value types.
package snapshot

import (
	"errors"
	"fmt"
)

// ClassMetrics holds the quality metrics of a single class. Values are in
// [0, 1]; a zero denominator yields 0, never NaN.
type ClassMetrics struct {
	// Precision is TP / (TP + FP).
	Precision float64 `json:"precision"`
	// Recall is TP / (TP + FN).
	Recall float64 `json:"recall"`
	// F1 is the harmonic mean of precision and recall.
	F1 float64 `json:"f1"`
}

// EvaluationSnapshot records the metrics of one evaluation pass. A snapshot is
// immutable after construction: deriving a variant goes through WithClassMetrics,
// which builds a new snapshot instead of mutating a published one.
type EvaluationSnapshot struct {
	// Epoch is the training epoch this snapshot was taken at.
	Epoch int `json:"epoch"`
	// Accuracy is trace over total of the underlying confusion matrix.
	Accuracy float64 `json:"accuracy"`
	// Precision is the macro-average of per-class precision.
	Precision float64 `json:"precision"`
	// Recall is the macro-average of per-class recall.
	Recall float64 `json:"recall"`
	// F1 is the macro-average of per-class F1.
	F1 float64 `json:"f1"`
	// Loss is the training loss reported by the caller, zero when unknown.
	Loss float64 `json:"loss,omitempty"`
	// TrainingTimeMs is the wall-clock duration of the epoch in milliseconds.
	TrainingTimeMs int64 `json:"trainingTimeMs"`
	// PerClass holds class metrics indexed by class.
	PerClass []ClassMetrics `json:"perClass,omitempty"`
}

// New creates a snapshot. The per-class slice is copied, not retained.
func New(epoch int, accuracy, precision, recall, f1 float64, trainingTimeMs int64, perClass []ClassMetrics) (*EvaluationSnapshot, error) {
	if epoch < 0 {
		return nil, fmt.Errorf("epoch is negative: %d", epoch)
	}
	if trainingTimeMs < 0 {
		return nil, fmt.Errorf("training time is negative: %d", trainingTimeMs)
	}
	s := &EvaluationSnapshot{
		Epoch:          epoch,
		Accuracy:       accuracy,
		Precision:      precision,
		Recall:         recall,
		F1:             f1,
		TrainingTimeMs: trainingTimeMs,
		PerClass:       clonePerClass(perClass),
	}
	return s, nil
}

// NumClasses returns the number of classes covered by the snapshot.
func (s *EvaluationSnapshot) NumClasses() int {
	return len(s.PerClass)
}

// Class returns the metrics of one class.
func (s *EvaluationSnapshot) Class(classIndex int) (ClassMetrics, bool) {
	if classIndex < 0 || classIndex >= len(s.PerClass) {
		return ClassMetrics{}, false
	}
	return s.PerClass[classIndex], true
}

// WithClassMetrics returns a new snapshot with one class's metrics replaced.
// The receiver is left untouched.
func (s *EvaluationSnapshot) WithClassMetrics(classIndex int, cm ClassMetrics) (*EvaluationSnapshot, error) {
	if classIndex < 0 || classIndex >= len(s.PerClass) {
		return nil, errors.New("class index out of range")
	}
	out := s.Clone()
	out.PerClass[classIndex] = cm
	return out, nil
}

// WithLoss returns a new snapshot carrying the given training loss.
func (s *EvaluationSnapshot) WithLoss(loss float64) *EvaluationSnapshot {
	out := s.Clone()
	out.Loss = loss
	return out
}

// Clone returns a deep copy that shares no state with the receiver.
func (s *EvaluationSnapshot) Clone() *EvaluationSnapshot {
	out := *s
	out.PerClass = clonePerClass(s.PerClass)
	return &out
}

func clonePerClass(perClass []ClassMetrics) []ClassMetrics {
	if perClass == nil {
		return nil
	}
	out := make([]ClassMetrics, len(perClass))
	copy(out, perClass)
	return out
}
