//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package calculator computes evaluation snapshots from confusion matrices or
// raw prediction/label batches. All functions are pure and side-effect free.
package calculator

import (
	"fmt"

	"github.com/detectionlab/evalmetrics/confusion"
	"github.com/detectionlab/evalmetrics/snapshot"
)

// ErrInvalidInput is returned when the input cannot be scored.
var ErrInvalidInput = confusion.ErrInvalidInput

// FromConfusionMatrix scores an aggregated confusion matrix.
//
// Accuracy is trace over total. Per-class precision, recall, and F1 follow the
// zero-denominator convention: a class with no predicted positives has
// precision 0, a class with no support has recall 0, and F1 is 0 whenever
// precision + recall is 0. The global precision, recall, and F1 are the
// unweighted arithmetic mean of the per-class values (macro-average).
func FromConfusionMatrix(m *confusion.Matrix, epoch int, trainingTimeMs int64, opt ...Option) (*snapshot.EvaluationSnapshot, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: confusion matrix is nil", ErrInvalidInput)
	}
	opts := newOptions(opt...)

	numClasses := m.NumClasses()
	perClass := make([]snapshot.ClassMetrics, numClasses)
	var macroPrecision, macroRecall, macroF1 float64
	for i := 0; i < numClasses; i++ {
		tp := float64(m.Count(i, i))
		precision := safeDivide(tp, float64(m.ColSum(i)))
		recall := safeDivide(tp, float64(m.RowSum(i)))
		f1 := safeDivide(2*precision*recall, precision+recall)
		perClass[i] = snapshot.ClassMetrics{Precision: precision, Recall: recall, F1: f1}
		macroPrecision += precision
		macroRecall += recall
		macroF1 += f1
	}
	macroPrecision /= float64(numClasses)
	macroRecall /= float64(numClasses)
	macroF1 /= float64(numClasses)
	accuracy := safeDivide(float64(m.Trace()), float64(m.Total()))

	snap, err := snapshot.New(epoch, accuracy, macroPrecision, macroRecall, macroF1, trainingTimeMs, perClass)
	if err != nil {
		return nil, err
	}
	if opts.lossSet {
		snap = snap.WithLoss(opts.loss)
	}
	return snap, nil
}

// FromPredictions reduces two equal-length label sequences into a confusion
// matrix sized 1 + max(label) and scores it. It fails when the sequences
// differ in length or are empty.
func FromPredictions(predicted, actual []int, epoch int, trainingTimeMs int64, opt ...Option) (*snapshot.EvaluationSnapshot, error) {
	m, err := confusion.FromLabels(predicted, actual)
	if err != nil {
		return nil, err
	}
	return FromConfusionMatrix(m, epoch, trainingTimeMs, opt...)
}

// safeDivide returns a/b, or 0 when b is 0.
func safeDivide(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
