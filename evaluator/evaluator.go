//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package evaluator performs one-shot deep evaluation of a trained model:
// a full pass over an evaluation dataset aggregated into a single confusion
// matrix, report generation, and optimal-threshold search over ROC curves.
package evaluator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/detectionlab/evalmetrics/calculator"
	"github.com/detectionlab/evalmetrics/confusion"
	"github.com/detectionlab/evalmetrics/snapshot"
)

// reportTimestampLayout names report files uniquely per generation.
const reportTimestampLayout = "20060102-150405"

// Source yields successive prediction/label batches of the evaluation
// dataset and io.EOF once the dataset is exhausted.
type Source interface {
	Next(ctx context.Context) (predicted, actual []int, err error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) (predicted, actual []int, err error)

// Next implements Source.
func (f SourceFunc) Next(ctx context.Context) ([]int, []int, error) {
	return f(ctx)
}

// Evaluator is bound to one model and output directory.
type Evaluator struct {
	modelName string
	outputDir string
	opts      *options
}

// New creates an evaluator for the given model writing under outputDir.
func New(modelName, outputDir string, opt ...Option) (*Evaluator, error) {
	if modelName == "" {
		return nil, errors.New("model name is empty")
	}
	if outputDir == "" {
		return nil, errors.New("output dir is empty")
	}
	return &Evaluator{modelName: modelName, outputDir: outputDir, opts: newOptions(opt...)}, nil
}

// Evaluate drains the source, aggregating every batch into one confusion
// matrix, and scores the aggregate once. Unlike the tracker, which scores a
// single batch per epoch, this covers the whole dataset. An exhausted source
// that produced no samples is an invalid input.
func (e *Evaluator) Evaluate(ctx context.Context, src Source) (*snapshot.EvaluationSnapshot, *confusion.Matrix, error) {
	if src == nil {
		return nil, nil, fmt.Errorf("%w: source is nil", calculator.ErrInvalidInput)
	}
	var aggregate *confusion.Matrix
	for {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		predicted, actual, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("pull evaluation batch: %w", err)
		}
		if len(predicted) == 0 && len(actual) == 0 {
			continue
		}
		batch, err := confusion.FromLabels(predicted, actual)
		if err != nil {
			return nil, nil, err
		}
		if aggregate == nil {
			aggregate = batch
			continue
		}
		if err := e.merge(&aggregate, batch); err != nil {
			return nil, nil, err
		}
	}
	if aggregate == nil {
		return nil, nil, fmt.Errorf("%w: evaluation dataset is empty", calculator.ErrInvalidInput)
	}
	snap, err := calculator.FromConfusionMatrix(aggregate, 0, 0)
	if err != nil {
		return nil, nil, err
	}
	e.opts.logger.Info("full-pass evaluation finished",
		zap.String("model", e.modelName),
		zap.Int("samples", aggregate.Total()),
		zap.Float64("accuracy", snap.Accuracy))
	return snap, aggregate, nil
}

// WriteReport renders the snapshot and confusion matrix as a text report at
// <outputDir>/<modelName>_evaluation_report_<timestamp>.txt and returns the path.
func (e *Evaluator) WriteReport(snap *snapshot.EvaluationSnapshot, m *confusion.Matrix) (string, error) {
	if snap == nil {
		return "", fmt.Errorf("%w: snapshot is nil", calculator.ErrInvalidInput)
	}
	if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s_evaluation_report_%s.txt", e.modelName, e.opts.now().UTC().Format(reportTimestampLayout))
	path := filepath.Join(e.outputDir, name)
	if err := os.WriteFile(path, []byte(e.renderReport(snap, m)), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// renderReport builds the report sections in fixed order: title, global
// metrics, confusion matrix, per-class table.
func (e *Evaluator) renderReport(snap *snapshot.EvaluationSnapshot, m *confusion.Matrix) string {
	var b strings.Builder
	fmt.Fprintf(&b, "==================================================\n")
	fmt.Fprintf(&b, "Evaluation Report: %s\n", e.modelName)
	fmt.Fprintf(&b, "Generated: %s\n", e.opts.now().UTC().Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "==================================================\n\n")

	fmt.Fprintf(&b, "Global Metrics\n")
	fmt.Fprintf(&b, "  Accuracy : %.6f\n", snap.Accuracy)
	fmt.Fprintf(&b, "  Precision: %.6f\n", snap.Precision)
	fmt.Fprintf(&b, "  Recall   : %.6f\n", snap.Recall)
	fmt.Fprintf(&b, "  F1 Score : %.6f\n\n", snap.F1)

	fmt.Fprintf(&b, "Confusion Matrix\n")
	if m == nil {
		fmt.Fprintf(&b, "  (not available)\n\n")
	} else {
		fmt.Fprintf(&b, "%10s", "")
		for j := 0; j < m.NumClasses(); j++ {
			fmt.Fprintf(&b, "%10s", fmt.Sprintf("pred_%d", j))
		}
		fmt.Fprintf(&b, "\n")
		for i := 0; i < m.NumClasses(); i++ {
			fmt.Fprintf(&b, "%10s", fmt.Sprintf("true_%d", i))
			for j := 0; j < m.NumClasses(); j++ {
				fmt.Fprintf(&b, "%10d", m.Count(i, j))
			}
			fmt.Fprintf(&b, "\n")
		}
		fmt.Fprintf(&b, "\n")
	}

	fmt.Fprintf(&b, "Per-Class Metrics\n")
	fmt.Fprintf(&b, "%8s%12s%12s%12s\n", "Class", "Precision", "Recall", "F1")
	for i, cm := range snap.PerClass {
		fmt.Fprintf(&b, "%8d%12.6f%12.6f%12.6f\n", i, cm.Precision, cm.Recall, cm.F1)
	}
	return b.String()
}

// merge accumulates a batch matrix, growing the aggregate when a later batch
// reveals a higher class index.
func (e *Evaluator) merge(aggregate **confusion.Matrix, batch *confusion.Matrix) error {
	a := *aggregate
	if batch.NumClasses() > a.NumClasses() {
		grown, err := confusion.New(batch.NumClasses())
		if err != nil {
			return err
		}
		if err := mergeInto(grown, a); err != nil {
			return err
		}
		a = grown
	}
	if err := mergeInto(a, batch); err != nil {
		return err
	}
	*aggregate = a
	return nil
}

// mergeInto adds src counts into dst, which must be at least as large.
func mergeInto(dst, src *confusion.Matrix) error {
	if src.NumClasses() == dst.NumClasses() {
		return dst.Merge(src)
	}
	for i := 0; i < src.NumClasses(); i++ {
		for j := 0; j < src.NumClasses(); j++ {
			if err := dst.AddN(i, j, src.Count(i, j)); err != nil {
				return err
			}
		}
	}
	return nil
}
