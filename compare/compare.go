//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//

// Package compare builds model-vs-model comparison reports from evaluation
// snapshots: one table row per model plus a winner line per global metric.
package compare

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/detectionlab/evalmetrics/snapshot"
)

// ErrInvalidInput indicates the snapshots and names arguments do not form a
// valid comparison.
var ErrInvalidInput = errors.New("invalid comparison input")

// Metric identifies one of the four compared global metrics.
type Metric string

// Compared metrics, in report order.
const (
	MetricAccuracy  Metric = "Accuracy"
	MetricPrecision Metric = "Precision"
	MetricRecall    Metric = "Recall"
	MetricF1        Metric = "F1 Score"
)

// metricOrder fixes the rendering order of winner lines.
var metricOrder = []Metric{MetricAccuracy, MetricPrecision, MetricRecall, MetricF1}

// Entry pairs one model name with its evaluation snapshot.
type Entry struct {
	Name     string
	Snapshot *snapshot.EvaluationSnapshot
}

// Report is the outcome of comparing several models' snapshots.
type Report struct {
	// Entries preserves the caller's model order.
	Entries []Entry
	// Winners maps each metric to the name of the best model. Ties resolve
	// to the first occurrence.
	Winners map[Metric]string
}

// New compares the snapshots under the given names. The two slices must be
// non-empty and of equal length, and every snapshot must be non-nil.
func New(snaps []*snapshot.EvaluationSnapshot, names []string) (*Report, error) {
	if len(snaps) != len(names) {
		return nil, fmt.Errorf("%w: %d snapshots vs %d names", ErrInvalidInput, len(snaps), len(names))
	}
	if len(snaps) == 0 {
		return nil, fmt.Errorf("%w: nothing to compare", ErrInvalidInput)
	}
	entries := make([]Entry, 0, len(snaps))
	for i, snap := range snaps {
		if snap == nil {
			return nil, fmt.Errorf("%w: snapshot %d is nil", ErrInvalidInput, i)
		}
		entries = append(entries, Entry{Name: names[i], Snapshot: snap.Clone()})
	}
	r := &Report{
		Entries: entries,
		Winners: make(map[Metric]string, len(metricOrder)),
	}
	for _, metric := range metricOrder {
		r.Winners[metric] = r.winner(metric)
	}
	return r, nil
}

// winner returns the name of the entry with the highest value of the metric.
// Strictly greater keeps the first occurrence on ties.
func (r *Report) winner(metric Metric) string {
	best := r.Entries[0]
	for _, e := range r.Entries[1:] {
		if metricValue(e.Snapshot, metric) > metricValue(best.Snapshot, metric) {
			best = e
		}
	}
	return best.Name
}

func metricValue(snap *snapshot.EvaluationSnapshot, metric Metric) float64 {
	switch metric {
	case MetricAccuracy:
		return snap.Accuracy
	case MetricPrecision:
		return snap.Precision
	case MetricRecall:
		return snap.Recall
	case MetricF1:
		return snap.F1
	}
	return 0
}

// Render produces the plain-text comparison: a metrics table in entry order
// followed by one "Best <metric>" line per metric.
func (r *Report) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Model Comparison\n")
	fmt.Fprintf(&b, "%-20s%12s%12s%12s%12s\n", "Model", "Accuracy", "Precision", "Recall", "F1")
	for _, e := range r.Entries {
		fmt.Fprintf(&b, "%-20s%12.6f%12.6f%12.6f%12.6f\n",
			e.Name, e.Snapshot.Accuracy, e.Snapshot.Precision, e.Snapshot.Recall, e.Snapshot.F1)
	}
	fmt.Fprintf(&b, "\n")
	for _, metric := range metricOrder {
		fmt.Fprintf(&b, "Best %s: %s\n", metric, r.Winners[metric])
	}
	return b.String()
}

// WriteFile writes the rendered report to path, creating parent directories
// as needed.
func (r *Report) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(r.Render()), 0o644); err != nil {
		return fmt.Errorf("write comparison report: %w", err)
	}
	return nil
}
