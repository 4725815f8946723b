//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package dashboard adapts evaluation snapshots to an external visualization
// service. It is the only package allowed to depend on such a service; the
// rest of the module works unchanged with this exporter absent or failing.
package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/detectionlab/evalmetrics/exporter"
	"github.com/detectionlab/evalmetrics/snapshot"
)

// ScalarSink receives scalar series points keyed by step. Implementations
// wrap the concrete dashboard client (TensorBoard-style scalar boards).
type ScalarSink interface {
	// WriteScalar records one point of a named series.
	WriteScalar(ctx context.Context, series string, step int, value float64) error
	// Close releases the sink.
	Close() error
}

// Exporter pushes the global metrics and per-class metrics of each snapshot
// as scalar series keyed by epoch.
type Exporter struct {
	sink   ScalarSink
	prefix string
}

var _ exporter.Exporter = (*Exporter)(nil)

// New creates a dashboard exporter. The prefix, usually the model name,
// namespaces every series; pass "" for unprefixed series.
func New(sink ScalarSink, prefix string) (*Exporter, error) {
	if sink == nil {
		return nil, errors.New("scalar sink is nil")
	}
	return &Exporter{sink: sink, prefix: prefix}, nil
}

// Name implements exporter.Exporter.
func (e *Exporter) Name() string {
	return "dashboard"
}

// Export pushes accuracy, precision, recall, f1, and loss, plus
// class_<i>/precision, class_<i>/recall, and class_<i>/f1 for each class.
// Points are pushed independently; all failures are collected and returned
// after every point was attempted.
func (e *Exporter) Export(ctx context.Context, snap *snapshot.EvaluationSnapshot) error {
	if snap == nil {
		return errors.New("snapshot is nil")
	}
	points := []struct {
		series string
		value  float64
	}{
		{"accuracy", snap.Accuracy},
		{"precision", snap.Precision},
		{"recall", snap.Recall},
		{"f1", snap.F1},
		{"loss", snap.Loss},
	}
	var errs error
	for _, p := range points {
		if err := e.sink.WriteScalar(ctx, e.seriesName(p.series), snap.Epoch, p.value); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("push %s: %w", p.series, err))
		}
	}
	for i, cm := range snap.PerClass {
		classPoints := []struct {
			series string
			value  float64
		}{
			{fmt.Sprintf("class_%d/precision", i), cm.Precision},
			{fmt.Sprintf("class_%d/recall", i), cm.Recall},
			{fmt.Sprintf("class_%d/f1", i), cm.F1},
		}
		for _, p := range classPoints {
			if err := e.sink.WriteScalar(ctx, e.seriesName(p.series), snap.Epoch, p.value); err != nil {
				errs = multierror.Append(errs, fmt.Errorf("push %s: %w", p.series, err))
			}
		}
	}
	return errs
}

// Close closes the underlying sink.
func (e *Exporter) Close() error {
	return e.sink.Close()
}

func (e *Exporter) seriesName(series string) string {
	if e.prefix == "" {
		return series
	}
	return e.prefix + "/" + series
}
