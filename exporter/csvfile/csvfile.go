//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package csvfile provides a CSV file exporter that appends one row per
// recorded epoch to <outputDir>/<modelName>_metrics.csv.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/detectionlab/evalmetrics/exporter"
	"github.com/detectionlab/evalmetrics/snapshot"
)

// Header is the exact column header of the metrics CSV.
var Header = []string{"Epoch", "Accuracy", "Precision", "Recall", "F1Score", "TrainingTime"}

// metricsFileSuffix is the suffix of the per-model metrics file.
const metricsFileSuffix = "_metrics.csv"

// Exporter appends snapshots to a per-model CSV file. Rows are flushed
// individually so a crash never loses more than the row being written.
type Exporter struct {
	outputDir string
	modelName string

	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

var _ exporter.Exporter = (*Exporter)(nil)

// New creates a CSV exporter writing to <outputDir>/<modelName>_metrics.csv.
// The file is opened lazily on the first export.
func New(outputDir, modelName string) (*Exporter, error) {
	if outputDir == "" {
		return nil, errors.New("output dir is empty")
	}
	if modelName == "" {
		return nil, errors.New("model name is empty")
	}
	return &Exporter{outputDir: outputDir, modelName: modelName}, nil
}

// Name implements exporter.Exporter.
func (e *Exporter) Name() string {
	return "csv"
}

// Path returns the metrics file path.
func (e *Exporter) Path() string {
	return filepath.Join(e.outputDir, e.modelName+metricsFileSuffix)
}

// Export appends one row and flushes it.
func (e *Exporter) Export(ctx context.Context, snap *snapshot.EvaluationSnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if snap == nil {
		return errors.New("snapshot is nil")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.open(); err != nil {
		return err
	}
	row := []string{
		strconv.Itoa(snap.Epoch),
		formatMetric(snap.Accuracy),
		formatMetric(snap.Precision),
		formatMetric(snap.Recall),
		formatMetric(snap.F1),
		strconv.FormatInt(snap.TrainingTimeMs, 10),
	}
	if err := e.writer.Write(row); err != nil {
		return fmt.Errorf("write metrics row: %w", err)
	}
	e.writer.Flush()
	if err := e.writer.Error(); err != nil {
		return fmt.Errorf("flush metrics row: %w", err)
	}
	return nil
}

// Close flushes pending rows and closes the file.
func (e *Exporter) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.file == nil {
		return nil
	}
	e.writer.Flush()
	err := e.writer.Error()
	if closeErr := e.file.Close(); err == nil {
		err = closeErr
	}
	e.file = nil
	e.writer = nil
	return err
}

// open opens the file append-or-create and writes the header if the
// file is empty. Callers must hold e.mu.
func (e *Exporter) open() error {
	if e.file != nil {
		return nil
	}
	if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(e.Path(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return err
	}
	e.file = f
	e.writer = csv.NewWriter(f)
	if info.Size() == 0 {
		if err := e.writer.Write(Header); err != nil {
			return fmt.Errorf("write metrics header: %w", err)
		}
		e.writer.Flush()
		if err := e.writer.Error(); err != nil {
			return fmt.Errorf("flush metrics header: %w", err)
		}
	}
	return nil
}

// formatMetric renders a metric with six decimal places.
func formatMetric(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
