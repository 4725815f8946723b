//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package exporter defines the boundary through which evaluation snapshots
// leave the tracking loop. Implementations must be independent of each other:
// a failing exporter is logged and skipped by the tracker, never allowed to
// block the others or the history.
package exporter

import (
	"context"

	"github.com/detectionlab/evalmetrics/snapshot"
)

// Exporter pushes one snapshot to an external sink.
type Exporter interface {
	// Name identifies the exporter in logs.
	Name() string
	// Export pushes one snapshot. Implementations flush before returning so
	// partial progress survives abrupt termination.
	Export(ctx context.Context, snap *snapshot.EvaluationSnapshot) error
	// Close releases resources owned by the exporter.
	Close() error
}
