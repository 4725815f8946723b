//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package history provides persisted run-history records and the manager
// interface their storage backends implement.
package history

import (
	"context"

	"github.com/detectionlab/evalmetrics/epochtime"
	"github.com/detectionlab/evalmetrics/snapshot"
	"github.com/detectionlab/evalmetrics/status"
	"github.com/detectionlab/evalmetrics/threshold"
)

// Record is the persisted history of one training run: the ordered snapshots
// a tracker collected, plus the gate outcome of the final snapshot.
type Record struct {
	// RecordID uniquely identifies this record.
	RecordID string `json:"recordId,omitempty"`
	// ModelName is the model the run trained.
	ModelName string `json:"modelName,omitempty"`
	// Snapshots are the recorded evaluations in epoch order.
	Snapshots []*snapshot.EvaluationSnapshot `json:"snapshots,omitempty"`
	// GateStatus is the quality-gate outcome of the last snapshot.
	GateStatus status.GateStatus `json:"gateStatus,omitempty"`
	// CreationTimestamp when this record was created.
	CreationTimestamp *epochtime.EpochTime `json:"creationTimestamp,omitempty"`
}

// Summary counts gate outcomes across the snapshots of a record.
type Summary struct {
	// Passed is the count of snapshots that met every threshold.
	Passed int `json:"passed,omitempty"`
	// Failed is the count of snapshots that missed a threshold.
	Failed int `json:"failed,omitempty"`
}

// Summarize checks every snapshot of the record against the thresholds.
func (r *Record) Summarize(set threshold.Set) Summary {
	var s Summary
	for _, snap := range r.Snapshots {
		if threshold.Validate(snap, set) {
			s.Passed++
		} else {
			s.Failed++
		}
	}
	return s
}

// Latest returns the last recorded snapshot, or false when the record is empty.
func (r *Record) Latest() (*snapshot.EvaluationSnapshot, bool) {
	if len(r.Snapshots) == 0 {
		return nil, false
	}
	return r.Snapshots[len(r.Snapshots)-1], true
}

// Manager defines the interface for storing run-history records.
type Manager interface {
	// Save stores a record and returns its ID, generating one if unset.
	Save(ctx context.Context, record *Record) (string, error)
	// Get retrieves a record by ID.
	Get(ctx context.Context, recordID string) (*Record, error)
	// List returns all stored record IDs.
	List(ctx context.Context) ([]string, error)
	// Close releases backend resources.
	Close() error
}
