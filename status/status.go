//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package status provides the outcome of a quality-gate check.
package status

// GateStatus represents the outcome of validating a snapshot against thresholds.
type GateStatus int

const (
	// GateStatusUnknown represents an unknown gate status.
	GateStatusUnknown GateStatus = iota
	// GateStatusPassed represents a snapshot that met every threshold.
	GateStatusPassed
	// GateStatusFailed represents a snapshot that missed at least one threshold.
	GateStatusFailed
	// GateStatusNotEvaluated represents a snapshot that was never checked.
	GateStatusNotEvaluated
)

// String returns the string representation of the gate status.
func (s GateStatus) String() string {
	switch s {
	case GateStatusPassed:
		return "passed"
	case GateStatusFailed:
		return "failed"
	case GateStatusNotEvaluated:
		return "not_evaluated"
	default:
		return "unknown"
	}
}
