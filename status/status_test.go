//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGateStatusString(t *testing.T) {
	tests := map[GateStatus]string{
		GateStatusUnknown:      "unknown",
		GateStatusPassed:       "passed",
		GateStatusFailed:       "failed",
		GateStatusNotEvaluated: "not_evaluated",
		GateStatus(99):         "unknown",
	}

	for input, expected := range tests {
		assert.Equal(t, expected, input.String())
	}
}
