//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//

package evalmetrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetenv clears key for the test while keeping the original value
// restored afterwards.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

// TestFromEnv_Defaults verifies unset keys keep their defaults.
func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{envOutputDir, envFrequency, envMinAccuracy, envMinPrecision, envMinRecall, envMinF1} {
		unsetenv(t, key)
	}
	_, err := FromEnv(filepath.Join(t.TempDir(), "does-not-exist.env"))
	require.Error(t, err) // explicit missing file is an error

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, defaultOutputDir, cfg.OutputDir)
	assert.Equal(t, defaultFrequency, cfg.EvaluationFrequency)
	assert.Zero(t, cfg.Thresholds.MinAccuracy)
}

// TestFromEnv_Values verifies the environment keys map onto the config.
func TestFromEnv_Values(t *testing.T) {
	t.Setenv(envOutputDir, "/tmp/metrics")
	t.Setenv(envFrequency, "3")
	t.Setenv(envMinAccuracy, "0.9")
	t.Setenv(envMinPrecision, "0.85")
	t.Setenv(envMinRecall, "0.8")
	t.Setenv(envMinF1, "0.82")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/metrics", cfg.OutputDir)
	assert.Equal(t, 3, cfg.EvaluationFrequency)
	assert.InDelta(t, 0.9, cfg.Thresholds.MinAccuracy, 1e-12)
	assert.InDelta(t, 0.85, cfg.Thresholds.MinPrecision, 1e-12)
	assert.InDelta(t, 0.8, cfg.Thresholds.MinRecall, 1e-12)
	assert.InDelta(t, 0.82, cfg.Thresholds.MinF1, 1e-12)
}

// TestFromEnv_DotenvFile verifies values load from an explicit dotenv file.
func TestFromEnv_DotenvFile(t *testing.T) {
	for _, key := range []string{envOutputDir, envFrequency, envMinAccuracy, envMinPrecision, envMinRecall, envMinF1} {
		unsetenv(t, key)
	}
	path := filepath.Join(t.TempDir(), "metrics.env")
	content := "METRICS_OUTPUT_DIR=run_output\nMETRICS_EVALUATION_FREQUENCY=2\nTEST_MIN_F1=0.75\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := FromEnv(path)
	require.NoError(t, err)
	assert.Equal(t, "run_output", cfg.OutputDir)
	assert.Equal(t, 2, cfg.EvaluationFrequency)
	assert.InDelta(t, 0.75, cfg.Thresholds.MinF1, 1e-12)
	assert.Zero(t, cfg.Thresholds.MinAccuracy)
}

// TestFromEnv_InvalidValues verifies unparsable numbers are surfaced.
func TestFromEnv_InvalidValues(t *testing.T) {
	t.Setenv(envFrequency, "often")
	_, err := FromEnv()
	require.Error(t, err)

	unsetenv(t, envFrequency)
	t.Setenv(envMinRecall, "high")
	_, err = FromEnv()
	require.Error(t, err)
}
