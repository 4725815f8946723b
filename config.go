//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//

package evalmetrics

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/detectionlab/evalmetrics/threshold"
)

// Environment keys consumed by FromEnv.
const (
	envOutputDir    = "METRICS_OUTPUT_DIR"
	envFrequency    = "METRICS_EVALUATION_FREQUENCY"
	envMinAccuracy  = "TEST_MIN_ACCURACY"
	envMinPrecision = "TEST_MIN_PRECISION"
	envMinRecall    = "TEST_MIN_RECALL"
	envMinF1        = "TEST_MIN_F1"
)

const (
	defaultOutputDir = "metrics_output"
	defaultFrequency = 1
)

// Config is the externally supplied pipeline configuration.
type Config struct {
	// OutputDir is where CSVs, reports and history files are written.
	OutputDir string
	// EvaluationFrequency evaluates every f-th epoch, f >= 1.
	EvaluationFrequency int
	// Thresholds are the quality-gate minimums.
	Thresholds threshold.Set
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		OutputDir:           defaultOutputDir,
		EvaluationFrequency: defaultFrequency,
	}
}

// FromEnv builds a Config from the process environment, after loading the
// given dotenv files. With no arguments it tries ".env" and silently skips a
// missing file. Unset keys keep their defaults.
func FromEnv(files ...string) (Config, error) {
	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			return Config{}, fmt.Errorf("load env files: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg := DefaultConfig()
	if dir := os.Getenv(envOutputDir); dir != "" {
		cfg.OutputDir = dir
	}
	if raw := os.Getenv(envFrequency); raw != "" {
		f, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse %s=%q: %w", envFrequency, raw, err)
		}
		cfg.EvaluationFrequency = f
	}
	var err error
	if cfg.Thresholds.MinAccuracy, err = envFloat(envMinAccuracy); err != nil {
		return Config{}, err
	}
	if cfg.Thresholds.MinPrecision, err = envFloat(envMinPrecision); err != nil {
		return Config{}, err
	}
	if cfg.Thresholds.MinRecall, err = envFloat(envMinRecall); err != nil {
		return Config{}, err
	}
	if cfg.Thresholds.MinF1, err = envFloat(envMinF1); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func envFloat(key string) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s=%q: %w", key, raw, err)
	}
	return v, nil
}
