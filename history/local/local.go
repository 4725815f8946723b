//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package local provides a local file storage implementation for run history.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/detectionlab/evalmetrics/epochtime"
	"github.com/detectionlab/evalmetrics/history"
)

// manager implements the history.Manager interface using local file storage.
type manager struct {
	baseDir string
	locator history.Locator
	mu      sync.Mutex
}

// NewManager creates a new local file history manager.
// Use functional options (see history.Option) to override the default directory.
func NewManager(opt ...history.Option) history.Manager {
	opts := history.NewOptions(opt...)
	return &manager{baseDir: opts.BaseDir, locator: history.NewLocator()}
}

// Save stores a record to a local file via a temp file and rename.
func (m *manager) Save(ctx context.Context, record *history.Record) (string, error) {
	_ = ctx
	if record == nil {
		return "", errors.New("record is nil")
	}
	stored := *record
	if stored.RecordID == "" {
		stored.RecordID = fmt.Sprintf("%s_%s", stored.ModelName, uuid.New().String())
	}
	if stored.CreationTimestamp == nil {
		stored.CreationTimestamp = epochtime.Now()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := os.MkdirAll(m.baseDir, 0o755); err != nil {
		return "", err
	}
	path := m.locator.Build(m.baseDir, stored.RecordID)
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return "", err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&stored); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", err
	}
	return stored.RecordID, nil
}

// Get retrieves a record by ID from a local file.
func (m *manager) Get(ctx context.Context, recordID string) (*history.Record, error) {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	f, err := os.Open(m.locator.Build(m.baseDir, recordID))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var record history.Record
	if err := json.NewDecoder(f).Decode(&record); err != nil {
		return nil, err
	}
	return &record, nil
}

// List returns all record IDs found under the base directory.
func (m *manager) List(ctx context.Context) ([]string, error) {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locator.List(m.baseDir)
}

// Close implements history.Manager.
func (m *manager) Close() error {
	return nil
}
