//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package inmemory provides an in-memory storage implementation for run history.
package inmemory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/detectionlab/evalmetrics/epochtime"
	"github.com/detectionlab/evalmetrics/history"
	"github.com/detectionlab/evalmetrics/internal/clone"
)

// Manager implements the history.Manager interface using in-memory storage.
type Manager struct {
	mu      sync.RWMutex
	records map[string]*history.Record
}

var _ history.Manager = (*Manager)(nil)

// NewManager creates a new in-memory history manager.
func NewManager() *Manager {
	return &Manager{records: make(map[string]*history.Record)}
}

// Save stores a deep copy of the record in memory.
func (m *Manager) Save(ctx context.Context, record *history.Record) (string, error) {
	_ = ctx
	if record == nil {
		return "", errors.New("record is nil")
	}
	stored, err := clone.Clone(record)
	if err != nil {
		return "", fmt.Errorf("clone record: %w", err)
	}
	if stored.RecordID == "" {
		stored.RecordID = fmt.Sprintf("%s_%s", stored.ModelName, uuid.New().String())
	}
	if stored.CreationTimestamp == nil {
		stored.CreationTimestamp = epochtime.Now()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[stored.RecordID] = stored
	return stored.RecordID, nil
}

// Get retrieves a deep copy of a record by ID.
func (m *Manager) Get(ctx context.Context, recordID string) (*history.Record, error) {
	_ = ctx
	m.mu.RLock()
	record, ok := m.records[recordID]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("record %s not found", recordID)
	}
	return clone.Clone(record)
}

// List returns all stored record IDs in lexical order.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.records))
	for id := range m.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Close implements history.Manager.
func (m *Manager) Close() error {
	return nil
}
