//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package mysql provides a MySQL storage implementation for run history.
package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/detectionlab/evalmetrics/epochtime"
	"github.com/detectionlab/evalmetrics/history"
)

const (
	sqlCreateTable = "CREATE TABLE IF NOT EXISTS %s (" +
		"record_id VARCHAR(255) NOT NULL PRIMARY KEY, " +
		"model_name VARCHAR(255) NOT NULL, " +
		"gate_status VARCHAR(32) NOT NULL, " +
		"payload LONGTEXT NOT NULL, " +
		"created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP" +
		")"
	sqlUpsertRecord = "INSERT INTO %s (record_id, model_name, gate_status, payload) VALUES (?, ?, ?, ?) " +
		"ON DUPLICATE KEY UPDATE model_name = VALUES(model_name), gate_status = VALUES(gate_status), payload = VALUES(payload)"
	sqlSelectRecord = "SELECT payload FROM %s WHERE record_id = ?"
	sqlListRecords  = "SELECT record_id FROM %s ORDER BY record_id"
)

// manager implements the history.Manager interface on a MySQL database.
type manager struct {
	opts *options
	db   *sql.DB
}

var _ history.Manager = (*manager)(nil)

// New creates a MySQL-backed history manager.
func New(opt ...Option) (history.Manager, error) {
	opts := newOptions(opt...)
	db := opts.db
	if db == nil {
		if opts.dsn == "" {
			return nil, errors.New("mysql dsn is empty")
		}
		var err error
		db, err = sql.Open("mysql", opts.dsn)
		if err != nil {
			return nil, fmt.Errorf("open mysql: %w", err)
		}
	}
	m := &manager{opts: opts, db: db}
	if !opts.skipDBInit {
		ctx, cancel := context.WithTimeout(context.Background(), opts.initTimeout)
		defer cancel()
		if _, err := db.ExecContext(ctx, fmt.Sprintf(sqlCreateTable, opts.tableName)); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init database: %w", err)
		}
	}
	return m, nil
}

// Save upserts a record into MySQL.
func (m *manager) Save(ctx context.Context, record *history.Record) (string, error) {
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
	payload, err := json.Marshal(&stored)
	if err != nil {
		return "", fmt.Errorf("marshal record: %w", err)
	}
	query := fmt.Sprintf(sqlUpsertRecord, m.opts.tableName)
	if _, err := m.db.ExecContext(ctx, query, stored.RecordID, stored.ModelName, stored.GateStatus.String(), payload); err != nil {
		return "", fmt.Errorf("save record %s: %w", stored.RecordID, err)
	}
	return stored.RecordID, nil
}

// Get retrieves a record by ID.
func (m *manager) Get(ctx context.Context, recordID string) (*history.Record, error) {
	query := fmt.Sprintf(sqlSelectRecord, m.opts.tableName)
	var payload []byte
	if err := m.db.QueryRowContext(ctx, query, recordID).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("record %s not found", recordID)
		}
		return nil, fmt.Errorf("get record %s: %w", recordID, err)
	}
	var record history.Record
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("unmarshal record %s: %w", recordID, err)
	}
	return &record, nil
}

// List returns all stored record IDs.
func (m *manager) List(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(sqlListRecords, m.opts.tableName)
	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close closes the database handle.
func (m *manager) Close() error {
	if m.db == nil {
		return nil
	}
	return m.db.Close()
}
