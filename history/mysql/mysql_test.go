//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//

package mysql

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/detectionlab/evalmetrics/history"
	"github.com/detectionlab/evalmetrics/snapshot"
	"github.com/detectionlab/evalmetrics/status"
)

func newManager(t *testing.T) (history.Manager, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	m, err := New(WithDB(db), WithSkipDBInit(true), WithTableName("test_history"))
	require.NoError(t, err)
	return m, mock
}

func newRecord(t *testing.T) *history.Record {
	t.Helper()
	snap, err := snapshot.New(2, 0.9, 0.8, 0.7, 0.75, 100, nil)
	require.NoError(t, err)
	return &history.Record{
		ModelName:  "vgg16",
		Snapshots:  []*snapshot.EvaluationSnapshot{snap},
		GateStatus: status.GateStatusPassed,
	}
}

// TestNew_SchemaInit verifies the table is created unless skipped.
func TestNew_SchemaInit(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS metrics_history").
		WillReturnResult(sqlmock.NewResult(0, 0))

	m, err := New(WithDB(db))
	require.NoError(t, err)
	defer m.Close()
	require.NoError(t, mock.ExpectationsWereMet())
}

// TestNew_MissingDSN verifies construction fails without a DSN or handle.
func TestNew_MissingDSN(t *testing.T) {
	_, err := New(WithSkipDBInit(true))
	require.Error(t, err)
}

// TestSave verifies the upsert and that an ID is generated when unset.
func TestSave(t *testing.T) {
	m, mock := newManager(t)
	defer m.Close()

	mock.ExpectExec("INSERT INTO test_history").
		WillReturnResult(sqlmock.NewResult(1, 1))

	id, err := m.Save(context.Background(), newRecord(t))
	require.NoError(t, err)
	assert.Contains(t, id, "vgg16_")
	require.NoError(t, mock.ExpectationsWereMet())
}

// TestSave_NilRecord verifies nil records are rejected.
func TestSave_NilRecord(t *testing.T) {
	m, _ := newManager(t)
	defer m.Close()
	_, err := m.Save(context.Background(), nil)
	require.Error(t, err)
}

// TestGet verifies the payload round-trips through JSON.
func TestGet(t *testing.T) {
	m, mock := newManager(t)
	defer m.Close()

	record := newRecord(t)
	record.RecordID = "vgg16_fixed"
	payload, err := json.Marshal(record)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT payload FROM test_history WHERE record_id").
		WithArgs("vgg16_fixed").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(payload))

	got, err := m.Get(context.Background(), "vgg16_fixed")
	require.NoError(t, err)
	assert.Equal(t, "vgg16", got.ModelName)
	assert.Equal(t, status.GateStatusPassed, got.GateStatus)
	require.Len(t, got.Snapshots, 1)
	assert.Equal(t, 2, got.Snapshots[0].Epoch)
	require.NoError(t, mock.ExpectationsWereMet())
}

// TestGet_NotFound verifies missing records surface a not-found error.
func TestGet_NotFound(t *testing.T) {
	m, mock := newManager(t)
	defer m.Close()

	mock.ExpectQuery("SELECT payload FROM test_history WHERE record_id").
		WithArgs("absent").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}))

	_, err := m.Get(context.Background(), "absent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

// TestList verifies the stored IDs are returned in order.
func TestList(t *testing.T) {
	m, mock := newManager(t)
	defer m.Close()

	mock.ExpectQuery("SELECT record_id FROM test_history ORDER BY record_id").
		WillReturnRows(sqlmock.NewRows([]string{"record_id"}).AddRow("a").AddRow("b"))

	ids, err := m.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)
	require.NoError(t, mock.ExpectationsWereMet())
}
