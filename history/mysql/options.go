package mysql

import (
	"database/sql"
	"time"
)

const (
	defaultTableName   = "metrics_history"
	defaultInitTimeout = 10 * time.Second
)

type options struct {
	dsn         string
	tableName   string
	skipDBInit  bool
	initTimeout time.Duration
	db          *sql.DB
}

func newOptions(opt ...Option) *options {
	opts := &options{
		tableName:   defaultTableName,
		initTimeout: defaultInitTimeout,
	}
	for _, o := range opt {
		o(opts)
	}
	return opts
}

// Option configures the MySQL history manager.
type Option func(*options)

// WithDSN sets the MySQL data source name.
func WithDSN(dsn string) Option {
	return func(o *options) {
		o.dsn = dsn
	}
}

// WithTableName overrides the default table name.
func WithTableName(name string) Option {
	return func(o *options) {
		o.tableName = name
	}
}

// WithSkipDBInit skips the schema bootstrap at construction.
func WithSkipDBInit(skip bool) Option {
	return func(o *options) {
		o.skipDBInit = skip
	}
}

// WithInitTimeout bounds the schema bootstrap.
func WithInitTimeout(timeout time.Duration) Option {
	return func(o *options) {
		if timeout > 0 {
			o.initTimeout = timeout
		}
	}
}

// WithDB supplies an existing database handle instead of opening one from the DSN.
func WithDB(db *sql.DB) Option {
	return func(o *options) {
		o.db = db
	}
}
