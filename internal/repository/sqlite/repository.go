// Package sqlite persists the activity ledger so the in-memory state can be
// rebuilt by replaying the log at startup.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type (
	// Metrics observes repository operations.
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}
)

const schema = `
CREATE TABLE IF NOT EXISTS activities (
	id            TEXT    NOT NULL,
	user_address  TEXT    NOT NULL,
	event_type    TEXT    NOT NULL,
	points        INTEGER NOT NULL,
	fee           INTEGER NOT NULL,
	block_height  INTEGER NOT NULL,
	tx_id         TEXT    NOT NULL,
	timestamp     INTEGER NOT NULL,
	metadata      TEXT    NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS idx_activities_block_height ON activities (block_height);
`

// Repository is a thin archive over a single sqlite database file.
type Repository struct {
	db      *sql.DB
	metrics Metrics
}

// NewRepository opens (creating if needed) the database at path and ensures
// the schema exists. Use ":memory:" for an ephemeral archive.
func NewRepository(path string, metrics Metrics) (*Repository, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}

	return &Repository{db: db, metrics: metrics}, nil
}

// Close releases the underlying database handle.
func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) observe(operation string, err error, started time.Time) {
	if r.metrics == nil {
		return
	}
	r.metrics.Observe(operation, err, started)
}
