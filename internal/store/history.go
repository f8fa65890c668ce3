// Package store persists run outcomes: a local SQLite run history and an
// optional PostgreSQL table receiving the published counts.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/JonMunkholm/museumcounts/internal/core"
	_ "github.com/mattn/go-sqlite3"
)

const runsTable = `
CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	started_at   DATETIME NOT NULL,
	duration_ms  INTEGER NOT NULL,
	status       TEXT NOT NULL,
	master_path  TEXT NOT NULL DEFAULT '',
	lookup_path  TEXT NOT NULL DEFAULT '',
	output_path  TEXT NOT NULL DEFAULT '',
	records_read INTEGER NOT NULL DEFAULT 0,
	records_kept INTEGER NOT NULL DEFAULT 0,
	groups_count INTEGER NOT NULL DEFAULT 0,
	error        TEXT NOT NULL DEFAULT '',
	warnings     TEXT NOT NULL DEFAULT '[]'
);
CREATE INDEX IF NOT EXISTS runs_started_at ON runs (started_at DESC);
`

// History is a core.RunHistory backed by a SQLite file.
type History struct {
	db *sql.DB
}

// OpenHistory opens (creating if needed) the history database at path.
func OpenHistory(ctx context.Context, path string) (*History, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history %s: %w", path, err)
	}
	// One writer at a time; SQLite serializes anyway.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("open history %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, runsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}

	return &History{db: db}, nil
}

// Close closes the database.
func (h *History) Close() error {
	return h.db.Close()
}

// RecordRun stores run, replacing any earlier record with the same id.
func (h *History) RecordRun(ctx context.Context, run core.RunSummary) error {
	warnings, err := json.Marshal(nonNil(run.Warnings))
	if err != nil {
		return fmt.Errorf("encode warnings: %w", err)
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs (
			id, started_at, duration_ms, status,
			master_path, lookup_path, output_path,
			records_read, records_kept, groups_count,
			error, warnings
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.StartedAt.UTC(), run.Duration.Milliseconds(), string(run.Status),
		run.MasterPath, run.LookupPath, run.OutputPath,
		run.RecordsRead, run.RecordsKept, run.Groups,
		run.Error, string(warnings),
	)
	if err != nil {
		return fmt.Errorf("record run %s: %w", run.RunID, err)
	}
	return nil
}

// ListRuns returns up to limit runs, newest first.
func (h *History) ListRuns(ctx context.Context, limit int) ([]core.RunSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := h.db.QueryContext(ctx, `
		SELECT id, started_at, duration_ms, status,
		       master_path, lookup_path, output_path,
		       records_read, records_kept, groups_count,
		       error, warnings
		FROM runs
		ORDER BY started_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]core.RunSummary, 0)
	for rows.Next() {
		var (
			run        core.RunSummary
			status     string
			durationMs int64
			warnings   string
		)
		if err := rows.Scan(
			&run.RunID, &run.StartedAt, &durationMs, &status,
			&run.MasterPath, &run.LookupPath, &run.OutputPath,
			&run.RecordsRead, &run.RecordsKept, &run.Groups,
			&run.Error, &warnings,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.Status = core.RunStatus(status)
		run.Duration = time.Duration(durationMs) * time.Millisecond
		if err := json.Unmarshal([]byte(warnings), &run.Warnings); err != nil {
			return nil, fmt.Errorf("decode warnings for run %s: %w", run.RunID, err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	return runs, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

var _ core.RunHistory = (*History)(nil)
