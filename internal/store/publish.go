package store

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/JonMunkholm/museumcounts/internal/core"
	"github.com/JonMunkholm/museumcounts/internal/logging"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PublishOptions configures the PostgreSQL connection for published counts.
type PublishOptions struct {
	URL            string
	MaxConns       int
	Table          string // optionally schema-qualified, e.g. "museum.object_counts"
	ConnectTimeout time.Duration
}

// publishColumns is the COPY column order; copyRows must match it.
var publishColumns = []string{"run_id", "region", "country", "decade", "medium_group", "n_objects"}

// Publisher is a core.Publisher that copies aggregate rows into PostgreSQL.
// Every published row carries the id of the run that produced it.
type Publisher struct {
	pool  *pgxpool.Pool
	table pgx.Identifier
}

// OpenPublisher connects to PostgreSQL and creates the target table if needed.
func OpenPublisher(ctx context.Context, opts PublishOptions) (*Publisher, error) {
	poolConfig, err := pgxpool.ParseConfig(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	if opts.MaxConns > 0 {
		poolConfig.MaxConns = int32(opts.MaxConns)
	}

	if opts.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.ConnectTimeout)
		defer cancel()
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	p := &Publisher{pool: pool, table: tableIdentifier(opts.Table)}
	if err := p.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logging.FromContext(ctx).Info("publishing enabled",
		"database", databaseName(opts.URL),
		"table", p.table.Sanitize(),
	)
	return p, nil
}

// Close releases the connection pool.
func (p *Publisher) Close() {
	p.pool.Close()
}

// EnsureSchema creates the target table when it does not exist.
func (p *Publisher) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, createTableSQL(p.table))
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", p.table.Sanitize(), err)
	}
	return nil
}

// Publish copies rows in one transaction.
func (p *Publisher) Publish(ctx context.Context, runID string, rows []core.AggregateRow) error {
	if len(rows) == 0 {
		return nil
	}

	data, err := copyRows(runID, rows)
	if err != nil {
		return err
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // No-op if already committed

	n, err := tx.CopyFrom(ctx, p.table, publishColumns, pgx.CopyFromRows(data))
	if err != nil {
		return fmt.Errorf("copy into %s: %w", p.table.Sanitize(), err)
	}
	if n != int64(len(rows)) {
		return fmt.Errorf("copy into %s: wrote %d of %d rows", p.table.Sanitize(), n, len(rows))
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// copyRows converts aggregate rows to COPY values in publishColumns order.
func copyRows(runID string, rows []core.AggregateRow) ([][]any, error) {
	id, err := uuid.Parse(runID)
	if err != nil {
		return nil, fmt.Errorf("invalid run id %q: %w", runID, err)
	}
	pgID := pgtype.UUID{Bytes: id, Valid: true}

	out := make([][]any, len(rows))
	for i, r := range rows {
		out[i] = []any{pgID, r.Region, r.Country, int32(r.Decade), r.MediumGroup, int32(r.NObjects)}
	}
	return out, nil
}

func tableIdentifier(name string) pgx.Identifier {
	if name == "" {
		name = "object_counts"
	}
	return pgx.Identifier(strings.Split(name, "."))
}

func createTableSQL(table pgx.Identifier) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	run_id       uuid        NOT NULL,
	region       text        NOT NULL,
	country      text        NOT NULL,
	decade       integer     NOT NULL,
	medium_group text        NOT NULL,
	n_objects    integer     NOT NULL,
	published_at timestamptz NOT NULL DEFAULT now(),
	PRIMARY KEY (run_id, region, country, decade, medium_group)
)`, table.Sanitize())
}

// databaseName extracts the database name for logging without credentials.
func databaseName(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.Scheme == "" || u.Path == "" {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}

var _ core.Publisher = (*Publisher)(nil)
