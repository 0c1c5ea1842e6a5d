// Package postgres provides a Postgres-backed convergence ledger.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"travelcore/pkg/domain"
)

var _ domain.ConvergenceLedger = (*Ledger)(nil)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/travelcore?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Ledger stores pass summaries as JSONB rows keyed by run, pass and node.
type Ledger struct {
	db *sql.DB
	mu sync.Mutex
}

// NewLedger opens the ledger at dsn (defaultDSN when empty) and ensures its table.
func NewLedger(ctx context.Context, dsn string) (*Ledger, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := ensureTable(ctx, db); err != nil {
		return nil, err
	}
	return &Ledger{db: db}, nil
}

func ensureTable(ctx context.Context, db *sql.DB) error {
	ddl := `CREATE TABLE IF NOT EXISTS pass_summaries (
		summary_key TEXT PRIMARY KEY,
		seq BIGSERIAL,
		run_id TEXT NOT NULL,
		pass INTEGER NOT NULL,
		node_id INTEGER NOT NULL,
		payload JSONB NOT NULL
	)`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure pass_summaries table: %w", err)
	}
	return nil
}

func summaryKey(s domain.PassSummary) string {
	return fmt.Sprintf("%s/%d/%d", s.RunID, s.Pass, s.NodeID)
}

// Append writes summaries in one transaction, replacing any summary already
// recorded for the same run, pass and node.
func (l *Ledger) Append(ctx context.Context, summaries []domain.PassSummary) (retErr error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	for _, s := range summaries {
		if s.RunID == "" {
			return fmt.Errorf("pass summary for node %d has no run id", s.NodeID)
		}
		payload, err := json.Marshal(s)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO pass_summaries (summary_key, run_id, pass, node_id, payload) VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (summary_key) DO UPDATE SET payload = EXCLUDED.payload`,
			summaryKey(s), s.RunID, s.Pass, s.NodeID, payload); err != nil {
			return fmt.Errorf("insert summary %s: %w", summaryKey(s), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// History returns the summaries of runID ordered by pass then node.
func (l *Ledger) History(ctx context.Context, runID string) ([]domain.PassSummary, error) {
	rows, err := l.db.QueryContext(ctx, `SELECT payload FROM pass_summaries WHERE run_id = $1 ORDER BY pass, node_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("select summaries: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []domain.PassSummary
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		var s domain.PassSummary
		if err := json.Unmarshal(payload, &s); err != nil {
			return nil, fmt.Errorf("decode summary: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summaries: %w", err)
	}
	return out, nil
}

// Runs returns run ids in first-recorded order.
func (l *Ledger) Runs(ctx context.Context) ([]string, error) {
	rows, err := l.db.QueryContext(ctx, `SELECT run_id FROM pass_summaries ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	defer func() { _ = rows.Close() }()
	seen := make(map[string]struct{})
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return out, nil
}

// Close releases the database handle.
func (l *Ledger) Close() error { return l.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (l *Ledger) DB() *sql.DB { return l.db }

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
