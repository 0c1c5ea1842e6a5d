// Package sqlite persists convergence ledgers to an embedded SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"travelcore/pkg/domain"
)

var _ domain.ConvergenceLedger = (*Ledger)(nil)

// Ledger stores one row per (run, pass, node) with the summary as a JSON payload.
type Ledger struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// NewLedger opens or creates the ledger at path.
func NewLedger(path string) (*Ledger, error) {
	if path == "" {
		path = "travelcore.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS pass_summaries (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		pass INTEGER NOT NULL,
		node_id INTEGER NOT NULL,
		payload BLOB NOT NULL,
		UNIQUE(run_id, pass, node_id)
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create pass_summaries table: %w", err)
	}
	return &Ledger{db: db, path: path}, nil
}

// Append writes summaries in one transaction. A summary already recorded for
// the same run, pass and node is replaced.
func (l *Ledger) Append(ctx context.Context, summaries []domain.PassSummary) (retErr error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return err
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
		data, err := json.Marshal(s)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO pass_summaries(run_id,pass,node_id,payload) VALUES(?,?,?,?)
			ON CONFLICT(run_id,pass,node_id) DO UPDATE SET payload=excluded.payload`, s.RunID, s.Pass, s.NodeID, data); err != nil {
			return fmt.Errorf("insert summary %s/%d/%d: %w", s.RunID, s.Pass, s.NodeID, err)
		}
	}
	return tx.Commit()
}

// History returns the summaries of runID ordered by pass then node.
func (l *Ledger) History(ctx context.Context, runID string) ([]domain.PassSummary, error) {
	rows, err := l.db.QueryContext(ctx, `SELECT payload FROM pass_summaries WHERE run_id = ? ORDER BY pass, node_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("select summaries: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []domain.PassSummary
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		var s domain.PassSummary
		if err := json.Unmarshal(payload, &s); err != nil {
			return nil, fmt.Errorf("decode summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Runs returns run ids in first-recorded order.
func (l *Ledger) Runs(ctx context.Context) ([]string, error) {
	rows, err := l.db.QueryContext(ctx, `SELECT run_id FROM pass_summaries GROUP BY run_id ORDER BY MIN(seq)`)
	if err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Close releases the database handle.
func (l *Ledger) Close() error { return l.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (l *Ledger) DB() *sql.DB { return l.db }

// Path returns the configured database path.
func (l *Ledger) Path() string { return l.path }
