// Package memory provides an in-memory convergence ledger used for tests and
// ephemeral runs.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"travelcore/pkg/domain"
)

// Compile-time contract assertion.
var _ domain.ConvergenceLedger = (*Ledger)(nil)

// Ledger keeps pass summaries in process memory.
type Ledger struct {
	mu     sync.RWMutex
	runs   []string
	byRun  map[string][]domain.PassSummary
	closed bool
}

// NewLedger constructs an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{byRun: make(map[string][]domain.PassSummary)}
}

// Append stores summaries. Every summary must carry a run id.
func (l *Ledger) Append(_ context.Context, summaries []domain.PassSummary) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return fmt.Errorf("memory ledger closed")
	}
	for _, s := range summaries {
		if s.RunID == "" {
			return fmt.Errorf("pass summary for node %d has no run id", s.NodeID)
		}
	}
	for _, s := range summaries {
		if _, ok := l.byRun[s.RunID]; !ok {
			l.runs = append(l.runs, s.RunID)
		}
		l.byRun[s.RunID] = append(l.byRun[s.RunID], s)
	}
	return nil
}

// History returns the summaries of runID ordered by pass then node.
func (l *Ledger) History(_ context.Context, runID string) ([]domain.PassSummary, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := append([]domain.PassSummary(nil), l.byRun[runID]...)
	SortSummaries(out)
	return out, nil
}

// Runs returns run ids in first-seen order.
func (l *Ledger) Runs(context.Context) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]string(nil), l.runs...), nil
}

// Close marks the ledger closed; further appends fail.
func (l *Ledger) Close() error {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	return nil
}

// SortSummaries orders summaries by pass then node id.
func SortSummaries(s []domain.PassSummary) {
	sort.SliceStable(s, func(i, j int) bool {
		if s[i].Pass != s[j].Pass {
			return s[i].Pass < s[j].Pass
		}
		return s[i].NodeID < s[j].NodeID
	})
}
