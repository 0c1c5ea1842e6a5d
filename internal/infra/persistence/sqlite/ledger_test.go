package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"travelcore/pkg/domain"
)

func TestLedgerPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "ledger.db")
	l, err := NewLedger(path)
	if err != nil {
		t.Fatalf("NewLedger: %v", err)
	}
	recorded := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := l.Append(ctx, []domain.PassSummary{
		{RunID: "run-1", Pass: 2, NodeID: 4, MaxOverload: 3.5, RecordedAt: recorded},
		{RunID: "run-1", Pass: 1, NodeID: 4, MaxOverload: 30, RecordedAt: recorded},
		{RunID: "run-2", Pass: 1, NodeID: 4},
	}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewLedger(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = reopened.Close() })
	if reopened.Path() != path {
		t.Fatalf("unexpected path %s", reopened.Path())
	}
	hist, err := reopened.History(ctx, "run-1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(hist) != 2 || hist[0].Pass != 1 || hist[1].Pass != 2 {
		t.Fatalf("unexpected history %+v", hist)
	}
	if hist[1].MaxOverload != 3.5 || !hist[1].RecordedAt.Equal(recorded) {
		t.Fatalf("summary fields not preserved: %+v", hist[1])
	}
	runs, err := reopened.Runs(ctx)
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	if len(runs) != 2 || runs[0] != "run-1" || runs[1] != "run-2" {
		t.Fatalf("unexpected runs %v", runs)
	}
}

func TestLedgerReplacesDuplicateAndRejectsEmptyRun(t *testing.T) {
	ctx := context.Background()
	l, err := NewLedger(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("NewLedger: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	for _, overload := range []float64{10, 2} {
		if err := l.Append(ctx, []domain.PassSummary{{RunID: "r", Pass: 1, NodeID: 1, MaxOverload: overload}}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	hist, _ := l.History(ctx, "r")
	if len(hist) != 1 || hist[0].MaxOverload != 2 {
		t.Fatalf("expected replaced summary, got %+v", hist)
	}
	if err := l.Append(ctx, []domain.PassSummary{{RunID: "r", Pass: 2, NodeID: 1}, {NodeID: 2}}); err == nil {
		t.Fatalf("expected error for missing run id")
	}
	hist, _ = l.History(ctx, "r")
	if len(hist) != 1 {
		t.Fatalf("failed append must roll back, got %d rows", len(hist))
	}
}
