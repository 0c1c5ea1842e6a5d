package simulation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"travelcore/internal/blob"
	"travelcore/internal/infra/persistence/memory"
	"travelcore/internal/shadowprice"
	"travelcore/pkg/domain"
)

func TestDriverMovesDemandBetweenLots(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, 6, 2)
	store := blob.NewMemory()
	engine, err := shadowprice.NewEngine(store, shadowprice.Options{Enabled: true, NodesEnabled: true})
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	ledger := memory.NewLedger()
	at := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	driver, err := NewDriver(engine, NewRunner(3, nil), DriverOptions{Passes: 2, Tolerance: 0.01, StopWhenConverged: true},
		WithLedger(ledger), WithRunIDs(func() string { return "run-1" }), WithDriverClock(func() time.Time { return at }))
	if err != nil {
		t.Fatalf("driver: %v", err)
	}

	result, err := driver.Run(ctx, fx.pop, fx.commuter(t))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.RunID != "run-1" || len(result.Passes) != 2 || result.Converged {
		t.Fatalf("unexpected result %+v", result)
	}

	first, second := result.Passes[0], result.Passes[1]
	if first.Matched != 0 || second.Matched != 2 {
		t.Fatalf("matched %d then %d", first.Matched, second.Matched)
	}
	// Everyone takes the nearest lot first; its price rises and the next
	// pass moves everyone to the other lot.
	if first.Report.Nodes[0].PeakDemand != 6 || first.Report.Nodes[1].PeakDemand != 0 {
		t.Fatalf("first pass demand %+v", first.Report.Nodes)
	}
	if first.Report.Nodes[0].MaxAbsDifference != 1 {
		t.Fatalf("first pass difference %v", first.Report.Nodes[0].MaxAbsDifference)
	}
	if second.Report.Nodes[0].PeakDemand != 0 || second.Report.Nodes[1].PeakDemand != 6 {
		t.Fatalf("second pass demand %+v", second.Report.Nodes)
	}
	if first.Totals.Tours != 6 || second.Totals.Tours != 6 || first.Totals.Checksum == second.Totals.Checksum {
		t.Fatalf("totals %v then %v", first.Totals, second.Totals)
	}

	history, err := ledger.History(ctx, "run-1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 4 {
		t.Fatalf("expected 4 ledger rows, got %d", len(history))
	}
	for _, s := range history {
		if !s.RecordedAt.Equal(at) {
			t.Fatalf("recorded at %v", s.RecordedAt)
		}
	}

	exists, err := blob.Exists(ctx, store, shadowprice.DefaultKey)
	if err != nil || !exists {
		t.Fatalf("table not persisted: %v %v", exists, err)
	}
}

func TestDriverInactiveEngineConvergesAfterOnePass(t *testing.T) {
	fx := newFixture(t, 4, 1)
	engine, err := shadowprice.NewEngine(nil, shadowprice.Options{})
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	driver, err := NewDriver(engine, NewRunner(2, nil), DriverOptions{Passes: 5, StopWhenConverged: true})
	if err != nil {
		t.Fatalf("driver: %v", err)
	}
	result, err := driver.Run(context.Background(), fx.pop, fx.commuter(t))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Passes) != 1 || !result.Converged || result.RunID == "" {
		t.Fatalf("unexpected result %+v", result)
	}
	// Load is still assigned even though prices are not adjusted.
	if got := fx.pop.Nodes[0].Fields().ParkAndRideLoad[600]; got != 4 {
		t.Fatalf("load=%v", got)
	}
}

func TestDriverMalformedTableFailsPass(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, 1, 1)
	store := blob.NewMemory()
	if _, err := store.Put(ctx, shadowprice.DefaultKey, strings.NewReader("node_id\n1,2,3\n"), blob.PutOptions{}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	engine, err := shadowprice.NewEngine(store, shadowprice.Options{Enabled: true, NodesEnabled: true})
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	driver, err := NewDriver(engine, NewRunner(1, nil), DriverOptions{Passes: 1})
	if err != nil {
		t.Fatalf("driver: %v", err)
	}
	_, err = driver.Run(ctx, fx.pop, fx.commuter(t))
	var parseErr *shadowprice.ParseError
	if !errors.As(err, &parseErr) || parseErr.Line != 2 {
		t.Fatalf("expected parse error on line 2, got %v", err)
	}
}

func TestNewDriverValidation(t *testing.T) {
	engine, err := shadowprice.NewEngine(nil, shadowprice.Options{})
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	cases := []struct {
		name string
		opts DriverOptions
	}{
		{name: "zero passes", opts: DriverOptions{}},
		{name: "negative tolerance", opts: DriverOptions{Passes: 1, Tolerance: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewDriver(engine, NewRunner(1, nil), tc.opts); !errors.Is(err, domain.ErrPrecondition) {
				t.Fatalf("expected precondition error, got %v", err)
			}
		})
	}
	if _, err := NewDriver(nil, NewRunner(1, nil), DriverOptions{Passes: 1}); !errors.Is(err, domain.ErrPrecondition) {
		t.Fatalf("expected precondition error for nil engine, got %v", err)
	}
}
