package watchlist

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"StockBoard/internal/gateway"
	"StockBoard/internal/model"
	"StockBoard/internal/store"
)

func newManager(t *testing.T, mock *gateway.Mock) *Manager {
	t.Helper()
	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "watch.db"), time.UTC)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return NewManager(st, mock)
}

func TestAddAndListRoundtrip(t *testing.T) {
	mock := &gateway.Mock{Info: &model.SymbolInfo{
		Symbol: "AAPL", CompanyName: "Apple Inc.", Sector: "Technology",
	}}
	m := newManager(t, mock)
	target := 250.0

	entry, err := m.Add(context.Background(), "aapl", "long-term hold", &target, nil, 2)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if entry.Ticker != "AAPL" {
		t.Errorf("expected normalized ticker, got %q", entry.Ticker)
	}

	entries, err := m.List(true)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.CompanyName != "Apple Inc." || e.Sector != "Technology" {
		t.Errorf("gateway metadata must roundtrip: %+v", e)
	}
	if e.Notes != "long-term hold" || e.Priority != 2 {
		t.Errorf("entry fields must roundtrip: %+v", e)
	}
	if e.TargetPrice == nil || *e.TargetPrice != target {
		t.Errorf("target price must roundtrip: %v", e.TargetPrice)
	}
	if e.StopLoss != nil {
		t.Error("unset stop loss must stay nil")
	}
}

func TestAddDuplicateRejected(t *testing.T) {
	m := newManager(t, &gateway.Mock{})
	if _, err := m.Add(context.Background(), "AAPL", "", nil, nil, 3); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if _, err := m.Add(context.Background(), "AAPL", "", nil, nil, 3); !errors.Is(err, store.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestRemoveThenReAdd(t *testing.T) {
	m := newManager(t, &gateway.Mock{})
	if _, err := m.Add(context.Background(), "AAPL", "first", nil, nil, 3); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := m.Remove("aapl"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if entries, _ := m.List(true); len(entries) != 0 {
		t.Fatalf("expected empty active list after remove, got %d", len(entries))
	}

	// Re-adding a removed ticker reactivates the row.
	if _, err := m.Add(context.Background(), "AAPL", "second", nil, nil, 4); err != nil {
		t.Fatalf("re-add: %v", err)
	}
	entries, err := m.List(true)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 active entry, got %d", len(entries))
	}
	if entries[0].Notes != "second" || entries[0].Priority != 4 {
		t.Errorf("reactivated entry must carry new fields: %+v", entries[0])
	}
}

func TestRemoveNotWatched(t *testing.T) {
	m := newManager(t, &gateway.Mock{})
	if err := m.Remove("GHOST"); !errors.Is(err, ErrNotWatched) {
		t.Errorf("expected ErrNotWatched, got %v", err)
	}
}

func TestAddInvalidTicker(t *testing.T) {
	m := newManager(t, &gateway.Mock{LookupErr: gateway.ErrSymbolNotFound})
	if _, err := m.Add(context.Background(), "NOSUCH", "", nil, nil, 3); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}

	mock := &gateway.Mock{}
	m = newManager(t, mock)
	if _, err := m.Add(context.Background(), "  ", "", nil, nil, 3); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for blank symbol, got %v", err)
	}
	if mock.LookupCalls != 0 {
		t.Error("blank symbol must be rejected before any lookup")
	}
}

func TestValidateTicker(t *testing.T) {
	mock := &gateway.Mock{Info: &model.SymbolInfo{
		Symbol: "MSFT", CompanyName: "Microsoft Corporation", Sector: "Technology",
	}}
	m := newManager(t, mock)

	v := m.ValidateTicker(context.Background(), " msft ")
	if !v.Valid || v.Ticker != "MSFT" || v.CompanyName != "Microsoft Corporation" {
		t.Errorf("unexpected validation result: %+v", v)
	}

	m = newManager(t, &gateway.Mock{LookupErr: gateway.ErrSymbolNotFound})
	v = m.ValidateTicker(context.Background(), "NOSUCH")
	if v.Valid || v.Reason == "" {
		t.Errorf("expected invalid result with reason, got %+v", v)
	}
}

func TestPriorityClamping(t *testing.T) {
	m := newManager(t, &gateway.Mock{})
	entry, err := m.Add(context.Background(), "AAPL", "", nil, nil, 99)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if entry.Priority != 5 {
		t.Errorf("expected priority clamped to 5, got %d", entry.Priority)
	}

	entry, err = m.Add(context.Background(), "MSFT", "", nil, nil, -3)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if entry.Priority != 1 {
		t.Errorf("expected priority clamped to 1, got %d", entry.Priority)
	}

	p := 42
	if err := m.Update("AAPL", model.WatchUpdate{Priority: &p}); err != nil {
		t.Fatalf("update: %v", err)
	}
	entries, _ := m.List(true)
	for _, e := range entries {
		if e.Ticker == "AAPL" && e.Priority != 5 {
			t.Errorf("expected updated priority clamped to 5, got %d", e.Priority)
		}
	}
}

func TestUpdateNotWatched(t *testing.T) {
	m := newManager(t, &gateway.Mock{})
	notes := "x"
	if err := m.Update("GHOST", model.WatchUpdate{Notes: &notes}); !errors.Is(err, ErrNotWatched) {
		t.Errorf("expected ErrNotWatched, got %v", err)
	}
}

func TestGetSummary(t *testing.T) {
	mock := &gateway.Mock{}
	m := newManager(t, mock)
	m.Add(context.Background(), "AAPL", "", nil, nil, 1)
	m.Add(context.Background(), "MSFT", "", nil, nil, 1)
	mock.Info = &model.SymbolInfo{Symbol: "XOM", CompanyName: "Exxon Mobil", Sector: "Energy"}
	m.Add(context.Background(), "XOM", "", nil, nil, 3)

	sum, err := m.GetSummary()
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.Total != 3 {
		t.Errorf("expected 3 entries, got %d", sum.Total)
	}
	if sum.Sectors["Technology"] != 2 || sum.Sectors["Energy"] != 1 {
		t.Errorf("sector counts: %v", sum.Sectors)
	}
	if sum.Priorities[1] != 2 || sum.Priorities[3] != 1 {
		t.Errorf("priority histogram: %v", sum.Priorities)
	}
}

func TestMostRecent(t *testing.T) {
	m := newManager(t, &gateway.Mock{})
	ticker, err := m.MostRecent()
	if err != nil || ticker != "" {
		t.Fatalf("empty watchlist: expected empty string, got %q/%v", ticker, err)
	}

	m.Add(context.Background(), "AAPL", "", nil, nil, 3)
	time.Sleep(1100 * time.Millisecond) // added_date has second resolution
	m.Add(context.Background(), "TSLA", "", nil, nil, 3)

	ticker, err = m.MostRecent()
	if err != nil {
		t.Fatalf("most recent: %v", err)
	}
	if ticker != "TSLA" {
		t.Errorf("expected TSLA, got %q", ticker)
	}
}
