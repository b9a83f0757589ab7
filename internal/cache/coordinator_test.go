package cache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"StockBoard/internal/config"
	"StockBoard/internal/gateway"
	"StockBoard/internal/model"
	"StockBoard/internal/store"
)

func mockBars(n int) []model.Bar {
	base := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	bars := make([]model.Bar, n)
	for i := 0; i < n; i++ {
		p := 150.0 + float64(i)
		bars[i] = model.Bar{
			Time: base.Add(time.Duration(i) * time.Hour),
			Open: p - 0.5, High: p + 1, Low: p - 1, Close: p,
			Volume: 2000 + int64(i),
		}
	}
	return bars
}

func newCoordinator(t *testing.T, mock *gateway.Mock, ttl time.Duration) (*Coordinator, store.Store) {
	t.Helper()
	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "cache.db"), time.UTC)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return New(st, mock, ttl, config.DefaultIntervalMap), st
}

func TestGetSeries_SecondCallUsesCache(t *testing.T) {
	mock := &gateway.Mock{Bars: mockBars(10)}
	c, _ := newCoordinator(t, mock, 5*time.Minute)
	req := Request{Ticker: "AAPL", Period: "1mo", UseCache: true}

	first, err := c.GetSeries(context.Background(), req)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	if mock.FetchCalls != 1 {
		t.Fatalf("expected 1 fetch, got %d", mock.FetchCalls)
	}

	second, err := c.GetSeries(context.Background(), req)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if mock.FetchCalls != 1 {
		t.Errorf("second call within TTL must not refetch, got %d fetches", mock.FetchCalls)
	}
	if len(second) != len(first) {
		t.Fatalf("cached series length %d, fetched %d", len(second), len(first))
	}
	for i := range first {
		if second[i].Close != first[i].Close || second[i].Volume != first[i].Volume {
			t.Errorf("bar %d: cached values differ from fetched", i)
		}
		if !second[i].Time.Equal(first[i].Time) {
			t.Errorf("bar %d: cached timestamp differs", i)
		}
	}
}

func TestGetSeries_BypassCacheRefetches(t *testing.T) {
	mock := &gateway.Mock{Bars: mockBars(5)}
	c, _ := newCoordinator(t, mock, 5*time.Minute)

	if _, err := c.GetSeries(context.Background(), Request{Ticker: "AAPL", Period: "1mo", UseCache: true}); err != nil {
		t.Fatalf("warm call: %v", err)
	}
	if _, err := c.GetSeries(context.Background(), Request{Ticker: "AAPL", Period: "1mo", UseCache: false}); err != nil {
		t.Fatalf("bypass call: %v", err)
	}
	if mock.FetchCalls != 2 {
		t.Errorf("expected bypass to refetch, got %d fetches", mock.FetchCalls)
	}
}

func TestGetSeries_ZeroTTLAlwaysFetches(t *testing.T) {
	mock := &gateway.Mock{Bars: mockBars(5)}
	c, _ := newCoordinator(t, mock, 0)
	req := Request{Ticker: "AAPL", Period: "1mo", UseCache: true}

	c.GetSeries(context.Background(), req)
	c.GetSeries(context.Background(), req)
	if mock.FetchCalls != 2 {
		t.Errorf("zero TTL must never serve from cache, got %d fetches", mock.FetchCalls)
	}
}

func TestGetSeries_EmptyTicker(t *testing.T) {
	mock := &gateway.Mock{}
	c, _ := newCoordinator(t, mock, 5*time.Minute)

	if _, err := c.GetSeries(context.Background(), Request{Ticker: "   ", Period: "1mo"}); !errors.Is(err, ErrEmptyTicker) {
		t.Errorf("expected ErrEmptyTicker, got %v", err)
	}
	if mock.FetchCalls != 0 {
		t.Error("empty ticker must be rejected before any fetch")
	}
}

func TestGetSeries_NormalizesTicker(t *testing.T) {
	mock := &gateway.Mock{Bars: mockBars(3)}
	c, _ := newCoordinator(t, mock, 5*time.Minute)

	bars, err := c.GetSeries(context.Background(), Request{Ticker: " aapl ", Period: "1mo", UseCache: true})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if bars[0].Ticker != "AAPL" {
		t.Errorf("expected upper-cased ticker, got %q", bars[0].Ticker)
	}
}

func TestGetSeries_ResolvesInterval(t *testing.T) {
	mock := &gateway.Mock{Bars: mockBars(3)}
	c, _ := newCoordinator(t, mock, 5*time.Minute)

	if _, err := c.GetSeries(context.Background(), Request{Ticker: "AAPL", Period: "1mo"}); err != nil {
		t.Fatalf("get: %v", err)
	}
	if mock.LastInterval != "1h" {
		t.Errorf("expected 1mo to resolve to 1h bars, got %q", mock.LastInterval)
	}

	if _, err := c.GetSeries(context.Background(), Request{Ticker: "AAPL", Period: "1y", Interval: "1d"}); err != nil {
		t.Fatalf("get: %v", err)
	}
	if mock.LastInterval != "1d" {
		t.Errorf("explicit interval must win, got %q", mock.LastInterval)
	}
}

func TestGetSeries_FetchErrors(t *testing.T) {
	mock := &gateway.Mock{FetchErr: gateway.ErrNoData}
	c, _ := newCoordinator(t, mock, 5*time.Minute)
	if _, err := c.GetSeries(context.Background(), Request{Ticker: "AAPL", Period: "1mo"}); !errors.Is(err, gateway.ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}

	// Empty fetch result is also a no-data condition.
	mock = &gateway.Mock{Bars: []model.Bar{}}
	c, _ = newCoordinator(t, mock, 5*time.Minute)
	if _, err := c.GetSeries(context.Background(), Request{Ticker: "AAPL", Period: "1mo"}); !errors.Is(err, gateway.ErrNoData) {
		t.Errorf("expected ErrNoData for empty series, got %v", err)
	}
}

func TestGetSeries_NoopStoreStillServes(t *testing.T) {
	mock := &gateway.Mock{Bars: mockBars(4)}
	c := New(store.NewNoop(), mock, 5*time.Minute, config.DefaultIntervalMap)
	req := Request{Ticker: "AAPL", Period: "1mo", UseCache: true}

	bars, err := c.GetSeries(context.Background(), req)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(bars) != 4 {
		t.Fatalf("expected 4 bars, got %d", len(bars))
	}

	// Without persistence every call is a fetch.
	c.GetSeries(context.Background(), req)
	if mock.FetchCalls != 2 {
		t.Errorf("noop store must refetch each call, got %d fetches", mock.FetchCalls)
	}
}

func TestQuotes(t *testing.T) {
	mock := &gateway.Mock{Bars: mockBars(10)}
	c, _ := newCoordinator(t, mock, 5*time.Minute)

	quotes := c.Quotes(context.Background(), []string{"AAPL", "MSFT"})
	if len(quotes) != 2 {
		t.Fatalf("expected 2 quotes, got %d", len(quotes))
	}
	q := quotes["AAPL"]
	// mockBars: first open 149.5, last close 159.
	if q.Price != 159 {
		t.Errorf("expected price 159, got %f", q.Price)
	}
	if q.Change <= 0 || q.PctChange <= 0 {
		t.Errorf("expected positive intraday change, got %+v", q)
	}
	if mock.LastInterval != "1m" || mock.LastPeriod != "1d" {
		t.Errorf("quotes must use 1d/1m, got %s/%s", mock.LastPeriod, mock.LastInterval)
	}
}

func TestQuotes_FailedTickerYieldsZeroQuote(t *testing.T) {
	mock := &gateway.Mock{FetchErr: gateway.ErrNoData}
	c, _ := newCoordinator(t, mock, 5*time.Minute)

	quotes := c.Quotes(context.Background(), []string{"AAPL"})
	if q, ok := quotes["AAPL"]; !ok || q.Price != 0 {
		t.Errorf("expected zero quote for failed ticker, got %+v", quotes)
	}
}

func TestMetrics(t *testing.T) {
	if Metrics(nil) != nil {
		t.Error("expected nil metrics for empty series")
	}

	bars := []model.Bar{
		{Open: 100, High: 105, Low: 98, Close: 101, Volume: 10},
		{Open: 101, High: 110, Low: 100, Close: 108, Volume: 20},
		{Open: 108, High: 109, Low: 95, Close: 104, Volume: 30},
	}
	m := Metrics(bars)
	if m.LastClose != 104 {
		t.Errorf("last close: got %f", m.LastClose)
	}
	if m.High != 110 || m.Low != 95 {
		t.Errorf("range: got %f/%f", m.High, m.Low)
	}
	if m.Volume != 60 {
		t.Errorf("volume: got %d", m.Volume)
	}
	if !almostEqual(m.Change, 3) || !almostEqual(m.PctChange, 3.0/101*100) {
		t.Errorf("change: got %f (%f%%)", m.Change, m.PctChange)
	}
}

func TestRequestSame(t *testing.T) {
	a := Request{Ticker: "AAPL", Period: "1mo", Interval: "1h", UseCache: true}
	b := Request{Ticker: "AAPL", Period: "1mo", Interval: "1h", UseCache: false}
	if !a.Same(b) {
		t.Error("cache flag must not affect series identity")
	}
	c := Request{Ticker: "AAPL", Period: "3mo", Interval: "1h"}
	if a.Same(c) {
		t.Error("different period is a different series")
	}
}

func almostEqual(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
