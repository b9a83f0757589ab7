// Package cache implements the read-through cache between the dashboard and
// the market data gateway: fresh stored series are served verbatim, misses go
// to the gateway and are written through. Staleness is decided by a TTL on
// write time; there is no fallback to stale rows on fetch failure, so a
// broken provider is never masked by old data.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"StockBoard/internal/gateway"
	"StockBoard/internal/model"
	"StockBoard/internal/store"
)

// ErrEmptyTicker is returned before any I/O when the symbol is blank.
var ErrEmptyTicker = errors.New("ticker symbol cannot be empty")

// Request identifies one series lookup. It replaces ambient "last requested"
// state: callers keep their own previous Request and compare explicitly.
type Request struct {
	Ticker   string
	Period   string
	Interval string // empty means resolve from period
	UseCache bool
}

// Same reports whether two requests target the same series key, ignoring the
// cache flag. Callers use it to decide whether a re-computation is needed.
func (r Request) Same(prev Request) bool {
	return r.Ticker == prev.Ticker && r.Period == prev.Period && r.Interval == prev.Interval
}

// Coordinator orchestrates gateway fetches and store reads/writes.
type Coordinator struct {
	store     store.Store
	provider  gateway.Provider
	ttl       time.Duration
	intervals map[string]string
}

// New creates a Coordinator with the given TTL and period-to-interval mapping.
func New(st store.Store, provider gateway.Provider, ttl time.Duration, intervals map[string]string) *Coordinator {
	return &Coordinator{
		store:     st,
		provider:  provider,
		ttl:       ttl,
		intervals: intervals,
	}
}

// GetSeries returns the OHLCV series for the request, ascending by time.
// Fresh cached data is returned as stored; otherwise the gateway is called
// and the result written through. A persistence failure downgrades to serving
// the fetched series from memory.
func (c *Coordinator) GetSeries(ctx context.Context, req Request) ([]model.Bar, error) {
	ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))
	if ticker == "" {
		return nil, ErrEmptyTicker
	}

	interval := req.Interval
	if interval == "" {
		interval = gateway.ResolveInterval(req.Period, c.intervals)
	}

	if req.UseCache && c.store.IsFresh(ticker, req.Period, interval, c.ttl) {
		bars, err := c.store.Bars(ticker, req.Period, interval, 0)
		if err == nil && len(bars) > 0 {
			log.Printf("[INFO] using cached data for %s %s/%s", ticker, req.Period, interval)
			return bars, nil
		}
		if err != nil {
			log.Printf("[WARN] cache read failed for %s, fetching fresh: %v", ticker, err)
		}
	}

	log.Printf("[INFO] fetching fresh data for %s %s/%s", ticker, req.Period, interval)
	bars, err := c.provider.FetchBars(ctx, ticker, req.Period, interval)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", ticker, err)
	}
	if len(bars) == 0 {
		return nil, gateway.ErrNoData
	}

	if err := c.store.UpsertBars(bars); err != nil {
		// Cache miss semantics: the fetched series is still usable.
		log.Printf("[WARN] caching %d bars for %s failed, serving from memory: %v", len(bars), ticker, err)
	}
	return bars, nil
}

// Quotes fetches the latest price and intraday change for each ticker,
// bypassing the cache. A failed ticker yields a zero quote rather than
// failing the whole set.
func (c *Coordinator) Quotes(ctx context.Context, tickers []string) map[string]model.Quote {
	quotes := make(map[string]model.Quote, len(tickers))
	for _, t := range tickers {
		bars, err := c.GetSeries(ctx, Request{Ticker: t, Period: "1d", Interval: "1m", UseCache: false})
		if err != nil || len(bars) == 0 {
			if err != nil {
				log.Printf("[WARN] quote for %s: %v", t, err)
			}
			quotes[t] = model.Quote{}
			continue
		}
		last := bars[len(bars)-1].Close
		first := bars[0].Open
		change := last - first
		var pct float64
		if first != 0 {
			pct = change / first * 100
		}
		quotes[t] = model.Quote{Price: last, Change: change, PctChange: pct}
	}
	return quotes
}

// Metrics computes the basic header metrics for a series.
func Metrics(bars []model.Bar) *model.Metrics {
	if len(bars) == 0 {
		return nil
	}
	m := &model.Metrics{
		LastClose: bars[len(bars)-1].Close,
		High:      bars[0].High,
		Low:       bars[0].Low,
	}
	first := bars[0].Close
	m.Change = m.LastClose - first
	if first != 0 {
		m.PctChange = m.Change / first * 100
	}
	for _, b := range bars {
		if b.High > m.High {
			m.High = b.High
		}
		if b.Low < m.Low {
			m.Low = b.Low
		}
		m.Volume += b.Volume
	}
	return m
}

// AvailableTickers lists the tickers with any stored bars.
func (c *Coordinator) AvailableTickers() []string {
	stats, err := c.store.Stats()
	if err != nil {
		log.Printf("[WARN] store stats: %v", err)
		return nil
	}
	return stats.Tickers
}
