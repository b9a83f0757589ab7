package store

import (
	"errors"
	"time"

	"StockBoard/internal/model"
)

// ErrDuplicate means the ticker is already active in the watchlist.
var ErrDuplicate = errors.New("ticker already in watchlist")

// Stats reports row counts, distinct tickers and storage size.
type Stats struct {
	BarRows       int
	IndicatorRows int
	Tickers       []string
	SizeBytes     int64
}

// Store persists OHLCV bars, derived indicator values and the watchlist.
// Implementations must report storage faults as errors, never panic; callers
// degrade to in-memory results when a write fails.
type Store interface {
	// UpsertBars writes a batch in one transaction. Re-inserting an
	// identical (ticker, time, period, interval) key replaces values.
	UpsertBars(bars []model.Bar) error

	// UpsertIndicators writes a batch in one transaction, replacing on the
	// (ticker, time) key. Nil fields are stored as NULL.
	UpsertIndicators(recs []model.IndicatorRecord) error

	// Bars returns stored bars for the key, ascending by time. limit <= 0
	// means no limit; otherwise the most recent limit bars are returned.
	Bars(ticker, period, interval string, limit int) ([]model.Bar, error)

	// Indicators returns stored indicator records, ascending by time.
	Indicators(ticker string, limit int) ([]model.IndicatorRecord, error)

	// IsFresh reports whether a row for the key was written within ttl,
	// measured from write time, not from the bar's own timestamp.
	IsFresh(ticker, period, interval string, ttl time.Duration) bool

	// PurgeOlderThan deletes bar and indicator rows written before cutoff
	// and returns the number of rows removed.
	PurgeOlderThan(cutoff time.Time) (int64, error)

	// AddWatch inserts a watchlist entry. An active duplicate is rejected
	// with ErrDuplicate; an inactive row for the same ticker is reactivated
	// with the new field values.
	AddWatch(e *model.WatchEntry) error

	// Watchlist returns entries ordered by priority ascending, then added
	// date descending.
	Watchlist(activeOnly bool) ([]model.WatchEntry, error)

	// IsWatched reports whether the ticker has an active entry.
	IsWatched(ticker string) (bool, error)

	// DeactivateWatch soft-deletes an active entry. Returns false when no
	// active entry exists.
	DeactivateWatch(ticker string) (bool, error)

	// UpdateWatch applies the sparse field set and bumps updated_at.
	// Returns false when the ticker is not in the watchlist.
	UpdateWatch(ticker string, upd model.WatchUpdate) (bool, error)

	// MostRecentWatch returns the most recently added active entry, or nil
	// when the watchlist is empty.
	MostRecentWatch() (*model.WatchEntry, error)

	Stats() (*Stats, error)
	Close() error
}
