package store

import (
	"time"

	"StockBoard/internal/model"
)

// Noop is used when the SQLite store cannot be opened. Writes succeed without
// persisting and the cache always reports stale, so every request goes to the
// gateway and is served from memory.
type Noop struct{}

func NewNoop() *Noop { return &Noop{} }

func (n *Noop) UpsertBars(_ []model.Bar) error                       { return nil }
func (n *Noop) UpsertIndicators(_ []model.IndicatorRecord) error     { return nil }
func (n *Noop) Bars(_, _, _ string, _ int) ([]model.Bar, error)      { return nil, nil }
func (n *Noop) Indicators(_ string, _ int) ([]model.IndicatorRecord, error) {
	return nil, nil
}
func (n *Noop) IsFresh(_, _, _ string, _ time.Duration) bool        { return false }
func (n *Noop) PurgeOlderThan(_ time.Time) (int64, error)           { return 0, nil }
func (n *Noop) AddWatch(_ *model.WatchEntry) error                  { return nil }
func (n *Noop) Watchlist(_ bool) ([]model.WatchEntry, error)        { return nil, nil }
func (n *Noop) IsWatched(_ string) (bool, error)                    { return false, nil }
func (n *Noop) DeactivateWatch(_ string) (bool, error)              { return false, nil }
func (n *Noop) UpdateWatch(_ string, _ model.WatchUpdate) (bool, error) {
	return false, nil
}
func (n *Noop) MostRecentWatch() (*model.WatchEntry, error) { return nil, nil }
func (n *Noop) Stats() (*Stats, error)                      { return &Stats{}, nil }
func (n *Noop) Close() error                                { return nil }
