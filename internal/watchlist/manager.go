// Package watchlist manages the list of followed tickers: gateway-backed
// symbol validation, soft-deleting removal and sparse updates.
package watchlist

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

// ErrNotWatched means the ticker has no active watchlist entry.
var ErrNotWatched = errors.New("ticker not found in watchlist")

// ErrValidation wraps a failed ticker validation.
var ErrValidation = errors.New("ticker validation failed")

// ValidationResult is the outcome of a symbol metadata lookup.
type ValidationResult struct {
	Valid       bool
	Ticker      string
	CompanyName string
	Sector      string
	Reason      string
}

// Summary aggregates the active watchlist.
type Summary struct {
	Total      int
	Sectors    map[string]int
	Priorities map[int]int
	Entries    []model.WatchEntry
}

// Manager validates tickers against the gateway and manages watchlist CRUD.
type Manager struct {
	store    store.Store
	provider gateway.Provider
}

func NewManager(st store.Store, provider gateway.Provider) *Manager {
	return &Manager{store: st, provider: provider}
}

// ValidateTicker checks that a symbol exists at the provider and returns its
// identifying metadata. An empty symbol is rejected before any I/O.
func (m *Manager) ValidateTicker(ctx context.Context, symbol string) *ValidationResult {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return &ValidationResult{Valid: false, Reason: "ticker symbol cannot be empty"}
	}

	info, err := m.provider.Lookup(ctx, symbol)
	if err != nil {
		if errors.Is(err, gateway.ErrSymbolNotFound) {
			return &ValidationResult{Valid: false, Ticker: symbol,
				Reason: fmt.Sprintf("ticker %q not found", symbol)}
		}
		log.Printf("[WARN] validate %s: %v", symbol, err)
		return &ValidationResult{Valid: false, Ticker: symbol,
			Reason: fmt.Sprintf("error validating ticker: %v", err)}
	}

	return &ValidationResult{
		Valid:       true,
		Ticker:      symbol,
		CompanyName: info.CompanyName,
		Sector:      info.Sector,
	}
}

// Add validates the symbol, rejects active duplicates, and persists a new
// entry (reactivating a previously removed row if one exists). The
// constructed entry is returned for display.
func (m *Manager) Add(ctx context.Context, symbol, notes string, targetPrice, stopLoss *float64, priority int) (*model.WatchEntry, error) {
	v := m.ValidateTicker(ctx, symbol)
	if !v.Valid {
		return nil, fmt.Errorf("%w: %s", ErrValidation, v.Reason)
	}

	watched, err := m.store.IsWatched(v.Ticker)
	if err != nil {
		return nil, fmt.Errorf("check watchlist: %w", err)
	}
	if watched {
		return nil, fmt.Errorf("%w: %s", store.ErrDuplicate, v.Ticker)
	}

	now := time.Now()
	entry := &model.WatchEntry{
		Ticker:      v.Ticker,
		CompanyName: v.CompanyName,
		Sector:      v.Sector,
		AddedDate:   now,
		Notes:       notes,
		TargetPrice: targetPrice,
		StopLoss:    stopLoss,
		IsActive:    true,
		Priority:    clampPriority(priority),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := m.store.AddWatch(entry); err != nil {
		return nil, fmt.Errorf("save %s: %w", v.Ticker, err)
	}
	log.Printf("[INFO] added %s (%s) to watchlist", entry.Ticker, entry.CompanyName)
	return entry, nil
}

// Remove soft-deletes an active entry.
func (m *Manager) Remove(symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	ok, err := m.store.DeactivateWatch(symbol)
	if err != nil {
		return fmt.Errorf("remove %s: %w", symbol, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotWatched, symbol)
	}
	log.Printf("[INFO] removed %s from watchlist", symbol)
	return nil
}

// Update applies the sparse field set to an entry, clamping priority and
// bumping updated_at.
func (m *Manager) Update(symbol string, upd model.WatchUpdate) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if upd.Priority != nil {
		p := clampPriority(*upd.Priority)
		upd.Priority = &p
	}
	ok, err := m.store.UpdateWatch(symbol, upd)
	if err != nil {
		return fmt.Errorf("update %s: %w", symbol, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotWatched, symbol)
	}
	return nil
}

// List returns watchlist entries ordered by priority ascending, then added
// date descending.
func (m *Manager) List(activeOnly bool) ([]model.WatchEntry, error) {
	return m.store.Watchlist(activeOnly)
}

// MostRecent returns the most recently added active ticker, or "" when the
// watchlist is empty.
func (m *Manager) MostRecent() (string, error) {
	e, err := m.store.MostRecentWatch()
	if err != nil {
		return "", err
	}
	if e == nil {
		return "", nil
	}
	return e.Ticker, nil
}

// GetSummary aggregates the active watchlist into sector counts and a
// priority histogram.
func (m *Manager) GetSummary() (*Summary, error) {
	entries, err := m.store.Watchlist(true)
	if err != nil {
		return nil, err
	}
	sum := &Summary{
		Total:      len(entries),
		Sectors:    map[string]int{},
		Priorities: map[int]int{},
		Entries:    entries,
	}
	for _, e := range entries {
		sector := e.Sector
		if sector == "" {
			sector = "Unknown"
		}
		sum.Sectors[sector]++
		sum.Priorities[e.Priority]++
	}
	return sum, nil
}

func clampPriority(p int) int {
	if p < 1 {
		return 1
	}
	if p > 5 {
		return 5
	}
	return p
}
