package gateway

import (
	"context"
	"errors"

	"StockBoard/internal/model"
)

// ErrNoData means the provider returned no bars for the symbol/window. It is
// an empty-result signal, not a fault; callers turn it into an empty-data
// condition for the user.
var ErrNoData = errors.New("no data for symbol in requested window")

// ErrSymbolNotFound means the provider has no metadata for the symbol.
var ErrSymbolNotFound = errors.New("symbol not found")

// Provider defines the interface for fetching market data.
type Provider interface {
	// FetchBars returns the OHLCV series for the symbol over the window
	// derived from period, sorted ascending by time. Bars are tagged with
	// symbol, period and interval.
	FetchBars(ctx context.Context, symbol, period, interval string) ([]model.Bar, error)

	// Lookup returns metadata (company name, sector) for the symbol.
	Lookup(ctx context.Context, symbol string) (*model.SymbolInfo, error)

	Name() string
}
