package gateway

import (
	"context"
	"time"

	"StockBoard/internal/model"
)

// Mock returns controllable fixed data for development and testing.
type Mock struct {
	Price       float64
	Bars        []model.Bar
	Info        *model.SymbolInfo
	FetchErr    error
	LookupErr   error
	FetchCalls  int
	LookupCalls int

	LastPeriod   string
	LastInterval string
}

func (m *Mock) Name() string { return "mock" }

func (m *Mock) FetchBars(_ context.Context, symbol, period, interval string) ([]model.Bar, error) {
	m.FetchCalls++
	m.LastPeriod = period
	m.LastInterval = interval
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	if m.Bars != nil {
		bars := make([]model.Bar, len(m.Bars))
		copy(bars, m.Bars)
		for i := range bars {
			bars[i].Ticker = symbol
			bars[i].Period = period
			bars[i].Interval = interval
		}
		return bars, nil
	}
	return GenerateBars(symbol, period, interval, m.Price, 60), nil
}

func (m *Mock) Lookup(_ context.Context, symbol string) (*model.SymbolInfo, error) {
	m.LookupCalls++
	if m.LookupErr != nil {
		return nil, m.LookupErr
	}
	if m.Info != nil {
		return m.Info, nil
	}
	return &model.SymbolInfo{Symbol: symbol, CompanyName: symbol + " Inc.", Sector: "Technology"}, nil
}

// GenerateBars produces a deterministic synthetic series around basePrice.
func GenerateBars(symbol, period, interval string, basePrice float64, count int) []model.Bar {
	if basePrice == 0 {
		basePrice = 100
	}
	bars := make([]model.Bar, count)
	now := time.Now().Truncate(time.Minute)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.Bar{
			Ticker:   symbol,
			Time:     now.AddDate(0, 0, -(count - i)),
			Open:     p * 0.999,
			High:     p * 1.005,
			Low:      p * 0.995,
			Close:    p,
			Volume:   1000000,
			Period:   period,
			Interval: interval,
		}
	}
	return bars
}
