package model

import "time"

// Bar represents a single OHLCV candlestick for one ticker.
// Period and Interval tag the request window the bar was fetched for;
// together with Ticker and Time they form the natural key in storage.
type Bar struct {
	Ticker   string    `json:"ticker"`
	Time     time.Time `json:"time"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	Volume   int64     `json:"volume"`
	Period   string    `json:"period"`
	Interval string    `json:"interval"`
}

// SymbolInfo is ticker metadata returned by the market data provider.
type SymbolInfo struct {
	Symbol      string `json:"symbol"`
	CompanyName string `json:"company_name"`
	Sector      string `json:"sector"`
}

// Quote is the latest traded price with intraday change.
type Quote struct {
	Price     float64 `json:"price"`
	Change    float64 `json:"change"`
	PctChange float64 `json:"pct_change"`
}

// Metrics summarizes a price series for display headers.
type Metrics struct {
	LastClose float64 `json:"last_close"`
	Change    float64 `json:"change"`
	PctChange float64 `json:"pct_change"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Volume    int64   `json:"volume"`
}
