// Package indicator computes technical indicators over OHLCV series and
// derives summary and trading-signal interpretations.
//
// Each indicator is an independent column computation keyed by Kind; a failure
// to warm up in one column (insufficient history) yields NaN entries there and
// never aborts the others.
package indicator

import (
	"math"
	"strings"

	"StockBoard/internal/model"
)

// Kind identifies one computable indicator.
type Kind string

const (
	KindSMA20     Kind = "sma_20"
	KindSMA50     Kind = "sma_50"
	KindSMA100    Kind = "sma_100"
	KindSMA200    Kind = "sma_200"
	KindEMA20     Kind = "ema_20"
	KindRSI14     Kind = "rsi_14"
	KindMACD      Kind = "macd"
	KindBollinger Kind = "bb"
)

// DefaultKinds is the dashboard's default indicator selection.
var DefaultKinds = []Kind{KindSMA20, KindEMA20, KindRSI14, KindMACD, KindBollinger}

// ParseKind maps a requested indicator name to its Kind. Names are matched
// case-insensitively with spaces treated as underscores, so "SMA 20",
// "sma_20" and "SMA_20" are equivalent.
func ParseKind(name string) (Kind, bool) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
	switch norm {
	case "sma_20":
		return KindSMA20, true
	case "sma_50":
		return KindSMA50, true
	case "sma_100":
		return KindSMA100, true
	case "sma_200":
		return KindSMA200, true
	case "ema_20":
		return KindEMA20, true
	case "rsi_14":
		return KindRSI14, true
	case "macd":
		return KindMACD, true
	case "bb", "bollinger", "bollinger_bands":
		return KindBollinger, true
	}
	return "", false
}

// Columns holds the computed indicator series, each aligned to the source
// bars. A nil slice means the column was not requested; NaN entries mean
// insufficient history at that index.
type Columns struct {
	SMA20      []float64
	SMA50      []float64
	SMA100     []float64
	SMA200     []float64
	EMA20      []float64
	RSI14      []float64
	MACD       []float64
	MACDSignal []float64
	BBUpper    []float64
	BBMiddle   []float64
	BBLower    []float64
}

// registry decouples requested indicator names from their computation.
var registry = map[Kind]func(closes []float64, out *Columns){
	KindSMA20:  func(c []float64, out *Columns) { out.SMA20 = SMA(c, 20) },
	KindSMA50:  func(c []float64, out *Columns) { out.SMA50 = SMA(c, 50) },
	KindSMA100: func(c []float64, out *Columns) { out.SMA100 = SMA(c, 100) },
	KindSMA200: func(c []float64, out *Columns) { out.SMA200 = SMA(c, 200) },
	KindEMA20:  func(c []float64, out *Columns) { out.EMA20 = EMA(c, 20) },
	KindRSI14:  func(c []float64, out *Columns) { out.RSI14 = RSI(c, 14) },
	KindMACD: func(c []float64, out *Columns) {
		out.MACD, out.MACDSignal = MACD(c, 12, 26, 9)
	},
	KindBollinger: func(c []float64, out *Columns) {
		out.BBUpper, out.BBMiddle, out.BBLower = Bollinger(c, 20, 2)
	},
}

// Compute derives the requested indicator columns from a bar series.
// A nil kinds slice selects DefaultKinds.
func Compute(bars []model.Bar, kinds []Kind) *Columns {
	out := &Columns{}
	if len(bars) == 0 {
		return out
	}
	if kinds == nil {
		kinds = DefaultKinds
	}
	closes := extractCloses(bars)
	seen := map[Kind]bool{}
	for _, k := range kinds {
		if seen[k] {
			continue
		}
		seen[k] = true
		if fn, ok := registry[k]; ok {
			fn(closes, out)
		}
	}
	return out
}

// Records builds persistable indicator records from computed columns.
// NaN and unrequested values become nil, stored as NULL — never zero.
func Records(ticker string, bars []model.Bar, cols *Columns) []model.IndicatorRecord {
	recs := make([]model.IndicatorRecord, 0, len(bars))
	for i, b := range bars {
		recs = append(recs, model.IndicatorRecord{
			Ticker:     ticker,
			Time:       b.Time,
			SMA20:      opt(cols.SMA20, i),
			SMA50:      opt(cols.SMA50, i),
			SMA100:     opt(cols.SMA100, i),
			SMA200:     opt(cols.SMA200, i),
			EMA20:      opt(cols.EMA20, i),
			RSI14:      opt(cols.RSI14, i),
			MACD:       opt(cols.MACD, i),
			MACDSignal: opt(cols.MACDSignal, i),
			BBUpper:    opt(cols.BBUpper, i),
			BBMiddle:   opt(cols.BBMiddle, i),
			BBLower:    opt(cols.BBLower, i),
		})
	}
	return recs
}

// opt returns a pointer to the column value at i, or nil when the column was
// not computed or the value is undefined.
func opt(col []float64, i int) *float64 {
	if col == nil || i >= len(col) || math.IsNaN(col[i]) {
		return nil
	}
	v := col[i]
	return &v
}

// at returns the column value at i, or NaN when absent.
func at(col []float64, i int) float64 {
	if col == nil || i < 0 || i >= len(col) {
		return math.NaN()
	}
	return col[i]
}
