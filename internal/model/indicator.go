package model

import "time"

// IndicatorRecord holds the derived indicator values for one bar timestamp.
// Nil fields mean "insufficient history" or "not requested"; they are stored
// as NULL, never as zero.
type IndicatorRecord struct {
	Ticker     string    `json:"ticker"`
	Time       time.Time `json:"time"`
	SMA20      *float64  `json:"sma_20,omitempty"`
	SMA50      *float64  `json:"sma_50,omitempty"`
	SMA100     *float64  `json:"sma_100,omitempty"`
	SMA200     *float64  `json:"sma_200,omitempty"`
	EMA20      *float64  `json:"ema_20,omitempty"`
	RSI14      *float64  `json:"rsi_14,omitempty"`
	MACD       *float64  `json:"macd,omitempty"`
	MACDSignal *float64  `json:"macd_signal,omitempty"`
	BBUpper    *float64  `json:"bb_upper,omitempty"`
	BBMiddle   *float64  `json:"bb_middle,omitempty"`
	BBLower    *float64  `json:"bb_lower,omitempty"`
}

// IndicatorSummary is the latest-value snapshot with interpretations.
type IndicatorSummary struct {
	SMA20         *float64 `json:"sma_20,omitempty"`
	SMA50         *float64 `json:"sma_50,omitempty"`
	SMA100        *float64 `json:"sma_100,omitempty"`
	SMA200        *float64 `json:"sma_200,omitempty"`
	EMA20         *float64 `json:"ema_20,omitempty"`
	RSI14         *float64 `json:"rsi_14,omitempty"`
	RSISignal     string   `json:"rsi_signal,omitempty"`
	MACD          *float64 `json:"macd,omitempty"`
	MACDSignal    *float64 `json:"macd_signal,omitempty"`
	MACDHistogram *float64 `json:"macd_histogram,omitempty"`
	BBUpper       *float64 `json:"bb_upper,omitempty"`
	BBMiddle      *float64 `json:"bb_middle,omitempty"`
	BBLower       *float64 `json:"bb_lower,omitempty"`
	BBPosition    string   `json:"bb_position,omitempty"`
}

// TradingSignals holds the per-family trading signal strings derived from the
// two most recent data points. Empty string means the underlying columns were
// not computed.
type TradingSignals struct {
	RSI  string `json:"rsi,omitempty"`
	MACD string `json:"macd,omitempty"`
	MA   string `json:"ma,omitempty"`
}
