package indicator

import (
	"math"

	"StockBoard/internal/model"
)

// Signals derives trading signals from the two most recent points of the
// computed columns. A family's signal stays empty when its columns were not
// requested; undefined values fall back to neutral defaults (RSI 50, MACD 0,
// moving averages at the current price) so a single short column never aborts
// the rest.
func Signals(bars []model.Bar, cols *Columns) *model.TradingSignals {
	sig := &model.TradingSignals{}
	if len(bars) < 2 || cols == nil {
		return sig
	}
	cur, prev := len(bars)-1, len(bars)-2

	if cols.RSI14 != nil {
		curRSI := orDefault(at(cols.RSI14, cur), 50)
		prevRSI := orDefault(at(cols.RSI14, prev), 50)
		switch {
		case curRSI < 30 && prevRSI >= 30:
			sig.RSI = "Buy Signal (Oversold)"
		case curRSI > 70 && prevRSI <= 70:
			sig.RSI = "Sell Signal (Overbought)"
		default:
			sig.RSI = "Hold"
		}
	}

	if cols.MACD != nil && cols.MACDSignal != nil {
		curMACD := orDefault(at(cols.MACD, cur), 0)
		curSig := orDefault(at(cols.MACDSignal, cur), 0)
		prevMACD := orDefault(at(cols.MACD, prev), 0)
		prevSig := orDefault(at(cols.MACDSignal, prev), 0)
		switch {
		case curMACD > curSig && prevMACD <= prevSig:
			sig.MACD = "Buy Signal (MACD Cross Above)"
		case curMACD < curSig && prevMACD >= prevSig:
			sig.MACD = "Sell Signal (MACD Cross Below)"
		default:
			sig.MACD = "Hold"
		}
	}

	if cols.SMA20 != nil && cols.EMA20 != nil {
		price := bars[cur].Close
		sma := orDefault(at(cols.SMA20, cur), price)
		ema := orDefault(at(cols.EMA20, cur), price)
		switch {
		case price > sma && price > ema:
			sig.MA = "Bullish (Price Above MAs)"
		case price < sma && price < ema:
			sig.MA = "Bearish (Price Below MAs)"
		default:
			sig.MA = "Neutral"
		}
	}

	return sig
}

func orDefault(v, def float64) float64 {
	if math.IsNaN(v) {
		return def
	}
	return v
}
