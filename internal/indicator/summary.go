package indicator

import (
	"math"

	"StockBoard/internal/model"
)

// Summarize returns the latest-value snapshot of the computed columns with
// threshold interpretations for RSI and Bollinger position.
func Summarize(bars []model.Bar, cols *Columns) *model.IndicatorSummary {
	if len(bars) == 0 || cols == nil {
		return nil
	}
	last := len(bars) - 1
	sum := &model.IndicatorSummary{
		SMA20:  opt(cols.SMA20, last),
		SMA50:  opt(cols.SMA50, last),
		SMA100: opt(cols.SMA100, last),
		SMA200: opt(cols.SMA200, last),
		EMA20:  opt(cols.EMA20, last),
	}

	if rsi := at(cols.RSI14, last); !math.IsNaN(rsi) {
		sum.RSI14 = &rsi
		sum.RSISignal = rsiInterpretation(rsi)
	}

	if macd := at(cols.MACD, last); !math.IsNaN(macd) {
		sig := at(cols.MACDSignal, last)
		if math.IsNaN(sig) {
			sig = 0
		}
		hist := macd - sig
		sum.MACD = &macd
		sum.MACDSignal = &sig
		sum.MACDHistogram = &hist
	}

	if upper := at(cols.BBUpper, last); !math.IsNaN(upper) {
		middle := at(cols.BBMiddle, last)
		lower := at(cols.BBLower, last)
		if math.IsNaN(middle) {
			middle = 0
		}
		if math.IsNaN(lower) {
			lower = 0
		}
		sum.BBUpper = &upper
		sum.BBMiddle = &middle
		sum.BBLower = &lower
		sum.BBPosition = bbPosition(bars[last].Close, upper, lower)
	}

	return sum
}

func rsiInterpretation(rsi float64) string {
	switch {
	case rsi > 70:
		return "Overbought"
	case rsi < 30:
		return "Oversold"
	default:
		return "Neutral"
	}
}

func bbPosition(price, upper, lower float64) string {
	switch {
	case price > upper:
		return "Above Upper Band"
	case price < lower:
		return "Below Lower Band"
	default:
		return "Within Bands"
	}
}
