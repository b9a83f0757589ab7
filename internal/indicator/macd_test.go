package indicator

import (
	"math"
	"testing"
)

func TestMACD_WarmUp(t *testing.T) {
	prices := make([]float64, 60)
	for i := range prices {
		prices[i] = 100 + float64(i)*0.5
	}
	macd, signal := MACD(prices, 12, 26, 9)

	for i := 0; i < 25; i++ {
		if !math.IsNaN(macd[i]) {
			t.Errorf("macd index %d: expected NaN during warm-up, got %f", i, macd[i])
		}
	}
	if math.IsNaN(macd[25]) {
		t.Error("macd: expected first value at index 25")
	}
	// Signal line needs 9 MACD values: first defined at 25+8.
	for i := 0; i < 33; i++ {
		if !math.IsNaN(signal[i]) {
			t.Errorf("signal index %d: expected NaN during warm-up, got %f", i, signal[i])
		}
	}
	if math.IsNaN(signal[33]) {
		t.Error("signal: expected first value at index 33")
	}
}

func TestMACD_ConstantSeriesIsZero(t *testing.T) {
	prices := make([]float64, 50)
	for i := range prices {
		prices[i] = 200
	}
	macd, signal := MACD(prices, 12, 26, 9)
	for i := 33; i < len(prices); i++ {
		if !almostEqual(macd[i], 0) {
			t.Errorf("macd index %d: expected 0, got %f", i, macd[i])
		}
		if !almostEqual(signal[i], 0) {
			t.Errorf("signal index %d: expected 0, got %f", i, signal[i])
		}
	}
}

func TestMACD_ShortSeries(t *testing.T) {
	macd, signal := MACD([]float64{1, 2, 3}, 12, 26, 9)
	for i := range macd {
		if !math.IsNaN(macd[i]) || !math.IsNaN(signal[i]) {
			t.Errorf("index %d: expected NaN for series shorter than slow period", i)
		}
	}
}
