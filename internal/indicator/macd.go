package indicator

import "math"

// MACD computes the moving-average convergence/divergence line
// (EMA(fast) - EMA(slow)) and its signal line (EMA(signalPeriod) of the MACD).
// Both results are aligned to prices with NaN during warm-up.
func MACD(prices []float64, fast, slow, signalPeriod int) (macd, signal []float64) {
	macd = nanSlice(len(prices))
	signal = nanSlice(len(prices))
	if len(prices) < slow {
		return macd, signal
	}

	emaFast := EMA(prices, fast)
	emaSlow := EMA(prices, slow)
	for i := range prices {
		if !math.IsNaN(emaFast[i]) && !math.IsNaN(emaSlow[i]) {
			macd[i] = emaFast[i] - emaSlow[i]
		}
	}

	// Signal line runs over the defined suffix of the MACD series.
	start := slow - 1
	defined := macd[start:]
	sig := EMA(defined, signalPeriod)
	for i, v := range sig {
		signal[start+i] = v
	}
	return macd, signal
}
