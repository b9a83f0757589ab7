package indicator

import "math"

// Bollinger computes the volatility bands: middle = SMA(period), upper/lower =
// middle +/- width * rolling population stddev(period). All three results are
// aligned to prices with NaN during warm-up.
func Bollinger(prices []float64, period int, width float64) (upper, middle, lower []float64) {
	n := len(prices)
	upper = nanSlice(n)
	lower = nanSlice(n)
	middle = SMA(prices, period)
	if period <= 0 || n < period {
		return upper, middle, lower
	}

	for i := period - 1; i < n; i++ {
		mean := middle[i]
		var variance float64
		for j := i - period + 1; j <= i; j++ {
			d := prices[j] - mean
			variance += d * d
		}
		sd := math.Sqrt(variance / float64(period))
		upper[i] = mean + width*sd
		lower[i] = mean - width*sd
	}
	return upper, middle, lower
}
