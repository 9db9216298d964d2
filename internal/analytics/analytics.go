// Package analytics holds pure price-series statistics used on top of
// fallback history: volatility, simple moving averages and RSI.
package analytics

import "math"

// TradingDaysPerYear annualizes daily volatility.
const TradingDaysPerYear = 252

// DefaultRSIPeriod is the usual Wilder window.
const DefaultRSIPeriod = 14

// PctChange returns the period-over-period fractional change. Steps from a
// zero price are skipped.
func PctChange(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	out := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		prev := closes[i-1]
		if prev == 0 {
			continue
		}
		out = append(out, (closes[i]-prev)/prev)
	}
	return out
}

// StdDev is the sample standard deviation (n-1 denominator).
func StdDev(xs []float64) (float64, bool) {
	if len(xs) < 2 {
		return 0, false
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))
	var sq float64
	for _, x := range xs {
		d := x - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(xs)-1)), true
}

// Volatility is the annualized standard deviation of daily returns, in
// percent: stdev(pct change) * sqrt(252) * 100.
func Volatility(closes []float64) (float64, bool) {
	sd, ok := StdDev(PctChange(closes))
	if !ok {
		return 0, false
	}
	return sd * math.Sqrt(TradingDaysPerYear) * 100, true
}

// SMA averages the last window closes.
func SMA(closes []float64, window int) (float64, bool) {
	if window <= 0 || len(closes) < window {
		return 0, false
	}
	var sum float64
	for _, c := range closes[len(closes)-window:] {
		sum += c
	}
	return sum / float64(window), true
}

// MovingAverages computes SMA for every window the series is long enough
// for, keyed by window.
func MovingAverages(closes []float64, windows ...int) map[int]float64 {
	out := make(map[int]float64, len(windows))
	for _, w := range windows {
		if v, ok := SMA(closes, w); ok {
			out[w] = v
		}
	}
	return out
}

// RSI is the Relative Strength Index with Wilder's smoothing:
//
//	avg = (prev_avg*(period-1) + current) / period
//	RSI = 100 - 100/(1+avg_gain/avg_loss)
//
// seeded with the simple mean of the first period changes. It needs at
// least period+1 closes. With no losses RSI is 100; a flat series is 50.
func RSI(closes []float64, period int) (float64, bool) {
	if period <= 0 || len(closes) < period+1 {
		return 0, false
	}
	var gain, loss float64
	for i := 1; i <= period; i++ {
		g, l := split(closes[i] - closes[i-1])
		gain += g
		loss += l
	}
	avgGain := gain / float64(period)
	avgLoss := loss / float64(period)

	n := float64(period)
	for i := period + 1; i < len(closes); i++ {
		g, l := split(closes[i] - closes[i-1])
		avgGain = (avgGain*(n-1) + g) / n
		avgLoss = (avgLoss*(n-1) + l) / n
	}

	switch {
	case avgLoss == 0 && avgGain == 0:
		return 50, true
	case avgLoss == 0:
		return 100, true
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), true
}

func split(delta float64) (gain, loss float64) {
	if delta > 0 {
		return delta, 0
	}
	return 0, -delta
}
