// Package calculator computes technical indicators from closing-price
// series. Everything here is deterministic and side-effect free.
package calculator

import "StockWatch/internal/model"

const (
	// MinDataPoints is the shortest series Compute accepts.
	MinDataPoints = 20

	smaShortPeriod = 5
	smaLongPeriod  = 20
	rsiPeriod      = 14
	momentumBars   = 10
)

// Compute derives indicators from a chronological closing-price series
// (oldest first). It returns ok=false when the series is shorter than
// MinDataPoints.
func Compute(prices []float64) (model.Indicators, bool) {
	if len(prices) < MinDataPoints {
		return model.Indicators{}, false
	}

	smaShort := mean(prices[len(prices)-smaShortPeriod:])
	smaLong := mean(prices[len(prices)-smaLongPeriod:])

	// Per-bar gains and losses over the whole series; the averages use
	// only the last 14 values of each (a Wilder-style simplification,
	// not a true running average).
	gains := make([]float64, 0, len(prices)-1)
	losses := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		delta := prices[i] - prices[i-1]
		gains = append(gains, max(0, delta))
		losses = append(losses, max(0, -delta))
	}
	avgGain := mean(tail(gains, rsiPeriod))
	avgLoss := mean(tail(losses, rsiPeriod))

	// When there are no losses rs is pinned to 100, which yields an RSI
	// just under 100 (100 - 100/101), not exactly 100.
	rs := 100.0
	if avgLoss > 0 {
		rs = avgGain / avgLoss
	}
	rsi := 100 - 100/(1+rs)

	momentum := 0.0
	if len(prices) > momentumBars {
		momentum = (prices[len(prices)-1]/prices[len(prices)-momentumBars] - 1) * 100
	}

	trend := model.TrendDown
	if smaShort > smaLong {
		trend = model.TrendUp
	}

	return model.Indicators{
		SMAShort: smaShort,
		SMALong:  smaLong,
		RSI:      rsi,
		Momentum: momentum,
		Trend:    trend,
	}, true
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func tail(values []float64, n int) []float64 {
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}
