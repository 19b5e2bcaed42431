package model

// Trend direction derived from the short/long moving average crossover.
const (
	TrendUp   = "UP"
	TrendDown = "DOWN"
)

// Indicators holds the technical indicators computed from a closing-price series.
type Indicators struct {
	SMAShort float64 // mean of the last 5 closes
	SMALong  float64 // mean of the last 20 closes
	RSI      float64
	Momentum float64 // percent change over the last 10 bars
	Trend    string
}

// RiskMetrics holds quick per-quote risk numbers.
type RiskMetrics struct {
	Volatility float64 // intraday range as percent of price
	StopLoss   float64
	TakeProfit float64
	RiskScore  float64 // 0-10
}
