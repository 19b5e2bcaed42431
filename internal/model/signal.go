package model

// Signal is a trading opinion for a symbol.
type Signal string

const (
	SignalBuy  Signal = "BUY"
	SignalHold Signal = "HOLD"
	SignalSell Signal = "SELL"
)

// Prediction is the output of a predictor strategy.
type Prediction struct {
	Signal     Signal
	Confidence float64
	Reason     string
	Source     string // "rules" or "ai"
}

// ScreenResult is one row of screener output.
type ScreenResult struct {
	Symbol        string
	Price         float64
	ChangePercent float64
	RSI           float64
	Trend         string
	Momentum      float64
	Volume        int64
	Signal        Signal
	Reason        string
}
