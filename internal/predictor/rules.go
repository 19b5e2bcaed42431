package predictor

import (
	"context"
	"math"

	"StockWatch/internal/model"
)

const maxConfidence = 0.8

// RulePredictor is the deterministic fallback strategy. It needs no
// credentials and no network.
type RulePredictor struct{}

// NewRulePredictor creates the rule-based strategy.
func NewRulePredictor() *RulePredictor { return &RulePredictor{} }

// Predict applies the rule table, first match wins:
//
//	RSI < 30 and momentum > 0  => BUY  (oversold bounce)
//	RSI > 70 and momentum < 0  => SELL (overbought rollover)
//	trend UP and RSI < 50      => BUY  (uptrend continuation)
//	trend DOWN and RSI > 50    => SELL (downtrend continuation)
//	otherwise                  => HOLD
func (p *RulePredictor) Predict(_ context.Context, req Request) model.Prediction {
	ind := req.Indicators

	var signal model.Signal
	var reason string
	switch {
	case ind.RSI < 30 && ind.Momentum > 0:
		signal, reason = model.SignalBuy, "Oversold + positive momentum"
	case ind.RSI > 70 && ind.Momentum < 0:
		signal, reason = model.SignalSell, "Overbought + negative momentum"
	case ind.Trend == model.TrendUp && ind.RSI < 50:
		signal, reason = model.SignalBuy, "Uptrend continuation"
	case ind.Trend == model.TrendDown && ind.RSI > 50:
		signal, reason = model.SignalSell, "Downtrend continuation"
	default:
		signal, reason = model.SignalHold, "No clear signal"
	}

	confidence := math.Min(maxConfidence, math.Abs(ind.RSI-50)/50+math.Abs(ind.Momentum)/20)

	return model.Prediction{
		Signal:     signal,
		Confidence: confidence,
		Reason:     reason,
		Source:     "rules",
	}
}
