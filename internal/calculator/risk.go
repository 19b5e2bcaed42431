package calculator

import "StockWatch/internal/model"

const (
	stopLossFactor   = 0.98 // 2% stop
	takeProfitFactor = 1.05 // 5% target
	maxRiskScore     = 10
)

// ComputeRisk derives quick risk metrics from a quote. Volatility is the
// intraday range as a percent of price, zero when price is not positive.
func ComputeRisk(price, high, low float64, volume int64) model.RiskMetrics {
	volatility := 0.0
	if price > 0 {
		volatility = (high - low) / price * 100
	}
	return model.RiskMetrics{
		Volatility: volatility,
		StopLoss:   price * stopLossFactor,
		TakeProfit: price * takeProfitFactor,
		RiskScore:  min(maxRiskScore, volatility),
	}
}
