// Package predictor turns computed indicators into a BUY/HOLD/SELL
// opinion. Two interchangeable strategies exist: a deterministic rule
// table that is always available, and an optional LLM-backed predictor
// that silently falls back to the rules on any failure.
package predictor

import (
	"context"

	"StockWatch/internal/model"
)

// Request carries everything a strategy may look at. Quote and
// Indicators are required; the rest is optional context.
type Request struct {
	Symbol     string
	Quote      model.Quote
	Indicators model.Indicators
	News       []model.NewsItem
	Portfolio  *model.PortfolioSummary
}

// Predictor produces a signal from technicals. Implementations never
// return an error: a strategy that cannot answer degrades to a more
// basic one instead.
type Predictor interface {
	Predict(ctx context.Context, req Request) model.Prediction
}
