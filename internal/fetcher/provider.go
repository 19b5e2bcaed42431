package fetcher

import (
	"context"

	"StockWatch/internal/model"
)

// QuoteProvider fetches a real-time quote from one upstream API.
// Implementations return an error for any failure; the Fetcher decides
// what to do with it.
type QuoteProvider interface {
	Quote(ctx context.Context, symbol string) (model.Quote, error)
	Name() string
}

// HistoryProvider fetches daily closing prices, oldest first.
type HistoryProvider interface {
	DailyCloses(ctx context.Context, symbol string, days int) ([]float64, error)
	Name() string
}

// NewsProvider fetches today's headlines for a symbol.
type NewsProvider interface {
	CompanyNews(ctx context.Context, symbol string, limit int) ([]model.NewsItem, error)
	Name() string
}
