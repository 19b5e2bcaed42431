// Package fetcher queries market-data providers in a fixed priority
// order. Provider failures are swallowed: the only signal callers get is
// an absent result once every configured provider has been tried.
package fetcher

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"StockWatch/internal/cache"
	"StockWatch/internal/model"
)

// DefaultLookbackDays is how far back historical fetches reach.
const DefaultLookbackDays = 100

const historicalKeySuffix = "_historical"

// Fetcher fans requests out to providers and writes historical series
// through the cache store.
type Fetcher struct {
	quoteProviders   []QuoteProvider
	historyProviders []HistoryProvider
	newsProviders    []NewsProvider
	cache            *cache.Store
	log              zerolog.Logger
}

// Keys holds the provider credentials. An empty key means the provider
// is not configured and will be skipped, not attempted.
type Keys struct {
	Finnhub      string
	Polygon      string
	AlphaVantage string
}

// New builds a Fetcher with the providers the keys allow, in priority
// order: Finnhub, then Polygon, then (history only) Alpha Vantage.
func New(keys Keys, store *cache.Store, log zerolog.Logger) *Fetcher {
	f := &Fetcher{
		cache: store,
		log:   log.With().Str("component", "fetcher").Logger(),
	}
	if keys.Finnhub != "" {
		fh := NewFinnhubProvider(keys.Finnhub)
		f.quoteProviders = append(f.quoteProviders, fh)
		f.historyProviders = append(f.historyProviders, fh)
		f.newsProviders = append(f.newsProviders, fh)
	}
	if keys.Polygon != "" {
		pg := NewPolygonProvider(keys.Polygon)
		f.quoteProviders = append(f.quoteProviders, pg)
		f.historyProviders = append(f.historyProviders, pg)
	}
	if keys.AlphaVantage != "" {
		f.historyProviders = append(f.historyProviders, NewAlphaVantageProvider(keys.AlphaVantage))
	}
	return f
}

// NewWithProviders wires explicit provider lists. Used by tests and by
// callers that need a custom priority order.
func NewWithProviders(quotes []QuoteProvider, histories []HistoryProvider, news []NewsProvider, store *cache.Store, log zerolog.Logger) *Fetcher {
	return &Fetcher{
		quoteProviders:   quotes,
		historyProviders: histories,
		newsProviders:    news,
		cache:            store,
		log:              log.With().Str("component", "fetcher").Logger(),
	}
}

// FetchQuote tries each quote provider in order and returns the first
// success. ok is false only when every provider failed or none is
// configured.
func (f *Fetcher) FetchQuote(ctx context.Context, symbol string) (model.Quote, bool) {
	for _, p := range f.quoteProviders {
		quote, err := p.Quote(ctx, symbol)
		if err != nil {
			f.log.Debug().Err(err).Str("provider", p.Name()).Str("symbol", symbol).Msg("quote failed, trying next provider")
			continue
		}
		return quote, true
	}
	return model.Quote{}, false
}

// FetchBatch fetches quotes for all symbols concurrently. Symbols with
// no obtainable quote are dropped from the result, not mapped to a zero
// value.
func (f *Fetcher) FetchBatch(ctx context.Context, symbols []string) map[string]model.Quote {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		quotes = make(map[string]model.Quote, len(symbols))
	)
	for _, symbol := range symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			if quote, ok := f.FetchQuote(ctx, symbol); ok {
				mu.Lock()
				quotes[symbol] = quote
				mu.Unlock()
			}
		}(symbol)
	}
	wg.Wait()
	return quotes
}

// FetchNews returns up to limit headlines for the symbol. Best effort:
// any failure yields an empty slice.
func (f *Fetcher) FetchNews(ctx context.Context, symbol string, limit int) []model.NewsItem {
	for _, p := range f.newsProviders {
		items, err := p.CompanyNews(ctx, symbol, limit)
		if err != nil {
			f.log.Debug().Err(err).Str("provider", p.Name()).Str("symbol", symbol).Msg("news fetch failed")
			continue
		}
		return items
	}
	return nil
}

// FetchHistoricalPrices returns daily closes for the symbol, oldest
// first. The cache is consulted before any network call; the first
// non-empty provider result is written through and returned. An empty
// result is never cached, so a later call re-attempts the network.
func (f *Fetcher) FetchHistoricalPrices(ctx context.Context, symbol string, days int) []float64 {
	if days <= 0 {
		days = DefaultLookbackDays
	}
	key := symbol + historicalKeySuffix

	var cached []float64
	if f.cache != nil && f.cache.GetJSON(key, &cached) && len(cached) > 0 {
		return cached
	}

	for _, p := range f.historyProviders {
		closes, err := p.DailyCloses(ctx, symbol, days)
		if err != nil {
			f.log.Debug().Err(err).Str("provider", p.Name()).Str("symbol", symbol).Msg("history failed, trying next provider")
			continue
		}
		if len(closes) == 0 {
			continue
		}
		if f.cache != nil {
			if err := f.cache.Set(key, closes); err != nil {
				f.log.Warn().Err(err).Str("symbol", symbol).Msg("failed to cache historical prices")
			}
		}
		return closes
	}
	return nil
}
