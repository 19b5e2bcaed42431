package fetcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockWatch/internal/cache"
	"StockWatch/internal/model"
)

type stubQuoteProvider struct {
	name  string
	quote model.Quote
	err   error
	calls int
}

func (s *stubQuoteProvider) Name() string { return s.name }
func (s *stubQuoteProvider) Quote(_ context.Context, symbol string) (model.Quote, error) {
	s.calls++
	if s.err != nil {
		return model.Quote{}, s.err
	}
	q := s.quote
	q.Symbol = symbol
	return q, nil
}

type stubHistoryProvider struct {
	name   string
	closes []float64
	err    error
	calls  int
}

func (s *stubHistoryProvider) Name() string { return s.name }
func (s *stubHistoryProvider) DailyCloses(_ context.Context, _ string, _ int) ([]float64, error) {
	s.calls++
	return s.closes, s.err
}

func newTestCache(t *testing.T) *cache.Store {
	t.Helper()
	store, err := cache.NewStore(t.TempDir(), time.Hour, zerolog.Nop())
	require.NoError(t, err)
	return store
}

func TestFetchQuoteFallsBackInPriorityOrder(t *testing.T) {
	primary := &stubQuoteProvider{name: "primary", err: errors.New("boom")}
	secondary := &stubQuoteProvider{name: "secondary", quote: model.Quote{Price: 101.5}}
	f := NewWithProviders([]QuoteProvider{primary, secondary}, nil, nil, nil, zerolog.Nop())

	quote, ok := f.FetchQuote(context.Background(), "AAPL")
	require.True(t, ok)
	assert.Equal(t, "AAPL", quote.Symbol)
	assert.Equal(t, 101.5, quote.Price)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestFetchQuoteFirstSuccessStopsFallback(t *testing.T) {
	primary := &stubQuoteProvider{name: "primary", quote: model.Quote{Price: 55}}
	secondary := &stubQuoteProvider{name: "secondary", quote: model.Quote{Price: 56}}
	f := NewWithProviders([]QuoteProvider{primary, secondary}, nil, nil, nil, zerolog.Nop())

	quote, ok := f.FetchQuote(context.Background(), "TSLA")
	require.True(t, ok)
	assert.Equal(t, 55.0, quote.Price)
	assert.Zero(t, secondary.calls)
}

func TestFetchQuoteAllProvidersExhausted(t *testing.T) {
	a := &stubQuoteProvider{name: "a", err: errors.New("timeout")}
	b := &stubQuoteProvider{name: "b", err: errors.New("503")}
	f := NewWithProviders([]QuoteProvider{a, b}, nil, nil, nil, zerolog.Nop())

	_, ok := f.FetchQuote(context.Background(), "AAPL")
	assert.False(t, ok)
}

func TestFetchQuoteNoProvidersConfigured(t *testing.T) {
	// No credentials means no providers, not an error.
	f := New(Keys{}, nil, zerolog.Nop())

	_, ok := f.FetchQuote(context.Background(), "AAPL")
	assert.False(t, ok)
}

func TestFetchBatchDropsAbsentSymbols(t *testing.T) {
	p := &stubQuoteProvider{name: "flaky", quote: model.Quote{Price: 10}}
	f := NewWithProviders([]QuoteProvider{p}, nil, nil, nil, zerolog.Nop())

	// A second provider-less fetcher cannot serve anything.
	quotes := f.FetchBatch(context.Background(), []string{"AAPL", "MSFT", "GOOG"})
	assert.Len(t, quotes, 3)
	for symbol, q := range quotes {
		assert.Equal(t, symbol, q.Symbol)
	}

	empty := NewWithProviders(nil, nil, nil, nil, zerolog.Nop())
	quotes = empty.FetchBatch(context.Background(), []string{"AAPL", "MSFT"})
	assert.Empty(t, quotes)
	// Absent symbols are dropped, never present with a zero value.
	_, present := quotes["AAPL"]
	assert.False(t, present)
}

func TestFetchHistoricalPricesUsesCache(t *testing.T) {
	store := newTestCache(t)
	h := &stubHistoryProvider{name: "hist", closes: []float64{1, 2, 3}}
	f := NewWithProviders(nil, []HistoryProvider{h}, nil, store, zerolog.Nop())

	first := f.FetchHistoricalPrices(context.Background(), "AAPL", 100)
	assert.Equal(t, []float64{1, 2, 3}, first)
	assert.Equal(t, 1, h.calls)

	// Second call is served from cache; the provider is not touched.
	second := f.FetchHistoricalPrices(context.Background(), "AAPL", 100)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, h.calls)
}

func TestFetchHistoricalPricesFallbackStopsAtFirstNonEmpty(t *testing.T) {
	failing := &stubHistoryProvider{name: "down", err: errors.New("502")}
	empty := &stubHistoryProvider{name: "empty"}
	good := &stubHistoryProvider{name: "good", closes: []float64{9, 8, 7}}
	last := &stubHistoryProvider{name: "last", closes: []float64{0}}
	f := NewWithProviders(nil, []HistoryProvider{failing, empty, good, last}, nil, newTestCache(t), zerolog.Nop())

	closes := f.FetchHistoricalPrices(context.Background(), "NVDA", 100)
	assert.Equal(t, []float64{9, 8, 7}, closes)
	assert.Zero(t, last.calls)
}

func TestFetchHistoricalPricesEmptyResultNotCached(t *testing.T) {
	store := newTestCache(t)
	h := &stubHistoryProvider{name: "hist", err: errors.New("down")}
	f := NewWithProviders(nil, []HistoryProvider{h}, nil, store, zerolog.Nop())

	assert.Empty(t, f.FetchHistoricalPrices(context.Background(), "AAPL", 100))
	assert.Equal(t, 1, h.calls)

	// The failure was not cached: a later call re-attempts the network.
	h.err = nil
	h.closes = []float64{5, 6}
	assert.Equal(t, []float64{5, 6}, f.FetchHistoricalPrices(context.Background(), "AAPL", 100))
	assert.Equal(t, 2, h.calls)
}

func TestNewSkipsProvidersWithoutCredentials(t *testing.T) {
	f := New(Keys{Polygon: "pk"}, nil, zerolog.Nop())

	require.Len(t, f.quoteProviders, 1)
	assert.Equal(t, "polygon", f.quoteProviders[0].Name())
	require.Len(t, f.historyProviders, 1)
	assert.Empty(t, f.newsProviders)

	full := New(Keys{Finnhub: "fk", Polygon: "pk", AlphaVantage: "ak"}, nil, zerolog.Nop())
	require.Len(t, full.quoteProviders, 2)
	assert.Equal(t, "finnhub", full.quoteProviders[0].Name())
	assert.Equal(t, "polygon", full.quoteProviders[1].Name())
	require.Len(t, full.historyProviders, 3)
	assert.Equal(t, "alphavantage", full.historyProviders[2].Name())
}
