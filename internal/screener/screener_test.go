package screener

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockWatch/internal/model"
)

type stubData struct {
	quotes map[string]model.Quote
	prices map[string][]float64
}

func (s *stubData) FetchQuote(_ context.Context, symbol string) (model.Quote, bool) {
	q, ok := s.quotes[symbol]
	return q, ok
}

func (s *stubData) FetchHistoricalPrices(_ context.Context, symbol string, _ int) []float64 {
	return s.prices[symbol]
}

// oversoldSeries yields RSI well under 30 but above 0: the last 14
// moves are gains+2 losses-12 with a flat run-up before them.
func oversoldSeries(gains int) []float64 {
	prices := []float64{100, 100, 100, 100, 100, 100, 100}
	last := 100.0
	for i := 0; i < gains; i++ {
		last++
		prices = append(prices, last)
	}
	for i := 0; i < 14-gains; i++ {
		last--
		prices = append(prices, last)
	}
	return prices
}

func risingSeries(start, n int) []float64 {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = float64(start + i)
	}
	return prices
}

func newTestScreener(data *stubData, u Universe) *Screener {
	return New(data, u, zerolog.Nop())
}

func TestScreenSymbol(t *testing.T) {
	data := &stubData{
		quotes: map[string]model.Quote{
			"AAPL":  {Symbol: "AAPL", Price: 190, ChangePercent: 1.5, Volume: 1000},
			"SHORT": {Symbol: "SHORT", Price: 10},
		},
		prices: map[string][]float64{
			"AAPL":  risingSeries(1, 25),
			"SHORT": {1, 2, 3},
		},
	}
	s := newTestScreener(data, Universe{})

	r, ok := s.ScreenSymbol(context.Background(), "AAPL")
	require.True(t, ok)
	assert.Equal(t, "AAPL", r.Symbol)
	assert.Equal(t, 190.0, r.Price)
	assert.Equal(t, model.TrendUp, r.Trend)
	assert.InDelta(t, 56.25, r.Momentum, 1e-9)
	assert.NotEmpty(t, r.Signal)
	assert.NotEmpty(t, r.Reason)

	_, ok = s.ScreenSymbol(context.Background(), "GHOST")
	assert.False(t, ok, "missing quote drops the symbol")

	_, ok = s.ScreenSymbol(context.Background(), "SHORT")
	assert.False(t, ok, "insufficient history drops the symbol")
}

func TestScreenOversoldFiltersAndSorts(t *testing.T) {
	data := &stubData{
		quotes: map[string]model.Quote{
			"DEEP":   {Symbol: "DEEP", Price: 90},
			"MILD":   {Symbol: "MILD", Price: 92},
			"STRONG": {Symbol: "STRONG", Price: 25},
		},
		prices: map[string][]float64{
			"DEEP":   oversoldSeries(2), // RSI ~14.3
			"MILD":   oversoldSeries(3), // RSI ~21.4
			"STRONG": risingSeries(1, 25),
		},
	}
	s := newTestScreener(data, Universe{})

	results := s.ScreenOversold(context.Background(), []string{"DEEP", "MILD", "STRONG"})
	require.Len(t, results, 2)
	assert.Equal(t, "DEEP", results[0].Symbol, "most oversold first")
	assert.Equal(t, "MILD", results[1].Symbol)
	assert.Less(t, results[0].RSI, 30.0)
	assert.Greater(t, results[0].RSI, 0.0)
}

func TestScreenOversoldExcludesZeroRSI(t *testing.T) {
	// A pure decline has no gains at all, RSI is exactly 0. That is
	// stale-data territory, not a buy setup.
	decline := make([]float64, 25)
	for i := range decline {
		decline[i] = float64(100 - i)
	}
	data := &stubData{
		quotes: map[string]model.Quote{"FALL": {Symbol: "FALL", Price: 76}},
		prices: map[string][]float64{"FALL": decline},
	}
	s := newTestScreener(data, Universe{})

	assert.Empty(t, s.ScreenOversold(context.Background(), []string{"FALL"}))
}

func TestScreenMomentumFiltersAndSorts(t *testing.T) {
	data := &stubData{
		quotes: map[string]model.Quote{
			"FAST": {Symbol: "FAST", Price: 25},
			"SLOW": {Symbol: "SLOW", Price: 124},
			"DOWN": {Symbol: "DOWN", Price: 90},
		},
		prices: map[string][]float64{
			"FAST": risingSeries(1, 25),   // momentum 56.25
			"SLOW": risingSeries(100, 25), // momentum ~7.8
			"DOWN": oversoldSeries(2),     // downtrend
		},
	}
	s := newTestScreener(data, Universe{})

	results := s.ScreenMomentum(context.Background(), []string{"FAST", "SLOW", "DOWN"})
	require.Len(t, results, 2)
	assert.Equal(t, "FAST", results[0].Symbol, "strongest momentum first")
	assert.Equal(t, "SLOW", results[1].Symbol)
	for _, r := range results {
		assert.Equal(t, model.TrendUp, r.Trend)
		assert.Greater(t, r.Momentum, 5.0)
	}
}

func TestScreenCustom(t *testing.T) {
	data := &stubData{
		quotes: map[string]model.Quote{
			"UP":   {Symbol: "UP", Price: 25, ChangePercent: 1.0},
			"UP2":  {Symbol: "UP2", Price: 124, ChangePercent: 3.0},
			"DOWN": {Symbol: "DOWN", Price: 90, ChangePercent: -2.0},
		},
		prices: map[string][]float64{
			"UP":   risingSeries(1, 25),
			"UP2":  risingSeries(100, 25),
			"DOWN": oversoldSeries(2),
		},
	}
	s := newTestScreener(data, Universe{})
	symbols := []string{"UP", "UP2", "DOWN"}

	t.Run("trend filter sorts by change percent", func(t *testing.T) {
		results := s.ScreenCustom(context.Background(), symbols, Criteria{Trend: model.TrendUp})
		require.Len(t, results, 2)
		assert.Equal(t, "UP2", results[0].Symbol, "biggest mover first")
		assert.Equal(t, "UP", results[1].Symbol)
	})

	t.Run("zero max RSI means unbounded", func(t *testing.T) {
		results := s.ScreenCustom(context.Background(), symbols, Criteria{})
		assert.Len(t, results, 3)
	})

	t.Run("RSI band", func(t *testing.T) {
		results := s.ScreenCustom(context.Background(), symbols, Criteria{MinRSI: 0, MaxRSI: 30})
		require.Len(t, results, 1)
		assert.Equal(t, "DOWN", results[0].Symbol)
	})

	t.Run("momentum band", func(t *testing.T) {
		results := s.ScreenCustom(context.Background(), symbols, Criteria{MinMomentum: 5, MaxMomentum: 100})
		require.Len(t, results, 2)
	})

	t.Run("signal filter", func(t *testing.T) {
		results := s.ScreenCustom(context.Background(), symbols, Criteria{Signal: model.SignalBuy})
		for _, r := range results {
			assert.Equal(t, model.SignalBuy, r.Signal)
		}
	})
}

func TestScreenUsesDefaultUniverseWhenNilSymbols(t *testing.T) {
	data := &stubData{
		quotes: map[string]model.Quote{"ONLY": {Symbol: "ONLY", Price: 25}},
		prices: map[string][]float64{"ONLY": risingSeries(1, 25)},
	}
	s := newTestScreener(data, Universe{Nasdaq100: []string{"ONLY"}})

	results := s.ScreenMomentum(context.Background(), nil)
	require.Len(t, results, 1)
	assert.Equal(t, "ONLY", results[0].Symbol)
}

func TestLoadUniverse(t *testing.T) {
	t.Run("missing file is empty", func(t *testing.T) {
		u, err := LoadUniverse(filepath.Join(t.TempDir(), "nope.json"))
		require.NoError(t, err)
		assert.Empty(t, u.Nasdaq100)
	})

	t.Run("parses lists and sectors", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "universe.json")
		doc := map[string]any{
			"nasdaq_100": []string{"AAPL", "MSFT"},
			"sectors":    map[string][]string{"tech": {"AAPL"}},
		}
		data, err := json.Marshal(doc)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, data, 0o644))

		u, err := LoadUniverse(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"AAPL", "MSFT"}, u.Nasdaq100)
		assert.Equal(t, []string{"AAPL"}, u.Sectors["tech"])
	})

	t.Run("corrupt file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "universe.json")
		require.NoError(t, os.WriteFile(path, []byte("{nope"), 0o644))
		_, err := LoadUniverse(path)
		assert.Error(t, err)
	})
}

func TestDefaultUniverseIsCapped(t *testing.T) {
	symbols := make([]string, 80)
	for i := range symbols {
		symbols[i] = "S" + string(rune('A'+i%26))
	}
	u := Universe{Nasdaq100: symbols}
	assert.Len(t, u.Default(), defaultUniverseSize)
}
