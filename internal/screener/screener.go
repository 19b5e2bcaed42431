// Package screener scans a symbol universe for setups: oversold names,
// momentum plays, or custom criteria. Screening is best effort: any
// symbol without a quote or enough price history is dropped silently.
package screener

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"StockWatch/internal/calculator"
	"StockWatch/internal/model"
	"StockWatch/internal/predictor"
)

// marketData is the slice of the fetcher the screener needs.
type marketData interface {
	FetchQuote(ctx context.Context, symbol string) (model.Quote, bool)
	FetchHistoricalPrices(ctx context.Context, symbol string, days int) []float64
}

// Screener evaluates symbols with the deterministic rule predictor.
type Screener struct {
	data     marketData
	rules    *predictor.RulePredictor
	universe Universe
	log      zerolog.Logger
}

// New creates a Screener over the given universe.
func New(data marketData, universe Universe, log zerolog.Logger) *Screener {
	return &Screener{
		data:     data,
		rules:    predictor.NewRulePredictor(),
		universe: universe,
		log:      log.With().Str("component", "screener").Logger(),
	}
}

// ScreenSymbol evaluates one symbol. ok is false when the quote is
// absent or the price history is too short for indicators.
func (s *Screener) ScreenSymbol(ctx context.Context, symbol string) (model.ScreenResult, bool) {
	quote, ok := s.data.FetchQuote(ctx, symbol)
	if !ok {
		return model.ScreenResult{}, false
	}
	prices := s.data.FetchHistoricalPrices(ctx, symbol, 0)
	ind, ok := calculator.Compute(prices)
	if !ok {
		return model.ScreenResult{}, false
	}

	pred := s.rules.Predict(ctx, predictor.Request{Symbol: symbol, Quote: quote, Indicators: ind})
	return model.ScreenResult{
		Symbol:        symbol,
		Price:         quote.Price,
		ChangePercent: quote.ChangePercent,
		RSI:           ind.RSI,
		Trend:         ind.Trend,
		Momentum:      ind.Momentum,
		Volume:        quote.Volume,
		Signal:        pred.Signal,
		Reason:        pred.Reason,
	}, true
}

// screenAll evaluates the symbols concurrently, fan-out/fan-in.
func (s *Screener) screenAll(ctx context.Context, symbols []string) []model.ScreenResult {
	s.log.Debug().Int("symbols", len(symbols)).Msg("screening")
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results []model.ScreenResult
	)
	for _, symbol := range symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			if r, ok := s.ScreenSymbol(ctx, symbol); ok {
				mu.Lock()
				results = append(results, r)
				mu.Unlock()
			}
		}(symbol)
	}
	wg.Wait()
	return results
}

// ScreenOversold finds names with 0 < RSI < 30, most oversold first.
// A nil symbol list screens the default universe slice.
func (s *Screener) ScreenOversold(ctx context.Context, symbols []string) []model.ScreenResult {
	if symbols == nil {
		symbols = s.universe.Default()
	}
	var oversold []model.ScreenResult
	for _, r := range s.screenAll(ctx, symbols) {
		if r.RSI > 0 && r.RSI < 30 {
			oversold = append(oversold, r)
		}
	}
	sort.Slice(oversold, func(i, j int) bool { return oversold[i].RSI < oversold[j].RSI })
	return oversold
}

// ScreenMomentum finds uptrending names with momentum above 5,
// strongest first.
func (s *Screener) ScreenMomentum(ctx context.Context, symbols []string) []model.ScreenResult {
	if symbols == nil {
		symbols = s.universe.Default()
	}
	var plays []model.ScreenResult
	for _, r := range s.screenAll(ctx, symbols) {
		if r.Trend == model.TrendUp && r.Momentum > 5 {
			plays = append(plays, r)
		}
	}
	sort.Slice(plays, func(i, j int) bool { return plays[i].Momentum > plays[j].Momentum })
	return plays
}

// Criteria are user-defined filters for ScreenCustom. Zero-valued
// bounds mean unbounded; empty Trend/Signal means no filter.
type Criteria struct {
	MinRSI      float64
	MaxRSI      float64
	MinMomentum float64
	MaxMomentum float64
	Trend       string
	Signal      model.Signal
}

// ScreenCustom applies the criteria and sorts by change percent,
// biggest movers first.
func (s *Screener) ScreenCustom(ctx context.Context, symbols []string, c Criteria) []model.ScreenResult {
	if c.MaxRSI == 0 {
		c.MaxRSI = 100
	}
	if c.MinMomentum == 0 && c.MaxMomentum == 0 {
		c.MinMomentum, c.MaxMomentum = -100, 100
	}

	var filtered []model.ScreenResult
	for _, r := range s.screenAll(ctx, symbols) {
		if r.RSI < c.MinRSI || r.RSI > c.MaxRSI {
			continue
		}
		if r.Momentum < c.MinMomentum || r.Momentum > c.MaxMomentum {
			continue
		}
		if c.Trend != "" && r.Trend != c.Trend {
			continue
		}
		if c.Signal != "" && r.Signal != c.Signal {
			continue
		}
		filtered = append(filtered, r)
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].ChangePercent > filtered[j].ChangePercent })
	return filtered
}

// SectorSymbols returns the universe's symbols for one sector.
func (s *Screener) SectorSymbols(sector string) []string {
	return s.universe.Sectors[sector]
}
