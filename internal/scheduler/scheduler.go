// Package scheduler runs the periodic background work: refreshing the
// watchlist and sweeping expired cache entries.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"StockWatch/internal/calculator"
	"StockWatch/internal/model"
	"StockWatch/internal/predictor"
	"StockWatch/internal/recorder"
)

// Update is one refreshed symbol, published after every refresh cycle.
type Update struct {
	Symbol     string
	Quote      model.Quote
	Indicators model.Indicators
	Risk       model.RiskMetrics
	Prediction model.Prediction
}

// marketData is the slice of the fetcher the refresh loop needs.
type marketData interface {
	FetchBatch(ctx context.Context, symbols []string) map[string]model.Quote
	FetchHistoricalPrices(ctx context.Context, symbol string, days int) []float64
	FetchNews(ctx context.Context, symbol string, limit int) []model.NewsItem
}

// portfolioView supplies portfolio context to the predictor.
type portfolioView interface {
	Summary(currentPrices map[string]float64) model.PortfolioSummary
}

// symbolSource yields the symbols to refresh, normally the watchlist.
type symbolSource interface {
	Symbols() []string
}

// sweeper removes expired cache entries.
type sweeper interface {
	SweepExpired() int
}

// Scheduler manages the cron tasks.
type Scheduler struct {
	cron      *cron.Cron
	data      marketData
	watchlist symbolSource
	predictor predictor.Predictor
	recorder  recorder.Recorder
	sweeper   sweeper
	book      portfolioView
	updates   chan Update
	ctx       context.Context
	log       zerolog.Logger
}

// New creates a Scheduler. The predictor decides which strategy scores
// refreshed symbols; pass the rule predictor when no AI is configured.
// book may be nil, the predictor then runs without portfolio context.
func New(ctx context.Context, data marketData, wl symbolSource, pred predictor.Predictor, rec recorder.Recorder, sw sweeper, book portfolioView, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithSeconds()),
		data:      data,
		watchlist: wl,
		predictor: pred,
		recorder:  rec,
		sweeper:   sw,
		book:      book,
		updates:   make(chan Update, 64),
		ctx:       ctx,
		log:       log.With().Str("component", "scheduler").Logger(),
	}
}

// Updates is the stream of refreshed symbols. Consumers that fall
// behind lose updates rather than stalling the refresh loop.
func (s *Scheduler) Updates() <-chan Update {
	return s.updates
}

// RegisterAll registers the refresh and cache-sweep tasks.
func (s *Scheduler) RegisterAll(refreshCron, sweepCron string) error {
	if _, err := s.cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	if _, err := s.cron.AddFunc(sweepCron, s.sweepTask); err != nil {
		return fmt.Errorf("register sweep task: %w", err)
	}
	return nil
}

// RegisterTask registers an extra cron task, such as the screener scan.
func (s *Scheduler) RegisterTask(spec string, task func()) error {
	if _, err := s.cron.AddFunc(spec, task); err != nil {
		return fmt.Errorf("register task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info().Msg("scheduler stopped")
}

// RunRefreshNow executes one refresh cycle immediately.
func (s *Scheduler) RunRefreshNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	symbols := s.watchlist.Symbols()
	if len(symbols) == 0 {
		return
	}
	s.log.Info().Int("symbols", len(symbols)).Msg("refreshing watchlist")

	quotes := s.data.FetchBatch(s.ctx, symbols)
	for _, symbol := range symbols {
		quote, ok := quotes[symbol]
		if !ok {
			s.log.Debug().Str("symbol", symbol).Msg("no quote this cycle")
			continue
		}
		if err := s.recorder.RecordQuote(quote); err != nil {
			s.log.Error().Err(err).Str("symbol", symbol).Msg("record quote")
		}

		prices := s.data.FetchHistoricalPrices(s.ctx, symbol, 0)
		ind, ok := calculator.Compute(prices)
		if !ok {
			s.log.Debug().Str("symbol", symbol).Msg("not enough history for indicators")
			continue
		}

		var book *model.PortfolioSummary
		if s.book != nil {
			v := s.book.Summary(map[string]float64{symbol: quote.Price})
			book = &v
		}
		pred := s.predictor.Predict(s.ctx, predictor.Request{
			Symbol:     symbol,
			Quote:      quote,
			Indicators: ind,
			News:       s.data.FetchNews(s.ctx, symbol, 3),
			Portfolio:  book,
		})
		if err := s.recorder.RecordSignal(symbol, ind, pred); err != nil {
			s.log.Error().Err(err).Str("symbol", symbol).Msg("record signal")
		}

		risk := calculator.ComputeRisk(quote.Price, quote.DayHigh, quote.DayLow, quote.Volume)
		s.publish(Update{Symbol: symbol, Quote: quote, Indicators: ind, Risk: risk, Prediction: pred})
	}
}

func (s *Scheduler) sweepTask() {
	if removed := s.sweeper.SweepExpired(); removed > 0 {
		s.log.Info().Int("removed", removed).Msg("swept expired cache entries")
	}
}

// publish never blocks: a full channel drops the update.
func (s *Scheduler) publish(u Update) {
	select {
	case s.updates <- u:
	default:
		s.log.Debug().Str("symbol", u.Symbol).Msg("update channel full, dropping")
	}
}
