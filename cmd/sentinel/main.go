package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"StockWatch/internal/cache"
	"StockWatch/internal/config"
	"StockWatch/internal/fetcher"
	"StockWatch/internal/model"
	"StockWatch/internal/portfolio"
	"StockWatch/internal/predictor"
	"StockWatch/internal/recorder"
	"StockWatch/internal/scheduler"
	"StockWatch/internal/screener"
	"StockWatch/internal/watchlist"
	"StockWatch/pkg/logger"
)

func main() {
	cfgPath := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		l := logger.New(logger.Config{})
		l.Fatal().Err(err).Msg("load config")
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	log.Info().Msg("StockWatch starting")

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Cache store shared by the fetcher and the sweep task.
	store, err := cache.NewStore(cfg.Cache.Dir, time.Duration(cfg.Cache.TTLHours)*time.Hour, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init cache store")
	}

	fetch := fetcher.New(fetcher.Keys{
		Finnhub:      cfg.Providers.FinnhubKey,
		Polygon:      cfg.Providers.PolygonKey,
		AlphaVantage: cfg.Providers.AlphaVantageKey,
	}, store, log)

	ledger, err := portfolio.NewLedger(cfg.Portfolio.StateFile, cfg.Portfolio.InitialCash, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init portfolio ledger")
	}

	wl, err := watchlist.NewStore(cfg.Watchlist.File)
	if err != nil {
		log.Fatal().Err(err).Msg("init watchlist")
	}

	// Predictor: LLM when a key is configured, otherwise pure rules.
	var pred predictor.Predictor = predictor.NewRulePredictor()
	if cfg.AI.GeminiKey != "" {
		var search *predictor.SearchClient
		if cfg.AI.SearchKey != "" {
			search = predictor.NewSearchClient(cfg.AI.SearchURL, cfg.AI.SearchKey)
		}
		llm, err := predictor.NewLLMPredictor(ctx, cfg.AI.GeminiKey, cfg.AI.Model, search, log)
		if err != nil {
			log.Warn().Err(err).Msg("init LLM predictor failed, using rules")
		} else {
			pred = llm
			log.Info().Str("model", cfg.AI.Model).Msg("LLM predictor enabled")
		}
	}

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	sched := scheduler.New(ctx, fetch, wl, pred, rec, store, ledger, log)
	if err := sched.RegisterAll(cfg.Refresh.Cron, cfg.Refresh.SweepCron); err != nil {
		log.Fatal().Err(err).Msg("register cron tasks")
	}

	universe, err := screener.LoadUniverse(cfg.Screener.UniverseFile)
	if err != nil {
		log.Warn().Err(err).Msg("load screener universe failed, scans disabled")
	} else {
		scan := screener.New(fetch, universe, log)
		if err := sched.RegisterTask(cfg.Screener.ScanCron, func() {
			for _, r := range scan.ScreenOversold(ctx, nil) {
				log.Info().
					Str("symbol", r.Symbol).
					Float64("rsi", r.RSI).
					Float64("price", r.Price).
					Str("signal", string(r.Signal)).
					Msg("oversold scan hit")
			}
		}); err != nil {
			log.Fatal().Err(err).Msg("register scan task")
		}
	}

	sched.Start()
	defer sched.Stop()

	go consumeUpdates(ctx, cfg, sched, ledger, rec, log)

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, refreshing now")
		go sched.RunRefreshNow()
	}

	log.Info().Msg("StockWatch is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping")
	cancel()

	m := ledger.PerformanceMetrics()
	log.Info().
		Int("completed_trades", m.TotalTrades).
		Float64("win_rate", m.WinRate).
		Float64("total_profit", m.TotalProfit).
		Msg("session performance")
	log.Info().Msg("StockWatch stopped")
}

// consumeUpdates surfaces refresh results in the log and, when paper
// trading is enabled, acts on BUY/SELL signals against the simulated
// ledger.
func consumeUpdates(ctx context.Context, cfg *config.Config, sched *scheduler.Scheduler, ledger *portfolio.Ledger, rec recorder.Recorder, log zerolog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case u := <-sched.Updates():
			summary := ledger.Summary(map[string]float64{u.Symbol: u.Quote.Price})
			log.Info().
				Str("symbol", u.Symbol).
				Float64("price", u.Quote.Price).
				Float64("rsi", u.Indicators.RSI).
				Str("trend", u.Indicators.Trend).
				Str("signal", string(u.Prediction.Signal)).
				Str("reason", u.Prediction.Reason).
				Float64("stop", u.Risk.StopLoss).
				Float64("target", u.Risk.TakeProfit).
				Float64("portfolio_value", summary.TotalValue).
				Msg("refresh")

			if cfg.Portfolio.AutoTrade {
				maybeTrade(cfg, u, ledger, rec, log)
			}
		}
	}
}

// maybeTrade opens a fixed-size position on BUY and closes the whole
// position on SELL. Ledger rejections (insufficient cash, no position)
// are expected and only logged at debug.
func maybeTrade(cfg *config.Config, u scheduler.Update, ledger *portfolio.Ledger, rec recorder.Recorder, log zerolog.Logger) {
	positions := ledger.Positions()

	switch u.Prediction.Signal {
	case model.SignalBuy:
		if _, held := positions[u.Symbol]; held {
			return
		}
		if err := ledger.Buy(u.Symbol, cfg.Portfolio.TradeShares, u.Quote.Price, u.Prediction.Reason); err != nil {
			log.Debug().Err(err).Str("symbol", u.Symbol).Msg("paper buy rejected")
			return
		}
	case model.SignalSell:
		pos, held := positions[u.Symbol]
		if !held {
			return
		}
		if err := ledger.Sell(u.Symbol, pos.Shares, u.Quote.Price, u.Prediction.Reason); err != nil {
			log.Debug().Err(err).Str("symbol", u.Symbol).Msg("paper sell rejected")
			return
		}
	default:
		return
	}

	txs := ledger.Transactions()
	last := txs[len(txs)-1]
	if err := rec.RecordTrade(last); err != nil {
		log.Error().Err(err).Str("symbol", last.Symbol).Msg("record trade")
	}
	log.Info().
		Str("symbol", last.Symbol).
		Str("side", string(last.Side)).
		Int("shares", last.Shares).
		Float64("price", last.Price).
		Float64("cash", ledger.Cash()).
		Msg("paper trade executed")
}
