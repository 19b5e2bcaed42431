// Package config loads application configuration from a YAML file with
// environment-variable overrides. Credentials live in the environment
// (optionally a .env file); absent credentials disable the matching
// provider instead of failing startup.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Providers struct {
		FinnhubKey      string `yaml:"finnhub_key"`
		PolygonKey      string `yaml:"polygon_key"`
		AlphaVantageKey string `yaml:"alpha_vantage_key"`
	} `yaml:"providers"`
	AI struct {
		GeminiKey string `yaml:"gemini_key"`
		Model     string `yaml:"model"`
		SearchKey string `yaml:"search_key"`
		SearchURL string `yaml:"search_url"`
	} `yaml:"ai"`
	Cache struct {
		Dir      string `yaml:"dir"`
		TTLHours int    `yaml:"ttl_hours"`
	} `yaml:"cache"`
	Portfolio struct {
		StateFile   string  `yaml:"state_file"`
		InitialCash float64 `yaml:"initial_cash"`
		AutoTrade   bool    `yaml:"auto_trade"`
		TradeShares int     `yaml:"trade_shares"`
	} `yaml:"portfolio"`
	Watchlist struct {
		File string `yaml:"file"`
	} `yaml:"watchlist"`
	Screener struct {
		UniverseFile string `yaml:"universe_file"`
		ScanCron     string `yaml:"scan_cron"`
	} `yaml:"screener"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Refresh struct {
		Cron      string `yaml:"cron"`
		SweepCron string `yaml:"sweep_cron"`
	} `yaml:"refresh"`
	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides. A missing file is fine; defaults cover everything except
// credentials.
func Load(path string) (*Config, error) {
	// Pick up a local .env before reading the environment.
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("FINNHUB_API_KEY"); v != "" {
		cfg.Providers.FinnhubKey = v
	}
	if v := os.Getenv("POLYGON_API_KEY"); v != "" {
		cfg.Providers.PolygonKey = v
	}
	if v := os.Getenv("ALPHA_VANTAGE_KEY"); v != "" {
		cfg.Providers.AlphaVantageKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.AI.GeminiKey = v
	}
	if v := os.Getenv("TAVILY_API_KEY"); v != "" {
		cfg.AI.SearchKey = v
	}
	if v := os.Getenv("CACHE_TTL_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil {
			cfg.Cache.TTLHours = hours
		}
	}
	if v := os.Getenv("INITIAL_CASH"); v != "" {
		if cash, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Portfolio.InitialCash = cash
		}
	}
	if v := os.Getenv("AUTO_TRADE"); v != "" {
		cfg.Portfolio.AutoTrade = v == "true"
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		cfg.Refresh.Cron = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	// Defaults
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gemini-2.0-flash"
	}
	if cfg.AI.SearchURL == "" {
		cfg.AI.SearchURL = "https://api.tavily.com"
	}
	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = "cache"
	}
	if cfg.Cache.TTLHours == 0 {
		cfg.Cache.TTLHours = 4
	}
	if cfg.Portfolio.StateFile == "" {
		cfg.Portfolio.StateFile = "portfolio.json"
	}
	if cfg.Portfolio.InitialCash == 0 {
		cfg.Portfolio.InitialCash = 100000
	}
	if cfg.Watchlist.File == "" {
		cfg.Watchlist.File = "watchlist.json"
	}
	if cfg.Screener.UniverseFile == "" {
		cfg.Screener.UniverseFile = "screener_list.json"
	}
	if cfg.Screener.ScanCron == "" {
		cfg.Screener.ScanCron = "0 0 13 * * 1-5" // weekdays, once, mid-session
	}
	if cfg.Portfolio.TradeShares == 0 {
		cfg.Portfolio.TradeShares = 10
	}
	if cfg.Refresh.Cron == "" {
		cfg.Refresh.Cron = "0 */5 * * * *" // every 5 minutes
	}
	if cfg.Refresh.SweepCron == "" {
		cfg.Refresh.SweepCron = "0 0 * * * *" // hourly
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

// Validate checks invariants that would otherwise surface as confusing
// runtime behavior.
func (c *Config) Validate() error {
	if c.Portfolio.InitialCash < 0 {
		return fmt.Errorf("portfolio.initial_cash must not be negative")
	}
	if c.Cache.TTLHours < 0 {
		return fmt.Errorf("cache.ttl_hours must not be negative")
	}
	if c.Portfolio.TradeShares < 0 {
		return fmt.Errorf("portfolio.trade_shares must not be negative")
	}
	return nil
}
