package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"StockWatch/internal/model"
)

// SQLiteRecorder persists history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance (dashboards read
	// while the refresh loop writes).
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log.With().Str("component", "recorder").Logger()}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS quote_snapshots (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			symbol         TEXT NOT NULL,
			price          REAL,
			change_percent REAL,
			volume         INTEGER,
			day_high       REAL,
			day_low        REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_quotes_sym_ts ON quote_snapshots(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS signals (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			symbol     TEXT NOT NULL,
			sma_short  REAL,
			sma_long   REAL,
			rsi        REAL,
			momentum   REAL,
			trend      TEXT,
			signal     TEXT,
			confidence REAL,
			reason     TEXT,
			source     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_sym_ts ON signals(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS trades (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			symbol    TEXT NOT NULL,
			side      TEXT NOT NULL,
			shares    INTEGER NOT NULL,
			price     REAL NOT NULL,
			rationale TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_ts ON trades(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordQuote(q model.Quote) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO quote_snapshots
		(timestamp, symbol, price, change_percent, volume, day_high, day_low)
		VALUES (?,?,?,?,?,?,?)`,
		time.Now().Unix(), q.Symbol, q.Price, q.ChangePercent,
		q.Volume, q.DayHigh, q.DayLow,
	)
	return err
}

func (r *SQLiteRecorder) RecordSignal(symbol string, ind model.Indicators, pred model.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO signals
		(timestamp, symbol, sma_short, sma_long, rsi, momentum, trend,
		 signal, confidence, reason, source)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), symbol,
		ind.SMAShort, ind.SMALong, ind.RSI, ind.Momentum, ind.Trend,
		string(pred.Signal), pred.Confidence, pred.Reason, pred.Source,
	)
	return err
}

func (r *SQLiteRecorder) RecordTrade(tx model.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO trades
		(timestamp, symbol, side, shares, price, rationale)
		VALUES (?,?,?,?,?,?)`,
		tx.Timestamp.Unix(), tx.Symbol, string(tx.Side),
		tx.Shares, tx.Price, tx.Rationale,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
