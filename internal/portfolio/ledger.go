// Package portfolio tracks a simulated cash/shares portfolio. The
// transaction log is append-only and is the single source of truth for
// realized P&L; positions and cash are the derived working state.
package portfolio

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"StockWatch/internal/model"
)

// DefaultInitialCash is the starting capital when none is configured.
const DefaultInitialCash = 100000.0

// Ledger holds cash, open positions, and the transaction log. All
// mutating calls persist the whole state to one JSON file; a persistence
// failure is logged but does not roll back the in-memory mutation.
type Ledger struct {
	mu           sync.Mutex
	cash         float64
	positions    map[string]model.Position
	transactions []model.Transaction
	initialCash  float64
	filePath     string
	log          zerolog.Logger
	now          func() time.Time
}

// NewLedger loads ledger state from filePath, or starts fresh with
// initialCash when the file does not exist yet.
func NewLedger(filePath string, initialCash float64, log zerolog.Logger) (*Ledger, error) {
	if initialCash <= 0 {
		initialCash = DefaultInitialCash
	}
	l := &Ledger{
		cash:        initialCash,
		positions:   map[string]model.Position{},
		initialCash: initialCash,
		filePath:    filePath,
		log:         log.With().Str("component", "ledger").Logger(),
		now:         time.Now,
	}

	st, ok, err := loadState(filePath)
	if err != nil {
		return nil, fmt.Errorf("load portfolio state: %w", err)
	}
	if ok {
		l.cash = st.Cash
		l.positions = st.Positions
		l.transactions = st.Transactions
	} else if err := l.persist(); err != nil {
		return nil, fmt.Errorf("initialize portfolio state: %w", err)
	}
	return l, nil
}

// Buy executes a simulated buy order. It is rejected with
// ErrInsufficientCash when the order costs more than available cash.
// Repeated buys of the same symbol recompute a weighted average cost.
func (l *Ledger) Buy(symbol string, shares int, price float64, rationale string) error {
	if shares <= 0 || price < 0 {
		return ErrInvalidOrder
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	cost := float64(shares) * price
	if cost > l.cash {
		return fmt.Errorf("%w: need %.2f, have %.2f", ErrInsufficientCash, cost, l.cash)
	}
	l.cash -= cost

	if pos, ok := l.positions[symbol]; ok {
		total := pos.Shares + shares
		avg := (float64(pos.Shares)*pos.AverageCost + float64(shares)*price) / float64(total)
		pos.Shares = total
		pos.AverageCost = avg
		l.positions[symbol] = pos
	} else {
		l.positions[symbol] = model.Position{
			Symbol:      symbol,
			Shares:      shares,
			AverageCost: price,
			OpenedDate:  l.now().Format("2006-01-02"),
		}
	}

	l.append(symbol, model.SideBuy, shares, price, rationale)
	return nil
}

// Sell executes a simulated sell order. Rejections: ErrNoPosition when
// the symbol is not held, ErrInsufficientShares when more shares are
// requested than held. Selling the full position removes it; a partial
// sell leaves the average cost untouched.
func (l *Ledger) Sell(symbol string, shares int, price float64, rationale string) error {
	if shares <= 0 || price < 0 {
		return ErrInvalidOrder
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	pos, ok := l.positions[symbol]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoPosition, symbol)
	}
	if shares > pos.Shares {
		return fmt.Errorf("%w: have %d, asked %d", ErrInsufficientShares, pos.Shares, shares)
	}

	l.cash += float64(shares) * price
	if shares == pos.Shares {
		delete(l.positions, symbol)
	} else {
		pos.Shares -= shares
		l.positions[symbol] = pos
	}

	l.append(symbol, model.SideSell, shares, price, rationale)
	return nil
}

// append records a transaction and persists. Callers hold the lock.
func (l *Ledger) append(symbol string, side model.Side, shares int, price float64, rationale string) {
	l.transactions = append(l.transactions, model.Transaction{
		Symbol:    symbol,
		Side:      side,
		Shares:    shares,
		Price:     price,
		Timestamp: l.now(),
		Rationale: rationale,
	})
	if err := l.persist(); err != nil {
		// Accepted trade-off: the in-memory state stays mutated even
		// when the write fails.
		l.log.Error().Err(err).Msg("failed to persist portfolio state")
	}
}

func (l *Ledger) persist() error {
	return saveState(l.filePath, state{
		Cash:         l.cash,
		Positions:    l.positions,
		Transactions: l.transactions,
	})
}

// Cash returns the available cash balance.
func (l *Ledger) Cash() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cash
}

// Positions returns a copy of the open positions.
func (l *Ledger) Positions() map[string]model.Position {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]model.Position, len(l.positions))
	for symbol, pos := range l.positions {
		out[symbol] = pos
	}
	return out
}

// Transactions returns a copy of the transaction log in append order.
func (l *Ledger) Transactions() []model.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.Transaction, len(l.transactions))
	copy(out, l.transactions)
	return out
}

// PortfolioValue marks the portfolio to market. Positions with no live
// quote fall back to their average cost.
func (l *Ledger) PortfolioValue(currentPrices map[string]float64) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	total := l.cash
	for symbol, pos := range l.positions {
		price, ok := currentPrices[symbol]
		if !ok {
			price = pos.AverageCost
		}
		total += float64(pos.Shares) * price
	}
	return total
}

// PositionPnL returns the marked-to-market view of one position.
func (l *Ledger) PositionPnL(symbol string, currentPrice float64) (model.PositionSummary, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	pos, ok := l.positions[symbol]
	if !ok {
		return model.PositionSummary{}, false
	}
	return summarize(pos, currentPrice), true
}

// Summary builds the full portfolio summary using the given prices,
// falling back to average cost where a price is missing.
func (l *Ledger) Summary(currentPrices map[string]float64) model.PortfolioSummary {
	l.mu.Lock()
	defer l.mu.Unlock()

	summaries := make(map[string]model.PositionSummary, len(l.positions))
	stockValue, totalPnL := 0.0, 0.0
	for symbol, pos := range l.positions {
		price, ok := currentPrices[symbol]
		if !ok {
			price = pos.AverageCost
		}
		ps := summarize(pos, price)
		summaries[symbol] = ps
		stockValue += ps.Value
		totalPnL += ps.PnL
	}

	return model.PortfolioSummary{
		Cash:             l.cash,
		StockValue:       stockValue,
		TotalValue:       l.cash + stockValue,
		TotalPnL:         totalPnL,
		TotalPnLPercent:  totalPnL / l.initialCash * 100,
		Positions:        summaries,
		TransactionCount: len(l.transactions),
	}
}

func summarize(pos model.Position, currentPrice float64) model.PositionSummary {
	costBasis := float64(pos.Shares) * pos.AverageCost
	pnl := (currentPrice - pos.AverageCost) * float64(pos.Shares)
	pnlPercent := 0.0
	if costBasis > 0 {
		pnlPercent = pnl / costBasis * 100
	}
	return model.PositionSummary{
		Symbol:       pos.Symbol,
		Shares:       pos.Shares,
		AverageCost:  pos.AverageCost,
		CurrentPrice: currentPrice,
		Value:        float64(pos.Shares) * currentPrice,
		CostBasis:    costBasis,
		PnL:          pnl,
		PnLPercent:   pnlPercent,
	}
}
