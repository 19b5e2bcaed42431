package model

import "time"

// Side of a transaction.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Position is an open holding. A symbol appears at most once in the
// ledger's position map, and shares stay positive while it is present.
type Position struct {
	Symbol      string  `json:"symbol"`
	Shares      int     `json:"shares"`
	AverageCost float64 `json:"average_cost"`
	OpenedDate  string  `json:"opened_date"`
}

// Transaction is one immutable entry of the append-only trade log.
type Transaction struct {
	Symbol    string    `json:"symbol"`
	Side      Side      `json:"side"`
	Shares    int       `json:"shares"`
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
	Rationale string    `json:"rationale,omitempty"`
}

// PositionSummary is the marked-to-market view of a single position.
type PositionSummary struct {
	Symbol       string
	Shares       int
	AverageCost  float64
	CurrentPrice float64
	Value        float64
	CostBasis    float64
	PnL          float64
	PnLPercent   float64
}

// PortfolioSummary is the full marked-to-market view of the ledger.
type PortfolioSummary struct {
	Cash             float64
	StockValue       float64
	TotalValue       float64
	TotalPnL         float64
	TotalPnLPercent  float64 // against initial capital
	Positions        map[string]PositionSummary
	TransactionCount int
}

// CompletedTrade is a sell matched against earlier buys of the same symbol.
type CompletedTrade struct {
	Symbol    string
	Shares    int
	BuyPrice  float64 // synthetic average price of the matched buy lots
	SellPrice float64
	Profit    float64
	ClosedAt  time.Time
}

// PerformanceMetrics is derived from the transaction log on every call;
// it is never persisted.
type PerformanceMetrics struct {
	TotalTrades  int
	WinRate      float64 // percent of completed trades with positive profit
	TotalProfit  float64
	AvgProfit    float64
	BestTrade    float64
	WorstTrade   float64
	RecentTrades []CompletedTrade
}
