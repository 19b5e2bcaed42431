// Package recorder persists history for later analysis: quote
// snapshots, emitted signals, and executed trades.
package recorder

import (
	"StockWatch/internal/model"
)

// Recorder persists historical data for analysis.
type Recorder interface {
	RecordQuote(quote model.Quote) error
	RecordSignal(symbol string, ind model.Indicators, pred model.Prediction) error
	RecordTrade(tx model.Transaction) error
	Close() error
}
