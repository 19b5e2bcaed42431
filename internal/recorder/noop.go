package recorder

import "StockWatch/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordQuote(_ model.Quote) error { return nil }

func (n *NoopRecorder) RecordSignal(_ string, _ model.Indicators, _ model.Prediction) error {
	return nil
}

func (n *NoopRecorder) RecordTrade(_ model.Transaction) error { return nil }

func (n *NoopRecorder) Close() error { return nil }
