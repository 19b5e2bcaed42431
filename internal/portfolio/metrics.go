package portfolio

import "StockWatch/internal/model"

const recentTradeCount = 5

// buyLot is an unmatched portion of an earlier BUY transaction.
type buyLot struct {
	shares int
	price  float64
}

// PerformanceMetrics reconstructs realized P&L from the transaction log.
// Each SELL is matched against earlier BUYs of the same symbol strictly
// in log order (FIFO), never by lot identity or price; a sell that finds
// no earlier buys is skipped. Recomputed from scratch on every call so
// it can never drift from the log.
func (l *Ledger) PerformanceMetrics() model.PerformanceMetrics {
	l.mu.Lock()
	transactions := make([]model.Transaction, len(l.transactions))
	copy(transactions, l.transactions)
	l.mu.Unlock()

	openLots := map[string][]buyLot{}
	var completed []model.CompletedTrade

	for _, tx := range transactions {
		switch tx.Side {
		case model.SideBuy:
			openLots[tx.Symbol] = append(openLots[tx.Symbol], buyLot{shares: tx.Shares, price: tx.Price})

		case model.SideSell:
			lots := openLots[tx.Symbol]
			remaining := tx.Shares
			matched := 0
			cost := 0.0
			for remaining > 0 && len(lots) > 0 {
				lot := &lots[0]
				take := min(remaining, lot.shares)
				cost += float64(take) * lot.price
				matched += take
				remaining -= take
				lot.shares -= take
				if lot.shares == 0 {
					lots = lots[1:]
				}
			}
			openLots[tx.Symbol] = lots
			if matched == 0 {
				continue
			}
			avgBuy := cost / float64(matched)
			completed = append(completed, model.CompletedTrade{
				Symbol:    tx.Symbol,
				Shares:    matched,
				BuyPrice:  avgBuy,
				SellPrice: tx.Price,
				Profit:    (tx.Price - avgBuy) * float64(matched),
				ClosedAt:  tx.Timestamp,
			})
		}
	}

	metrics := model.PerformanceMetrics{TotalTrades: len(completed)}
	if len(completed) == 0 {
		return metrics
	}

	wins := 0
	metrics.BestTrade = completed[0].Profit
	metrics.WorstTrade = completed[0].Profit
	for _, trade := range completed {
		metrics.TotalProfit += trade.Profit
		if trade.Profit > 0 {
			wins++
		}
		if trade.Profit > metrics.BestTrade {
			metrics.BestTrade = trade.Profit
		}
		if trade.Profit < metrics.WorstTrade {
			metrics.WorstTrade = trade.Profit
		}
	}
	metrics.WinRate = float64(wins) / float64(len(completed)) * 100
	metrics.AvgProfit = metrics.TotalProfit / float64(len(completed))

	recent := completed
	if len(recent) > recentTradeCount {
		recent = recent[len(recent)-recentTradeCount:]
	}
	metrics.RecentTrades = recent
	return metrics
}
