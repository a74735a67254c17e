package strategy

import (
	"StockPulse/internal/domain/models"
)

const initialEquity = 10000.0

// Backtest replays the crossover signals against the history and returns the
// run statistics. An open position at the end of the series is closed at the
// final bar.
func Backtest(hist models.History) models.BacktestStats {
	signals := Signals(hist)
	stats := models.BacktestStats{FinalEquity: initialEquity}
	if len(signals) == 0 {
		return stats
	}

	closes := hist.Closes()
	equity := initialEquity
	peak := equity
	entry := 0.0
	holding := false
	var returns []float64

	closeTrade := func(exit float64) {
		ret := (exit - entry) / entry
		returns = append(returns, ret)
		equity *= 1 + ret
		if equity > peak {
			peak = equity
		}
		dd := (peak - equity) / peak
		if dd > stats.MaxDrawdown {
			stats.MaxDrawdown = dd
		}
		if ret > 0 {
			stats.Wins++
		} else {
			stats.Losses++
		}
		holding = false
	}

	for _, sig := range signals {
		switch sig.Action {
		case models.SignalBuy:
			entry = sig.Price
			holding = true
		case models.SignalSell:
			if holding {
				closeTrade(sig.Price)
			}
		}
	}
	if holding {
		closeTrade(closes[len(closes)-1])
	}

	stats.Trades = len(returns)
	if stats.Trades > 0 {
		stats.WinRate = float64(stats.Wins) / float64(stats.Trades)
		sum := 0.0
		for _, r := range returns {
			sum += r
		}
		stats.AvgReturn = sum / float64(stats.Trades)
	}
	stats.FinalEquity = equity
	stats.TotalReturn = (equity - initialEquity) / initialEquity
	return stats
}
