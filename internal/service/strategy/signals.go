package strategy

import (
	"StockPulse/internal/domain/models"
	"StockPulse/internal/service/indicators"
)

const (
	fastPeriod = 5
	slowPeriod = 20
)

// Signals generates alternating BUY/SELL signals from fast/slow moving
// average crossovers over the close series. The first signal is always a BUY.
func Signals(hist models.History) []models.TradeSignal {
	closes := hist.Closes()
	if len(closes) < slowPeriod+1 {
		return nil
	}

	fast := indicators.EMA(closes, fastPeriod)
	slow := indicators.EMA(closes, slowPeriod)

	var out []models.TradeSignal
	holding := false
	for i := slowPeriod; i < len(closes); i++ {
		crossedUp := fast[i] > slow[i] && fast[i-1] <= slow[i-1]
		crossedDown := fast[i] < slow[i] && fast[i-1] >= slow[i-1]

		if crossedUp && !holding {
			out = append(out, models.TradeSignal{Index: i, Action: models.SignalBuy, Price: closes[i]})
			holding = true
		} else if crossedDown && holding {
			out = append(out, models.TradeSignal{Index: i, Action: models.SignalSell, Price: closes[i]})
			holding = false
		}
	}
	return out
}
