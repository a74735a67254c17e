// Package strategy turns indicator and pattern readings into a
// recommendation, generates entry/exit signals, and backtests them.
package strategy

import (
	"fmt"

	"StockPulse/internal/domain/models"
)

// Advise scores the indicator bundle and detected patterns into a trading
// recommendation. Positive score leans buy, negative leans sell.
func Advise(ind models.IndicatorBundle, pats []models.Pattern) models.Advice {
	score := 0.0
	var reasons []string

	switch {
	case ind.RSI > 0 && ind.RSI < 30:
		score += 2
		reasons = append(reasons, fmt.Sprintf("RSI oversold (%.1f)", ind.RSI))
	case ind.RSI < 40 && ind.RSI > 0:
		score += 1
		reasons = append(reasons, fmt.Sprintf("RSI low (%.1f)", ind.RSI))
	case ind.RSI > 70:
		score -= 2
		reasons = append(reasons, fmt.Sprintf("RSI overbought (%.1f)", ind.RSI))
	case ind.RSI > 60:
		score -= 1
		reasons = append(reasons, fmt.Sprintf("RSI high (%.1f)", ind.RSI))
	}

	if ind.MACD.Hist > 0 {
		score += 1
		reasons = append(reasons, "MACD histogram positive")
	} else if ind.MACD.Hist < 0 {
		score -= 1
		reasons = append(reasons, "MACD histogram negative")
	}

	if ind.KDJ.J < 20 {
		score += 1
		reasons = append(reasons, fmt.Sprintf("KDJ J oversold (%.1f)", ind.KDJ.J))
	} else if ind.KDJ.J > 80 {
		score -= 1
		reasons = append(reasons, fmt.Sprintf("KDJ J overbought (%.1f)", ind.KDJ.J))
	}

	if ind.Bollinger.Upper > ind.Bollinger.Lower {
		if ind.Bollinger.PercentB < 0.1 {
			score += 1
			reasons = append(reasons, "price at lower Bollinger band")
		} else if ind.Bollinger.PercentB > 0.9 {
			score -= 1
			reasons = append(reasons, "price at upper Bollinger band")
		}
	}

	for _, p := range pats {
		weight := p.Confidence / 100
		switch p.Signal {
		case models.PatternBullish:
			score += weight
			reasons = append(reasons, fmt.Sprintf("bullish pattern: %s", p.Name))
		case models.PatternBearish:
			score -= weight
			reasons = append(reasons, fmt.Sprintf("bearish pattern: %s", p.Name))
		}
	}

	return models.Advice{
		Action:  actionFor(score),
		Score:   score,
		Reasons: reasons,
	}
}

func actionFor(score float64) string {
	switch {
	case score >= 4:
		return "strong buy"
	case score >= 2:
		return "buy"
	case score <= -4:
		return "strong sell"
	case score <= -2:
		return "sell"
	default:
		return "hold"
	}
}
