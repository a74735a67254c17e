// Package patterns detects candlestick patterns on the most recent bars of a
// daily series.
package patterns

import (
	"math"

	"StockPulse/internal/domain/models"
)

const (
	dojiBodyRatio   = 0.1
	hammerWickRatio = 2.0
	starBodyRatio   = 0.3
)

// Detect inspects the last windowBars bars of the history and returns every
// pattern found. The single-bar patterns look at the last bar, engulfing at
// the last two, and the star patterns at the last three.
func Detect(hist models.History, windowBars int) []models.Pattern {
	if windowBars <= 0 {
		windowBars = 5
	}
	window := hist.Tail(windowBars)
	if len(window) == 0 {
		return nil
	}

	var out []models.Pattern
	if p := detectDoji(window); p != nil {
		out = append(out, *p)
	}
	if p := detectHammer(window); p != nil {
		out = append(out, *p)
	}
	if p := detectInvertedHammer(window); p != nil {
		out = append(out, *p)
	}
	if p := detectEngulfing(window); p != nil {
		out = append(out, *p)
	}
	if p := detectStar(window); p != nil {
		out = append(out, *p)
	}
	return out
}

func body(b models.Bar) float64 {
	return math.Abs(b.Close - b.Open)
}

func lowerWick(b models.Bar) float64 {
	return math.Min(b.Open, b.Close) - b.Low
}

func upperWick(b models.Bar) float64 {
	return b.High - math.Max(b.Open, b.Close)
}

func detectDoji(window models.History) *models.Pattern {
	b := window[len(window)-1]
	rng := b.High - b.Low
	if rng <= 0 || body(b)/rng > dojiBodyRatio {
		return nil
	}

	lw, uw := lowerWick(b), upperWick(b)
	switch {
	case lw > uw*2:
		return &models.Pattern{Name: "dragonfly_doji", Signal: models.PatternBullish, Confidence: 70}
	case uw > lw*2:
		return &models.Pattern{Name: "gravestone_doji", Signal: models.PatternBearish, Confidence: 70}
	default:
		return &models.Pattern{Name: "doji", Signal: models.PatternNeutral, Confidence: 55}
	}
}

func detectHammer(window models.History) *models.Pattern {
	b := window[len(window)-1]
	rng := b.High - b.Low
	if rng <= 0 {
		return nil
	}

	bd := body(b)
	if bd/rng >= 0.35 || lowerWick(b) < bd*hammerWickRatio || upperWick(b) >= rng*0.2 {
		return nil
	}

	confidence := 60.0
	if priorTrend(window, -1) < 0 {
		confidence += 20
	}
	if lowerWick(b) >= bd*3 {
		confidence += 10
	}
	if b.Close > b.Open {
		confidence += 5
	}
	return &models.Pattern{Name: "hammer", Signal: models.PatternBullish, Confidence: math.Min(confidence, 100)}
}

// An inverted hammer after a downtrend is bullish; the same shape after an
// uptrend is a shooting star.
func detectInvertedHammer(window models.History) *models.Pattern {
	b := window[len(window)-1]
	rng := b.High - b.Low
	if rng <= 0 {
		return nil
	}

	bd := body(b)
	if bd/rng >= 0.35 || upperWick(b) < bd*hammerWickRatio || lowerWick(b) >= rng*0.2 {
		return nil
	}

	if priorTrend(window, -1) > 0 {
		return &models.Pattern{Name: "shooting_star", Signal: models.PatternBearish, Confidence: 65}
	}
	return &models.Pattern{Name: "inverted_hammer", Signal: models.PatternBullish, Confidence: 55}
}

func detectEngulfing(window models.History) *models.Pattern {
	if len(window) < 2 {
		return nil
	}
	prev := window[len(window)-2]
	curr := window[len(window)-1]

	prevBody := prev.Close - prev.Open
	currBody := curr.Close - curr.Open

	if prevBody < 0 && currBody > 0 && curr.Close > prev.Open && curr.Open < prev.Close {
		return &models.Pattern{
			Name:       "bullish_engulfing",
			Signal:     models.PatternBullish,
			Confidence: engulfConfidence(currBody, prevBody),
		}
	}
	if prevBody > 0 && currBody < 0 && curr.Open > prev.Close && curr.Close < prev.Open {
		return &models.Pattern{
			Name:       "bearish_engulfing",
			Signal:     models.PatternBearish,
			Confidence: engulfConfidence(currBody, prevBody),
		}
	}
	return nil
}

func engulfConfidence(currBody, prevBody float64) float64 {
	confidence := 65.0
	if prevBody != 0 {
		ratio := math.Abs(currBody) / math.Abs(prevBody)
		if ratio >= 1.5 {
			confidence += 15
		} else if ratio >= 1.2 {
			confidence += 8
		}
	}
	return math.Min(confidence, 100)
}

func detectStar(window models.History) *models.Pattern {
	if len(window) < 3 {
		return nil
	}
	first := window[len(window)-3]
	middle := window[len(window)-2]
	last := window[len(window)-1]

	firstBody := first.Close - first.Open
	middleBody := body(middle)
	lastBody := last.Close - last.Open

	middleRange := middle.High - middle.Low
	if middleRange > 0 && middleBody/middleRange > starBodyRatio {
		return nil
	}

	if firstBody < 0 && lastBody > 0 &&
		math.Abs(firstBody) > middleBody*2 && lastBody > middleBody*2 {
		confidence := 70.0
		if last.Close > (first.Open+first.Close)/2 {
			confidence += 10
		}
		return &models.Pattern{Name: "morning_star", Signal: models.PatternBullish, Confidence: confidence}
	}
	if firstBody > 0 && lastBody < 0 &&
		firstBody > middleBody*2 && math.Abs(lastBody) > middleBody*2 {
		confidence := 70.0
		if last.Close < (first.Open+first.Close)/2 {
			confidence += 10
		}
		return &models.Pattern{Name: "evening_star", Signal: models.PatternBearish, Confidence: confidence}
	}
	return nil
}

// priorTrend returns +1, -1, or 0 for the direction of the closes preceding
// the bar at offset from the end.
func priorTrend(window models.History, offset int) int {
	end := len(window) + offset
	if end < 2 {
		return 0
	}
	first := window[0].Close
	last := window[end-1].Close
	switch {
	case last > first:
		return 1
	case last < first:
		return -1
	default:
		return 0
	}
}
