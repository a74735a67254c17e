// Package trend classifies direction, strength, and support/resistance for a
// symbol, and resolves ADX readings through the fallback tiers.
package trend

import (
	"fmt"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/service/indicators"
)

const (
	adxPeriod      = 14
	srLookbackBars = 60

	// Sentinel defaults used when every ADX source is unresolved.
	DefaultADX     = 15.0
	DefaultPlusDI  = 10.0
	DefaultMinusDI = 10.0
)

// Analyze builds the trend report for a symbol. Requires at least adxPeriod+1
// bars; shorter histories are an error so the caller can degrade gracefully.
func Analyze(symbol string, hist models.History) (*models.TrendReport, error) {
	if len(hist) < adxPeriod+1 {
		return nil, fmt.Errorf("trend analyze %s: need at least %d bars, have %d", symbol, adxPeriod+1, len(hist))
	}

	highs := hist.Highs()
	lows := hist.Lows()
	closes := hist.Closes()

	adx, plusDI, minusDI := indicators.ADX(highs, lows, closes, adxPeriod)
	support, resistance := supportResistance(hist)
	slope := recentSlope(closes)

	report := &models.TrendReport{
		Symbol:     symbol,
		ADX:        adx,
		PlusDI:     plusDI,
		MinusDI:    minusDI,
		Support:    support,
		Resistance: resistance,
		TrendAnalysis: &models.TrendAnalysis{
			ADX:       models.ADXBlock{ADX: adx, PlusDI: plusDI, MinusDI: minusDI},
			Direction: direction(slope),
			Strength:  strength(adx),
			Slope:     slope,
		},
	}
	return report, nil
}

// View flattens a report into the record-facing projection.
func View(report *models.TrendReport) *models.TrendView {
	if report == nil {
		return nil
	}

	view := &models.TrendView{
		ADX:        report.ADX,
		PlusDI:     report.PlusDI,
		MinusDI:    report.MinusDI,
		Support:    report.Support,
		Resistance: report.Resistance,
	}
	if ta := report.TrendAnalysis; ta != nil {
		if view.ADX == 0 {
			view.ADX = ta.ADX.ADX
			view.PlusDI = ta.ADX.PlusDI
			view.MinusDI = ta.ADX.MinusDI
		}
		view.TrendLabel = fmt.Sprintf("%s (%s)", ta.Direction, ta.Strength)
	}
	view.Pressure = pressure(view.PlusDI, view.MinusDI)
	return view
}

// ResolveADX walks the fallback tiers: the report's top-level fields, its
// nested analysis block, the flat projection, then the sentinel defaults. A
// zero ADX means the tier is unresolved.
func ResolveADX(report *models.TrendReport, view *models.TrendView) (adx, plusDI, minusDI float64, source models.ADXSource) {
	if report != nil && report.ADX != 0 {
		return report.ADX, report.PlusDI, report.MinusDI, models.ADXMeasured
	}
	if report != nil && report.TrendAnalysis != nil && report.TrendAnalysis.ADX.ADX != 0 {
		block := report.TrendAnalysis.ADX
		return block.ADX, block.PlusDI, block.MinusDI, models.ADXNested
	}
	if view != nil && view.ADX != 0 {
		return view.ADX, view.PlusDI, view.MinusDI, models.ADXProjected
	}
	return DefaultADX, DefaultPlusDI, DefaultMinusDI, models.ADXDefaulted
}

// supportResistance takes the recent extremes as naive support/resistance.
func supportResistance(hist models.History) (support, resistance float64) {
	window := hist.Tail(srLookbackBars)
	if len(window) == 0 {
		return 0, 0
	}
	support = window[0].Low
	resistance = window[0].High
	for _, b := range window[1:] {
		if b.Low < support {
			support = b.Low
		}
		if b.High > resistance {
			resistance = b.High
		}
	}
	return support, resistance
}

// recentSlope is the average daily close change over the last 20 bars,
// normalized by the starting close.
func recentSlope(closes []float64) float64 {
	const lookback = 20
	n := len(closes)
	if n < 2 {
		return 0
	}
	start := n - lookback
	if start < 0 {
		start = 0
	}
	first := closes[start]
	last := closes[n-1]
	if first == 0 {
		return 0
	}
	return (last - first) / first / float64(n-start)
}

func direction(slope float64) string {
	switch {
	case slope > 0.001:
		return "up"
	case slope < -0.001:
		return "down"
	default:
		return "sideways"
	}
}

func strength(adx float64) string {
	switch {
	case adx >= 40:
		return "strong"
	case adx >= 20:
		return "moderate"
	default:
		return "weak"
	}
}

func pressure(plusDI, minusDI float64) string {
	switch {
	case plusDI > minusDI:
		return "buying"
	case minusDI > plusDI:
		return "selling"
	default:
		return "balanced"
	}
}
