// Package indicators computes technical indicators over daily price series.
package indicators

import (
	"math"

	"StockPulse/internal/domain/models"
	"StockPulse/pkg/util"
)

// SMA returns the simple moving average of the last period values.
// Returns 0 when fewer than period values exist.
func SMA(values []float64, period int) float64 {
	if period <= 0 || len(values) < period {
		return 0
	}
	sum := 0.0
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return sum / float64(period)
}

// EMA returns the exponential moving average series. The first period values
// carry NaN; the EMA is seeded with the SMA of the first period values.
func EMA(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if period <= 0 || len(values) < period {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += values[i]
		out[i] = math.NaN()
	}
	prev := sum / float64(period)
	out[period-1] = prev

	k := 2.0 / float64(period+1)
	for i := period; i < len(values); i++ {
		prev = values[i]*k + prev*(1-k)
		out[i] = prev
	}
	return out
}

// RSI returns the Wilder-smoothed relative strength index of the close
// series. Returns 0 when fewer than period+1 closes exist.
func RSI(closes []float64, period int) float64 {
	if period <= 0 || len(closes) < period+1 {
		return 0
	}

	avgGain := 0.0
	avgLoss := 0.0
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// MACD returns the latest MACD line, signal line, and histogram using the
// fast/slow/signal EMA periods. Returns zeros when the series is too short.
func MACD(closes []float64, fast, slow, signal int) models.MACDValue {
	if len(closes) < slow+signal {
		return models.MACDValue{}
	}

	fastEMA := EMA(closes, fast)
	slowEMA := EMA(closes, slow)

	macdLine := make([]float64, 0, len(closes)-slow+1)
	for i := slow - 1; i < len(closes); i++ {
		macdLine = append(macdLine, fastEMA[i]-slowEMA[i])
	}

	signalEMA := EMA(macdLine, signal)
	macd := macdLine[len(macdLine)-1]
	sig := signalEMA[len(signalEMA)-1]
	if math.IsNaN(sig) {
		return models.MACDValue{MACD: macd}
	}

	return models.MACDValue{
		MACD:   macd,
		Signal: sig,
		Hist:   macd - sig,
	}
}

// KDJ returns the latest stochastic K/D/J values over the given lookback. K
// and D use the recursive 1/3 smoothing, J = 3K - 2D. Returns the neutral
// 50/50/50 when the series is shorter than the lookback.
func KDJ(highs, lows, closes []float64, period int) models.KDJValue {
	if len(closes) < period {
		return models.KDJValue{K: 50, D: 50, J: 50}
	}

	k, d := 50.0, 50.0
	for i := period - 1; i < len(closes); i++ {
		hh := highs[i]
		ll := lows[i]
		for j := i - period + 1; j < i; j++ {
			if highs[j] > hh {
				hh = highs[j]
			}
			if lows[j] < ll {
				ll = lows[j]
			}
		}

		rsv := 50.0
		if hh > ll {
			rsv = (closes[i] - ll) / (hh - ll) * 100
		}
		k = k*2/3 + rsv/3
		d = d*2/3 + k/3
	}

	return models.KDJValue{K: k, D: d, J: 3*k - 2*d}
}

// Bollinger returns the latest Bollinger band values over the given period
// with the given standard deviation multiplier. Returns zeros when the series
// is too short.
func Bollinger(closes []float64, period int, mult float64) models.BollingerValue {
	if len(closes) < period {
		return models.BollingerValue{}
	}

	mid := SMA(closes, period)
	sumSq := 0.0
	for _, v := range closes[len(closes)-period:] {
		diff := v - mid
		sumSq += diff * diff
	}
	sd := math.Sqrt(sumSq / float64(period))

	upper := mid + mult*sd
	lower := mid - mult*sd

	bandwidth := 0.0
	if mid != 0 {
		bandwidth = (upper - lower) / mid
	}
	percentB := 0.0
	if upper > lower {
		percentB = (closes[len(closes)-1] - lower) / (upper - lower)
	}

	return models.BollingerValue{
		Upper:     upper,
		Middle:    mid,
		Lower:     lower,
		Bandwidth: util.SafeFloat(bandwidth),
		PercentB:  util.SafeFloat(percentB),
	}
}

// Bundle computes the full indicator snapshot for a daily history using the
// conventional parameterizations: RSI(14), MACD(12,26,9), KDJ(9), BOLL(20,2).
func Bundle(hist models.History) models.IndicatorBundle {
	closes := hist.Closes()
	return models.IndicatorBundle{
		RSI:       RSI(closes, 14),
		MACD:      MACD(closes, 12, 26, 9),
		KDJ:       KDJ(hist.Highs(), hist.Lows(), closes, 9),
		Bollinger: Bollinger(closes, 20, 2),
	}
}
