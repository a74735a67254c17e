package indicators

import "math"

// ADX returns the average directional index and the +DI/-DI lines over the
// given period, Wilder-smoothed. Returns zeros when the series is shorter
// than 2*period+1 bars; callers treat zero as "unresolved".
func ADX(highs, lows, closes []float64, period int) (adx, plusDI, minusDI float64) {
	n := len(closes)
	if period <= 0 || n < 2*period+1 || len(highs) != n || len(lows) != n {
		return 0, 0, 0
	}

	trs := make([]float64, n-1)
	plusDMs := make([]float64, n-1)
	minusDMs := make([]float64, n-1)
	for i := 1; i < n; i++ {
		tr := math.Max(highs[i]-lows[i],
			math.Max(math.Abs(highs[i]-closes[i-1]), math.Abs(lows[i]-closes[i-1])))
		upMove := highs[i] - highs[i-1]
		downMove := lows[i-1] - lows[i]

		plusDM, minusDM := 0.0, 0.0
		if upMove > downMove && upMove > 0 {
			plusDM = upMove
		}
		if downMove > upMove && downMove > 0 {
			minusDM = downMove
		}

		trs[i-1] = tr
		plusDMs[i-1] = plusDM
		minusDMs[i-1] = minusDM
	}

	// Wilder smoothing seeded with plain sums over the first period.
	var trSum, plusSum, minusSum float64
	for i := 0; i < period; i++ {
		trSum += trs[i]
		plusSum += plusDMs[i]
		minusSum += minusDMs[i]
	}

	var dxs []float64
	appendDX := func() {
		if trSum == 0 {
			return
		}
		pdi := plusSum / trSum * 100
		mdi := minusSum / trSum * 100
		plusDI, minusDI = pdi, mdi
		if pdi+mdi > 0 {
			dxs = append(dxs, math.Abs(pdi-mdi)/(pdi+mdi)*100)
		}
	}
	appendDX()

	for i := period; i < len(trs); i++ {
		trSum = trSum - trSum/float64(period) + trs[i]
		plusSum = plusSum - plusSum/float64(period) + plusDMs[i]
		minusSum = minusSum - minusSum/float64(period) + minusDMs[i]
		appendDX()
	}

	if len(dxs) < period {
		return 0, 0, 0
	}

	// ADX is the Wilder-smoothed DX.
	adx = 0
	for i := 0; i < period; i++ {
		adx += dxs[i]
	}
	adx /= float64(period)
	for i := period; i < len(dxs); i++ {
		adx = (adx*float64(period-1) + dxs[i]) / float64(period)
	}

	return adx, plusDI, minusDI
}
