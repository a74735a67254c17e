package indicators

import (
	"math"
	"testing"

	"StockPulse/internal/domain/models"
)

func risingHistory(n int) models.History {
	hist := make(models.History, n)
	for i := 0; i < n; i++ {
		base := 100 + float64(i)
		hist[i] = models.Bar{
			Open:   base - 0.5,
			High:   base + 1,
			Low:    base - 1,
			Close:  base,
			Volume: 1000,
		}
	}
	return hist
}

func TestSMA(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	if got := SMA(values, 5); got != 3 {
		t.Fatalf("unexpected sma %v", got)
	}
	if got := SMA(values, 2); got != 4.5 {
		t.Fatalf("unexpected sma %v", got)
	}
	if got := SMA(values, 10); got != 0 {
		t.Fatalf("expected 0 for short series, got %v", got)
	}
}

func TestEMASeedsWithSMA(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	out := EMA(values, 3)
	if !math.IsNaN(out[0]) || !math.IsNaN(out[1]) {
		t.Fatalf("expected NaN before seed")
	}
	if out[2] != 2 {
		t.Fatalf("expected seed 2, got %v", out[2])
	}
	if out[3] <= out[2] || out[4] <= out[3] {
		t.Fatalf("ema should rise with rising input: %v", out)
	}
}

func TestRSIAllGains(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	if got := RSI(closes, 14); got != 100 {
		t.Fatalf("expected 100 on monotone rise, got %v", got)
	}
}

func TestRSIMixed(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 + 5*math.Sin(float64(i)/3)
	}
	got := RSI(closes, 14)
	if got <= 0 || got >= 100 {
		t.Fatalf("rsi out of range: %v", got)
	}
}

func TestRSIShortSeries(t *testing.T) {
	if got := RSI([]float64{1, 2, 3}, 14); got != 0 {
		t.Fatalf("expected 0 for short series, got %v", got)
	}
}

func TestMACDRisingSeries(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	got := MACD(closes, 12, 26, 9)
	if got.MACD <= 0 {
		t.Fatalf("macd should be positive on uptrend: %+v", got)
	}
	if math.Abs(got.Hist-(got.MACD-got.Signal)) > 1e-9 {
		t.Fatalf("hist mismatch: %+v", got)
	}
}

func TestMACDShortSeries(t *testing.T) {
	got := MACD([]float64{1, 2, 3}, 12, 26, 9)
	if got != (models.MACDValue{}) {
		t.Fatalf("expected zero value, got %+v", got)
	}
}

func TestKDJRange(t *testing.T) {
	hist := risingHistory(40)
	got := KDJ(hist.Highs(), hist.Lows(), hist.Closes(), 9)
	if got.K < 0 || got.K > 100 || got.D < 0 || got.D > 100 {
		t.Fatalf("kdj out of range: %+v", got)
	}
	// Rising closes keep the close near the period high, so K leads D.
	if got.K < got.D {
		t.Fatalf("expected K >= D on uptrend: %+v", got)
	}
}

func TestKDJShortSeries(t *testing.T) {
	got := KDJ([]float64{1}, []float64{1}, []float64{1}, 9)
	if got.K != 50 || got.D != 50 || got.J != 50 {
		t.Fatalf("expected neutral value, got %+v", got)
	}
}

func TestBollinger(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + float64(i%5)
	}
	got := Bollinger(closes, 20, 2)
	if got.Upper <= got.Middle || got.Middle <= got.Lower {
		t.Fatalf("band ordering broken: %+v", got)
	}
	if got.Bandwidth <= 0 {
		t.Fatalf("expected positive bandwidth: %+v", got)
	}
	if got.PercentB < 0 || got.PercentB > 1 {
		t.Fatalf("percent_b out of range: %+v", got)
	}
}

func TestBollingerFlatSeries(t *testing.T) {
	closes := make([]float64, 25)
	for i := range closes {
		closes[i] = 100
	}
	got := Bollinger(closes, 20, 2)
	if got.Upper != 100 || got.Middle != 100 || got.Lower != 100 {
		t.Fatalf("flat series should collapse bands: %+v", got)
	}
	if got.PercentB != 0 {
		t.Fatalf("expected 0 percent_b on zero-width band: %+v", got)
	}
}

func TestADXTrendingSeries(t *testing.T) {
	hist := risingHistory(80)
	adx, plusDI, minusDI := ADX(hist.Highs(), hist.Lows(), hist.Closes(), 14)
	if adx <= 0 {
		t.Fatalf("expected resolved adx on long series, got %v", adx)
	}
	if plusDI <= minusDI {
		t.Fatalf("uptrend should have +DI > -DI: %v vs %v", plusDI, minusDI)
	}
}

func TestADXShortSeries(t *testing.T) {
	hist := risingHistory(10)
	adx, plusDI, minusDI := ADX(hist.Highs(), hist.Lows(), hist.Closes(), 14)
	if adx != 0 || plusDI != 0 || minusDI != 0 {
		t.Fatalf("expected unresolved zeros, got %v %v %v", adx, plusDI, minusDI)
	}
}

func TestBundle(t *testing.T) {
	hist := risingHistory(100)
	b := Bundle(hist)
	if b.RSI == 0 {
		t.Fatalf("expected resolved rsi")
	}
	if b.MACD.MACD == 0 && b.MACD.Signal == 0 {
		t.Fatalf("expected resolved macd")
	}
	if b.Bollinger.Middle == 0 {
		t.Fatalf("expected resolved bollinger")
	}
}
