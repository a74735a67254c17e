package trend

import (
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

func TestAnalyzeUptrend(t *testing.T) {
	report, err := Analyze("TEST", risingHistory(100))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if report.ADX == 0 {
		t.Fatalf("expected resolved adx on long series")
	}
	if report.PlusDI <= report.MinusDI {
		t.Fatalf("uptrend should have +DI > -DI: %+v", report)
	}
	if report.TrendAnalysis == nil {
		t.Fatalf("expected nested analysis")
	}
	if report.TrendAnalysis.Direction != "up" {
		t.Fatalf("expected up direction, got %q", report.TrendAnalysis.Direction)
	}
	if report.Support >= report.Resistance {
		t.Fatalf("support must be below resistance: %+v", report)
	}
}

func TestAnalyzeShortSeries(t *testing.T) {
	if _, err := Analyze("TEST", risingHistory(5)); err == nil {
		t.Fatalf("expected error for short series")
	}
}

func TestViewFlattens(t *testing.T) {
	report, err := Analyze("TEST", risingHistory(100))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	view := View(report)
	if view == nil {
		t.Fatalf("expected view")
	}
	if view.ADX != report.ADX {
		t.Fatalf("view adx mismatch: %v vs %v", view.ADX, report.ADX)
	}
	if view.Pressure != "buying" {
		t.Fatalf("expected buying pressure, got %q", view.Pressure)
	}
	if view.TrendLabel == "" {
		t.Fatalf("expected trend label")
	}
}

func TestViewNilReport(t *testing.T) {
	if view := View(nil); view != nil {
		t.Fatalf("expected nil view")
	}
}

func TestResolveADXMeasured(t *testing.T) {
	report := &models.TrendReport{ADX: 32, PlusDI: 25, MinusDI: 12}
	adx, plus, minus, source := ResolveADX(report, nil)
	if source != models.ADXMeasured || adx != 32 || plus != 25 || minus != 12 {
		t.Fatalf("unexpected resolution: %v %v %v %s", adx, plus, minus, source)
	}
}

func TestResolveADXNested(t *testing.T) {
	report := &models.TrendReport{
		TrendAnalysis: &models.TrendAnalysis{
			ADX: models.ADXBlock{ADX: 28, PlusDI: 20, MinusDI: 15},
		},
	}
	adx, plus, minus, source := ResolveADX(report, nil)
	if source != models.ADXNested || adx != 28 || plus != 20 || minus != 15 {
		t.Fatalf("unexpected resolution: %v %v %v %s", adx, plus, minus, source)
	}
}

func TestResolveADXProjected(t *testing.T) {
	view := &models.TrendView{ADX: 22, PlusDI: 18, MinusDI: 14}
	adx, plus, minus, source := ResolveADX(nil, view)
	if source != models.ADXProjected || adx != 22 || plus != 18 || minus != 14 {
		t.Fatalf("unexpected resolution: %v %v %v %s", adx, plus, minus, source)
	}
}

func TestResolveADXDefaulted(t *testing.T) {
	adx, plus, minus, source := ResolveADX(nil, nil)
	if source != models.ADXDefaulted || adx != DefaultADX || plus != DefaultPlusDI || minus != DefaultMinusDI {
		t.Fatalf("unexpected resolution: %v %v %v %s", adx, plus, minus, source)
	}

	// A report with zeroed fields everywhere also falls through to defaults.
	report := &models.TrendReport{TrendAnalysis: &models.TrendAnalysis{}}
	_, _, _, source = ResolveADX(report, &models.TrendView{})
	if source != models.ADXDefaulted {
		t.Fatalf("expected defaulted, got %s", source)
	}
}
