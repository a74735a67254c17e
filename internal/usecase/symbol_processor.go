package usecase

import (
	"context"
	"errors"
	"fmt"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/domain/repository"
	"StockPulse/internal/service/indicators"
	"StockPulse/internal/service/patterns"
	"StockPulse/internal/service/strategy"
	"StockPulse/internal/service/trend"
	"StockPulse/pkg/logger"
	"StockPulse/pkg/util"
)

// ErrNoData marks a symbol whose history fetch came back empty.
var ErrNoData = errors.New("no history data")

// Processor runs the full analysis for one symbol.
type Processor struct {
	source      repository.HistorySource
	log         *logger.Logger
	period      string
	patternBars int
}

// NewProcessor creates a per-symbol processor.
func NewProcessor(source repository.HistorySource, log *logger.Logger, period string, patternBars int) *Processor {
	if period == "" {
		period = "365d"
	}
	if patternBars <= 0 {
		patternBars = 5
	}
	return &Processor{
		source:      source,
		log:         log,
		period:      period,
		patternBars: patternBars,
	}
}

// Process fetches the symbol's history and computes the full record. A nil
// result with an error means the symbol is skipped; the batch continues.
func (p *Processor) Process(ctx context.Context, symbol, providerCode, displayName string) (*models.AnalysisResult, error) {
	hist, err := p.source.DailyHistory(ctx, providerCode, p.period)
	if err != nil {
		return nil, fmt.Errorf("history fetch %s: %w", providerCode, err)
	}
	if len(hist) == 0 {
		return nil, fmt.Errorf("%s: %w", providerCode, ErrNoData)
	}

	price := hist[len(hist)-1].Close
	delta, prevClose := priceDelta(hist)
	pct := util.PercentChange(prevClose, prevClose+delta)

	bundle := indicators.Bundle(hist)
	pats := patterns.Detect(hist, p.patternBars)
	advice := strategy.Advise(bundle, pats)
	backtest := strategy.Backtest(hist)

	report, trendErr := trend.Analyze(symbol, hist)
	if trendErr != nil {
		p.log.Warn("trend analysis failed, using fallback",
			logger.String("symbol", symbol),
			logger.Error(trendErr),
		)
	}
	view := trend.View(report)
	adx, plusDI, minusDI, adxSource := trend.ResolveADX(report, view)

	return &models.AnalysisResult{
		Symbol:         symbol,
		Name:           displayName,
		Price:          price,
		PriceChange:    delta,
		PriceChangePct: pct,
		PrevClose:      prevClose,
		Indicators:     bundle,
		Patterns:       pats,
		Advice:         advice,
		Backtest:       backtest,
		ADX:            adx,
		PlusDI:         plusDI,
		MinusDI:        minusDI,
		ADXSource:      adxSource,
		Trend:          view,
	}, nil
}

// priceDelta returns the last bar's change and the reference previous close.
// With a single bar, the bar's own open stands in for the previous close.
func priceDelta(hist models.History) (delta, prevClose float64) {
	last := hist[len(hist)-1]
	if len(hist) >= 2 {
		prevClose = hist[len(hist)-2].Close
		return last.Close - prevClose, prevClose
	}
	return last.Close - last.Open, last.Open
}
