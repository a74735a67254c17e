package repository

import (
	"context"
	"time"

	"StockPulse/internal/domain/models"
)

// HistorySource fetches daily market history for a provider code. The period
// is a lookback string like "365d". An empty history with a nil error is the
// "no data" signal; callers treat it as a per-symbol failure.
type HistorySource interface {
	DailyHistory(ctx context.Context, providerCode, period string) (models.History, error)
}

// OrderedSymbols preserves the file order of one watchlist group.
type OrderedSymbols struct {
	Symbols []string
	Names   map[string]models.SymbolName
}

// WatchlistStore reads the persisted per-user watchlists.
type WatchlistStore interface {
	// Load returns the group map and the declared group order.
	Load(user string) (map[string]OrderedSymbols, []string, error)
	// FlattenAll returns every symbol across all groups in group-declaration
	// order with first-occurrence de-duplication, plus the name mapping.
	FlattenAll(user string) ([]string, map[string]models.SymbolName, error)
}

// ReportInfo describes one stored report file.
type ReportInfo struct {
	Name    string    `json:"name"`
	URL     string    `json:"url"`
	Created time.Time `json:"-"`
	Stamp   string    `json:"created"`
}

// ReportWriter renders the aggregated report for a finished batch and returns
// the path of the written file.
type ReportWriter interface {
	Write(results []models.AnalysisResult, title string) (string, error)
	List() ([]ReportInfo, error)
	Dir() string
	Clean(olderThan time.Duration, forceAll bool) (int, error)
}

// Metrics records operational counters for the screener.
type Metrics interface {
	RecordBatchStarted(total int)
	RecordBatchDuration(seconds float64)
	RecordSymbolAnalyzed(symbol string)
	RecordSymbolSkipped(symbol, reason string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
}
