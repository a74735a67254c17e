package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/domain/repository"
	"StockPulse/pkg/logger"
)

var (
	// ErrBatchInProgress rejects a submission while a batch is running.
	ErrBatchInProgress = errors.New("a batch is already in progress")
	// ErrNoSymbols rejects a submission with nothing to analyze.
	ErrNoSymbols = errors.New("no symbols to analyze")
)

// Screener owns batch submission, the per-batch progress handle, and
// cancellation. One batch runs at a time; submissions are serialized.
type Screener struct {
	processor  *Processor
	reports    repository.ReportWriter
	watchlists repository.WatchlistStore
	metrics    repository.Metrics
	log        *logger.Logger

	symbolDelay  time.Duration
	defaultTitle string
	reportZone   *time.Location

	mu     sync.Mutex
	batch  *batchProgress
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// ScreenerOption configures the screener.
type ScreenerOption func(*Screener)

// WithSymbolDelay sets the fixed pause between symbols.
func WithSymbolDelay(d time.Duration) ScreenerOption {
	return func(s *Screener) {
		s.symbolDelay = d
	}
}

// WithDefaultTitle sets the report title used when a request omits one.
func WithDefaultTitle(title string) ScreenerOption {
	return func(s *Screener) {
		s.defaultTitle = title
	}
}

// WithReportZone sets the time zone used for progress timestamps.
func WithReportZone(loc *time.Location) ScreenerOption {
	return func(s *Screener) {
		s.reportZone = loc
	}
}

// NewScreener creates the batch orchestrator.
func NewScreener(
	processor *Processor,
	reports repository.ReportWriter,
	watchlists repository.WatchlistStore,
	metrics repository.Metrics,
	log *logger.Logger,
	opts ...ScreenerOption,
) *Screener {
	s := &Screener{
		processor:    processor,
		reports:      reports,
		watchlists:   watchlists,
		metrics:      metrics,
		log:          log,
		symbolDelay:  500 * time.Millisecond,
		defaultTitle: "Technical Analysis Report",
		reportZone:   time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartBatch validates the request and spawns the background worker,
// returning as soon as the batch is accepted. The outcome is observable only
// through Progress and the logs.
func (s *Screener) StartBatch(req models.AnalyzeRequest) error {
	symbols := req.Symbols
	names := req.Names
	if req.AnalyzeAll {
		var err error
		symbols, names, err = s.watchlists.FlattenAll(req.User)
		if err != nil {
			return fmt.Errorf("load watchlists for %q: %w", req.User, err)
		}
	}
	if len(symbols) == 0 {
		return ErrNoSymbols
	}

	title := req.Title
	if title == "" {
		title = s.defaultTitle
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.batch != nil && s.batch.running() {
		return ErrBatchInProgress
	}

	ctx, cancel := context.WithCancel(context.Background())
	batch := newBatchProgress(len(symbols))
	s.batch = batch
	s.cancel = cancel

	s.metrics.RecordBatchStarted(len(symbols))
	s.log.Info("batch started",
		logger.Int("total", len(symbols)),
		logger.String("title", title),
	)

	s.wg.Add(1)
	go func() {
		defer cancel()
		s.run(ctx, batch, symbols, names, title)
	}()
	return nil
}

// Stop cancels the running batch, if any. The worker observes the
// cancellation at its next per-symbol check.
func (s *Screener) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Wait blocks until the current worker exits. Used on shutdown.
func (s *Screener) Wait() {
	s.wg.Wait()
}

// Progress returns the polling snapshot for the most recent batch, or nil
// when no batch has ever run.
func (s *Screener) Progress() *Snapshot {
	s.mu.Lock()
	batch := s.batch
	s.mu.Unlock()
	if batch == nil {
		return nil
	}
	return batch.snapshot(s.reportZone)
}

func (s *Screener) run(ctx context.Context, batch *batchProgress, symbols []string, names map[string]models.SymbolName, title string) {
	defer s.wg.Done()
	start := time.Now()
	var results []models.AnalysisResult

	// The batch must never be left in_progress, whatever happens below.
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("batch worker panic", logger.Any("panic", r))
			s.metrics.RecordError("batch_panic")
			batch.finish(BatchFailed, "")
		}
		batch.finish(BatchFailed, "")
		s.metrics.RecordBatchDuration(time.Since(start).Seconds())
	}()

	for i, symbol := range symbols {
		select {
		case <-ctx.Done():
			s.log.Info("batch cancelled",
				logger.Int("processed", i),
				logger.Int("total", len(symbols)),
			)
			batch.finish(BatchCancelled, "")
			return
		default:
		}

		entry := names[symbol]
		provider := entry.ProviderCode(symbol)
		display := entry.DisplayName(symbol)
		batch.advance(i+1, fmt.Sprintf("%s (%s)", display, provider))

		result, err := s.processor.Process(ctx, symbol, provider, display)
		if err != nil {
			reason := "error"
			if errors.Is(err, ErrNoData) {
				reason = "no_data"
			}
			s.metrics.RecordSymbolSkipped(symbol, reason)
			s.log.Warn("symbol skipped",
				logger.String("symbol", symbol),
				logger.Error(err),
			)
		} else {
			results = append(results, *result)
			s.metrics.RecordSymbolAnalyzed(symbol)
			s.metrics.RecordLastPrice(symbol, result.Price)
		}

		if s.symbolDelay > 0 && i < len(symbols)-1 {
			select {
			case <-ctx.Done():
			case <-time.After(s.symbolDelay):
			}
		}
	}

	// Cancellation observed after the loop still suppresses the report.
	if ctx.Err() != nil {
		batch.finish(BatchCancelled, "")
		return
	}
	if len(results) == 0 {
		s.log.Warn("batch produced no results, skipping report")
		batch.finish(BatchFailed, "")
		return
	}

	path, err := s.reports.Write(results, title)
	if err != nil {
		s.log.Error("report generation failed", logger.Error(err))
		s.metrics.RecordError("report_write")
		batch.finish(BatchFailed, "")
		return
	}

	s.log.Info("batch completed",
		logger.Int("results", len(results)),
		logger.String("report", path),
	)
	batch.finish(BatchCompleted, path)
}
