package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/domain/repository"
	"StockPulse/pkg/logger"
)

type fakeSource struct {
	mu        sync.Mutex
	histories map[string]models.History
	errs      map[string]error
	onFetch   func(symbol string)
	calls     []string
}

func (f *fakeSource) DailyHistory(ctx context.Context, code, period string) (models.History, error) {
	f.mu.Lock()
	f.calls = append(f.calls, code)
	f.mu.Unlock()
	if f.onFetch != nil {
		f.onFetch(code)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := f.errs[code]; ok {
		return nil, err
	}
	return f.histories[code], nil
}

func (f *fakeSource) fetched() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type fakeReports struct {
	mu      sync.Mutex
	written [][]models.AnalysisResult
	titles  []string
	err     error
}

func (f *fakeReports) Write(results []models.AnalysisResult, title string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.written = append(f.written, results)
	f.titles = append(f.titles, title)
	return "/tmp/reports/report 1.html", nil
}

func (f *fakeReports) List() ([]repository.ReportInfo, error) { return nil, nil }
func (f *fakeReports) Dir() string                            { return "/tmp/reports" }
func (f *fakeReports) Clean(time.Duration, bool) (int, error) { return 0, nil }

func (f *fakeReports) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.written)
}

type fakeWatchlists struct {
	symbols []string
	names   map[string]models.SymbolName
}

func (f *fakeWatchlists) Load(string) (map[string]repository.OrderedSymbols, []string, error) {
	return nil, nil, nil
}

func (f *fakeWatchlists) FlattenAll(string) ([]string, map[string]models.SymbolName, error) {
	return f.symbols, f.names, nil
}

type nopMetrics struct{}

func (nopMetrics) RecordBatchStarted(int)           {}
func (nopMetrics) RecordBatchDuration(float64)      {}
func (nopMetrics) RecordSymbolAnalyzed(string)      {}
func (nopMetrics) RecordSymbolSkipped(string, string) {}
func (nopMetrics) RecordError(string)               {}
func (nopMetrics) RecordLastPrice(string, float64)  {}

func history(n int, base float64) models.History {
	hist := make(models.History, n)
	for i := 0; i < n; i++ {
		c := base + float64(i)
		hist[i] = models.Bar{Open: c - 0.5, High: c + 1, Low: c - 1, Close: c, Volume: 1000}
	}
	return hist
}

func newTestScreener(source *fakeSource, reports *fakeReports) *Screener {
	log := logger.Nop()
	proc := NewProcessor(source, log, "365d", 5)
	return NewScreener(proc, reports, &fakeWatchlists{}, nopMetrics{}, log,
		WithSymbolDelay(0),
	)
}

func TestBatchCompletes(t *testing.T) {
	source := &fakeSource{histories: map[string]models.History{
		"AAPL": history(100, 100),
		"MSFT": history(100, 200),
	}}
	reports := &fakeReports{}
	s := newTestScreener(source, reports)

	if err := s.StartBatch(models.AnalyzeRequest{Symbols: []string{"AAPL", "MSFT"}, Title: "run"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.Wait()

	snap := s.Progress()
	if snap == nil {
		t.Fatalf("expected snapshot")
	}
	if snap.InProgress {
		t.Fatalf("batch must end not in progress")
	}
	if snap.Percent != 1.0 {
		t.Fatalf("terminal percent must be 1.0, got %v", snap.Percent)
	}
	if snap.State != BatchCompleted {
		t.Fatalf("expected completed, got %s", snap.State)
	}
	if snap.ReportPath == "" {
		t.Fatalf("expected report path")
	}
	if !strings.Contains(snap.ReportURL, "report%201.html") {
		t.Fatalf("report url must escape the file name: %q", snap.ReportURL)
	}
	if snap.Timestamp == "" {
		t.Fatalf("expected terminal timestamp")
	}
	if reports.count() != 1 {
		t.Fatalf("expected one report, got %d", reports.count())
	}
	if reports.titles[0] != "run" {
		t.Fatalf("unexpected title %q", reports.titles[0])
	}
}

func TestEmptyHistorySkippedOthersSurvive(t *testing.T) {
	source := &fakeSource{histories: map[string]models.History{
		"A": history(100, 100),
		"B": nil, // empty history, skipped
		"C": history(100, 300),
	}}
	reports := &fakeReports{}
	s := newTestScreener(source, reports)

	var percents []float64
	source.onFetch = func(string) {
		if snap := s.Progress(); snap != nil {
			percents = append(percents, snap.Percent)
		}
	}

	if err := s.StartBatch(models.AnalyzeRequest{Symbols: []string{"A", "B", "C"}}); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.Wait()

	if reports.count() != 1 {
		t.Fatalf("expected report despite skip")
	}
	results := reports.written[0]
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Symbol != "A" || results[1].Symbol != "C" {
		t.Fatalf("unexpected result order: %s, %s", results[0].Symbol, results[1].Symbol)
	}

	want := []float64{1.0 / 3, 2.0 / 3, 1.0}
	if len(percents) != 3 {
		t.Fatalf("expected 3 progress readings, got %v", percents)
	}
	for i, p := range percents {
		if diff := p - want[i]; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("percent[%d] = %v, want %v", i, p, want[i])
		}
	}

	snap := s.Progress()
	if snap.State != BatchCompleted || snap.Percent != 1.0 {
		t.Fatalf("unexpected terminal snapshot: %+v", snap)
	}
}

func TestFetchErrorSkipsSymbol(t *testing.T) {
	source := &fakeSource{
		histories: map[string]models.History{"GOOD": history(50, 100)},
		errs:      map[string]error{"BAD": errors.New("upstream down")},
	}
	reports := &fakeReports{}
	s := newTestScreener(source, reports)

	if err := s.StartBatch(models.AnalyzeRequest{Symbols: []string{"BAD", "GOOD"}}); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.Wait()

	if reports.count() != 1 || len(reports.written[0]) != 1 {
		t.Fatalf("expected one surviving result")
	}
	if reports.written[0][0].Symbol != "GOOD" {
		t.Fatalf("unexpected symbol %s", reports.written[0][0].Symbol)
	}
}

func TestCancelMidBatchSuppressesReport(t *testing.T) {
	source := &fakeSource{histories: map[string]models.History{
		"A": history(50, 100),
		"B": history(50, 200),
		"C": history(50, 300),
	}}
	reports := &fakeReports{}
	s := newTestScreener(source, reports)

	// Cancel while the first symbol is in flight; the loop observes it at
	// the next per-symbol check.
	source.onFetch = func(code string) {
		if code == "A" {
			s.Stop()
		}
	}

	if err := s.StartBatch(models.AnalyzeRequest{Symbols: []string{"A", "B", "C"}}); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.Wait()

	if reports.count() != 0 {
		t.Fatalf("cancelled batch must not generate a report")
	}
	fetched := source.fetched()
	if len(fetched) != 1 || fetched[0] != "A" {
		t.Fatalf("no symbols after the cancellation point: %v", fetched)
	}

	snap := s.Progress()
	if snap.InProgress || snap.Percent != 1.0 {
		t.Fatalf("unexpected terminal flags: %+v", snap)
	}
	if snap.State != BatchCancelled {
		t.Fatalf("expected cancelled, got %s", snap.State)
	}
	if snap.ReportPath != "" || snap.ReportURL != "" {
		t.Fatalf("cancelled batch must not expose a report: %+v", snap)
	}
}

func TestAllSymbolsFailMarksBatchFailed(t *testing.T) {
	source := &fakeSource{histories: map[string]models.History{}}
	reports := &fakeReports{}
	s := newTestScreener(source, reports)

	if err := s.StartBatch(models.AnalyzeRequest{Symbols: []string{"X", "Y"}}); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.Wait()

	if reports.count() != 0 {
		t.Fatalf("no report for an empty result list")
	}
	snap := s.Progress()
	if snap.State != BatchFailed {
		t.Fatalf("expected failed, got %s", snap.State)
	}
	if snap.Percent != 1.0 || snap.InProgress {
		t.Fatalf("unexpected terminal flags: %+v", snap)
	}
}

func TestReportWriteErrorMarksBatchFailed(t *testing.T) {
	source := &fakeSource{histories: map[string]models.History{"A": history(50, 100)}}
	reports := &fakeReports{err: errors.New("disk full")}
	s := newTestScreener(source, reports)

	if err := s.StartBatch(models.AnalyzeRequest{Symbols: []string{"A"}}); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.Wait()

	snap := s.Progress()
	if snap.State != BatchFailed {
		t.Fatalf("expected failed, got %s", snap.State)
	}
}

func TestRejectSecondBatchWhileRunning(t *testing.T) {
	release := make(chan struct{})
	source := &fakeSource{histories: map[string]models.History{"A": history(50, 100)}}
	source.onFetch = func(string) { <-release }
	reports := &fakeReports{}
	s := newTestScreener(source, reports)

	if err := s.StartBatch(models.AnalyzeRequest{Symbols: []string{"A"}}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.StartBatch(models.AnalyzeRequest{Symbols: []string{"A"}}); !errors.Is(err, ErrBatchInProgress) {
		t.Fatalf("expected ErrBatchInProgress, got %v", err)
	}
	close(release)
	s.Wait()

	// A finished batch releases the slot.
	if err := s.StartBatch(models.AnalyzeRequest{Symbols: []string{"A"}}); err != nil {
		t.Fatalf("restart after completion: %v", err)
	}
	s.Wait()
}

func TestStartBatchNoSymbols(t *testing.T) {
	s := newTestScreener(&fakeSource{}, &fakeReports{})
	if err := s.StartBatch(models.AnalyzeRequest{}); !errors.Is(err, ErrNoSymbols) {
		t.Fatalf("expected ErrNoSymbols, got %v", err)
	}
}

func TestAnalyzeAllUsesWatchlists(t *testing.T) {
	source := &fakeSource{histories: map[string]models.History{
		"WL1": history(50, 100),
		"WL2": history(50, 200),
	}}
	reports := &fakeReports{}
	log := logger.Nop()
	proc := NewProcessor(source, log, "365d", 5)
	wl := &fakeWatchlists{
		symbols: []string{"WL1", "WL2"},
		names:   map[string]models.SymbolName{"WL1": {Name: "First"}},
	}
	s := NewScreener(proc, reports, wl, nopMetrics{}, log, WithSymbolDelay(0))

	if err := s.StartBatch(models.AnalyzeRequest{AnalyzeAll: true, User: "default"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.Wait()

	if reports.count() != 1 || len(reports.written[0]) != 2 {
		t.Fatalf("expected both watchlist symbols analyzed")
	}
	if reports.written[0][0].Name != "First" {
		t.Fatalf("display name not carried through: %+v", reports.written[0][0])
	}
}

func TestProgressNilBeforeFirstBatch(t *testing.T) {
	s := newTestScreener(&fakeSource{}, &fakeReports{})
	if snap := s.Progress(); snap != nil {
		t.Fatalf("expected nil sentinel, got %+v", snap)
	}
}

func TestProviderCodeUsedForFetch(t *testing.T) {
	source := &fakeSource{histories: map[string]models.History{"0700.HK": history(50, 100)}}
	reports := &fakeReports{}
	s := newTestScreener(source, reports)

	req := models.AnalyzeRequest{
		Symbols: []string{"TENCENT"},
		Names:   map[string]models.SymbolName{"TENCENT": {Name: "Tencent", YFCode: "0700.HK"}},
	}
	if err := s.StartBatch(req); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.Wait()

	fetched := source.fetched()
	if len(fetched) != 1 || fetched[0] != "0700.HK" {
		t.Fatalf("provider code must be sent upstream: %v", fetched)
	}
	if reports.count() != 1 || reports.written[0][0].Symbol != "TENCENT" {
		t.Fatalf("result must keep the request symbol")
	}
}
