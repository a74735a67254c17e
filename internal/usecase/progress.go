package usecase

import (
	"net/url"
	"path/filepath"
	"sync"
	"time"

	"StockPulse/pkg/util"
)

// BatchState is the explicit terminal disposition of a batch.
type BatchState string

const (
	BatchRunning   BatchState = "running"
	BatchCompleted BatchState = "completed"
	BatchCancelled BatchState = "cancelled"
	BatchFailed    BatchState = "failed"
)

// Snapshot is the progress payload returned to polling clients.
type Snapshot struct {
	InProgress    bool     `json:"in_progress"`
	Percent       float64  `json:"percent"`
	CurrentIndex  int      `json:"current_index,omitempty"`
	Total         int      `json:"total,omitempty"`
	CurrentSymbol string   `json:"current_symbol,omitempty"`
	Elapsed       float64  `json:"elapsed,omitempty"`
	Remaining     *float64 `json:"remaining,omitempty"`

	State     BatchState `json:"state,omitempty"`
	ReportPath string    `json:"report_path,omitempty"`
	ReportURL  string    `json:"report_url,omitempty"`
	Timestamp  string    `json:"timestamp,omitempty"`
}

// batchProgress is the mutable state of one batch. One instance per batch,
// owned by the screener; the worker is the only writer while the batch runs.
type batchProgress struct {
	mu sync.Mutex

	inProgress    bool
	percent       float64
	currentIndex  int
	total         int
	currentSymbol string
	startTime     time.Time

	state      BatchState
	reportPath string
	finishedAt time.Time
}

func newBatchProgress(total int) *batchProgress {
	return &batchProgress{
		inProgress: true,
		total:      total,
		startTime:  time.Now(),
		state:      BatchRunning,
	}
}

// advance records that work on the 1-based i-th symbol is about to begin.
func (p *batchProgress) advance(i int, symbol string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.currentIndex = i
	p.currentSymbol = symbol
	if p.total > 0 {
		p.percent = float64(i) / float64(p.total)
	}
}

// finish forces the terminal state. Safe to call more than once; the first
// disposition wins.
func (p *batchProgress) finish(state BatchState, reportPath string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.inProgress {
		return
	}
	p.inProgress = false
	p.percent = 1.0
	p.state = state
	p.reportPath = reportPath
	p.finishedAt = time.Now()
}

func (p *batchProgress) running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inProgress
}

// snapshot renders the polling payload. Report URLs are derived from the file
// name only, path-escaped; the timestamp is rendered in the reporting zone.
func (p *batchProgress) snapshot(loc *time.Location) *Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.inProgress {
		snap := &Snapshot{
			InProgress:    true,
			Percent:       p.percent,
			CurrentIndex:  p.currentIndex,
			Total:         p.total,
			CurrentSymbol: p.currentSymbol,
			Elapsed:       time.Since(p.startTime).Seconds(),
		}
		if p.percent > 0 {
			remaining := snap.Elapsed/p.percent - snap.Elapsed
			snap.Remaining = &remaining
		}
		return snap
	}

	snap := &Snapshot{
		InProgress: false,
		Percent:    1.0,
		State:      p.state,
		Timestamp:  util.FormatStamp(p.finishedAt, loc),
	}
	if p.reportPath != "" {
		snap.ReportPath = p.reportPath
		snap.ReportURL = "/reports/" + url.PathEscape(filepath.Base(p.reportPath))
	}
	return snap
}
