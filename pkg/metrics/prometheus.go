package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	batchesStarted  prometheus.Counter
	batchSize       prometheus.Gauge
	batchDuration   prometheus.Histogram
	symbolsAnalyzed *prometheus.CounterVec
	symbolsSkipped  *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	lastPrice       *prometheus.GaugeVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		batchesStarted: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "stockpulse_batches_started_total",
				Help: "Total number of analysis batches started",
			},
		),
		batchSize: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "stockpulse_batch_size",
				Help: "Number of symbols in the most recent batch",
			},
		),
		batchDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "stockpulse_batch_duration_seconds",
				Help:    "Duration of analysis batches in seconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		symbolsAnalyzed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_symbols_analyzed_total",
				Help: "Total number of symbols analyzed successfully",
			},
			[]string{"symbol"},
		),
		symbolsSkipped: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_symbols_skipped_total",
				Help: "Total number of symbols skipped",
			},
			[]string{"symbol", "reason"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockpulse_last_price",
				Help: "Last observed closing price for a symbol",
			},
			[]string{"symbol"},
		),
	}
}

// RecordBatchStarted records the start of an analysis batch of the given size.
func (r *Recorder) RecordBatchStarted(total int) {
	r.batchesStarted.Inc()
	r.batchSize.Set(float64(total))
}

// RecordBatchDuration records the total duration of a batch in seconds.
func (r *Recorder) RecordBatchDuration(seconds float64) {
	r.batchDuration.Observe(seconds)
}

// RecordSymbolAnalyzed records a successfully analyzed symbol.
func (r *Recorder) RecordSymbolAnalyzed(symbol string) {
	r.symbolsAnalyzed.WithLabelValues(symbol).Inc()
}

// RecordSymbolSkipped records a skipped symbol with the skip reason.
func (r *Recorder) RecordSymbolSkipped(symbol, reason string) {
	r.symbolsSkipped.WithLabelValues(symbol, reason).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last closing price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}
