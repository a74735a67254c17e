package yahoo

import (
	"context"
	"fmt"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/shopspring/decimal"

	"StockPulse/internal/domain/models"
	"StockPulse/pkg/cache"
	"StockPulse/pkg/logger"
	"StockPulse/pkg/util"
)

// Client fetches daily OHLCV history from Yahoo Finance.
// It implements repository.HistorySource.
type Client struct {
	cache    cache.Service
	log      *logger.Logger
	period       string
	days         int
	cacheTTL     time.Duration
	fetchTimeout time.Duration
}

// Option configures the client.
type Option func(*Client)

// WithCache sets the history cache.
func WithCache(c cache.Service) Option {
	return func(cl *Client) {
		cl.cache = c
	}
}

// WithPeriod sets the lookback period, e.g. "365d".
func WithPeriod(period string) Option {
	return func(cl *Client) {
		cl.period = period
		cl.days = util.PeriodDaysDefault(period, 365)
	}
}

// WithCacheTTL sets how long fetched history stays cached.
func WithCacheTTL(ttl time.Duration) Option {
	return func(cl *Client) {
		cl.cacheTTL = ttl
	}
}

// WithFetchTimeout bounds each upstream fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(cl *Client) {
		cl.fetchTimeout = d
	}
}

// NewClient creates a Yahoo Finance history client.
func NewClient(log *logger.Logger, opts ...Option) *Client {
	cl := &Client{
		log:      log,
		period:   "365d",
		days:     365,
		cacheTTL: time.Hour,
	}
	for _, opt := range opts {
		opt(cl)
	}
	return cl
}

// DailyHistory returns daily bars for the symbol over the configured period,
// oldest first. An empty history with a nil error means the symbol exists but
// has no data.
func (cl *Client) DailyHistory(ctx context.Context, symbol, period string) (models.History, error) {
	if period == "" {
		period = cl.period
	}
	key := cache.HistoryKey(symbol, period)

	if cl.cache != nil {
		var cached models.History
		if err := cl.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	hist, err := cl.fetch(ctx, symbol, period)
	if err != nil {
		return nil, err
	}

	if cl.cache != nil && len(hist) > 0 {
		if err := cl.cache.Set(ctx, key, hist, cl.cacheTTL); err != nil {
			cl.log.Warn("history cache write failed",
				logger.String("symbol", symbol),
				logger.Error(err),
			)
		}
	}

	return hist, nil
}

func (cl *Client) fetch(ctx context.Context, symbol, period string) (models.History, error) {
	if cl.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cl.fetchTimeout)
		defer cancel()
	}

	days := util.PeriodDaysDefault(period, cl.days)
	end := time.Now()
	start := end.AddDate(0, 0, -days)

	params := &chart.Params{
		Params:   finance.Params{Context: &ctx},
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	}

	iter := chart.Get(params)

	hist := make(models.History, 0, days)
	for iter.Next() {
		b := iter.Bar()
		// Yahoo pads thin sessions with empty bars.
		if b.Close.Equal(decimal.Zero) {
			continue
		}
		hist = append(hist, models.Bar{
			Time:   time.Unix(int64(b.Timestamp), 0),
			Open:   b.Open.InexactFloat64(),
			High:   b.High.InexactFloat64(),
			Low:    b.Low.InexactFloat64(),
			Close:  b.Close.InexactFloat64(),
			Volume: int64(b.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("fetch history for %s: %w", symbol, err)
	}

	cl.log.Debug("fetched daily history",
		logger.String("symbol", symbol),
		logger.Int("bars", len(hist)),
	)
	return hist, nil
}
