package di

import (
	"fmt"
	"time"

	"StockPulse/internal/domain/repository"
	internalrepo "StockPulse/internal/repository"
	"StockPulse/internal/service/yahoo"
	"StockPulse/internal/usecase"
	pkgcache "StockPulse/pkg/cache"
	"StockPulse/pkg/config"
	"StockPulse/pkg/logger"
	"StockPulse/pkg/metrics"
	"StockPulse/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCache creates the history cache. With Redis enabled it layers an
// in-process cache over Redis; otherwise the in-process cache stands alone.
func ProvideCache(cfg *config.Config) (pkgcache.Service, error) {
	if !cfg.Redis.Enabled {
		return pkgcache.NewMemoryCache(), nil
	}

	redisCache, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisAddr(cfg.Redis.Addr),
		pkgcache.WithRedisPassword(cfg.Redis.Password),
		pkgcache.WithRedisDB(cfg.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return pkgcache.NewLayeredCache(redisCache), nil
}

// ProvideHistorySource creates the Yahoo Finance history client.
func ProvideHistorySource(cfg *config.Config, log *logger.Logger, cache pkgcache.Service) repository.HistorySource {
	return yahoo.NewClient(log,
		yahoo.WithCache(cache),
		yahoo.WithPeriod(periodString(cfg.Yahoo.HistoryPeriod)),
		yahoo.WithCacheTTL(cfg.Yahoo.CacheTTL),
		yahoo.WithFetchTimeout(cfg.Yahoo.FetchTimeout),
	)
}

// ProvideWatchlistStore creates the file-backed watchlist store.
func ProvideWatchlistStore(cfg *config.Config, log *logger.Logger) repository.WatchlistStore {
	return internalrepo.NewWatchlistStore(cfg.Watchlists.Dir, log)
}

// ProvideReportWriter creates the HTML report writer.
func ProvideReportWriter(cfg *config.Config, log *logger.Logger) (repository.ReportWriter, error) {
	loc, err := time.LoadLocation(cfg.Reports.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("reports time zone %q: %w", cfg.Reports.TimeZone, err)
	}
	w, err := internalrepo.NewHTMLReportWriter(cfg.Reports.Dir, loc, log)
	if err != nil {
		return nil, fmt.Errorf("report writer: %w", err)
	}
	return w, nil
}

// ProvideProcessor creates the per-symbol analysis processor.
func ProvideProcessor(cfg *config.Config, log *logger.Logger, source repository.HistorySource) *usecase.Processor {
	return usecase.NewProcessor(source, log, periodString(cfg.Yahoo.HistoryPeriod), cfg.Analysis.PatternBars)
}

// ProvideScreener creates the batch screener use case.
func ProvideScreener(
	cfg *config.Config,
	log *logger.Logger,
	processor *usecase.Processor,
	reports repository.ReportWriter,
	watchlists repository.WatchlistStore,
	m repository.Metrics,
) (*usecase.Screener, error) {
	loc, err := time.LoadLocation(cfg.Reports.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("reports time zone %q: %w", cfg.Reports.TimeZone, err)
	}
	return usecase.NewScreener(processor, reports, watchlists, m, log,
		usecase.WithSymbolDelay(cfg.Analysis.SymbolDelay),
		usecase.WithDefaultTitle(cfg.Analysis.DefaultTitle),
		usecase.WithReportZone(loc),
	), nil
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	screener *usecase.Screener,
	watchlists repository.WatchlistStore,
	reports repository.ReportWriter,
	cache pkgcache.Service,
) *server.App {
	return server.New(cfg, log, screener, watchlists, reports, cache)
}

// periodString renders a lookback window as the day-count form the history
// client expects, e.g. "365d".
func periodString(d time.Duration) string {
	days := int(d.Hours() / 24)
	if days < 1 {
		days = 1
	}
	return fmt.Sprintf("%dd", days)
}
