// Package server owns the application lifecycle.
package server

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"StockPulse/internal/domain/repository"
	"StockPulse/internal/handler/api"
	"StockPulse/internal/usecase"
	pkgcache "StockPulse/pkg/cache"
	"StockPulse/pkg/config"
	xhttp "StockPulse/pkg/http"
	applogger "StockPulse/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	screener   *usecase.Screener
	watchlists repository.WatchlistStore
	reports    repository.ReportWriter
	cache      pkgcache.Service
	httpServer *xhttp.Server

	stopOnce sync.Once
	stopCh   chan struct{}
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	screener *usecase.Screener,
	watchlists repository.WatchlistStore,
	reports repository.ReportWriter,
	cache pkgcache.Service,
) *App {
	return &App{
		cfg:        cfg,
		log:        log,
		screener:   screener,
		watchlists: watchlists,
		reports:    reports,
		cache:      cache,
		stopCh:     make(chan struct{}),
	}
}

// RequestStop asks the app to shut down. Safe to call more than once; the
// shutdown HTTP endpoint goes through here.
func (a *App) RequestStop() {
	a.stopOnce.Do(func() { close(a.stopCh) })
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	// Retention sweep of stale reports before serving.
	if days := a.cfg.Reports.RetentionDays; days > 0 {
		if n, err := a.reports.Clean(time.Duration(days)*24*time.Hour, false); err != nil {
			a.log.Warn("report retention sweep failed", applogger.Error(err))
		} else if n > 0 {
			a.log.Info("removed stale reports", applogger.Int("count", n))
		}
	}

	handler := api.NewScreenerHandler(a.log, a.screener, a.watchlists, a.reports, a.RequestStop)

	a.httpServer = xhttp.NewServer(handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetrics(a.cfg.Metrics.Enabled, a.cfg.Metrics.Path),
	)

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("server started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("environment", a.cfg.Environment),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.log.Info("shutdown signal received", applogger.String("signal", sig.String()))
	case <-a.stopCh:
		a.log.Info("shutdown requested over http")
	}

	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	// Cancel any running batch and wait for its worker to drain.
	a.screener.Stop()
	a.screener.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.log.Warn("cache close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
