// Package api exposes the screener over HTTP.
package api

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	"StockPulse/internal/service/ratelimit"
	"StockPulse/internal/usecase"
	xhttp "StockPulse/pkg/http"
	xlogger "StockPulse/pkg/logger"
)

// ScreenerHandler implements the Echo-based HTTP handlers for the screener.
type ScreenerHandler struct {
	log        *xlogger.Logger
	screener   *usecase.Screener
	watchlists domrepo.WatchlistStore
	reports    domrepo.ReportWriter
	rl         *ratelimit.Limiter
	shutdown   func()
}

// NewScreenerHandler creates the handler. The shutdown callback triggers a
// graceful server stop and may be nil.
func NewScreenerHandler(
	log *xlogger.Logger,
	screener *usecase.Screener,
	watchlists domrepo.WatchlistStore,
	reports domrepo.ReportWriter,
	shutdown func(),
) *ScreenerHandler {
	return &ScreenerHandler{
		log:        log,
		screener:   screener,
		watchlists: watchlists,
		reports:    reports,
		rl:         ratelimit.New(),
		shutdown:   shutdown,
	}
}

func (h *ScreenerHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/analyze", h.Analyze)
	g.GET("/progress", h.Progress)
	g.POST("/stop", h.Stop)
	g.POST("/parse-stock-text", h.ParseText)
	g.GET("/reports", h.ListReports)
	g.POST("/clean-reports", h.CleanReports)
	g.GET("/watchlists", h.Watchlists)
	g.POST("/shutdown", h.Shutdown)

	e.GET("/reports/:filename", h.ServeReport)
	e.GET("/ws/progress", h.ProgressWS)
}

// Analyze accepts a batch submission and returns immediately; the outcome is
// observable via the progress endpoints.
func (h *ScreenerHandler) Analyze(c echo.Context) error {
	if !h.rl.Allow(c.RealIP()+":analyze", 5, 0.5) {
		return xhttp.TooManyRequestsResponse(c, "too many submissions")
	}

	req := &models.AnalyzeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if err := h.screener.StartBatch(*req); err != nil {
		switch {
		case errors.Is(err, usecase.ErrBatchInProgress):
			return xhttp.ConflictResponse(c, "a batch is already in progress")
		case errors.Is(err, usecase.ErrNoSymbols):
			return xhttp.BadRequestResponse(c, "no symbols to analyze")
		default:
			h.log.Error("start batch failed", xlogger.Error(err))
			return xhttp.AppErrorResponse(c, err)
		}
	}
	return xhttp.AcceptedResponse(c, echo.Map{"started": true})
}

// Progress returns the current batch snapshot, or a null sentinel when no
// batch has ever run.
func (h *ScreenerHandler) Progress(c echo.Context) error {
	return xhttp.SuccessResponse(c, echo.Map{"progress": h.screener.Progress()})
}

// Stop cancels the running batch.
func (h *ScreenerHandler) Stop(c echo.Context) error {
	h.screener.Stop()
	return xhttp.SuccessResponse(c, echo.Map{"stopped": true})
}

// ParseText extracts ticker codes from free-form text.
func (h *ScreenerHandler) ParseText(c echo.Context) error {
	req := &models.ParseTextRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	codes := usecase.ParseSymbols(req.Text)
	if len(codes) == 0 {
		return xhttp.BadRequestResponse(c, "no ticker codes found in text")
	}
	return xhttp.SuccessResponse(c, echo.Map{"codes": codes})
}

// ListReports returns stored reports, newest first.
func (h *ScreenerHandler) ListReports(c echo.Context) error {
	reports, err := h.reports.List()
	if err != nil {
		h.log.Error("list reports failed", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.ListResponse(c, reports, int64(len(reports)))
}

// CleanReports deletes reports older than the requested age.
func (h *ScreenerHandler) CleanReports(c echo.Context) error {
	req := &models.CleanReportsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	deleted, err := h.reports.Clean(time.Duration(req.Days)*24*time.Hour, req.ForceAll)
	if err != nil {
		h.log.Error("clean reports failed", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.SuccessResponse(c, echo.Map{"deleted": deleted})
}

// ServeReport serves one stored report file.
func (h *ScreenerHandler) ServeReport(c echo.Context) error {
	name := filepath.Base(c.Param("filename"))
	path := filepath.Join(h.reports.Dir(), name)
	if _, err := os.Stat(path); err != nil {
		return xhttp.NotFoundResponse(c, "report not found")
	}
	return c.File(path)
}

// Watchlists returns the user's groups with order preserved.
func (h *ScreenerHandler) Watchlists(c echo.Context) error {
	user := c.QueryParam("user")
	groups, order, err := h.watchlists.Load(user)
	if err != nil {
		h.log.Warn("load watchlists failed",
			xlogger.String("user", user),
			xlogger.Error(err),
		)
		return xhttp.NotFoundResponse(c, "no watchlists found")
	}

	type stockEntry struct {
		Symbol string `json:"symbol"`
		Name   string `json:"name"`
		YFCode string `json:"yf_code,omitempty"`
	}
	type groupEntry struct {
		Name   string       `json:"name"`
		Stocks []stockEntry `json:"stocks"`
	}

	out := make([]groupEntry, 0, len(order))
	for _, groupName := range order {
		group, ok := groups[groupName]
		if !ok {
			continue
		}
		entry := groupEntry{Name: groupName, Stocks: make([]stockEntry, 0, len(group.Symbols))}
		for _, sym := range group.Symbols {
			name := group.Names[sym]
			entry.Stocks = append(entry.Stocks, stockEntry{
				Symbol: sym,
				Name:   name.DisplayName(sym),
				YFCode: name.YFCode,
			})
		}
		out = append(out, entry)
	}
	return xhttp.SuccessResponse(c, echo.Map{
		"groups":       out,
		"groups_order": order,
	})
}

// Shutdown stops the server. The request must carry real_close=true to guard
// against stray beacons from closing browser tabs.
func (h *ScreenerHandler) Shutdown(c echo.Context) error {
	if c.QueryParam("real_close") != "true" && c.FormValue("real_close") != "true" {
		return xhttp.BadRequestResponse(c, "missing real_close confirmation")
	}

	h.log.Warn("shutdown requested", xlogger.String("remote", c.RealIP()))
	h.screener.Stop()
	if h.shutdown != nil {
		go h.shutdown()
	}
	return xhttp.SuccessResponse(c, echo.Map{"stopping": true})
}
