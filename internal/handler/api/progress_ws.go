package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	xlogger "StockPulse/pkg/logger"
)

const progressPushInterval = 500 * time.Millisecond

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Single-operator tool served from its own origin.
	CheckOrigin: func(*http.Request) bool { return true },
}

// ProgressWS pushes progress snapshots over a websocket until the client
// disconnects. Pollers that prefer HTTP use GET /api/progress instead.
func (h *ScreenerHandler) ProgressWS(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Drain control frames so pings and the close handshake are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(progressPushInterval)
	defer ticker.Stop()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			snap := h.screener.Progress()
			if err := conn.WriteJSON(echo.Map{"progress": snap}); err != nil {
				h.log.Debug("progress websocket closed", xlogger.Error(err))
				return nil
			}
		}
	}
}
