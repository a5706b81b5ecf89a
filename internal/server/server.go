// Package server exposes the relay over HTTP.
package server

import (
	"log/slog"
	"net/http"

	"github.com/felixge/httpsnoop"
	"github.com/gin-gonic/gin"

	"github.com/haal01/drawing-board/internal/relay"
)

// New returns the relay's HTTP handler:
//
//	GET /health       liveness probe
//	GET /stats        room and connection counts
//	GET /ws           websocket, default room
//	GET /ws/:roomId   websocket, named room
func New(hub *relay.Hub, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "Healthy")
	})
	r.GET("/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, hub.Stats())
	})

	// WebSocket endpoints
	r.GET("/ws", func(c *gin.Context) {
		hub.ServeWS(c.Writer, c.Request, relay.DefaultRoom)
	})
	r.GET("/ws/:roomId", func(c *gin.Context) {
		hub.ServeWS(c.Writer, c.Request, c.Param("roomId"))
	})

	return accessLog(r, logger)
}

// accessLog logs one line per request once the handler returns. Websocket
// requests are logged when the connection closes.
func accessLog(next http.Handler, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		logger.Info("handled", "method", r.Method, "url", r.URL.String(), "duration", m.Duration, "status", m.Code)
	})
}
