// Package api expone el servicio de flux al dashboard por HTTP.
package api

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// NewRouter monta las rutas del dashboard sobre un gin.Engine.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/programme/:date", h.GetProgramme)
	r.GET("/participants/:date/:race/:contest", h.GetParticipants)
	r.GET("/flux/:race/:contest", h.GetFlux)
	return r
}

// requestLogger asigna un request id y loguea cada request con slog.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)

		start := time.Now()
		c.Next()

		slog.Debug("http request",
			"request_id", id,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start).Round(time.Millisecond),
		)
	}
}

func requestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
