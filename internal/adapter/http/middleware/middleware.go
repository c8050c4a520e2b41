package middleware

import (
	"net/http"
	"time"

	"svc-wallet/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HeaderTraceID is the inbound header carrying the caller's trace id.
const HeaderTraceID = "X-Trace-Id"

// TraceID creates a middleware that adopts the caller's X-Trace-Id or mints
// a fresh one. The id is stored on the gin context, echoed in the response
// header, and stamped on every ledger entry written for this request.
func TraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(HeaderTraceID)
		if traceID == "" {
			traceID = uuid.New().String()
		}
		c.Set(response.CtxTraceID, traceID)
		c.Header(HeaderTraceID, traceID)
		c.Next()
	}
}

// RequestLogger creates a middleware that logs every HTTP request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		} else if status >= http.StatusBadRequest {
			event = log.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Str("trace_id", response.GetTraceID(c)).
			Msg("http request")
	}
}

// Recovery creates a panic recovery middleware. The 500 reply uses the same
// envelope as every other error response.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("panic recovered")
				response.Error(c, nil)
				c.Abort()
			}
		}()
		c.Next()
	}
}
