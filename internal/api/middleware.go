package api

import (
	"context"
	"time"

	"dineassist-backend/internal/components/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIdKey    = "request_id"
	requestIdHeader = "X-Request-ID"
	// longer request ids supplied by clients are replaced, they end up in the logs
	requestIdMaxLen = 64
)

const report_http_request = "http.request"

// RequestID reuses the client's X-Request-ID or generates one, and echoes it back.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIdHeader)
		if rid == "" || len(rid) > requestIdMaxLen {
			rid = uuid.New().String()
		}
		c.Set(requestIdKey, rid)
		c.Header(requestIdHeader, rid)
		c.Next()
	}
}

// Logger reports every request once it has been handled.
func Logger(tel telemetry.API) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		params := []any{
			"request_id", c.GetString(requestIdKey),
			"status", c.Writer.Status(),
			"method", c.Request.Method,
			"path", path,
			"query", query,
			"latency", time.Since(start),
		}
		if len(c.Errors) > 0 {
			params = append(params, "errors", c.Errors.ByType(gin.ErrorTypePrivate).String())
		}

		if c.Writer.Status() >= 400 {
			tel.ReportWarning(report_http_request, params...)
			return
		}
		tel.ReportDebug(report_http_request, params...)
	}
}

// Timeout bounds the time a handler may spend scraping the portal.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
