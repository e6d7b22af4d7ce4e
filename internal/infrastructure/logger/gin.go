package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GinContextKey is where the request-scoped logger is stored on the gin context
const GinContextKey = "logger"

// GinMiddleware logs one line per request and stores a request-scoped logger
// on both the gin context and the request context. Paths in skip are not logged.
func GinMiddleware(base *zap.Logger, skip ...string) gin.HandlerFunc {
	skipped := make(map[string]bool, len(skip))
	for _, p := range skip {
		skipped[p] = true
	}

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		ctx := c.Request.Context()
		if id := c.GetString("request_id"); id != "" {
			ctx = WithRequestID(ctx, id)
		}
		reqLogger := Enrich(ctx, base).With(
			zap.String("method", c.Request.Method),
			zap.String("path", path),
		)
		c.Set(GinContextKey, reqLogger)
		c.Request = c.Request.WithContext(WithContext(ctx, reqLogger))

		c.Next()

		if skipped[path] {
			return
		}

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("route", c.FullPath()),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("body_size", c.Writer.Size()),
		}
		if q := c.Request.URL.RawQuery; q != "" {
			fields = append(fields, zap.String("query", q))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
		}

		switch {
		case status >= 500:
			reqLogger.Error("HTTP Request", fields...)
		case status >= 400:
			reqLogger.Warn("HTTP Request", fields...)
		default:
			reqLogger.Info("HTTP Request", fields...)
		}
	}
}

// Recovery turns panics into 500 responses and logs the stack
func Recovery(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				base.Error("Panic recovered",
					zap.String("request_id", c.GetString("request_id")),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Any("error", err),
					zap.Stack("stacktrace"),
				)
				c.AbortWithStatus(500)
			}
		}()
		c.Next()
	}
}

// GetGinLogger returns the request-scoped logger, or a no-op logger
func GetGinLogger(c *gin.Context) *zap.Logger {
	if l, ok := c.Get(GinContextKey); ok {
		if zl, ok := l.(*zap.Logger); ok {
			return zl
		}
	}
	return zap.NewNop()
}
