// Package middleware provides the gin middleware of the einvoice API.
package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Header and context keys shared by the middleware and handlers
const (
	RequestIDHeader      = "X-Request-ID"
	RequestIDKey         = "request_id"
	IdempotencyKeyHeader = "Idempotency-Key"
	TotalCountHeader     = "X-Total-Count"
	MaxRequestIDLength   = 128
)

// RequestID reuses a sane incoming X-Request-ID or generates a new one, and
// stores it under RequestIDKey and on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > MaxRequestIDLength {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)
		c.Next()
	}
}

// GetRequestID returns the request id set by RequestID
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// CORS allows the configured origins. An empty list disables cross-origin
// access; "*" allows any origin without credentials.
func CORS(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return func(c *gin.Context) { c.Next() }
	}

	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "Authorization",
			RequestIDHeader, IdempotencyKeyHeader,
		},
		ExposeHeaders: []string{RequestIDHeader, TotalCountHeader},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cors.New(cfg)
		}
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cors.New(cfg)
}
