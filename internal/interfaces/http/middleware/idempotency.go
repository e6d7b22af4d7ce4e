package middleware

import (
	"net/http"
	"time"

	"github.com/einvoice/backend/internal/domain/shared"
	"github.com/einvoice/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MaxIdempotencyKeyLength bounds the Idempotency-Key header
const MaxIdempotencyKeyLength = 255

// IdempotencyConfig configures the Idempotency-Key guard
type IdempotencyConfig struct {
	Store  shared.IdempotencyStore
	TTL    time.Duration
	Logger *zap.Logger
}

// Idempotency claims the request's Idempotency-Key before the handler runs.
// A key that is already claimed gets 409 without reaching the handler. The
// claim is released when the handler fails, so the client may retry.
// Requests without the header pass through. Store errors fail open.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = shared.DefaultIdempotencyTTL
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > MaxIdempotencyKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
				shared.CodeInvalidInput, "Idempotency-Key is too long", GetRequestID(c)))
			return
		}

		ctx := c.Request.Context()
		scoped := c.Request.Method + " " + c.FullPath() + " " + key
		claimed, err := cfg.Store.Claim(ctx, scoped, ttl)
		if err != nil {
			log.Warn("Idempotency store unavailable, processing request",
				zap.String("request_id", GetRequestID(c)),
				zap.Error(err),
			)
			c.Next()
			return
		}
		if !claimed {
			c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponseWithRequestID(
				shared.CodeConflict, "A request with this Idempotency-Key was already received", GetRequestID(c)))
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			if err := cfg.Store.Release(ctx, scoped); err != nil {
				log.Warn("Failed to release idempotency key",
					zap.String("request_id", GetRequestID(c)),
					zap.Error(err),
				)
			}
		}
	}
}
