package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/einvoice/backend/internal/infrastructure/auth"
	"github.com/einvoice/backend/internal/infrastructure/logger"
	"github.com/einvoice/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey  = "jwt_claims"
	JWTUserIDKey  = "jwt_user_id"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// TokenValidator validates a bearer token
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// JWTConfig holds configuration for the JWT middleware
type JWTConfig struct {
	Validator TokenValidator
	// SkipPaths are served without a token
	SkipPaths []string
	Logger    *zap.Logger
}

// JWTAuth requires a valid bearer token and stores the acting user id on
// the gin context and in the request context used for logging.
func JWTAuth(cfg JWTConfig) gin.HandlerFunc {
	skipped := make(map[string]bool, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skipped[p] = true
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		if skipped[c.Request.URL.Path] {
			c.Next()
			return
		}

		header := c.GetHeader(AuthHeaderKey)
		if header == "" {
			abortUnauthorized(c, dto.ErrCodeTokenInvalid, "Missing authorization header")
			return
		}
		token, ok := strings.CutPrefix(header, BearerPrefix)
		if !ok || token == "" {
			abortUnauthorized(c, dto.ErrCodeTokenInvalid, "Invalid authorization header format")
			return
		}

		claims, err := cfg.Validator.ValidateToken(token)
		if err != nil {
			log.Debug("Token rejected",
				zap.String("request_id", GetRequestID(c)),
				zap.Error(err),
			)
			if errors.Is(err, auth.ErrExpiredToken) {
				abortUnauthorized(c, dto.ErrCodeTokenExpired, "Token has expired")
				return
			}
			abortUnauthorized(c, dto.ErrCodeTokenInvalid, "Invalid token")
			return
		}
		userID, err := claims.UserUUID()
		if err != nil {
			abortUnauthorized(c, dto.ErrCodeTokenInvalid, "Invalid token claims")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, userID)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), userID.String()))
		c.Next()
	}
}

// GetJWTUserID returns the user id of the validated token, if any
func GetJWTUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(JWTUserIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.Header("WWW-Authenticate", `Bearer realm="einvoice"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}
