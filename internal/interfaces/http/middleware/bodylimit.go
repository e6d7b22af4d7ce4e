package middleware

import (
	"net/http"

	"github.com/einvoice/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// BodyLimit rejects requests whose declared length exceeds maxBytes and caps
// streamed bodies at the same size. A non-positive limit disables the check.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRequestTooLarge,
				"Request body exceeds maximum allowed size",
				GetRequestID(c),
			))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
