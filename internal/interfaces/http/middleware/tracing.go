package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracing returns the otelgin server-span middleware followed by a handler
// that tags the span with the request and user ids. Responses of 500 and
// above mark the span as failed.
func Tracing(serviceName string) []gin.HandlerFunc {
	return []gin.HandlerFunc{otelgin.Middleware(serviceName), enrichSpan}
}

// enrichSpan runs inside the otelgin span, so the span is still open after c.Next
func enrichSpan(c *gin.Context) {
	span := trace.SpanFromContext(c.Request.Context())
	if !span.IsRecording() {
		c.Next()
		return
	}
	if id := GetRequestID(c); id != "" {
		span.SetAttributes(attribute.String("request_id", id))
	}

	c.Next()

	if id, ok := GetJWTUserID(c); ok {
		span.SetAttributes(attribute.String("user_id", id.String()))
	}
	if status := c.Writer.Status(); status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, http.StatusText(status))
	}
}
