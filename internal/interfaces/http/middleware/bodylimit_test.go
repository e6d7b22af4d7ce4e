package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestBodyLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(limit int64) *gin.Engine {
		router := gin.New()
		router.Use(RequestID(), BodyLimit(limit))
		router.POST("/invoices", func(c *gin.Context) {
			if _, err := io.ReadAll(c.Request.Body); err != nil {
				c.String(http.StatusBadRequest, "body too large")
				return
			}
			c.String(http.StatusOK, "ok")
		})
		return router
	}

	t.Run("allows request within limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/invoices", bytes.NewReader([]byte(`{"note":"x"}`)))
		w := httptest.NewRecorder()
		newRouter(1024).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects declared length over limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/invoices", strings.NewReader(strings.Repeat("x", 200)))
		req.ContentLength = 200
		w := httptest.NewRecorder()
		newRouter(100).ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), "REQUEST_TOO_LARGE")
		assert.Contains(t, w.Body.String(), w.Header().Get(RequestIDHeader))
	})

	t.Run("caps streamed bodies", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/invoices", strings.NewReader(strings.Repeat("x", 100)))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		newRouter(50).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("zero disables the limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/invoices", strings.NewReader(strings.Repeat("x", 4096)))
		w := httptest.NewRecorder()
		newRouter(0).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
