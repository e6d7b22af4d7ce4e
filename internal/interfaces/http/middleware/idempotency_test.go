package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/einvoice/backend/internal/infrastructure/cache"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{}

func (failingStore) Claim(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("redis: connection refused")
}
func (failingStore) Release(context.Context, string) error { return nil }
func (failingStore) Close() error                          { return nil }

func newIdempotentRouter(cfg IdempotencyConfig, status *int, calls *int) *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.POST("/api/v1/invoices", Idempotency(cfg), func(c *gin.Context) {
		*calls++
		c.JSON(*status, gin.H{"success": *status < 400})
	})
	return router
}

func postInvoice(router *gin.Engine, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices", strings.NewReader(`{}`))
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIdempotency_RepeatedKeyConflicts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := cache.NewInMemoryIdempotencyStore(time.Minute)
	defer store.Close()

	status, calls := http.StatusCreated, 0
	router := newIdempotentRouter(IdempotencyConfig{Store: store, TTL: time.Hour}, &status, &calls)

	first := postInvoice(router, "order-7781")
	assert.Equal(t, http.StatusCreated, first.Code)

	second := postInvoice(router, "order-7781")
	assert.Equal(t, http.StatusConflict, second.Code)
	assert.Contains(t, second.Body.String(), "CONFLICT")
	assert.Equal(t, 1, calls)

	other := postInvoice(router, "order-7782")
	assert.Equal(t, http.StatusCreated, other.Code)
	assert.Equal(t, 2, calls)
}

func TestIdempotency_FailureReleasesKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := cache.NewInMemoryIdempotencyStore(time.Minute)
	defer store.Close()

	status, calls := http.StatusInternalServerError, 0
	router := newIdempotentRouter(IdempotencyConfig{Store: store}, &status, &calls)

	require.Equal(t, http.StatusInternalServerError, postInvoice(router, "retry-me").Code)

	status = http.StatusCreated
	assert.Equal(t, http.StatusCreated, postInvoice(router, "retry-me").Code)
	assert.Equal(t, 2, calls)
}

func TestIdempotency_WithoutHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := cache.NewInMemoryIdempotencyStore(time.Minute)
	defer store.Close()

	status, calls := http.StatusCreated, 0
	router := newIdempotentRouter(IdempotencyConfig{Store: store}, &status, &calls)

	postInvoice(router, "")
	postInvoice(router, "")
	assert.Equal(t, 2, calls)
	assert.Equal(t, 0, store.Size())
}

func TestIdempotency_KeyTooLong(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := cache.NewInMemoryIdempotencyStore(time.Minute)
	defer store.Close()

	status, calls := http.StatusCreated, 0
	router := newIdempotentRouter(IdempotencyConfig{Store: store}, &status, &calls)

	w := postInvoice(router, strings.Repeat("k", MaxIdempotencyKeyLength+1))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, calls)
}

func TestIdempotency_StoreErrorFailsOpen(t *testing.T) {
	gin.SetMode(gin.TestMode)

	status, calls := http.StatusCreated, 0
	router := newIdempotentRouter(IdempotencyConfig{Store: failingStore{}}, &status, &calls)

	assert.Equal(t, http.StatusCreated, postInvoice(router, "k1").Code)
	assert.Equal(t, http.StatusCreated, postInvoice(router, "k1").Code)
	assert.Equal(t, 2, calls)
}
