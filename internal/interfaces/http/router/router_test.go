package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	invoicingapp "github.com/einvoice/backend/internal/application/invoicing"
	"github.com/einvoice/backend/internal/domain/shared"
	"github.com/einvoice/backend/internal/infrastructure/cache"
	"github.com/einvoice/backend/internal/interfaces/http/handler"
	"github.com/einvoice/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
}

func TestRouterOptions(t *testing.T) {
	r := NewRouter(gin.New(),
		WithAPIVersion("v2"),
		WithAPIMiddleware(nil, func(c *gin.Context) { c.Next() }),
	)

	assert.Equal(t, "v2", r.apiVersion)
	assert.Len(t, r.apiMiddleware, 1)
}

func TestRouterSetupAppliesAPIMiddleware(t *testing.T) {
	engine := gin.New()
	engine.GET("/outside", func(c *gin.Context) { c.String(http.StatusOK, "outside") })

	r := NewRouter(engine, WithAPIMiddleware(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusUnauthorized)
	}))
	r.Register(NewDomainGroup("test", "/test").GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	}))
	api := r.Setup()
	assert.Equal(t, "/api/v1", api.BasePath())

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/test/ping", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/outside", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("invoices", "/invoices")
		assert.Equal(t, "invoices", g.Name())
		assert.Equal(t, "/invoices", g.Prefix())
	})

	t.Run("registers every method", func(t *testing.T) {
		engine := gin.New()
		ok := func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method) }
		g := NewDomainGroup("test", "/test").
			GET("/items", ok).
			POST("/items", ok).
			PUT("/items/:id", ok).
			PATCH("/items/:id", ok).
			DELETE("/items/:id", ok)
		g.RegisterRoutes(engine.Group("/api/v1"))

		tests := []struct {
			method string
			path   string
		}{
			{http.MethodGet, "/api/v1/test/items"},
			{http.MethodPost, "/api/v1/test/items"},
			{http.MethodPut, "/api/v1/test/items/1"},
			{http.MethodPatch, "/api/v1/test/items/1"},
			{http.MethodDelete, "/api/v1/test/items/1"},
		}
		for _, tt := range tests {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, http.StatusOK, w.Code, tt.method+" "+tt.path)
			assert.Equal(t, tt.method, w.Body.String())
		}
	})

	t.Run("drops nil handlers", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test").
			POST("", nil, func(c *gin.Context) { c.String(http.StatusCreated, "created") })
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/test", nil))
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("applies middleware and subgroups", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("org", "/org").Use(func(c *gin.Context) {
			c.Header("X-Test-Middleware", "applied")
			c.Next()
		})
		g.Group("logo", "/logo").POST("", func(c *gin.Context) { c.String(http.StatusOK, "logo") })
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/org/logo", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "applied", w.Header().Get("X-Test-Middleware"))
	})
}

// stubInvoices answers every call with an empty invoice
type stubInvoices struct {
	creates int
}

func (s *stubInvoices) Create(context.Context, invoicingapp.CreateInvoiceRequest) (*invoicingapp.InvoiceDetailResponse, error) {
	s.creates++
	return &invoicingapp.InvoiceDetailResponse{InvoiceResponse: invoicingapp.InvoiceResponse{ID: "1"}}, nil
}

func (s *stubInvoices) Update(context.Context, string, invoicingapp.UpdateInvoiceRequest) (*invoicingapp.InvoiceDetailResponse, error) {
	return &invoicingapp.InvoiceDetailResponse{}, nil
}

func (s *stubInvoices) Delete(context.Context, string) error { return nil }

func (s *stubInvoices) Get(_ context.Context, id string) (*invoicingapp.InvoiceDetailResponse, error) {
	if id != "1" {
		return nil, shared.ErrNotFound
	}
	return &invoicingapp.InvoiceDetailResponse{InvoiceResponse: invoicingapp.InvoiceResponse{ID: id}}, nil
}

func (s *stubInvoices) List(context.Context, invoicingapp.ListInvoicesFilter) (*invoicingapp.InvoiceListResult, error) {
	return &invoicingapp.InvoiceListResult{Page: 1, PageSize: 20}, nil
}

func (s *stubInvoices) ChangeStatus(context.Context, string, invoicingapp.ChangeStatusRequest) (*invoicingapp.InvoiceResponse, error) {
	return &invoicingapp.InvoiceResponse{}, nil
}

func newTestEngine(t *testing.T, opts Options) (*gin.Engine, *stubInvoices) {
	t.Helper()
	invoices := &stubInvoices{}
	engine, err := New(opts, Handlers{
		Invoice: handler.NewInvoiceHandler(invoices, nil),
		System:  handler.NewSystemHandler("einvoice", "test"),
	})
	require.NoError(t, err)
	return engine, invoices
}

func TestNew_ServesHealthAndRequestID(t *testing.T) {
	engine, _ := newTestEngine(t, Options{})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestNew_UnknownRoute(t *testing.T) {
	engine, _ := newTestEngine(t, Options{})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/nothing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), shared.CodeNotFound)
}

func TestNew_InvoiceRoutes(t *testing.T) {
	engine, _ := newTestEngine(t, Options{})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/invoices/1", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/invoices/2", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/invoices", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get(middleware.TotalCountHeader))
}

func TestNew_AuthGuardsAPIOnly(t *testing.T) {
	deny := func(c *gin.Context) { c.AbortWithStatus(http.StatusUnauthorized) }
	engine, _ := newTestEngine(t, Options{Auth: deny})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/invoices", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNew_RateLimitGuardsAPIOnly(t *testing.T) {
	limiter := middleware.NewRateLimiter(0.001, 1)
	defer limiter.Close()
	engine, _ := newTestEngine(t, Options{RateLimit: middleware.RateLimit(limiter)})

	get := func(path string) int {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w.Code
	}

	assert.Equal(t, http.StatusOK, get("/api/v1/invoices"))
	assert.Equal(t, http.StatusTooManyRequests, get("/api/v1/invoices"))
	assert.Equal(t, http.StatusOK, get("/health"))
}

func TestNew_IdempotentCreate(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore(time.Minute)
	defer store.Close()
	engine, invoices := newTestEngine(t, Options{
		Idempotency: middleware.Idempotency(middleware.IdempotencyConfig{Store: store, TTL: time.Minute}),
	})

	post := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices", strings.NewReader(`{}`))
		req.Header.Set(middleware.IdempotencyKeyHeader, "create-1")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusCreated, post())
	assert.Equal(t, http.StatusConflict, post())
	assert.Equal(t, 1, invoices.creates)
}

func TestNew_MetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	engine, _ := newTestEngine(t, Options{
		Metrics:  middleware.NewHTTPMetrics(reg),
		Gatherer: reg,
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "einvoice_http_requests_total")
}

func TestNew_BodyLimit(t *testing.T) {
	engine, invoices := newTestEngine(t, Options{MaxBodySize: 16})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices", strings.NewReader(strings.Repeat("x", 64)))
	req.ContentLength = 64
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Zero(t, invoices.creates)
}
