package router

import (
	"fmt"
	"net/http"

	"github.com/einvoice/backend/internal/domain/shared"
	"github.com/einvoice/backend/internal/infrastructure/logger"
	"github.com/einvoice/backend/internal/interfaces/http/dto"
	"github.com/einvoice/backend/internal/interfaces/http/handler"
	"github.com/einvoice/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Handlers groups the HTTP handlers mounted by New
type Handlers struct {
	Invoice *handler.InvoiceHandler
	Item    *handler.InventoryItemHandler
	Profile *handler.OrgProfileHandler
	Party   *handler.PartyHandler
	System  *handler.SystemHandler
}

// Options configures the engine middleware chain
type Options struct {
	ServiceName    string
	Logger         *zap.Logger
	CORSOrigins    []string
	TrustedProxies []string
	MaxBodySize    int64
	Tracing        bool
	Metrics        *middleware.HTTPMetrics
	Gatherer       prometheus.Gatherer
	// RateLimit throttles the API group; nil disables throttling
	RateLimit gin.HandlerFunc
	// Auth guards the API group; nil serves it unauthenticated
	Auth gin.HandlerFunc
	// Idempotency guards invoice creation; nil disables the guard
	Idempotency gin.HandlerFunc
}

// New builds the gin engine with the full middleware chain and routes
func New(opts Options, h Handlers) (*gin.Engine, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(opts.TrustedProxies); err != nil {
		return nil, fmt.Errorf("set trusted proxies: %w", err)
	}

	engine.Use(middleware.RequestID())
	if opts.Tracing {
		engine.Use(middleware.Tracing(opts.ServiceName)...)
	}
	engine.Use(
		logger.GinMiddleware(log, "/health", "/metrics"),
		logger.Recovery(log),
		middleware.CORS(opts.CORSOrigins),
		middleware.BodyLimit(opts.MaxBodySize),
	)
	if opts.Metrics != nil {
		engine.Use(opts.Metrics.Middleware())
	}

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
			shared.CodeNotFound, "Route not found", middleware.GetRequestID(c)))
	})

	if h.System != nil {
		engine.GET("/health", h.System.Health)
	}
	if opts.Gatherer != nil {
		engine.GET("/metrics", middleware.MetricsHandler(opts.Gatherer))
	}

	r := NewRouter(engine, WithAPIMiddleware(opts.RateLimit, opts.Auth))
	if h.Invoice != nil {
		r.Register(InvoiceRoutes(h.Invoice, opts.Idempotency))
	}
	if h.Item != nil {
		r.Register(InventoryItemRoutes(h.Item))
	}
	if h.Profile != nil {
		r.Register(OrgProfileRoutes(h.Profile))
	}
	if h.Party != nil {
		for _, g := range PartyRoutes(h.Party) {
			r.Register(g)
		}
	}
	r.Setup()

	return engine, nil
}

// InvoiceRoutes mounts the invoice lifecycle under /invoices
func InvoiceRoutes(h *handler.InvoiceHandler, createGuard gin.HandlerFunc) *DomainGroup {
	return NewDomainGroup("invoices", "/invoices").
		POST("", createGuard, h.Create).
		GET("", h.List).
		GET("/:id", h.Get).
		PUT("/:id", h.Update).
		PATCH("/:id/status", h.ChangeStatus).
		DELETE("/:id", h.Delete).
		GET("/:id/archive", h.Archive)
}

// InventoryItemRoutes mounts inventory item CRUD under /inventory-items
func InventoryItemRoutes(h *handler.InventoryItemHandler) *DomainGroup {
	return NewDomainGroup("inventory-items", "/inventory-items").
		POST("", h.Create).
		GET("", h.List).
		GET("/:id", h.Get).
		PUT("/:id", h.Update).
		DELETE("/:id", h.Delete)
}

// OrgProfileRoutes mounts the organization profile under /org-profile
func OrgProfileRoutes(h *handler.OrgProfileHandler) *DomainGroup {
	return NewDomainGroup("org-profile", "/org-profile").
		GET("", h.Get).
		POST("", h.Create).
		PUT("", h.Update).
		POST("/logo", h.UploadLogo).
		POST("/onboard", h.Onboard)
}

// PartyRoutes mounts accounts, clients and users
func PartyRoutes(h *handler.PartyHandler) []*DomainGroup {
	return []*DomainGroup{
		NewDomainGroup("accounts", "/accounts").
			POST("", h.CreateAccount).
			GET("/:id", h.GetAccount),
		NewDomainGroup("clients", "/clients").
			POST("", h.CreateClient).
			GET("/:id", h.GetClient),
		NewDomainGroup("users", "/users").
			POST("", h.CreateUser).
			GET("/:id", h.GetUser),
	}
}
