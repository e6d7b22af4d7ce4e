package handler

import (
	"context"
	"net/http"
	"runtime"
	"sort"
	"time"

	"github.com/einvoice/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// healthCheckTimeout bounds every dependency probe
const healthCheckTimeout = 2 * time.Second

// HealthCheck probes one dependency
type HealthCheck func(ctx context.Context) error

// SystemHandler serves the health endpoint
type SystemHandler struct {
	BaseHandler
	name      string
	version   string
	startTime time.Time
	checks    map[string]HealthCheck
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(name, version string) *SystemHandler {
	return &SystemHandler{
		name:      name,
		version:   version,
		startTime: time.Now(),
		checks:    make(map[string]HealthCheck),
	}
}

// AddCheck registers a dependency probe reported by Health
func (h *SystemHandler) AddCheck(name string, check HealthCheck) *SystemHandler {
	h.checks[name] = check
	return h
}

// HealthResponse represents the health endpoint body
type HealthResponse struct {
	Status    string            `json:"status" example:"ok"`
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	GoVersion string            `json:"go_version"`
	Uptime    string            `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Health godoc
//
//	@Summary	Service health
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	dto.Response
//	@Failure	503	{object}	dto.Response
//	@Router		/health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:    "ok",
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	if len(names) > 0 {
		resp.Checks = make(map[string]string, len(names))
	}
	for _, name := range names {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		err := h.checks[name](ctx)
		cancel()
		if err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	if status != http.StatusOK {
		body := dto.NewErrorResponseWithRequestID(dto.ErrCodeUnhealthy, "One or more dependencies are unavailable", getRequestID(c))
		body.Data = resp
		c.JSON(status, body)
		return
	}
	c.JSON(status, dto.NewSuccessResponse(resp))
}
