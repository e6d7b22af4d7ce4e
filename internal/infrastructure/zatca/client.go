// Package zatca is the HTTP client of the e-invoicing compliance backend.
package zatca

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	appinvoicing "github.com/einvoice/backend/internal/application/invoicing"
	apporganization "github.com/einvoice/backend/internal/application/organization"
	"github.com/einvoice/backend/internal/domain/compliance"
	"github.com/einvoice/backend/internal/domain/invoicing"
	"github.com/einvoice/backend/internal/domain/organization"
	"github.com/einvoice/backend/internal/infrastructure/config"
	"github.com/einvoice/backend/internal/infrastructure/logger"
	"github.com/einvoice/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// maxResponseSize limits the response body read from the authority
	maxResponseSize = 10 * 1024 * 1024

	// HeaderEGSClientName identifies the registered seller on invoice calls
	HeaderEGSClientName = "egsClientName"

	defaultTimeout = 30 * time.Second
)

// Gateway routes, used as span names and metric labels
const (
	RouteSubmitCreate = "submit_create"
	RouteSubmitUpdate = "submit_update"
	RouteSubmitDelete = "submit_delete"
	RouteOnboard      = "onboard"
)

// ErrBaseURLRequired is returned when the client has no authority address
var ErrBaseURLRequired = errors.New("zatca: base URL is required")

// Client calls the compliance backend. Every call returns a Result; transport
// errors become status 500 with a {"message": ...} body.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    *telemetry.InvoiceMetrics
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithMetrics records the latency of every call
func WithMetrics(m *telemetry.InvoiceMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithLogger sets the client logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a Client from configuration. A positive RateLimit caps
// outbound requests per second.
func NewClient(cfg config.ZatcaConfig, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrBaseURLRequired
	}
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("zatca: invalid base URL: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     zap.NewNop(),
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = max(1, int(cfg.RateLimit))
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SubmitCreate posts a new document
func (c *Client) SubmitCreate(ctx context.Context, doc *invoicing.Document, egsClientName string) compliance.Result {
	return c.send(ctx, RouteSubmitCreate, http.MethodPost, "/invoice/create", doc, egsClientName)
}

// SubmitUpdate replaces the document registered under invoiceUUID
func (c *Client) SubmitUpdate(ctx context.Context, doc *invoicing.Document, invoiceUUID, egsClientName string) compliance.Result {
	return c.send(ctx, RouteSubmitUpdate, http.MethodPut, "/invoice/"+url.PathEscape(invoiceUUID), doc, egsClientName)
}

// SubmitDelete removes the document registered under invoiceUUID
func (c *Client) SubmitDelete(ctx context.Context, invoiceUUID, egsClientName string) compliance.Result {
	return c.send(ctx, RouteSubmitDelete, http.MethodDelete, "/invoice/"+url.PathEscape(invoiceUUID), nil, egsClientName)
}

// Onboard registers an EGS unit
func (c *Client) Onboard(ctx context.Context, o *organization.Onboarding) compliance.Result {
	return c.send(ctx, RouteOnboard, http.MethodPost, "/onboardClient", onboardPayload(o), "")
}

func (c *Client) send(ctx context.Context, route, method, path string, body any, egsClientName string) compliance.Result {
	ctx, span := telemetry.StartServiceSpan(ctx, "zatca", route,
		telemetry.WithSpanKind(trace.SpanKindClient),
		telemetry.WithAttribute(telemetry.SpanAttrGatewayRoute, route),
	)
	defer span.End()

	start := time.Now()
	res, err := c.do(ctx, method, path, body, egsClientName)
	if err != nil {
		res = compliance.TransportFailure(err)
		telemetry.RecordError(span, err)
		logger.Enrich(ctx, c.logger).Error("Compliance backend unreachable",
			zap.String("route", route),
			zap.Error(err),
		)
	}
	c.metrics.RecordGatewayCall(ctx, route, res.Status, time.Since(start))
	telemetry.SetAttributes(span, telemetry.SpanAttrHTTPStatus, res.Status)
	if err == nil && res.Succeeded() {
		telemetry.SetOK(span)
	}
	return res
}

func (c *Client) do(ctx context.Context, method, path string, body any, egsClientName string) (compliance.Result, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return compliance.Result{}, fmt.Errorf("rate limit: %w", err)
		}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return compliance.Result{}, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return compliance.Result{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if egsClientName != "" {
		req.Header.Set(HeaderEGSClientName, EncodeHeaderValue(egsClientName))
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return compliance.Result{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return compliance.Result{}, fmt.Errorf("read response: %w", err)
	}
	return compliance.Result{Status: resp.StatusCode, Data: data}, nil
}

// EncodeHeaderValue percent-encodes s the way browsers encode a URI
// component: everything except letters, digits and -_.!~*'() is escaped.
func EncodeHeaderValue(s string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
	return componentUnescaper.Replace(escaped)
}

var componentUnescaper = strings.NewReplacer(
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

func onboardPayload(o *organization.Onboarding) map[string]string {
	return map[string]string{
		"otp":                     o.OTP,
		"egs_client_name":         o.EGSClientName,
		"vat_registration_number": o.VATRegistrationNumber,
		"city":                    o.City,
		"address":                 o.Address,
		"country_code":            o.CountryCode,
		"business_type":           o.BusinessType,
		"location_address":        o.LocationAddress,
		"industry_type":           o.IndustryType,
		"contact_number":          o.ContactNumber,
		"email":                   o.Email,
		"zip_code":                o.ZipCode,
		"organization_unit":       o.OrganizationUnit,
	}
}

var (
	_ appinvoicing.ComplianceGateway = (*Client)(nil)
	_ apporganization.Onboarder      = (*Client)(nil)
)
