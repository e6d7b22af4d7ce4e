package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// ErrMeterNil is returned when a metrics constructor receives no meter
var ErrMeterNil = errors.New("telemetry: meter is nil")

// Outcome labels
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// InvoiceMetrics records lifecycle and gateway activity.
// A nil *InvoiceMetrics is valid and records nothing.
type InvoiceMetrics struct {
	operations      metric.Int64Counter
	gatewayDuration metric.Float64Histogram
	stockMovements  metric.Int64Counter
}

// NewInvoiceMetrics registers the invoice instruments on meter
func NewInvoiceMetrics(meter metric.Meter) (*InvoiceMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	operations, err := meter.Int64Counter("einvoice_invoice_operations_total",
		metric.WithDescription("Invoice lifecycle operations by outcome"),
		metric.WithUnit("{operations}"),
	)
	if err != nil {
		return nil, fmt.Errorf("operations counter: %w", err)
	}

	gatewayDuration, err := meter.Float64Histogram("einvoice_gateway_request_duration_seconds",
		metric.WithDescription("Latency of compliance gateway calls"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(GatewayDurationBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("gateway duration histogram: %w", err)
	}

	stockMovements, err := meter.Int64Counter("einvoice_stock_movements_total",
		metric.WithDescription("Inventory stock reservations and releases"),
		metric.WithUnit("{movements}"),
	)
	if err != nil {
		return nil, fmt.Errorf("stock movements counter: %w", err)
	}

	return &InvoiceMetrics{
		operations:      operations,
		gatewayDuration: gatewayDuration,
		stockMovements:  stockMovements,
	}, nil
}

// NewNoopInvoiceMetrics returns metrics backed by a no-op meter
func NewNoopInvoiceMetrics() *InvoiceMetrics {
	m, _ := NewInvoiceMetrics(noop.NewMeterProvider().Meter(TracerName))
	return m
}

// RecordOperation counts one lifecycle operation (create, update, delete, change_status)
func (m *InvoiceMetrics) RecordOperation(ctx context.Context, operation, outcome string) {
	if m == nil {
		return
	}
	m.operations.Add(ctx, 1, metric.WithAttributes(AttrOperation.String(operation), AttrOutcome.String(outcome)))
}

// RecordGatewayCall records the latency and status of one gateway request
func (m *InvoiceMetrics) RecordGatewayCall(ctx context.Context, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.gatewayDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		AttrGatewayRoute.String(route),
		attribute.Int(string(AttrHTTPStatus), status),
	))
}

// RecordStockMovement counts a reservation or release of inventory
func (m *InvoiceMetrics) RecordStockMovement(ctx context.Context, movement string) {
	if m == nil {
		return
	}
	m.stockMovements.Add(ctx, 1, metric.WithAttributes(AttrStockMovement.String(movement)))
}
