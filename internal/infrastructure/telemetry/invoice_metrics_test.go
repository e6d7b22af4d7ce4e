package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func TestInvoiceMetrics_Record(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = provider.Shutdown(context.Background()) }()

	m, err := NewInvoiceMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordOperation(ctx, "create", OutcomeSuccess)
	m.RecordOperation(ctx, "create", OutcomeSuccess)
	m.RecordOperation(ctx, "delete", OutcomeRejected)
	m.RecordGatewayCall(ctx, "create", 202, 150*time.Millisecond)
	m.RecordStockMovement(ctx, "reserve")

	data := collect(t, reader)

	ops, ok := data["einvoice_invoice_operations_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	var total int64
	for _, dp := range ops.DataPoints {
		total += dp.Value
	}
	assert.Equal(t, int64(3), total)
	assert.Len(t, ops.DataPoints, 2)

	hist, ok := data["einvoice_gateway_request_duration_seconds"].(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(1), hist.DataPoints[0].Count)
	assert.InDelta(t, 0.15, hist.DataPoints[0].Sum, 1e-9)

	_, ok = data["einvoice_stock_movements_total"].(metricdata.Sum[int64])
	assert.True(t, ok)
}

func TestInvoiceMetrics_NilSafe(t *testing.T) {
	var m *InvoiceMetrics
	ctx := context.Background()
	assert.NotPanics(t, func() {
		m.RecordOperation(ctx, "create", OutcomeError)
		m.RecordGatewayCall(ctx, "delete", 500, time.Second)
		m.RecordStockMovement(ctx, "release")
	})

	_, err := NewInvoiceMetrics(nil)
	assert.ErrorIs(t, err, ErrMeterNil)
	assert.NotNil(t, NewNoopInvoiceMetrics())
}
