package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewTracerProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	cfg := Config{
		Enabled:           false,
		CollectorEndpoint: "localhost:4317",
		SamplingRatio:     1.0,
		ServiceName:       "einvoice-test",
	}

	tp, err := NewTracerProvider(ctx, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("test"))
	assert.NoError(t, tp.ForceFlush(ctx))
	assert.NoError(t, tp.Shutdown(ctx))
}

func TestSamplerFor(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{1.0, "AlwaysOnSampler"},
		{2.0, "AlwaysOnSampler"},
		{0.0, "AlwaysOffSampler"},
		{-1, "AlwaysOffSampler"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, samplerFor(tt.ratio).Description())
	}
	assert.Contains(t, samplerFor(0.25).Description(), "TraceIDRatioBased{0.25}")
}

func TestNewResource(t *testing.T) {
	res, err := newResource("einvoice-test")
	require.NoError(t, err)

	found := false
	for _, attr := range res.Attributes() {
		if attr.Key == "service.name" {
			found = true
			assert.Equal(t, "einvoice-test", attr.Value.AsString())
		}
	}
	assert.True(t, found)
}
