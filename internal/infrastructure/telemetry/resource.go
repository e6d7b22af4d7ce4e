package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
)

// ServiceVersion is reported on every exported span, metric and log record
const ServiceVersion = "1.0.0"

func newResource(serviceName string) (*resource.Resource, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}

const shutdownTimeout = 10 * time.Second

// shutdownProvider runs shutdown with a bounded deadline
func shutdownProvider(ctx context.Context, signal string, shutdown func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown %s provider: %w", signal, err)
	}
	return nil
}
