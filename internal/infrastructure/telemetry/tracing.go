// Package telemetry wires OpenTelemetry tracing, metrics and logs into the service.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// TracerName is the tracer used for business spans
	TracerName = "einvoice-backend"
)

// SpanOption configures span start options
type SpanOption func(*spanOptions)

type spanOptions struct {
	attributes []attribute.KeyValue
	kind       trace.SpanKind
}

// WithAttribute adds an attribute to the span
func WithAttribute(key string, value any) SpanOption {
	return func(opts *spanOptions) {
		opts.attributes = append(opts.attributes, toAttribute(key, value))
	}
}

// WithSpanKind sets the span kind
func WithSpanKind(kind trace.SpanKind) SpanOption {
	return func(opts *spanOptions) {
		opts.kind = kind
	}
}

// StartSpan starts a span named spanName. The caller must End it.
//
//	ctx, span := telemetry.StartSpan(ctx, "invoice.create")
//	defer span.End()
func StartSpan(ctx context.Context, spanName string, opts ...SpanOption) (context.Context, trace.Span) {
	options := &spanOptions{
		kind: trace.SpanKindInternal,
	}
	for _, opt := range opts {
		opt(options)
	}

	tracer := otel.GetTracerProvider().Tracer(TracerName)

	startOpts := []trace.SpanStartOption{
		trace.WithSpanKind(options.kind),
	}
	if len(options.attributes) > 0 {
		startOpts = append(startOpts, trace.WithAttributes(options.attributes...))
	}

	return tracer.Start(ctx, spanName, startOpts...)
}

// StartServiceSpan starts a span named {service}.{method}, e.g. "invoice.update"
func StartServiceSpan(ctx context.Context, service, method string, opts ...SpanOption) (context.Context, trace.Span) {
	return StartSpan(ctx, fmt.Sprintf("%s.%s", service, method), opts...)
}

// SetAttributes adds key/value pairs to a span. Keys must be strings;
// pairs with a non-string key are skipped.
//
//	telemetry.SetAttributes(span,
//	    telemetry.SpanAttrInvoiceID, inv.ID,
//	    telemetry.SpanAttrLineCount, len(inv.Services),
//	)
func SetAttributes(span trace.Span, keyValues ...any) {
	if span == nil {
		return
	}
	span.SetAttributes(toAttributes(keyValues)...)
}

// SetAttribute adds a single attribute to the span
func SetAttribute(span trace.Span, key string, value any) {
	if span == nil {
		return
	}
	span.SetAttributes(toAttribute(key, value))
}

// RecordError records err on the span and marks the span as failed
func RecordError(span trace.Span, err error, opts ...trace.EventOption) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err, opts...)
	span.SetStatus(codes.Error, err.Error())
}

// SetOK marks the span as successful
func SetOK(span trace.Span) {
	if span == nil {
		return
	}
	span.SetStatus(codes.Ok, "")
}

// AddEvent adds a time-stamped event with key/value attributes
//
//	telemetry.AddEvent(span, "stock_reserved",
//	    telemetry.SpanAttrItemCode, code,
//	    telemetry.SpanAttrQuantity, qty.String(),
//	)
func AddEvent(span trace.Span, name string, keyValues ...any) {
	if span == nil {
		return
	}
	span.AddEvent(name, trace.WithAttributes(toAttributes(keyValues)...))
}

// SpanFromContext returns the current span from the context
func SpanFromContext(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}

// GetTraceID returns the trace id of the span in ctx, or "" if there is none
func GetTraceID(ctx context.Context) string {
	traceID := trace.SpanFromContext(ctx).SpanContext().TraceID()
	if !traceID.IsValid() {
		return ""
	}
	return traceID.String()
}

// GetSpanID returns the span id of the span in ctx, or "" if there is none
func GetSpanID(ctx context.Context) string {
	spanID := trace.SpanFromContext(ctx).SpanContext().SpanID()
	if !spanID.IsValid() {
		return ""
	}
	return spanID.String()
}

func toAttributes(keyValues []any) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(keyValues)/2)
	for i := 0; i+1 < len(keyValues); i += 2 {
		key, ok := keyValues[i].(string)
		if !ok {
			continue
		}
		attrs = append(attrs, toAttribute(key, keyValues[i+1]))
	}
	return attrs
}

func toAttribute(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case bool:
		return attribute.Bool(key, v)
	case []string:
		return attribute.StringSlice(key, v)
	case []int:
		return attribute.IntSlice(key, v)
	case []int64:
		return attribute.Int64Slice(key, v)
	case fmt.Stringer:
		return attribute.String(key, v.String())
	default:
		return attribute.String(key, fmt.Sprintf("%v", v))
	}
}

// Span attribute keys used by the application services
const (
	SpanAttrInvoiceID     = "invoice_id"
	SpanAttrInvoiceUUID   = "invoice_uuid"
	SpanAttrInvoiceType   = "invoice_type"
	SpanAttrInvoiceStatus = "invoice_status"
	SpanAttrLineCount     = "line_count"

	SpanAttrClientID  = "client_id"
	SpanAttrAccountID = "account_id"

	SpanAttrItemCode = "item_code"
	SpanAttrQuantity = "quantity"

	SpanAttrEGSClient    = "egs_client_name"
	SpanAttrHTTPStatus   = "http_status"
	SpanAttrGatewayRoute = "gateway_route"
)
