// Package telemetry configures OpenTelemetry tracing for install tasks.
//
// Tracing is exported over OTLP/HTTP when OTEL_EXPORTER_OTLP_ENDPOINT is
// set; otherwise a no-op tracer is used.
package telemetry

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// InstrumentationName names the tracer.
const InstrumentationName = "neviraller/task"

// Provider owns the tracer and its shutdown hook.
type Provider struct {
	tracer   oteltrace.Tracer
	provider *sdktrace.TracerProvider
}

// New returns an exporting provider when OTEL_EXPORTER_OTLP_ENDPOINT is
// set and a no-op provider otherwise.
func New(ctx context.Context, version string) (*Provider, error) {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		return Noop(), nil
	}

	u := endpointURL(endpoint, os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") != "false")
	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(u))
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	serviceName := os.Getenv("OTEL_SERVICE_NAME")
	if serviceName == "" {
		serviceName = "neviraller"
	}
	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
		semconv.ServiceVersionKey.String(version),
	)

	return FromSDK(sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)), nil
}

// endpointURL accepts a full URL ("http://localhost:4318") or a bare
// host:port, which gets http:// unless insecure transport is disabled.
func endpointURL(endpoint string, insecure bool) string {
	endpoint = strings.TrimSpace(endpoint)
	if strings.Contains(endpoint, "://") {
		return endpoint
	}
	if insecure {
		return "http://" + endpoint
	}
	return "https://" + endpoint
}

// FromSDK wraps an SDK provider, e.g. one with a span recorder in tests.
func FromSDK(p *sdktrace.TracerProvider) *Provider {
	return &Provider{tracer: p.Tracer(InstrumentationName), provider: p}
}

// Noop returns a provider whose spans are discarded.
func Noop() *Provider {
	return &Provider{tracer: noop.NewTracerProvider().Tracer(InstrumentationName)}
}

// Tracer returns the tracer. A nil Provider yields a no-op tracer.
func (p *Provider) Tracer() oteltrace.Tracer {
	if p == nil {
		return noop.NewTracerProvider().Tracer(InstrumentationName)
	}
	return p.tracer
}

// Enabled reports whether spans are exported.
func (p *Provider) Enabled() bool {
	return p != nil && p.provider != nil
}

// Shutdown flushes pending spans.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.provider == nil {
		return nil
	}
	return p.provider.Shutdown(ctx)
}

// Attribute keys set on task spans.
var (
	KeyPlan    = attribute.Key("neviraller.plan")
	KeyStep    = attribute.Key("neviraller.step")
	KeyIndex   = attribute.Key("neviraller.step.index")
	KeyStatus  = attribute.Key("neviraller.status")
	KeyCommand = attribute.Key("neviraller.shell.command")
)
