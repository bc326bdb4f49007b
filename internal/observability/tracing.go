package observability

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// TracingConfig governs how tracing is initialised.
type TracingConfig struct {
	Enabled     bool
	ServiceName string
	SampleRatio float64
	// Writer receives the exported spans; os.Stderr when nil.
	Writer io.Writer
}

// TracingConfigFromEnv reads TRACING_ENABLED, TRACING_SERVICE_NAME and
// TRACING_SAMPLE_RATIO.
func TracingConfigFromEnv() TracingConfig {
	service := os.Getenv("TRACING_SERVICE_NAME")
	if service == "" {
		service = "low-station"
	}

	ratio := 1.0
	if raw := os.Getenv("TRACING_SAMPLE_RATIO"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed >= 0 && parsed <= 1 {
			ratio = parsed
		}
	}

	return TracingConfig{
		Enabled:     strings.EqualFold(os.Getenv("TRACING_ENABLED"), "true"),
		ServiceName: service,
		SampleRatio: ratio,
	}
}

// InitTracing installs the global tracer provider and returns a shutdown
// function that flushes pending spans.
func InitTracing(ctx context.Context, cfg TracingConfig) (func(context.Context) error, error) {
	if !cfg.Enabled {
		otel.SetTracerProvider(noop.NewTracerProvider())
		log.Debug().Msg("Tracing disabled")
		return func(context.Context) error { return nil }, nil
	}

	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}
	exp, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithoutTimestamps())
	if err != nil {
		return nil, fmt.Errorf("create exporter: %w", err)
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		attribute.String("service.name", cfg.ServiceName),
	))
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	log.Info().Str("service_name", cfg.ServiceName).Float64("sample_ratio", cfg.SampleRatio).Msg("Tracing enabled")
	return tp.Shutdown, nil
}

// ShutdownWithTimeout invokes shutdown with a bounded timeout, logging any
// error.
func ShutdownWithTimeout(ctx context.Context, shutdown func(context.Context) error) {
	if shutdown == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("Tracing shutdown failed")
	}
}
