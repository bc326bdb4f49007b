// Package service builds stations for the transports, recording metrics and
// trace spans around each construction.
package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/cache"
	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/catalog"
	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/observability"
	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/station"
)

const tracerName = "github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/service"

// Builder constructs stations from a catalog. It is safe for concurrent use.
type Builder struct {
	catalog *catalog.Catalog
	metrics *observability.Collector
	tracer  trace.Tracer
	cache   *cache.TableCache
}

// NewBuilder returns a Builder over cat. metrics may be nil.
func NewBuilder(cat *catalog.Catalog, metrics *observability.Collector) *Builder {
	return &Builder{
		catalog: cat,
		metrics: metrics,
		tracer:  otel.Tracer(tracerName),
	}
}

// Build constructs the station described by spec.
func (b *Builder) Build(ctx context.Context, spec station.Spec) (*station.Station, error) {
	ctx, span := b.tracer.Start(ctx, "station.build", trace.WithAttributes(
		attribute.String("station.kind", spec.Kind.String()),
		attribute.String("station.name", spec.Name),
		attribute.String("station.parent", spec.Canonical()),
		attribute.StringSlice("station.patterns", spec.Patterns),
	))
	defer span.End()

	start := time.Now()
	s, err := station.New(ctx, b.catalog, spec)
	b.metrics.ObserveBuild(spec.Kind, err, time.Since(start))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, observability.Outcome(err))
		log.Debug().Err(err).Str("station", spec.Canonical()).Msg("Station build failed")
		return nil, err
	}

	span.SetAttributes(attribute.Int("station.members", s.Len()))
	return s, nil
}

// ValidStations lists the full-station names.
func (b *Builder) ValidStations(ctx context.Context) ([]string, error) {
	return b.catalog.ValidNames(ctx)
}

// ObserveQuery records the outcome of a station query.
func (b *Builder) ObserveQuery(op string, err error) {
	b.metrics.ObserveQuery(op, err)
}

// Metrics returns the collector, nil when metrics are disabled.
func (b *Builder) Metrics() *observability.Collector {
	return b.metrics
}

// CacheStats reports the coordinate table cache counters, nil when the
// cache is disabled.
func (b *Builder) CacheStats() map[string]uint64 {
	if b.cache == nil {
		return nil
	}
	return b.cache.GetCacheStats()
}

// ClearCache drops every cached coordinate table.
func (b *Builder) ClearCache() {
	if b.cache == nil {
		return
	}
	b.cache.Clear()
	log.Info().Msg("Coordinate table cache cleared")
}
