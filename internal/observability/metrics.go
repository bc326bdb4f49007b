// Package observability holds the Prometheus metrics and OpenTelemetry
// tracing used around station construction and queries.
package observability

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"

	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/models"
)

// Outcome labels.
const (
	OutcomeOK               = "ok"
	OutcomeUnknownStation   = "unknown_station"
	OutcomeEmptySelection   = "empty_selection"
	OutcomeUnknownAntenna   = "unknown_antenna"
	OutcomeIncompatibleUnit = "incompatible_unit"
	OutcomeTableError       = "table_error"
	OutcomeError            = "error"
)

// Outcome classifies err into one of the outcome labels.
func Outcome(err error) string {
	var (
		unknownStation *models.UnknownStationError
		emptySelection *models.EmptySelectionError
		unknownAntenna *models.UnknownAntennaError
		incompatible   *models.IncompatibleUnitError
		tableErr       *models.TableError
	)
	switch {
	case err == nil:
		return OutcomeOK
	case errors.As(err, &unknownStation):
		return OutcomeUnknownStation
	case errors.As(err, &emptySelection):
		return OutcomeEmptySelection
	case errors.As(err, &unknownAntenna):
		return OutcomeUnknownAntenna
	case errors.As(err, &incompatible):
		return OutcomeIncompatibleUnit
	case errors.As(err, &tableErr):
		return OutcomeTableError
	default:
		return OutcomeError
	}
}

// Collector bundles the Prometheus metrics of the station service. A nil
// *Collector records nothing.
type Collector struct {
	gatherer prometheus.Gatherer

	Builds        *prometheus.CounterVec
	BuildDuration *prometheus.HistogramVec
	Queries       *prometheus.CounterVec
	TableLoads    *prometheus.CounterVec
	CacheLookups  *prometheus.CounterVec
}

// NewCollector registers the metrics against reg, defaulting to the global
// Prometheus registry when nil. Registering twice on the same registry
// returns the existing collectors.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	builds, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "station_builds_total",
		Help: "Station constructions, labeled by kind and outcome.",
	}, []string{"kind", "outcome"}), "station_builds_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "station_build_duration_seconds",
		Help:    "Station construction latency in seconds.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"kind"}), "station_build_duration_seconds")
	if err != nil {
		return nil, err
	}

	queries, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "station_queries_total",
		Help: "Station queries, labeled by operation and outcome.",
	}, []string{"op", "outcome"}), "station_queries_total")
	if err != nil {
		return nil, err
	}

	loads, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coordinate_table_loads_total",
		Help: "Coordinate table reads from the backing source, labeled by outcome.",
	}, []string{"outcome"}), "coordinate_table_loads_total")
	if err != nil {
		return nil, err
	}

	lookups, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coordinate_table_cache_lookups_total",
		Help: "Coordinate table cache lookups, labeled by result (hit, miss, expired).",
	}, []string{"result"}), "coordinate_table_cache_lookups_total")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:      gatherer,
		Builds:        builds,
		BuildDuration: durations,
		Queries:       queries,
		TableLoads:    loads,
		CacheLookups:  lookups,
	}, nil
}

func (c *Collector) ObserveBuild(kind models.Kind, err error, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.Builds.WithLabelValues(kind.String(), Outcome(err)).Inc()
	c.BuildDuration.WithLabelValues(kind.String()).Observe(elapsed.Seconds())
}

func (c *Collector) ObserveQuery(op string, err error) {
	if c == nil {
		return
	}
	c.Queries.WithLabelValues(op, Outcome(err)).Inc()
}

func (c *Collector) ObserveTableLoad(err error) {
	if c == nil {
		return
	}
	c.TableLoads.WithLabelValues(Outcome(err)).Inc()
}

func (c *Collector) ObserveCacheLookup(result string) {
	if c == nil {
		return
	}
	c.CacheLookups.WithLabelValues(result).Inc()
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// WriteSummary writes one line per counter and histogram series, e.g.
//
//	station_builds_total{kind="full",outcome="ok"} 1
func (c *Collector) WriteSummary(w io.Writer) error {
	if c == nil {
		return nil
	}
	families, err := c.gatherer.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var value string
			switch {
			case m.GetCounter() != nil:
				value = fmt.Sprintf("%g", m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				value = fmt.Sprintf("count=%d sum=%gs", h.GetSampleCount(), h.GetSampleSum())
			default:
				continue
			}
			if _, err := fmt.Fprintf(w, "%s%s %s\n", mf.GetName(), formatLabels(m.GetLabel()), value); err != nil {
				return err
			}
		}
	}
	return nil
}

func formatLabels(labels []*dto.LabelPair) string {
	if len(labels) == 0 {
		return ""
	}
	parts := make([]string, len(labels))
	for i, lp := range labels {
		parts[i] = fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue())
	}
	sort.Strings(parts)
	return "{" + strings.Join(parts, ",") + "}"
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
