package observability

import (
	"context"
	"net/http"
	"time"

	"github.com/aretw0/remap/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records pipeline activity in a private Prometheus registry.
type Metrics struct {
	registry *prometheus.Registry

	stageVisits   *prometheus.CounterVec
	stageRanges   *prometheus.HistogramVec
	splits        *prometheus.CounterVec
	queries       *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers the collectors under the given namespace (e.g. "remap").
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		stageVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stage_visits_total",
				Help:      "Total number of times a stage was applied to a working set",
			},
			[]string{"stage"},
		),
		stageRanges: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "stage_output_ranges",
				Help:      "Number of ranges leaving a stage",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
			},
			[]string{"stage"},
		),
		splits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "range_splits_total",
				Help:      "Total number of input ranges cut into more than one piece",
			},
			[]string{"stage"},
		),
		queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "queries_total",
				Help:      "Total number of queries by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		queryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "query_duration_seconds",
				Help:      "Duration of queries",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
	}
	m.registry.MustRegister(m.stageVisits, m.stageRanges, m.splits, m.queries, m.queryDuration)
	return m
}

// Hooks returns lifecycle hooks feeding the stage collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStageEnter: func(_ context.Context, e *domain.StageEvent) {
			m.stageVisits.WithLabelValues(e.StageID).Inc()
		},
		OnStageLeave: func(_ context.Context, e *domain.StageEvent) {
			m.stageRanges.WithLabelValues(e.StageID).Observe(float64(e.Ranges))
		},
		OnSplit: func(_ context.Context, e *domain.SplitEvent) {
			m.splits.WithLabelValues(e.StageID).Inc()
		},
	}
}

// ObserveQuery records one finished query of the given kind (e.g. "minimum").
func (m *Metrics) ObserveQuery(kind string, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.queries.WithLabelValues(kind, outcome).Inc()
	m.queryDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
