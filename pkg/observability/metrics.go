package observability

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/orderdesk/pkg/domain"
	"github.com/aretw0/orderdesk/pkg/orders"
)

var _ orders.Observer = (*Metrics)(nil)

// Metrics records desk activity as Prometheus series on its own registry.
type Metrics struct {
	registry   *prometheus.Registry
	intents    *prometheus.CounterVec
	results    *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	stockDrift *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them, plus the Go and process
// collectors, on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		intents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orderdesk_intents_total",
				Help: "Classified utterances by intent",
			},
			[]string{"intent"},
		),
		results: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orderdesk_results_total",
				Help: "Handler results by status",
			},
			[]string{"status"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "orderdesk_handle_duration_seconds",
				Help:    "Duration of handler calls",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"intent"},
		),
		stockDrift: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orderdesk_stock_drift_total",
				Help: "Stock adjustments that could not be applied after retries",
			},
			[]string{"model"},
		),
	}
	m.registry.MustRegister(
		m.intents, m.results, m.latency, m.stockDrift,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the registry, e.g. for adding host collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) OnIntent(_ context.Context, _ string, in domain.Intent) {
	m.intents.WithLabelValues(in.String()).Inc()
}

func (m *Metrics) OnResult(_ context.Context, _ string, res domain.Result, elapsed time.Duration) {
	m.results.WithLabelValues(string(res.Status)).Inc()
	m.latency.WithLabelValues(res.Intent.String()).Observe(elapsed.Seconds())
}

func (m *Metrics) OnStockDrift(_ context.Context, model string, _ error) {
	m.stockDrift.WithLabelValues(model).Inc()
}

// Register adds extra collectors, ignoring ones already registered.
func (m *Metrics) Register(cs ...prometheus.Collector) error {
	for _, c := range cs {
		if err := m.registry.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if !errors.As(err, &already) {
				return err
			}
		}
	}
	return nil
}
