// Package metrics exposes Prometheus counters for analysis and prediction runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "trendlens"

// Status label values
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Metrics holds the collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	analysesTotal      *prometheus.CounterVec
	analysisDuration   prometheus.Histogram
	recordsDropped     prometheus.Counter
	predictionsTotal   *prometheus.CounterVec
	eventsPublishFails prometheus.Counter
}

// New registers the collectors plus the Go and process collectors
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		analysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Number of dataset analyses by outcome.",
		}, []string{"status"}),
		analysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Time spent analyzing one dataset.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}),
		recordsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_dropped_total",
			Help:      "Records skipped because entity, period, or value was unusable.",
		}),
		predictionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Language model prediction requests by provider and outcome.",
		}, []string{"provider", "status"}),
		eventsPublishFails: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_publish_failures_total",
			Help:      "Analysis events that could not be published.",
		}),
	}

	reg.MustRegister(
		m.analysesTotal,
		m.analysisDuration,
		m.recordsDropped,
		m.predictionsTotal,
		m.eventsPublishFails,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveAnalysis records the outcome of one analysis. All methods accept a
// nil receiver so callers may run without metrics.
func (m *Metrics) ObserveAnalysis(err error, d time.Duration, dropped int) {
	if m == nil {
		return
	}
	m.analysesTotal.WithLabelValues(status(err)).Inc()
	m.analysisDuration.Observe(d.Seconds())
	if dropped > 0 {
		m.recordsDropped.Add(float64(dropped))
	}
}

// ObservePrediction records one provider call
func (m *Metrics) ObservePrediction(provider string, err error) {
	if m == nil {
		return
	}
	m.predictionsTotal.WithLabelValues(provider, status(err)).Inc()
}

// EventPublishFailed counts an event that could not be published
func (m *Metrics) EventPublishFailed() {
	if m == nil {
		return
	}
	m.eventsPublishFails.Inc()
}

func status(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}
