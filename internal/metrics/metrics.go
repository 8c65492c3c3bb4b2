// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors registered on a single registry.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	URLsShortenedTotal    prometheus.Counter
	URLsDeduplicatedTotal prometheus.Counter
	InvalidURLsTotal      prometheus.Counter
	RedirectsTotal        prometheus.Counter
	NotFoundTotal         prometheus.Counter

	DNSLookupDuration *prometheus.HistogramVec

	EventsProcessedTotal *prometheus.CounterVec
}

// New creates the collectors and registers them, plus the Go and process
// collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "endpoint"},
		),
		URLsShortenedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "urls_shortened_total",
			Help: "Total number of newly allocated short URLs",
		}),
		URLsDeduplicatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "urls_deduplicated_total",
			Help: "Total number of submissions answered with an existing short URL",
		}),
		InvalidURLsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "urls_invalid_total",
			Help: "Total number of rejected submissions",
		}),
		RedirectsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "redirects_total",
			Help: "Total number of successful redirects",
		}),
		NotFoundTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "redirects_not_found_total",
			Help: "Total number of lookups for unknown short URLs",
		}),
		DNSLookupDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dns_lookup_duration_seconds",
				Help:    "Duration of host lookups during URL validation",
				Buckets: []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"result"},
		),
		EventsProcessedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analytics_events_processed_total",
				Help: "Total number of analytics events handled by consumers",
			},
			[]string{"topic", "result"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.URLsShortenedTotal,
		m.URLsDeduplicatedTotal,
		m.InvalidURLsTotal,
		m.RedirectsTotal,
		m.NotFoundTotal,
		m.DNSLookupDuration,
		m.EventsProcessedTotal,
	)

	return m
}

// ObserveLookup records a host lookup; it matches validate.LookupObserver.
func (m *Metrics) ObserveLookup(_ string, elapsed time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}

	m.DNSLookupDuration.WithLabelValues(result).Observe(elapsed.Seconds())
}

// ObserveEvent records a consumed event; it matches messaging.ProcessedHook.
func (m *Metrics) ObserveEvent(topic string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}

	m.EventsProcessedTotal.WithLabelValues(topic, result).Inc()
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
