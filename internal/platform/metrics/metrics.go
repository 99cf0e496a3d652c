// Package metrics agrupa los collectors Prometheus del servicio.
// Todos los métodos aceptan receptor nil para que los servicios no dependan
// de que haya métricas configuradas.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "grievances"

type Metrics struct {
	registry *prometheus.Registry

	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	submissions   prometheus.Counter
	photoFailures prometheus.Counter
	transitions   *prometheus.CounterVec
	bulkWrites    *prometheus.CounterVec
	subscribers   prometheus.Gauge
}

// New crea un registry propio (no el global) para poder instanciarlo varias veces en tests.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		submissions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Grievances accepted by the submission builder.",
		}),
		photoFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "photo_upload_failures_total",
			Help:      "Photo uploads that failed and were dropped from a submission.",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_transitions_total",
			Help:      "Persisted status transitions by origin and target status.",
		}, []string{"from", "to"}),
		bulkWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bulk_writes_total",
			Help:      "Bulk operations by action and result.",
		}, []string{"action", "result"}),
		subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "feed_subscribers",
			Help:      "Active live snapshot subscriptions.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.submissions,
		m.photoFailures,
		m.transitions,
		m.bulkWrites,
		m.subscribers,
	)
	return m
}

// Handler expone el registry en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveHTTP(method, route string, code int, d time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) SubmissionAccepted() {
	if m == nil {
		return
	}
	m.submissions.Inc()
}

func (m *Metrics) PhotoUploadFailed() {
	if m == nil {
		return
	}
	m.photoFailures.Inc()
}

func (m *Metrics) StatusTransition(from, to string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) BulkWrite(action string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.bulkWrites.WithLabelValues(action, result).Inc()
}

func (m *Metrics) SubscriberAdded() {
	if m == nil {
		return
	}
	m.subscribers.Inc()
}

func (m *Metrics) SubscriberRemoved() {
	if m == nil {
		return
	}
	m.subscribers.Dec()
}

// Collectors de solo lectura para tests de otros paquetes.

func (m *Metrics) Submissions() prometheus.Collector   { return m.submissions }
func (m *Metrics) PhotoFailures() prometheus.Collector { return m.photoFailures }
func (m *Metrics) Subscribers() prometheus.Collector   { return m.subscribers }
func (m *Metrics) Transitions(from, to string) prometheus.Collector {
	return m.transitions.WithLabelValues(from, to)
}
