// Package metrics exposes prediction and session counters in the
// Prometheus exposition format.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "aqi"

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	registry *prometheus.Registry

	predictions    *prometheus.CounterVec
	rejected       prometheus.Counter
	endpointCalls  *prometheus.CounterVec
	endpointTiming prometheus.Histogram
	sessionsOpened prometheus.Counter
	sessionsClosed *prometheus.CounterVec
	activeSessions prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Readings produced, by origin and whether the endpoint fell back to demo data.",
		}, []string{"origin", "fallback"}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_rejected_total",
			Help:      "Prediction requests rejected before any source was called.",
		}),
		endpointCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "endpoint_requests_total",
			Help:      "Calls to a prediction endpoint, by result.",
		}, []string{"result"}),
		endpointTiming: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "endpoint_request_duration_seconds",
			Help:      "Latency of prediction endpoint calls.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		sessionsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_opened_total",
			Help:      "Sessions opened.",
		}),
		sessionsClosed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_closed_total",
			Help:      "Sessions removed, by reason (closed or expired).",
		}, []string{"reason"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Sessions currently held in memory.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.predictions,
		m.rejected,
		m.endpointCalls,
		m.endpointTiming,
		m.sessionsOpened,
		m.sessionsClosed,
		m.activeSessions,
	)
	return m
}

// Handler serves the registry. A nil Metrics serves 404.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObservePrediction(origin string, fellBack bool) {
	if m == nil {
		return
	}
	m.predictions.WithLabelValues(origin, strconv.FormatBool(fellBack)).Inc()
}

func (m *Metrics) ObserveRejected() {
	if m == nil {
		return
	}
	m.rejected.Inc()
}

func (m *Metrics) ObserveEndpoint(d time.Duration, ok bool) {
	if m == nil {
		return
	}
	result := "error"
	if ok {
		result = "ok"
	}
	m.endpointCalls.WithLabelValues(result).Inc()
	m.endpointTiming.Observe(d.Seconds())
}

func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.sessionsOpened.Inc()
	m.activeSessions.Inc()
}

// SessionsClosed records n removed sessions; reason is "closed" or "expired".
func (m *Metrics) SessionsClosed(reason string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.sessionsClosed.WithLabelValues(reason).Add(float64(n))
	m.activeSessions.Sub(float64(n))
}
