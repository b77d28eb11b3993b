package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the service.
type Metrics struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errors          *prometheus.CounterVec
	mutations       *prometheus.CounterVec
	mirrorWrites    *prometheus.CounterVec
	adviceRequests  *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg. A nil reg uses the default
// registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "support_desk_http_requests_total",
			Help: "HTTP requests by route, method and status",
		}, []string{"path", "method", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "support_desk_http_request_duration_seconds",
			Help:    "HTTP request latency by route and method",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"path", "method"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "support_desk_http_errors_total",
			Help: "HTTP errors by route, method and error code",
		}, []string{"path", "method", "code"}),
		mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "support_desk_store_mutations_total",
			Help: "Store mutations by operation and result",
		}, []string{"operation", "result"}),
		mirrorWrites: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "support_desk_mirror_writes_total",
			Help: "Mirror writes by key and outcome",
		}, []string{"key", "outcome"}),
		adviceRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "support_desk_advice_requests_total",
			Help: "Advice requests by outcome",
		}, []string{"outcome"}),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(path, method, code).Inc()
}

// RecordMutation counts a store mutation. result is "ok" or the error kind.
func (m *Metrics) RecordMutation(operation, result string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(operation, result).Inc()
}

// RecordMirrorWrite counts a mirror write.
func (m *Metrics) RecordMirrorWrite(key string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.mirrorWrites.WithLabelValues(key, outcome).Inc()
}

// RecordAdvice counts an advice request outcome.
func (m *Metrics) RecordAdvice(outcome string) {
	if m == nil {
		return
	}
	m.adviceRequests.WithLabelValues(outcome).Inc()
}
