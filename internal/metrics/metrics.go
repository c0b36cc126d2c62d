// Package metrics defines the prometheus collectors of the server.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/emilythestrangee/devflow/backend/internal/apperrors"
)

const namespace = "devflow"

// Metrics holds the collectors registered on one registry.
type Metrics struct {
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	actionFailures *prometheus.CounterVec
	tagUpserts     prometheus.Counter
	aiCompletions  *prometheus.CounterVec
}

var _ apperrors.Recorder = (*Metrics)(nil)

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),

		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),

		actionFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "action_failures_total",
			Help:      "Failed actions by operation and error kind",
		}, []string{"operation", "kind"}),

		tagUpserts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tag_upserts_total",
			Help:      "Tag upserts performed while writing questions",
		}),

		aiCompletions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_completions_total",
			Help:      "AI answer generations by result",
		}, []string{"result"}),
	}
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveFailure records a normalized action failure.
func (m *Metrics) ObserveFailure(operation string, kind apperrors.Kind) {
	m.actionFailures.WithLabelValues(operation, string(kind)).Inc()
}

// AddTagUpserts records n tag upserts.
func (m *Metrics) AddTagUpserts(n int) {
	m.tagUpserts.Add(float64(n))
}

// ObserveCompletion records the result of an AI completion.
func (m *Metrics) ObserveCompletion(ok bool) {
	result := "success"
	if !ok {
		result = "error"
	}
	m.aiCompletions.WithLabelValues(result).Inc()
}
