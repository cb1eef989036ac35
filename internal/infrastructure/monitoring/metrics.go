// Package monitoring exposes Prometheus metrics for the AI pipeline and
// credit gate.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors published on /metrics.
type Metrics struct {
	generationRequests *prometheus.CounterVec
	generationSeconds  *prometheus.HistogramVec
	creditDenials      prometheus.Counter
}

// NewMetrics registers the collectors with the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		generationRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "avionmeals",
			Subsystem: "ai",
			Name:      "generation_requests_total",
			Help:      "AI generation requests by action and outcome.",
		}, []string{"action", "outcome"}),
		generationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "avionmeals",
			Subsystem: "ai",
			Name:      "generation_duration_seconds",
			Help:      "Wall time of AI generation requests by action.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"action"}),
		creditDenials: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "avionmeals",
			Subsystem: "credits",
			Name:      "denials_total",
			Help:      "Requests rejected by the credit gate.",
		}),
	}
}

// ObserveGeneration records one finished generation request. Safe on a nil
// receiver so tests can run without a registry.
func (m *Metrics) ObserveGeneration(action, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.generationRequests.WithLabelValues(action, outcome).Inc()
	m.generationSeconds.WithLabelValues(action).Observe(seconds)
}

// CreditDenied records one credit-gate rejection.
func (m *Metrics) CreditDenied() {
	if m == nil {
		return
	}
	m.creditDenials.Inc()
}
