package coordinator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "portfolio_client"

// Metrics are the coordinator's Prometheus collectors.
type Metrics struct {
	Refreshes       *prometheus.CounterVec
	RefreshDuration prometheus.Histogram
	Queued          prometheus.Counter
	Replays         *prometheus.CounterVec
	Waiting         prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Refreshes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "session_refresh_total",
				Help:      "Session refresh attempts by result",
			},
			[]string{"result"},
		),
		RefreshDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "session_refresh_duration_seconds",
				Help:      "Duration of session refresh calls in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),
		Queued: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "session_expired_requests_total",
				Help:      "Requests that failed with the session-expired status and were queued behind a refresh",
			},
		),
		Replays: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "request_replays_total",
				Help:      "Queued requests settled after a refresh, by outcome",
			},
			[]string{"outcome"},
		),
		Waiting: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "requests_waiting_for_refresh",
				Help:      "Requests currently queued behind an in-flight refresh",
			},
		),
	}
}
