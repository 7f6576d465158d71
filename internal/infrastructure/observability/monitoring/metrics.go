// Package monitoring provides prometheus metrics for the attribution
// capture pipeline.
package monitoring

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the prometheus instruments for the attribution pipeline.
// Store write failures are counted here so a degraded store is diagnosable
// without ever surfacing to the visitor.
type Metrics struct {
	RequestsIntercepted prometheus.Counter
	SessionsCreated     prometheus.Counter
	StoreWrites         *prometheus.CounterVec
	StoreWriteDuration  prometheus.Observer
	ConversionEvents    *prometheus.CounterVec
}

var (
	metricsOnce sync.Once
	metricsInst *Metrics
)

// NewMetrics returns the process-wide metrics instance. Instruments are
// registered once with the default registry.
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		metricsInst = newMetrics()
	})
	return metricsInst
}

func newMetrics() *Metrics {
	return &Metrics{
		RequestsIntercepted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "beacon",
			Subsystem: "attribution",
			Name:      "requests_intercepted_total",
			Help:      "Requests processed by the attribution interceptor",
		}),
		SessionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "beacon",
			Subsystem: "attribution",
			Name:      "sessions_created_total",
			Help:      "New session identifiers minted",
		}),
		StoreWrites: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "beacon",
			Subsystem: "attribution",
			Name:      "store_writes_total",
			Help:      "Attribution store upserts, labeled by result",
		}, []string{"status"}),
		StoreWriteDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "beacon",
			Subsystem: "attribution",
			Name:      "store_write_duration_seconds",
			Help:      "Duration of attribution store upserts",
			Buckets:   prometheus.DefBuckets,
		}),
		ConversionEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "beacon",
			Subsystem: "meta",
			Name:      "conversion_events_total",
			Help:      "Meta Conversions API events dispatched, labeled by result",
		}, []string{"status"}),
	}
}
