package acl

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks Prometheus metrics for access-control decisions.
//
// All metrics use the "vaultden_acl_" prefix. Methods handle a nil receiver
// gracefully, so a nil *Metrics acts as a no-op when metrics are disabled.
type Metrics struct {
	// CheckDuration tracks time to evaluate an access decision.
	// Labels: resource=[vault, folder, item]
	CheckDuration *prometheus.HistogramVec

	// CheckTotal counts access decisions by resource and result.
	// Labels: resource=[vault, folder, item], result=[allowed, denied, error]
	CheckTotal *prometheus.CounterVec

	// ResolverDegradedTotal counts principal resolutions that lost a
	// membership source. Labels: source=[store, directory]
	ResolverDegradedTotal *prometheus.CounterVec
}

var (
	metricsOnce     sync.Once
	metricsInstance *Metrics
)

// NewMetrics creates and registers the access-control Prometheus metrics.
//
// If registerer is nil, prometheus.DefaultRegisterer is used. The function
// is idempotent: metrics are registered exactly once, even if called
// multiple times.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	metricsOnce.Do(func() {
		if registerer == nil {
			registerer = prometheus.DefaultRegisterer
		}

		m := &Metrics{
			CheckDuration: prometheus.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "vaultden_acl_check_duration_seconds",
					Help:    "Time to evaluate an access decision",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"resource"},
			),
			CheckTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "vaultden_acl_check_total",
					Help: "Total access decisions by resource and result",
				},
				[]string{"resource", "result"},
			),
			ResolverDegradedTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "vaultden_acl_resolver_degraded_total",
					Help: "Principal resolutions that lost a membership source",
				},
				[]string{"source"},
			),
		}

		registerer.MustRegister(
			m.CheckDuration,
			m.CheckTotal,
			m.ResolverDegradedTotal,
		)

		metricsInstance = m
	})

	return metricsInstance
}

// ObserveCheck records an access decision with its duration.
func (m *Metrics) ObserveCheck(resource string, decision Decision, err error, duration time.Duration) {
	if m == nil {
		return
	}
	m.CheckDuration.WithLabelValues(resource).Observe(duration.Seconds())

	result := "denied"
	switch {
	case err != nil:
		result = "error"
	case decision.HasAccess:
		result = "allowed"
	}
	m.CheckTotal.WithLabelValues(resource, result).Inc()
}

// ObserveResolverDegraded records a principal resolution that continued
// without one of its membership sources.
func (m *Metrics) ObserveResolverDegraded(source string) {
	if m == nil {
		return
	}
	m.ResolverDegradedTotal.WithLabelValues(source).Inc()
}
