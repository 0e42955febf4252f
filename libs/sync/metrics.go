package sync

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	prometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

const (
	// MetricsSubsystem is a subsystem shared by all metrics exposed by this
	// package.
	MetricsSubsystem = "sharedcell"
)

// Metrics contains metrics exposed by this package.
type Metrics struct {
	// Number of completed lock acquisitions, by access.
	Accesses metrics.Counter
	// Time spent waiting to acquire a cell lock.
	LockWaitSeconds metrics.Histogram
	// Number of cells that became poisoned.
	Poisonings metrics.Counter
	// Number of accesses rejected because the cell was poisoned, by access.
	PoisonedAccesses metrics.Counter
}

// PrometheusMetrics returns Metrics backed by the default Prometheus registry.
func PrometheusMetrics(namespace string, labelsAndValues ...string) *Metrics {
	labels := []string{}
	for i := 0; i < len(labelsAndValues); i += 2 {
		labels = append(labels, labelsAndValues[i])
	}
	opLabels := append(append([]string{}, labels...), "op")
	return &Metrics{
		Accesses: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "accesses",
			Help:      "Number of completed lock acquisitions, by access.",
		}, opLabels).With(labelsAndValues...),
		LockWaitSeconds: prometheus.NewHistogramFrom(stdprometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "lock_wait_seconds",
			Help:      "Time spent waiting to acquire a cell lock.",
			Buckets: stdprometheus.ExponentialBuckets(0.000001, 10, 8),
		}, labels).With(labelsAndValues...),
		Poisonings: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "poisonings",
			Help:      "Number of cells that became poisoned.",
		}, labels).With(labelsAndValues...),
		PoisonedAccesses: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "poisoned_accesses",
			Help:      "Number of accesses rejected because the cell was poisoned, by access.",
		}, opLabels).With(labelsAndValues...),
	}
}

// NopMetrics returns Metrics that discard every observation.
func NopMetrics() *Metrics {
	return &Metrics{
		Accesses:         discard.NewCounter(),
		LockWaitSeconds:  discard.NewHistogram(),
		Poisonings:       discard.NewCounter(),
		PoisonedAccesses: discard.NewCounter(),
	}
}
