// Package metrics exposes prometheus collectors for the scenario engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ScenarioMetrics aggregates the counters and histograms recorded around
// scenario computation and data loads.
type ScenarioMetrics struct {
	ScenarioRuns     *prometheus.CounterVec
	ScenarioDuration prometheus.Histogram
	OrdersGenerated  prometheus.Counter
	SnapshotLoads    prometheus.Counter
}

// New registers and returns the engine collectors.
func New(reg prometheus.Registerer) *ScenarioMetrics {
	m := &ScenarioMetrics{
		ScenarioRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mrpsim",
			Name:      "scenario_runs_total",
			Help:      "Scenario computations by outcome.",
		}, []string{"outcome"}),
		ScenarioDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "mrpsim",
			Name:      "scenario_duration_seconds",
			Help:      "Wall time of scenario computations.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		OrdersGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mrpsim",
			Name:      "manufacturing_orders_generated_total",
			Help:      "Manufacturing orders emitted across all scenario runs.",
		}),
		SnapshotLoads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mrpsim",
			Name:      "snapshot_loads_total",
			Help:      "Data snapshot loads installed into the store.",
		}),
	}
	reg.MustRegister(m.ScenarioRuns, m.ScenarioDuration, m.OrdersGenerated, m.SnapshotLoads)
	return m
}

// ObserveRun records one scenario computation.
func (m *ScenarioMetrics) ObserveRun(outcome string, elapsed time.Duration, orders int) {
	m.ScenarioRuns.WithLabelValues(outcome).Inc()
	m.ScenarioDuration.Observe(elapsed.Seconds())
	if orders > 0 {
		m.OrdersGenerated.Add(float64(orders))
	}
}
