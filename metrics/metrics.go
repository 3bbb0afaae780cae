package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/zwilias/node-test-runner/types"
)

const (
	MetricsNamespace = "ntr"
)

var (
	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "errors_total",
		Help:      "Count of errors",
	}, []string{
		"error",
	})

	unitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "units_total",
		Help:      "Count of executed units by result",
	}, []string{
		"run_id",
		"result",
	})

	runResults = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_results",
		Help:      "Result of test runs",
	}, []string{
		"run_id",
		"result",
	})

	runUnitCounts = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_unit_counts",
		Help:      "Unit counts per run",
	}, []string{
		"run_id",
		"kind",
	})

	runDurationSeconds = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_duration_seconds",
		Help:      "Duration of test runs in seconds",
	}, []string{
		"run_id",
	})
)

// RecordError increments the error counter for a named error condition.
func RecordError(name string) {
	errorsTotal.WithLabelValues(name).Inc()
}

// RecordUnit records the result of one executed unit.
func RecordUnit(runID string, status types.UnitStatus) {
	unitsTotal.WithLabelValues(runID, string(status)).Inc()
}

// RecordRun records the aggregate outcome of a completed run.
func RecordRun(runID string, status types.UnitStatus, total, passed, failed int, duration time.Duration) {
	runResults.WithLabelValues(runID, string(status)).Set(1)
	runUnitCounts.WithLabelValues(runID, "total").Set(float64(total))
	runUnitCounts.WithLabelValues(runID, "passed").Set(float64(passed))
	runUnitCounts.WithLabelValues(runID, "failed").Set(float64(failed))
	runDurationSeconds.WithLabelValues(runID).Set(duration.Seconds())
}
