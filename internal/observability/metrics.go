package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once
	registry     = prometheus.NewRegistry()

	runs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "packetctl",
			Subsystem: "runner",
			Name:      "runs_total",
			Help:      "Transmission runs by mode and outcome.",
		},
		[]string{"mode", "outcome"},
	)
	failures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "packetctl",
			Subsystem: "runner",
			Name:      "failures_total",
			Help:      "Failed runs by stage and error kind.",
		},
		[]string{"stage", "kind"},
	)
	packets = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "packetctl",
			Subsystem: "decode",
			Name:      "packets_total",
			Help:      "Decoded packets by type.",
		},
		[]string{"type"},
	)
	treeDepth = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "packetctl",
			Subsystem: "decode",
			Name:      "tree_depth",
			Help:      "Maximum nesting depth of decoded trees.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		},
	)
	inputBits = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "packetctl",
			Subsystem: "decode",
			Name:      "input_bits",
			Help:      "Bit length of decoded transmissions.",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 10),
		},
	)
	stageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "packetctl",
			Subsystem: "runner",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each run stage in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"stage"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		registry.MustRegister(runs, failures, packets, treeDepth, inputBits, stageDuration)
	})
}

// Registry exposes the package registry for gathering and tests.
func Registry() *prometheus.Registry {
	RegisterMetrics()
	return registry
}

func RecordRun(mode, outcome string) {
	RegisterMetrics()
	runs.WithLabelValues(mode, outcome).Inc()
}

func RecordFailure(stage, kind string) {
	RegisterMetrics()
	failures.WithLabelValues(stage, kind).Inc()
}

func RecordTree(literals, operators, depth, bits int) {
	RegisterMetrics()
	packets.WithLabelValues("literal").Add(float64(literals))
	packets.WithLabelValues("operator").Add(float64(operators))
	treeDepth.Observe(float64(depth))
	inputBits.Observe(float64(bits))
}

func ObserveStage(stage string, duration time.Duration) {
	RegisterMetrics()
	stageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// WriteTextfile writes the registry in Prometheus text format for a node-exporter textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry())
}
