// File: internal/infra/metrics/generation.go
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		genOutcomes,
		genLatencyMs,
		genPromptBlocks,
		loopFaults,
	)
}

var (
	genOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generation_outcomes_total",
			Help: "Generation attempts by outcome (image/advisory/failure).",
		},
		[]string{"provider", "outcome"},
	)

	genLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "generation_latency_ms",
			Help:    "Image backend call latency distribution in milliseconds.",
			Buckets: []float64{100, 250, 500, 1000, 2000, 4000, 8000, 16000, 30000, 60000},
		},
		[]string{"provider", "success"},
	)

	genPromptBlocks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "generation_prompt_blocks_total",
			Help: "Prompts rejected before any backend call (empty/whitespace).",
		},
	)

	loopFaults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_loop_faults_total",
			Help: "Unhandled faults recovered at the dispatch loop boundary.",
		},
		[]string{"category"},
	)
)

func IncGenerationOutcome(provider, outcome string) {
	genOutcomes.WithLabelValues(norm(provider), norm(outcome)).Inc()
}

func ObserveGenerationLatency(provider string, latencyMs int64, success bool) {
	genLatencyMs.WithLabelValues(norm(provider), strconv.FormatBool(success)).
		Observe(float64(latencyMs))
}

func IncPromptBlocked() {
	genPromptBlocks.Inc()
}

func IncLoopFault(category string) {
	loopFaults.WithLabelValues(norm(category)).Inc()
}
