package distill

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RunsTotal counts distillation runs.
	// Labels: result (success, invalid_input, internal)
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jsondistill",
			Subsystem: "distill",
			Name:      "runs_total",
			Help:      "Total number of distillation runs by result",
		},
		[]string{"result"},
	)

	// InputBytes tracks the size of distilled documents.
	InputBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "jsondistill",
			Subsystem: "distill",
			Name:      "input_bytes",
			Help:      "Size of input documents in bytes",
			Buckets:   prometheus.ExponentialBuckets(256, 4, 10),
		},
	)

	// ReductionRatio tracks input size divided by output size.
	ReductionRatio = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "jsondistill",
			Subsystem: "distill",
			Name:      "reduction_ratio",
			Help:      "Input bytes divided by output bytes",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 50, 100, 1000},
		},
	)

	// FoldedItemsTotal counts list items replaced by summary records.
	FoldedItemsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "jsondistill",
			Subsystem: "distill",
			Name:      "folded_items_total",
			Help:      "Total number of list items folded into summaries",
		},
	)

	// SecretsRedactedTotal counts redacted secrets.
	// Labels: rule
	SecretsRedactedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jsondistill",
			Subsystem: "distill",
			Name:      "secrets_redacted_total",
			Help:      "Total number of secrets redacted before distillation",
		},
		[]string{"rule"},
	)
)

// resultLabel maps a run error to the RunsTotal result label.
func resultLabel(err error) string {
	if err == nil {
		return "success"
	}
	if kind := KindOf(err); kind != 0 {
		return kind.String()
	}
	return "error"
}
