// Package metrics holds the Prometheus collectors shared by the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "billsplit"

var (
	// RPCRequests counts finished RPCs by procedure and Connect code.
	RPCRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rpc_requests_total",
		Help:      "Finished RPCs by procedure and result code.",
	}, []string{"procedure", "code"})

	RPCDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rpc_duration_seconds",
		Help:      "RPC latency by procedure.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"procedure"})

	// SelectionRejections counts selection mutations refused by a quantity rule.
	SelectionRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "selection_rejections_total",
		Help:      "Selection mutations rejected, by reason.",
	}, []string{"reason"})

	Extractions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "extractions_total",
		Help:      "Receipt extraction attempts by outcome.",
	}, []string{"outcome"})

	// ExtractionDuration covers OCR plus structuring.
	ExtractionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "extraction_duration_seconds",
		Help:      "Time spent extracting a receipt.",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
	})

	Allocations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "allocations_total",
		Help:      "Allocations computed for summaries and settlements.",
	})
)

// Extraction outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)
