package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	oracleIterationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "oracle",
		Name:      "iterations_total",
		Help:      "Count of chain oracle scan iterations.",
	}, []string{"chain", "status"})
	oracleIterationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "oracle",
		Name:      "iteration_duration_seconds",
		Help:      "Duration of chain oracle scan iterations.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"chain", "status"})
	oracleReceiptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "oracle",
		Name:      "receipt_batches_total",
		Help:      "Count of receipt batch requests.",
	}, []string{"chain", "status"})
	oracleReceiptBatchSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "oracle",
		Name:      "receipt_batch_size",
		Help:      "Number of receipts requested per batch.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
	}, []string{"chain"})
	oracleHead = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "oracle",
		Name:      "head_block",
		Help:      "Latest block numbers seen by the chain oracle.",
	}, []string{"chain", "head"})
)

// Oracle tracks metrics for one chain oracle.
type Oracle struct {
	chain string
}

func NewOracle(chain string) *Oracle {
	return &Oracle{chain: orUnknown(chain)}
}

// ObserveIteration records a full scan iteration.
func (m Oracle) ObserveIteration(err error, started time.Time) {
	s := status(err)
	oracleIterationsTotal.WithLabelValues(m.chain, s).Inc()
	oracleIterationDuration.WithLabelValues(m.chain, s).Observe(time.Since(started).Seconds())
}

// ObserveReceiptBatch records one receipt group request.
func (m Oracle) ObserveReceiptBatch(err error, receipts int) {
	oracleReceiptsTotal.WithLabelValues(m.chain, status(err)).Inc()
	oracleReceiptBatchSize.WithLabelValues(m.chain).Observe(float64(receipts))
}

// ObserveHeads exports the persisted history head and the finalized chain head.
func (m Oracle) ObserveHeads(historyHead, chainHead uint64) {
	oracleHead.WithLabelValues(m.chain, "history").Set(float64(historyHead))
	oracleHead.WithLabelValues(m.chain, "chain").Set(float64(chainHead))
}
