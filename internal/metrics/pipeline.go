package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pipelineStageTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "stage_bundles_total",
		Help:      "Count of bundles handled by a pipeline stage.",
	}, []string{"stage", "status"})
	pipelineStageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "stage_duration_seconds",
		Help:      "Time a pipeline stage spent on one bundle.",
		Buckets:   []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60, 120},
	}, []string{"stage", "status"})
	pipelineRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "retries_total",
		Help:      "Count of retried operations.",
	}, []string{"operation"})
	pipelineQueueLength = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "queue_length",
		Help:      "Number of bundles waiting in a pipeline queue.",
	}, []string{"queue"})
	pipelineTip = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "destination_tip",
		Help:      "Latest destination block number agreed by the quorum.",
	})
	pipelineBalance = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "entity_balance",
		Help:      "Destination balance of bridge entities in base units.",
	}, []string{"entity"})
)

// Pipeline tracks the bundle relay stages.
type Pipeline struct{}

func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// ObserveStage records one bundle passing (or failing) a stage.
func (Pipeline) ObserveStage(stage string, err error, started time.Time) {
	s := status(err)
	pipelineStageTotal.WithLabelValues(stage, s).Inc()
	pipelineStageDuration.WithLabelValues(stage, s).Observe(time.Since(started).Seconds())
}

func (Pipeline) ObserveRetry(operation string) {
	pipelineRetriesTotal.WithLabelValues(operation).Inc()
}

func (Pipeline) ObserveQueueLength(queue string, length int) {
	pipelineQueueLength.WithLabelValues(queue).Set(float64(length))
}

func (Pipeline) ObserveTip(number uint64) {
	pipelineTip.Set(float64(number))
}

func (Pipeline) ObserveBalance(entity string, balance float64) {
	pipelineBalance.WithLabelValues(entity).Set(balance)
}
