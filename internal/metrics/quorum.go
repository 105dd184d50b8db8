package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	quorumCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "quorum",
		Name:      "calls_total",
		Help:      "Count of quorum consolidated calls.",
	}, []string{"quorum", "operation", "status"})
	quorumCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "quorum",
		Name:      "call_duration_seconds",
		Help:      "Duration until a quorum call agreed or gave up.",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	}, []string{"quorum", "operation", "status"})
	quorumConnectionErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "quorum",
		Name:      "connection_errors_total",
		Help:      "Count of single connection failures inside quorum calls.",
	}, []string{"quorum", "operation"})
)

// Quorum tracks consolidated calls across chain connections.
type Quorum struct{}

func NewQuorum() *Quorum {
	return &Quorum{}
}

// ObserveCall records the outcome of one consolidated call.
func (Quorum) ObserveCall(quorum, operation string, err error, started time.Time) {
	s := status(err)
	quorumCallsTotal.WithLabelValues(orUnknown(quorum), operation, s).Inc()
	quorumCallDuration.WithLabelValues(orUnknown(quorum), operation, s).Observe(time.Since(started).Seconds())
}

// ObserveConnectionError counts a connection that failed to answer.
func (Quorum) ObserveConnectionError(quorum, operation string) {
	quorumConnectionErrorsTotal.WithLabelValues(orUnknown(quorum), operation).Inc()
}
