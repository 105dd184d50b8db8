package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	signatoryValidationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "signatory",
		Name:      "validations_total",
		Help:      "Count of bundle validations.",
	}, []string{"result", "status"})
	signatoryValidationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "signatory",
		Name:      "validation_duration_seconds",
		Help:      "Duration of bundle validations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"result", "status"})
)

// Signatory tracks bundle validation in the signatory service.
type Signatory struct{}

func NewSignatory() *Signatory {
	return &Signatory{}
}

// ObserveValidation records a validation; cached reports whether the LRU answered it.
func (Signatory) ObserveValidation(err error, cached bool, started time.Time) {
	result := "computed"
	if cached {
		result = "cached"
	}
	s := status(err)
	signatoryValidationsTotal.WithLabelValues(result, s).Inc()
	signatoryValidationDuration.WithLabelValues(result, s).Observe(time.Since(started).Seconds())
}
