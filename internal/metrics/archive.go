package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	archiveOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pulseboard",
		Subsystem: "archive",
		Name:      "operations_total",
		Help:      "Count of archive repository operations.",
	}, []string{"operation", "status"})

	archiveOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "pulseboard",
		Subsystem: "archive",
		Name:      "operation_duration_seconds",
		Help:      "Duration of archive repository operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "status"})
)

// Archive implements the sqlite repository metrics interface.
type Archive struct{}

// NewArchive returns the archive metrics recorder.
func NewArchive() *Archive {
	return &Archive{}
}

func (m Archive) Observe(operation string, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	archiveOperationsTotal.WithLabelValues(operation, status).Inc()
	archiveOperationDuration.WithLabelValues(operation, status).Observe(time.Since(started).Seconds())
}
