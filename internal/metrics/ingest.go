// Package metrics exposes Prometheus instrumentation for the ingest
// pipeline and the durable archive.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/pulseboardhq/pulseboard-backend/internal/model"
)

var (
	ingestPayloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pulseboard",
		Subsystem: "ingest",
		Name:      "payloads_total",
		Help:      "Count of processed webhook payloads.",
	}, []string{"status"})

	ingestPayloadDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "pulseboard",
		Subsystem: "ingest",
		Name:      "payload_duration_seconds",
		Help:      "Duration of processing one webhook payload.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})

	ingestPayloadBlocks = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pulseboard",
		Subsystem: "ingest",
		Name:      "payload_blocks",
		Help:      "Number of blocks carried by one webhook payload.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 8), // 1..128
	})

	ingestActivitiesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pulseboard",
		Subsystem: "ingest",
		Name:      "activities_total",
		Help:      "Count of activity records appended to the ledger.",
	}, []string{"type"})

	ingestRollbackBlocksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pulseboard",
		Subsystem: "ingest",
		Name:      "rollback_blocks_total",
		Help:      "Count of blocks retracted by rollbacks.",
	})

	ingestRollbackRecordsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pulseboard",
		Subsystem: "ingest",
		Name:      "rollback_records_total",
		Help:      "Count of activity records removed by rollbacks.",
	})
)

// Ingest implements the tracker metrics interface.
type Ingest struct{}

// NewIngest returns the ingest metrics recorder.
func NewIngest() *Ingest {
	return &Ingest{}
}

func (m Ingest) ObservePayload(err error, blocks int, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	ingestPayloadsTotal.WithLabelValues(status).Inc()
	ingestPayloadDuration.WithLabelValues(status).Observe(time.Since(started).Seconds())
	if blocks > 0 {
		ingestPayloadBlocks.Observe(float64(blocks))
	}
}

func (m Ingest) ObserveActivity(eventType model.EventType) {
	ingestActivitiesTotal.WithLabelValues(string(eventType)).Inc()
}

func (m Ingest) ObserveRollback(blocks, removed int) {
	ingestRollbackBlocksTotal.Add(float64(blocks))
	ingestRollbackRecordsTotal.Add(float64(removed))
}
