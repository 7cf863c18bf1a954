// Package metrics exposes Prometheus instrumentation for the ingestion
// pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RunDuration       *prometheus.HistogramVec
	StageFailures     *prometheus.CounterVec
	SourceRecords     *prometheus.GaugeVec
	IntegratedRecords prometheus.Gauge
	DuplicatesRemoved prometheus.Gauge
	ChunksWritten     prometheus.Gauge
	RecordsExcluded   prometheus.Gauge
}

func New() *Metrics {
	return &Metrics{
		RunDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sanctionwatch_ingest_run_duration_seconds",
			Help:    "Full pipeline run duration by outcome.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}, []string{"status"}),
		StageFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sanctionwatch_ingest_stage_failures_total",
			Help: "Recoverable stage failures by stage.",
		}, []string{"stage"}),
		SourceRecords: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sanctionwatch_ingest_source_records",
			Help: "Records converted per source in the last run.",
		}, []string{"source"}),
		IntegratedRecords: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "sanctionwatch_ingest_integrated_records",
			Help: "Records in the merged corpus after deduplication.",
		}),
		DuplicatesRemoved: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "sanctionwatch_ingest_duplicates_removed",
			Help: "Id collisions resolved in the last merge.",
		}),
		ChunksWritten: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "sanctionwatch_ingest_chunks_written",
			Help: "Chunk files produced by the last split.",
		}),
		RecordsExcluded: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "sanctionwatch_ingest_records_excluded",
			Help: "Records excluded from chunking for exceeding the size limit.",
		}),
	}
}

func (m *Metrics) ObserveRun(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.RunDuration.WithLabelValues(status).Observe(d.Seconds())
}

func (m *Metrics) IncStageFailure(stage string) {
	if m == nil {
		return
	}
	m.StageFailures.WithLabelValues(stage).Inc()
}

func (m *Metrics) SetSourceRecords(source string, n int) {
	if m == nil {
		return
	}
	m.SourceRecords.WithLabelValues(source).Set(float64(n))
}

func (m *Metrics) SetIntegrated(total, duplicates int) {
	if m == nil {
		return
	}
	m.IntegratedRecords.Set(float64(total))
	m.DuplicatesRemoved.Set(float64(duplicates))
}

func (m *Metrics) SetChunks(chunks, excluded int) {
	if m == nil {
		return
	}
	m.ChunksWritten.Set(float64(chunks))
	m.RecordsExcluded.Set(float64(excluded))
}
