// Package metrics exposes Prometheus instrumentation for the feed adapters.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	FetchDuration *prometheus.HistogramVec
	FetchTotal    *prometheus.CounterVec
	RecordCount   *prometheus.GaugeVec
}

func New() *Metrics {
	return &Metrics{
		FetchDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sanctionwatch_source_fetch_duration_seconds",
			Help:    "Time to fetch and parse one feed.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		}, []string{"source", "outcome"}),
		FetchTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sanctionwatch_source_fetch_total",
			Help: "Feed fetch attempts by outcome.",
		}, []string{"source", "outcome"}),
		RecordCount: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sanctionwatch_source_records",
			Help: "Records parsed from the last successful fetch.",
		}, []string{"source"}),
	}
}

func (m *Metrics) ObserveFetch(source, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.FetchDuration.WithLabelValues(source, outcome).Observe(d.Seconds())
	m.FetchTotal.WithLabelValues(source, outcome).Inc()
}

func (m *Metrics) SetRecordCount(source string, n int) {
	if m == nil {
		return
	}
	m.RecordCount.WithLabelValues(source).Set(float64(n))
}
