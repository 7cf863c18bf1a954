// Package metrics exposes Prometheus instrumentation for the search engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	SearchDuration *prometheus.HistogramVec
	CacheTotal     *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		SearchDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sanctionwatch_search_duration_seconds",
			Help:    "Search latency by query mode.",
			Buckets: prometheus.DefBuckets,
		}, []string{"mode"}),
		CacheTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sanctionwatch_search_detail_cache_total",
			Help: "Detail cache lookups by outcome.",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) ObserveSearch(mode string, d time.Duration) {
	if m == nil {
		return
	}
	m.SearchDuration.WithLabelValues(mode).Observe(d.Seconds())
}

func (m *Metrics) IncCache(outcome string) {
	if m == nil {
		return
	}
	m.CacheTotal.WithLabelValues(outcome).Inc()
}
