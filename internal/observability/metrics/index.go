package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// IndexMetrics observes the retrieval index cache. It satisfies the
// cache observer interface, so attach it with SetObserver.
type IndexMetrics struct {
	registry *prometheus.Registry

	cacheHitsTotal   prometheus.Counter
	cacheMissesTotal prometheus.Counter
	rebuildsTotal    prometheus.Counter
	rebuildDuration  prometheus.Histogram
	indexedChunks    prometheus.Gauge
}

func NewIndexMetrics(service string) *IndexMetrics {
	registry := prometheus.NewRegistry()
	labels := prometheus.Labels{"service": service}

	cacheHitsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   "lda",
		Subsystem:   "index",
		Name:        "cache_hits_total",
		Help:        "Total index lookups served from the in-memory cache.",
		ConstLabels: labels,
	})
	cacheMissesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   "lda",
		Subsystem:   "index",
		Name:        "cache_misses_total",
		Help:        "Total index lookups that had to load or build the index.",
		ConstLabels: labels,
	})
	rebuildsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   "lda",
		Subsystem:   "index",
		Name:        "rebuilds_total",
		Help:        "Total full index builds from the corpus.",
		ConstLabels: labels,
	})
	rebuildDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace:   "lda",
		Subsystem:   "index",
		Name:        "rebuild_duration_seconds",
		Help:        "Full index build duration in seconds.",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		ConstLabels: labels,
	})
	indexedChunks := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   "lda",
		Subsystem:   "index",
		Name:        "chunks",
		Help:        "Number of chunks in the most recently built index.",
		ConstLabels: labels,
	})

	registry.MustRegister(cacheHitsTotal, cacheMissesTotal, rebuildsTotal, rebuildDuration, indexedChunks)

	return &IndexMetrics{
		registry:         registry,
		cacheHitsTotal:   cacheHitsTotal,
		cacheMissesTotal: cacheMissesTotal,
		rebuildsTotal:    rebuildsTotal,
		rebuildDuration:  rebuildDuration,
		indexedChunks:    indexedChunks,
	}
}

func (m *IndexMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *IndexMetrics) CacheHit() {
	m.cacheHitsTotal.Inc()
}

func (m *IndexMetrics) CacheMiss() {
	m.cacheMissesTotal.Inc()
}

func (m *IndexMetrics) Rebuild(chunks int, took time.Duration) {
	m.rebuildsTotal.Inc()
	m.rebuildDuration.Observe(took.Seconds())
	m.indexedChunks.Set(float64(chunks))
}
