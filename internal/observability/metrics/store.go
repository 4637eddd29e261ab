// Package metrics provides Prometheus metric collectors for the taxonomy
// engine subsystems.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics contains Prometheus metrics for snapshot store operations.
type StoreMetrics struct {
	snapshotLoadsTotal   *prometheus.CounterVec
	snapshotLoadDuration prometheus.Histogram
	snapshotEntities     *prometheus.GaugeVec
	cacheOperationsTotal *prometheus.CounterVec
	artifactSkipsTotal   prometheus.Counter

	collectors []prometheus.Collector
}

// NewStoreMetrics creates and registers new snapshot store metrics.
func NewStoreMetrics(registry *prometheus.Registry) (*StoreMetrics, error) {
	m := &StoreMetrics{}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *StoreMetrics) initMetrics() {
	m.snapshotLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mslstore_snapshot_loads_total",
			Help: "Total number of snapshot materializations",
		},
		[]string{"status"}, // status: success, error
	)

	m.snapshotLoadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mslstore_snapshot_load_duration_seconds",
			Help:    "Time taken to materialize a snapshot from the store",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
	)

	m.snapshotEntities = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mslstore_snapshot_entities",
			Help: "Entity count of the most recently loaded snapshot per version",
		},
		[]string{"version"},
	)

	m.cacheOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mslstore_cache_operations_total",
			Help: "Snapshot cache lookups",
		},
		[]string{"result"}, // result: hit, miss
	)

	m.artifactSkipsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mslstore_artifact_skips_total",
			Help: "Entity artifacts skipped during snapshot load due to parse failures",
		},
	)

	m.collectors = []prometheus.Collector{
		m.snapshotLoadsTotal,
		m.snapshotLoadDuration,
		m.snapshotEntities,
		m.cacheOperationsTotal,
		m.artifactSkipsTotal,
	}
}

// Describe implements prometheus.Collector.
func (m *StoreMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, c := range m.collectors {
		c.Describe(ch)
	}
}

// Collect implements prometheus.Collector.
func (m *StoreMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, c := range m.collectors {
		c.Collect(ch)
	}
}

// RecordSnapshotLoad records one snapshot materialization.
func (m *StoreMetrics) RecordSnapshotLoad(version, status string, entities int, duration time.Duration) {
	if m == nil {
		return
	}
	m.snapshotLoadsTotal.WithLabelValues(status).Inc()
	m.snapshotLoadDuration.Observe(duration.Seconds())
	if status == "success" {
		m.snapshotEntities.WithLabelValues(version).Set(float64(entities))
	}
}

// RecordCacheHit records a snapshot cache hit.
func (m *StoreMetrics) RecordCacheHit() {
	if m == nil {
		return
	}
	m.cacheOperationsTotal.WithLabelValues("hit").Inc()
}

// RecordCacheMiss records a snapshot cache miss.
func (m *StoreMetrics) RecordCacheMiss() {
	if m == nil {
		return
	}
	m.cacheOperationsTotal.WithLabelValues("miss").Inc()
}

// RecordArtifactSkip records one unparseable entity artifact.
func (m *StoreMetrics) RecordArtifactSkip() {
	if m == nil {
		return
	}
	m.artifactSkipsTotal.Inc()
}
