package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DiffMetrics contains Prometheus metrics for version comparisons and
// migration mapping builds.
type DiffMetrics struct {
	comparisonsTotal   prometheus.Counter
	comparisonDuration prometheus.Histogram
	changesTotal       *prometheus.CounterVec
	renamesTotal       prometheus.Counter
	mappingBuildsTotal *prometheus.CounterVec

	collectors []prometheus.Collector
}

// NewDiffMetrics creates and registers new diff metrics.
func NewDiffMetrics(registry *prometheus.Registry) (*DiffMetrics, error) {
	m := &DiffMetrics{}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *DiffMetrics) initMetrics() {
	m.comparisonsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "diff_comparisons_total",
			Help: "Total number of two-version comparisons",
		},
	)

	m.comparisonDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "diff_comparison_duration_seconds",
			Help:    "Time taken for a two-version comparison",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		},
	)

	m.changesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diff_changes_total",
			Help: "Classified changes by change type",
		},
		[]string{"change_type"},
	)

	m.renamesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "diff_rename_candidates_total",
			Help: "Rename candidates accepted by the rename heuristic",
		},
	)

	m.mappingBuildsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "migration_mapping_builds_total",
			Help: "Migration mapping builds by cache result",
		},
		[]string{"cache"}, // cache: hit, miss
	)

	m.collectors = []prometheus.Collector{
		m.comparisonsTotal,
		m.comparisonDuration,
		m.changesTotal,
		m.renamesTotal,
		m.mappingBuildsTotal,
	}
}

// Describe implements prometheus.Collector.
func (m *DiffMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, c := range m.collectors {
		c.Describe(ch)
	}
}

// Collect implements prometheus.Collector.
func (m *DiffMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, c := range m.collectors {
		c.Collect(ch)
	}
}

// RecordComparison records one completed comparison.
func (m *DiffMetrics) RecordComparison(duration time.Duration) {
	if m == nil {
		return
	}
	m.comparisonsTotal.Inc()
	m.comparisonDuration.Observe(duration.Seconds())
}

// RecordChange records one classified change.
func (m *DiffMetrics) RecordChange(changeType string) {
	if m == nil {
		return
	}
	m.changesTotal.WithLabelValues(changeType).Inc()
}

// RecordRename records one accepted rename candidate.
func (m *DiffMetrics) RecordRename() {
	if m == nil {
		return
	}
	m.renamesTotal.Inc()
}

// RecordMappingBuild records one mapping build request.
func (m *DiffMetrics) RecordMappingBuild(cacheResult string) {
	if m == nil {
		return
	}
	m.mappingBuildsTotal.WithLabelValues(cacheResult).Inc()
}
