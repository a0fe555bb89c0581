package metrics

import (
	"sync/atomic"
	"time"
)

// MetricID identifies one counter or histogram.
type MetricID uint8

const (
	MetricSilentCacheHit MetricID = iota
	MetricSilentRefreshSuccess
	MetricSilentRefreshFailure
	MetricSilentMiss
	MetricInteractiveSuccess
	MetricInteractiveFailure
	MetricPolicyRedirect
	MetricPasswordGrantSuccess
	MetricPasswordGrantFailure
	MetricSignOut
	MetricAccountRemoved
	MetricCacheUnavailable
	MetricAcquireLatency

	MetricIDCount
)

// HistogramBucketCount is the fixed bucket count of every latency
// histogram; bounds are defined by the exporters.
const HistogramBucketCount = 8

// histogramBounds are the upper bounds in seconds; the last bucket is +Inf.
var histogramBounds = [HistogramBucketCount - 1]float64{
	0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5,
}

// Config controls which accumulators are active.
type Config struct {
	Enabled       bool
	EnableLatency bool
}

// Metrics holds atomic counters and optional latency histograms. A nil
// *Metrics is valid and ignores all operations.
type Metrics struct {
	latency  bool
	counters [MetricIDCount]atomic.Uint64
	buckets  [MetricIDCount][HistogramBucketCount]atomic.Uint64
}

// Snapshot is a point-in-time deep copy of all metrics.
type Snapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// New creates a Metrics instance. When cfg.Enabled is false it returns nil
// and every operation becomes a no-op.
func New(cfg Config) *Metrics {
	if !cfg.Enabled {
		return nil
	}
	return &Metrics{latency: cfg.EnableLatency}
}

// Inc increments the counter for id.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || id >= MetricIDCount {
		return
	}
	m.counters[id].Add(1)
}

// Observe records one duration sample into the histogram for id.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.latency || id >= MetricIDCount {
		return
	}
	seconds := d.Seconds()
	bucket := HistogramBucketCount - 1
	for i, bound := range histogramBounds {
		if seconds <= bound {
			bucket = i
			break
		}
	}
	m.buckets[id][bucket].Add(1)
}

// Snapshot deep-copies every non-zero counter and histogram.
func (m *Metrics) Snapshot() Snapshot {
	snapshot := Snapshot{
		Counters:   map[MetricID]uint64{},
		Histograms: map[MetricID][]uint64{},
	}
	if m == nil {
		return snapshot
	}

	for id := MetricID(0); id < MetricIDCount; id++ {
		if v := m.counters[id].Load(); v > 0 {
			snapshot.Counters[id] = v
		}
	}
	if !m.latency {
		return snapshot
	}
	for id := MetricID(0); id < MetricIDCount; id++ {
		var total uint64
		buckets := make([]uint64, HistogramBucketCount)
		for i := range buckets {
			buckets[i] = m.buckets[id][i].Load()
			total += buckets[i]
		}
		if total > 0 {
			snapshot.Histograms[id] = buckets
		}
	}
	return snapshot
}
