package b2cflow

import (
	internalmetrics "github.com/aurelialabs/b2cflow/internal/metrics"
)

// MetricID identifies a specific counter or histogram bucket in the
// in-process metrics system.
type MetricID = internalmetrics.MetricID

const (
	// MetricSilentCacheHit counts silent acquisitions served from cache.
	MetricSilentCacheHit = internalmetrics.MetricSilentCacheHit
	// MetricSilentRefreshSuccess counts silent refresh redemptions that
	// replaced an expiring credential.
	MetricSilentRefreshSuccess = internalmetrics.MetricSilentRefreshSuccess
	// MetricSilentRefreshFailure counts silent refresh redemptions that
	// failed and escalated to interaction.
	MetricSilentRefreshFailure = internalmetrics.MetricSilentRefreshFailure
	// MetricSilentMiss counts silent attempts with no cached credential.
	MetricSilentMiss = internalmetrics.MetricSilentMiss
	// MetricInteractiveSuccess counts completed interactive acquisitions.
	MetricInteractiveSuccess = internalmetrics.MetricInteractiveSuccess
	// MetricInteractiveFailure counts failed interactive acquisitions.
	MetricInteractiveFailure = internalmetrics.MetricInteractiveFailure
	// MetricPolicyRedirect counts automatic redirects to the
	// reset-password authority.
	MetricPolicyRedirect = internalmetrics.MetricPolicyRedirect
	// MetricPasswordGrantSuccess counts successful resource-owner-password
	// grants.
	MetricPasswordGrantSuccess = internalmetrics.MetricPasswordGrantSuccess
	// MetricPasswordGrantFailure counts failed resource-owner-password
	// grants.
	MetricPasswordGrantFailure = internalmetrics.MetricPasswordGrantFailure
	// MetricSignOut counts sign-out operations.
	MetricSignOut = internalmetrics.MetricSignOut
	// MetricAccountRemoved counts individual account evictions.
	MetricAccountRemoved = internalmetrics.MetricAccountRemoved
	// MetricCacheUnavailable counts token-cache backend failures.
	MetricCacheUnavailable = internalmetrics.MetricCacheUnavailable
	// MetricAcquireLatency is the end-to-end acquisition latency histogram.
	MetricAcquireLatency = internalmetrics.MetricAcquireLatency
)

// Metrics holds atomic counters and optional latency histograms.
type Metrics = internalmetrics.Metrics

// MetricsSnapshot is a point-in-time deep copy of all metrics.
type MetricsSnapshot = internalmetrics.Snapshot

// NewMetrics creates a new [Metrics] instance configured by the given
// [MetricsConfig]. When Enabled is false, all operations are no-ops.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return internalmetrics.New(internalmetrics.Config{
		Enabled:       cfg.Enabled,
		EnableLatency: cfg.EnableLatencyHistograms,
	})
}

// MetricsSnapshot returns a deep copy of the client's metric state.
func (c *Client) MetricsSnapshot() MetricsSnapshot {
	if c == nil || c.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return c.metrics.Snapshot()
}

func (c *Client) metricInc(id MetricID) {
	if c == nil || c.metrics == nil {
		return
	}
	c.metrics.Inc(id)
}
