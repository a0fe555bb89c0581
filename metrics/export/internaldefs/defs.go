package internaldefs

import (
	b2cflow "github.com/aurelialabs/b2cflow"
)

// CounterDef binds one client counter to its exported name and help text.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   b2cflow.MetricID
	Name string
	Help string
}

// HistogramDef binds one client histogram to its exported name and help text.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   b2cflow.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in a stable order.
var CounterDefs = []CounterDef{
	{ID: b2cflow.MetricSilentCacheHit, Name: "b2cflow_silent_cache_hit_total", Help: "Silent acquisitions served from cache."},
	{ID: b2cflow.MetricSilentRefreshSuccess, Name: "b2cflow_silent_refresh_success_total", Help: "Silent refresh redemptions that replaced an expiring credential."},
	{ID: b2cflow.MetricSilentRefreshFailure, Name: "b2cflow_silent_refresh_failure_total", Help: "Silent refresh redemptions that failed and escalated to interaction."},
	{ID: b2cflow.MetricSilentMiss, Name: "b2cflow_silent_miss_total", Help: "Silent attempts with no cached credential."},
	{ID: b2cflow.MetricInteractiveSuccess, Name: "b2cflow_interactive_success_total", Help: "Completed interactive acquisitions."},
	{ID: b2cflow.MetricInteractiveFailure, Name: "b2cflow_interactive_failure_total", Help: "Failed interactive acquisitions."},
	{ID: b2cflow.MetricPolicyRedirect, Name: "b2cflow_policy_redirect_total", Help: "Automatic redirects to the reset-password authority."},
	{ID: b2cflow.MetricPasswordGrantSuccess, Name: "b2cflow_password_grant_success_total", Help: "Successful resource-owner-password grants."},
	{ID: b2cflow.MetricPasswordGrantFailure, Name: "b2cflow_password_grant_failure_total", Help: "Failed resource-owner-password grants."},
	{ID: b2cflow.MetricSignOut, Name: "b2cflow_sign_out_total", Help: "Sign-out operations."},
	{ID: b2cflow.MetricAccountRemoved, Name: "b2cflow_account_removed_total", Help: "Individual account evictions."},
	{ID: b2cflow.MetricCacheUnavailable, Name: "b2cflow_cache_unavailable_total", Help: "Token-cache backend failures."},
}

// HistogramDefs lists every exported histogram in a stable order.
var HistogramDefs = []HistogramDef{
	{ID: b2cflow.MetricAcquireLatency, Name: "b2cflow_acquire_latency_seconds", Help: "End-to-end acquisition latency histogram."},
}

// HistogramBounds are the upper bucket boundaries rendered as Prometheus
// le label values.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix are metric-name-safe renderings of the bounds used
// by exporters that cannot express le labels.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets widens a raw snapshot slice to the fixed bucket array,
// tolerating short or missing slices.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into the cumulative form
// Prometheus histograms expect.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
