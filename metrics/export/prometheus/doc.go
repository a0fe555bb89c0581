// Package prometheus renders b2cflow metrics in Prometheus text exposition format.
//
// [NewPrometheusExporter] accepts a [b2cflow.Client] and exposes an [http.Handler]
// that renders all client counters and histograms. Counter names are prefixed
// b2cflow_*_total; the single histogram is b2cflow_acquire_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry; callers mount the Handler.
//   - Mutate client state.
package prometheus
