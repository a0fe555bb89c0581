// Package metrics implements lock-free in-process counters and latency
// histograms for acquisition operations.
//
// # Architecture boundaries
//
// This package owns atomic accumulation and snapshotting. Metric meaning
// (which ID increments when) belongs to the Client; rendering belongs to
// the exporters under metrics/export.
//
// # What this package must NOT do
//
//   - Allocate on the Inc/Observe hot path.
//   - Import b2cflow or any sibling internal package.
package metrics
