// Package audit implements async event dispatching for acquisition-relevant
// operations.
//
// # Components
//
//   - [Sink]: interface for event consumers (channel, JSON writer, no-op).
//   - [Dispatcher]: buffered async relay with drop-if-full / block-if-full semantics.
//   - [Event]: structured acquisition record with timestamp, type, account,
//     policy, authority, correlation id, metadata.
//
// # Architecture boundaries
//
// This package owns event buffering and sink delivery. It does NOT decide
// which events to emit; that responsibility belongs to the Client. Events
// never carry token material or raw email addresses; emitters put only
// non-identifying metadata on them.
//
// # What this package must NOT do
//
//   - Filter or suppress events based on business logic.
//   - Import b2cflow or any sibling internal package.
//   - Perform network I/O beyond what a caller-supplied Sink does.
package audit
