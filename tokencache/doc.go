// Package tokencache persists serialized credential records in Redis,
// keyed by home account id and policy.
//
// # Components
//
//   - [Credential]: the cached (account, policy, tokens, expiry) tuple.
//   - [Account]: the cached principal reference embedded in a credential.
//   - [Store]: Redis-backed persistence with versioned binary encoding.
//
// # Architecture boundaries
//
// This package owns durability and key layout. It does NOT decide whether a
// credential is still servable; expiry policy belongs to the orchestrator,
// which reads the record, inspects ExpiresAt, and refreshes or escalates.
// Expired records therefore remain readable so refresh material can be
// redeemed, and remain removable.
//
// # Rebind contract
//
// A Store carries no in-process state beyond its Redis binding. Any Store
// constructed over the same Redis instance and key prefix observes the same
// credential set: after Put, a Get with the same key from a fresh Store in a
// new process returns an equivalent credential.
//
// # What this package must NOT do
//
//   - Mutate a returned Credential; every read decodes a fresh snapshot.
//   - Import b2cflow or any sibling package.
package tokencache
