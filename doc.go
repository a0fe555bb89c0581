// Package b2cflow orchestrates public-client authentication against a
// multi-policy identity provider: silent-first token acquisition with
// interactive fallback, forced-password-reset redirection, account/policy
// reconciliation, and a Redis-backed persistent token cache.
//
// The package is the client-side counterpart of an Azure-AD-B2C-shaped
// authorization server. It never issues or verifies tokens itself; token
// endpoints and human-facing consent are reached through the
// [InteractivePrompter] and [TokenProvider] collaborators supplied at build
// time. [Client] methods are safe to call from multiple goroutines after
// initialization through [Builder.Build].
//
// # Architecture boundaries
//
// b2cflow is the public surface. It exposes [Client], [Builder], [Config],
// and value types (AcquisitionOutcome, Account, IDTokenClaims, etc.).
// Credential persistence lives in the tokencache sub-package; event
// dispatching and metric counters live under internal/ and are never
// exported directly.
//
// # What this package must NOT do
//
//   - Implement the authorization server's wire protocol or verify token
//     signatures; collaborators own the network round trips.
//   - Render UI. Interactive acquisition suspends on the prompter
//     collaborator and nothing else.
//   - Import any sub-package that re-imports b2cflow (no import cycles).
//
// # Acquisition contract
//
// Every acquisition entry point returns an [AcquisitionOutcome] rather than
// driving control flow through error-type hierarchies: expected conditions
// (no cached account, interaction required) are explicit outcome kinds, and
// provider-reported failures carry a parsed [ProviderError] so callers
// compare error codes as typed fields instead of scanning message text.
package b2cflow
