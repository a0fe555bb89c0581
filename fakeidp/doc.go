// Package fakeidp is an in-process stand-in for a B2C identity provider.
//
// It mints HS256-signed identity and access tokens for a fixed set of seeded
// users and implements both client collaborator interfaces: [Provider]
// satisfies [b2cflow.TokenProvider] and [AutoPrompter] satisfies
// [b2cflow.InteractivePrompter] by completing the consent round trip without
// a browser. Failure injection (wrong password, forced password reset,
// cancelled prompt) reproduces the provider error codes the orchestrator
// branches on.
//
// # What this package must NOT do
//
//   - Appear in production wiring; it exists for examples and tests.
//   - Validate tokens; resource servers own validation.
package fakeidp
