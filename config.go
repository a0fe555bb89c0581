package b2cflow

import (
	"strings"
	"time"
)

// Config defines the immutable configuration of a [Client].
//
// Config instances are intended to be populated before [Builder.Build] and
// then treated as immutable; the builder clones the struct so later caller
// mutations never reach a running Client.
type Config struct {
	// Host is the identity provider hostname, for instance
	// "fabrikamb2c.b2clogin.com".
	Host string
	// Tenant is the directory identifier, for instance
	// "fabrikamb2c.onmicrosoft.com".
	Tenant string
	// ClientID identifies the registered public-client application.
	ClientID string
	// RedirectURI is handed to the interactive collaborator unchanged.
	RedirectURI string
	// Scopes are the default scopes requested when an acquisition request
	// does not carry its own.
	Scopes []string

	Policies PolicyConfig
	Cache    CacheConfig
	Compat   CompatConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

/*
====================================
POLICY CONFIG
====================================
*/

// PolicyConfig names the provider user flows, one per [Flow]. Every flow
// used at runtime must carry a non-blank policy name; PasswordGrant may be
// left empty when the resource-owner-password entry point is unused.
type PolicyConfig struct {
	SignUpSignIn  string
	EditProfile   string
	ResetPassword string
	PasswordGrant string
}

func (p PolicyConfig) forFlow(flow Flow) string {
	switch flow {
	case FlowSignUpSignIn:
		return p.SignUpSignIn
	case FlowEditProfile:
		return p.EditProfile
	case FlowResetPassword:
		return p.ResetPassword
	case FlowPasswordGrant:
		return p.PasswordGrant
	}
	return ""
}

/*
====================================
CACHE CONFIG
====================================
*/

// CacheConfig controls the Redis token cache binding.
type CacheConfig struct {
	// RedisPrefix namespaces every cache key. Two Clients sharing a prefix
	// and a Redis instance observe the same credential set; this is the
	// supported rebind path across process restarts.
	RedisPrefix string
	// RefreshWindow is the pre-expiry window inside which silent
	// acquisition refreshes proactively instead of serving the cached
	// access token.
	RefreshWindow time.Duration
}

/*
====================================
COMPAT CONFIG
====================================
*/

// CompatConfig preserves legacy account-matching behavior for credential
// records written before the policy attribute became first-class. Source
// lineages disagree on the suffix comparison, so both are kept selectable.
type CompatConfig struct {
	// SuffixMatchCaseSensitive switches the legacy local-id suffix match
	// from the default case-insensitive comparison to an exact one.
	SuffixMatchCaseSensitive bool
}

// AuditConfig controls the async event dispatcher buffering.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process acquisition metrics.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the baseline configuration: audit and metrics on,
// a five-minute proactive refresh window, and the conventional "b2c" cache
// prefix. Host, Tenant, ClientID, and policy names must still be supplied.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Cache: CacheConfig{
			RedisPrefix:   "b2c",
			RefreshWindow: 5 * time.Minute,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Validate checks the configuration for startup-fatal problems and returns
// a [ConfigurationError] naming the offending field.
func (c *Config) Validate() error {
	if blank(c.Host) {
		return configErr("Host", "must not be empty or only spaces")
	}
	if blank(c.Tenant) {
		return configErr("Tenant", "must not be empty or only spaces")
	}
	if blank(c.ClientID) {
		return configErr("ClientID", "must not be empty or only spaces")
	}
	if blank(c.Policies.SignUpSignIn) {
		return configErr("Policies.SignUpSignIn", "must not be empty or only spaces")
	}
	if blank(c.Policies.EditProfile) {
		return configErr("Policies.EditProfile", "must not be empty or only spaces")
	}
	if blank(c.Policies.ResetPassword) {
		return configErr("Policies.ResetPassword", "must not be empty or only spaces")
	}
	if c.Policies.PasswordGrant != "" && blank(c.Policies.PasswordGrant) {
		return configErr("Policies.PasswordGrant", "must not be only spaces")
	}
	if blank(c.Cache.RedisPrefix) {
		return configErr("Cache.RedisPrefix", "must not be empty or only spaces")
	}
	if c.Cache.RefreshWindow < 0 {
		return configErr("Cache.RefreshWindow", "must not be negative")
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Scopes = append([]string(nil), cfg.Scopes...)
	return out
}
