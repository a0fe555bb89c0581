package b2cflow

import "strings"

// Flow identifies a provider user flow. Each flow resolves to exactly one
// authority per tenant.
type Flow uint8

const (
	// FlowSignUpSignIn is the combined sign-up/sign-in user flow.
	FlowSignUpSignIn Flow = iota
	// FlowEditProfile is the profile-editing user flow.
	FlowEditProfile
	// FlowResetPassword is the self-service password-reset user flow.
	FlowResetPassword
	// FlowPasswordGrant is the resource-owner-password flow; it has no
	// interactive step.
	FlowPasswordGrant

	flowCount
)

func (f Flow) String() string {
	switch f {
	case FlowSignUpSignIn:
		return "sign-up-sign-in"
	case FlowEditProfile:
		return "edit-profile"
	case FlowResetPassword:
		return "reset-password"
	case FlowPasswordGrant:
		return "password-grant"
	}
	return "unknown-flow"
}

// Authority is the immutable URI identifying which tenant+policy
// combination an authentication request targets. Authorities are derived
// once from configuration and never mutated.
type Authority struct {
	host   string
	tenant string
	policy string
	url    string
}

func newAuthority(host, tenant, policy string) (Authority, error) {
	if blank(host) {
		return Authority{}, configErr("Host", "must not be empty or only spaces")
	}
	if blank(tenant) {
		return Authority{}, configErr("Tenant", "must not be empty or only spaces")
	}
	if blank(policy) {
		return Authority{}, configErr("Policy", "must not be empty or only spaces")
	}
	host = strings.TrimSpace(host)
	tenant = strings.TrimSpace(tenant)
	policy = strings.TrimSpace(policy)
	return Authority{
		host:   host,
		tenant: tenant,
		policy: policy,
		url:    "https://" + host + "/tfp/" + tenant + "/" + policy,
	}, nil
}

// URL returns the full authority URI.
func (a Authority) URL() string { return a.url }

// Policy returns the policy name segment of the authority.
func (a Authority) Policy() string { return a.policy }

// Tenant returns the tenant segment of the authority.
func (a Authority) Tenant() string { return a.tenant }

// IsZero reports whether the authority was never constructed.
func (a Authority) IsZero() bool { return a.url == "" }

// AuthorityRegistry holds the per-flow authorities derived from one tenant
// and policy-name set. It is built once at startup and read-only afterwards.
type AuthorityRegistry struct {
	byFlow [flowCount]Authority
}

// NewAuthorityRegistry derives one authority per configured flow. It fails
// with a [ConfigurationError] when the host, tenant, or a required policy
// name is empty or whitespace. The password-grant authority is only derived
// when a policy name is configured for it.
func NewAuthorityRegistry(cfg Config) (*AuthorityRegistry, error) {
	r := &AuthorityRegistry{}
	for flow := FlowSignUpSignIn; flow < flowCount; flow++ {
		policy := cfg.Policies.forFlow(flow)
		if flow == FlowPasswordGrant && policy == "" {
			continue
		}
		authority, err := newAuthority(cfg.Host, cfg.Tenant, policy)
		if err != nil {
			return nil, err
		}
		r.byFlow[flow] = authority
	}
	return r, nil
}

// For returns the authority derived for flow. The second return is false
// when no policy was configured for the flow.
func (r *AuthorityRegistry) For(flow Flow) (Authority, bool) {
	if r == nil || flow >= flowCount {
		return Authority{}, false
	}
	authority := r.byFlow[flow]
	return authority, !authority.IsZero()
}
