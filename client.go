package b2cflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	internalaudit "github.com/aurelialabs/b2cflow/internal/audit"
	"github.com/aurelialabs/b2cflow/tokencache"
	"golang.org/x/sync/singleflight"
)

// Client orchestrates token acquisition across the configured user flows.
//
// Client instances are built once through [Builder.Build], injected where
// needed, and treated as immutable; there is no process-wide singleton.
// All methods are safe for concurrent use.
type Client struct {
	config      Config
	authorities *AuthorityRegistry
	cache       *tokencache.Store
	prompter    InteractivePrompter
	provider    TokenProvider
	audit       *internalaudit.Dispatcher
	metrics     *Metrics
	interactive singleflight.Group
	session     sessionState
}

// Close flushes and stops the audit dispatcher. The Client must not be
// used afterwards.
func (c *Client) Close() {
	if c == nil {
		return
	}
	if c.audit != nil {
		c.audit.Close()
	}
}

// AuthorityFor exposes the immutable authority derived for flow. The
// second return is false when no policy is configured for the flow.
func (c *Client) AuthorityFor(flow Flow) (Authority, bool) {
	if c == nil || c.authorities == nil {
		return Authority{}, false
	}
	return c.authorities.For(flow)
}

// AcquireToken is the combined flow used by "call protected resource"
// operations: silent first, then interactive with the default prompt when
// the silent attempt reports an expected miss. Any other silent failure is
// terminal for the operation.
func (c *Client) AcquireToken(ctx context.Context, flow Flow, scopes []string) AcquisitionOutcome {
	account, err := c.AccountForFlow(ctx, flow)
	if err != nil {
		return failureOutcome(err)
	}

	outcome := c.AcquireSilent(ctx, SilentRequest{Flow: flow, Scopes: scopes, Account: account})
	switch outcome.Kind {
	case OutcomeNoCachedAccount, OutcomeInteractionRequired:
		return c.AcquireInteractive(ctx, InteractiveRequest{Flow: flow, Scopes: scopes, Mode: PromptDefault})
	default:
		return outcome
	}
}

func (c *Client) resolveScopes(scopes []string) []string {
	if len(scopes) > 0 {
		return scopes
	}
	return c.config.Scopes
}

// persistResponse turns one provider response into a cached credential and
// an AuthResult. It is the only write path into the token cache: nothing is
// persisted unless the identity token decodes and the store accepts the
// record.
func (c *Client) persistResponse(ctx context.Context, authority Authority, resp *TokenResponse) (*AuthResult, error) {
	claims, err := ParseIDTokenClaims(resp.IDToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}

	policy := claims.PolicyMarker()
	if policy == "" {
		policy = authority.Policy()
	}

	local := claims.PrincipalID()
	if !strings.HasSuffix(strings.ToLower(local), strings.ToLower(policy)) {
		// Issuers embed the policy as a local-id suffix; reproduce it so
		// legacy suffix matching keeps working on this record.
		local = local + "-" + strings.ToLower(policy)
	}

	account := Account{
		HomeID:      local + "." + c.config.Tenant,
		Username:    claims.Name,
		Policy:      policy,
		Environment: c.config.Host,
	}

	expiresAt := resp.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(time.Hour)
	}

	credential := &Credential{
		Account:      account,
		Authority:    authority.URL(),
		Policy:       policy,
		AccessToken:  resp.AccessToken,
		IDToken:      resp.IDToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    expiresAt.Unix(),
	}

	if err := c.cache.Put(ctx, credential); err != nil {
		c.metricInc(MetricCacheUnavailable)
		return nil, fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}

	return &AuthResult{
		Account:     account,
		AccessToken: resp.AccessToken,
		IDToken:     resp.IDToken,
		ExpiresAt:   expiresAt,
		Claims:      claims,
	}, nil
}

func resultFromCredential(credential *Credential) *AuthResult {
	result := &AuthResult{
		Account:     credential.Account,
		AccessToken: credential.AccessToken,
		IDToken:     credential.IDToken,
		ExpiresAt:   time.Unix(credential.ExpiresAt, 0),
	}
	// Claims are best-effort on the cached path; the credential was
	// validated when it was written.
	if claims, err := ParseIDTokenClaims(credential.IDToken); err == nil {
		result.Claims = claims
	}
	return result
}
