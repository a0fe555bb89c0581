package b2cflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aurelialabs/b2cflow/tokencache"
)

// SilentRequest parameterizes one silent acquisition attempt.
type SilentRequest struct {
	Flow   Flow
	Scopes []string
	// Account is the cached principal to acquire for; nil reports
	// [OutcomeNoCachedAccount].
	Account *Account
	// ForceRefresh bypasses the cached access token even when it is still
	// inside its validity window.
	ForceRefresh bool
}

// AcquireSilent attempts to satisfy the request from the token cache,
// redeeming refresh material when the cached access token is expired or
// inside the proactive refresh window. It never invokes the interactive
// collaborator: expected misses surface as [OutcomeNoCachedAccount] or
// [OutcomeInteractionRequired] so the caller decides whether a human gets
// prompted.
func (c *Client) AcquireSilent(ctx context.Context, req SilentRequest) AcquisitionOutcome {
	if c == nil || c.cache == nil {
		return failureOutcome(ErrClientNotReady)
	}
	start := time.Now()
	defer func() {
		if c.metrics != nil {
			c.metrics.Observe(MetricAcquireLatency, time.Since(start))
		}
	}()

	authority, ok := c.authorities.For(req.Flow)
	if !ok {
		return failureOutcome(configErr("Policies", "no policy configured for flow "+req.Flow.String()))
	}

	if req.Account == nil {
		c.metricInc(MetricSilentMiss)
		c.emitAudit(ctx, auditEventSilentMiss, false, "", authority.Policy(), authority.URL(), ErrNoCachedAccount, nil)
		return noAccountOutcome()
	}

	credential, err := c.cache.Get(ctx, req.Account.HomeID, authority.Policy())
	if err != nil {
		if errors.Is(err, tokencache.ErrNotFound) {
			c.metricInc(MetricSilentMiss)
			c.emitAudit(ctx, auditEventSilentMiss, false, req.Account.HomeID, authority.Policy(), authority.URL(), ErrInteractionRequired, nil)
			return interactionRequiredOutcome(nil)
		}
		c.metricInc(MetricCacheUnavailable)
		return failureOutcome(fmt.Errorf("%w: %v", ErrCacheUnavailable, err))
	}

	now := time.Now()
	fresh := !credential.Expired(now)
	if fresh && !req.ForceRefresh && !credential.ExpiresWithin(now, c.config.Cache.RefreshWindow) {
		c.metricInc(MetricSilentCacheHit)
		c.emitAudit(ctx, auditEventSilentHit, true, credential.Account.HomeID, credential.Policy, authority.URL(), nil, nil)
		c.session.set(true)
		return successOutcome(resultFromCredential(credential))
	}

	refreshed, refreshErr := c.redeemRefresh(ctx, authority, credential, req.Scopes)
	if refreshErr == nil {
		c.metricInc(MetricSilentRefreshSuccess)
		c.emitAudit(ctx, auditEventSilentRefresh, true, refreshed.Account.HomeID, refreshed.Policy, authority.URL(), nil, nil)
		c.session.set(true)
		return successOutcome(resultFromCredential(refreshed))
	}

	if fresh && !req.ForceRefresh {
		// The proactive refresh was opportunistic; the cached token is
		// still valid, so serve it and leave escalation for expiry.
		c.metricInc(MetricSilentCacheHit)
		c.emitAudit(ctx, auditEventSilentHit, true, credential.Account.HomeID, credential.Policy, authority.URL(), nil, func() map[string]string {
			return map[string]string{"refresh_deferred": refreshErr.Error()}
		})
		c.session.set(true)
		return successOutcome(resultFromCredential(credential))
	}

	c.metricInc(MetricSilentRefreshFailure)
	c.emitAudit(ctx, auditEventSilentRefresh, false, credential.Account.HomeID, credential.Policy, authority.URL(), refreshErr, nil)
	return interactionRequiredOutcome(fmt.Errorf("%w: %v", ErrInteractionRequired, refreshErr))
}

// redeemRefresh exchanges the stored refresh material for a new credential
// and replaces the cached record. The account identity is fixed at
// issuance time and carried over unchanged.
func (c *Client) redeemRefresh(ctx context.Context, authority Authority, credential *Credential, scopes []string) (*Credential, error) {
	if credential.RefreshToken == "" {
		return nil, errors.New("no refresh material cached")
	}
	if c.provider == nil {
		return nil, ErrProviderNotConfigured
	}

	resp, err := c.provider.Redeem(ctx, authority, credential.RefreshToken, c.resolveScopes(scopes))
	if err != nil {
		return nil, err
	}

	replacement := &Credential{
		Account:      credential.Account,
		Authority:    credential.Authority,
		Policy:       credential.Policy,
		AccessToken:  resp.AccessToken,
		IDToken:      resp.IDToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    resp.ExpiresAt.Unix(),
	}
	if replacement.IDToken == "" {
		replacement.IDToken = credential.IDToken
	}
	if replacement.RefreshToken == "" {
		// Providers may omit rotation; keep the old material.
		replacement.RefreshToken = credential.RefreshToken
	}
	if resp.ExpiresAt.IsZero() {
		replacement.ExpiresAt = time.Now().Add(time.Hour).Unix()
	}

	if err := c.cache.Put(ctx, replacement); err != nil {
		c.metricInc(MetricCacheUnavailable)
		return nil, fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return replacement, nil
}
