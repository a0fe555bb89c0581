package b2cflow

import (
	"context"
	"fmt"
)

// PasswordRequest parameterizes one resource-owner-password grant. The
// caller owns the Secret and wipes it after the call returns.
type PasswordRequest struct {
	Username string
	Password *Secret
	Scopes   []string
}

// AcquirePassword runs the resource-owner-password grant against the
// password-grant authority. There is no browser in this flow, so the
// forced-password-reset condition cannot be satisfied inline: after one
// automatic retry against the reset-password authority also fails, the
// outcome is [OutcomePolicyRedirect] and the caller must send the user
// through the interactive reset flow.
func (c *Client) AcquirePassword(ctx context.Context, req PasswordRequest) AcquisitionOutcome {
	if c == nil || c.cache == nil {
		return failureOutcome(ErrClientNotReady)
	}
	if c.provider == nil {
		return failureOutcome(ErrProviderNotConfigured)
	}

	authority, ok := c.authorities.For(FlowPasswordGrant)
	if !ok {
		return failureOutcome(configErr("Policies.PasswordGrant", "no password-grant policy configured"))
	}

	ctx = ensureCorrelationID(ctx)
	scopes := c.resolveScopes(req.Scopes)

	resp, err := c.provider.PasswordGrant(ctx, authority, req.Username, req.Password, scopes)
	if err != nil {
		pe, ok := AsProviderError(err)
		if !ok || pe.Code != CodePasswordResetRequired {
			c.metricInc(MetricPasswordGrantFailure)
			c.emitAudit(ctx, auditEventPasswordGrant, false, "", authority.Policy(), authority.URL(), err, nil)
			return failureOutcome(wrapProviderFailure(err))
		}

		c.metricInc(MetricPolicyRedirect)
		c.emitAudit(ctx, auditEventPolicyRedirect, false, "", authority.Policy(), authority.URL(), err, func() map[string]string {
			return map[string]string{"redirect_code": CodePasswordResetRequired}
		})

		reset, haveReset := c.authorities.For(FlowResetPassword)
		if !haveReset {
			c.metricInc(MetricPasswordGrantFailure)
			return policyRedirectOutcome(fmt.Errorf("%w: no reset-password policy configured: %w", ErrPasswordResetRequired, err))
		}

		resp, err = c.provider.PasswordGrant(ctx, reset, req.Username, req.Password, scopes)
		if err != nil {
			c.metricInc(MetricPasswordGrantFailure)
			c.emitAudit(ctx, auditEventPasswordGrant, false, "", reset.Policy(), reset.URL(), err, nil)
			return policyRedirectOutcome(fmt.Errorf("%w: reset-password retry: %w", ErrPasswordResetRequired, err))
		}
		authority = reset
	}

	if ctx.Err() != nil {
		c.metricInc(MetricPasswordGrantFailure)
		return failureOutcome(fmt.Errorf("%w: %v", ErrAuthenticationFailed, ctx.Err()))
	}

	result, err := c.persistResponse(ctx, authority, resp)
	if err != nil {
		c.metricInc(MetricPasswordGrantFailure)
		c.emitAudit(ctx, auditEventPasswordGrant, false, "", authority.Policy(), authority.URL(), err, nil)
		return failureOutcome(err)
	}

	c.metricInc(MetricPasswordGrantSuccess)
	c.emitAudit(ctx, auditEventPasswordGrant, true, result.Account.HomeID, result.Account.Policy, authority.URL(), nil, nil)
	c.session.set(true)
	return successOutcome(result)
}
