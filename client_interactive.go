package b2cflow

import (
	"context"
	"fmt"
)

// InteractiveRequest parameterizes one interactive acquisition.
type InteractiveRequest struct {
	Flow   Flow
	Scopes []string
	Mode   PromptMode
	// ParentWindow is an opaque UI anchor handed through to the prompter.
	ParentWindow uintptr
}

// AcquireInteractive runs one consent round trip through the configured
// prompter. Concurrent calls for the same flow coalesce onto a single
// prompt so the user never sees two consent windows racing each other.
//
// When the provider reports the forced-password-reset condition, the
// client automatically retries once against the reset-password authority
// with the account picker forced. A failure of that retry is terminal and
// surfaces both the redirect condition and the retry's own error.
func (c *Client) AcquireInteractive(ctx context.Context, req InteractiveRequest) AcquisitionOutcome {
	if c == nil || c.cache == nil {
		return failureOutcome(ErrClientNotReady)
	}
	if c.prompter == nil {
		return failureOutcome(ErrPrompterNotConfigured)
	}

	authority, ok := c.authorities.For(req.Flow)
	if !ok {
		return failureOutcome(configErr("Policies", "no policy configured for flow "+req.Flow.String()))
	}

	ctx = ensureCorrelationID(ctx)

	v, _, _ := c.interactive.Do(req.Flow.String(), func() (interface{}, error) {
		return c.acquireInteractive(ctx, authority, req), nil
	})
	return v.(AcquisitionOutcome)
}

func (c *Client) acquireInteractive(ctx context.Context, authority Authority, req InteractiveRequest) AcquisitionOutcome {
	resp, err := c.prompt(ctx, authority, req.Scopes, req.Mode, req.ParentWindow)
	if err != nil {
		if ctx.Err() != nil {
			// Cancellation leaves the cache untouched.
			c.metricInc(MetricInteractiveFailure)
			c.emitAudit(ctx, auditEventInteractiveFailure, false, "", authority.Policy(), authority.URL(), ctx.Err(), nil)
			return failureOutcome(fmt.Errorf("%w: %v", ErrAuthenticationFailed, ctx.Err()))
		}

		if pe, ok := AsProviderError(err); ok && pe.Code == CodePasswordResetRequired {
			return c.redirectToReset(ctx, authority, req, err)
		}

		c.metricInc(MetricInteractiveFailure)
		c.emitAudit(ctx, auditEventInteractiveFailure, false, "", authority.Policy(), authority.URL(), err, nil)
		return failureOutcome(wrapProviderFailure(err))
	}

	if ctx.Err() != nil {
		c.metricInc(MetricInteractiveFailure)
		return failureOutcome(fmt.Errorf("%w: %v", ErrAuthenticationFailed, ctx.Err()))
	}

	result, err := c.persistResponse(ctx, authority, resp)
	if err != nil {
		c.metricInc(MetricInteractiveFailure)
		c.emitAudit(ctx, auditEventInteractiveFailure, false, "", authority.Policy(), authority.URL(), err, nil)
		return failureOutcome(err)
	}

	c.metricInc(MetricInteractiveSuccess)
	c.emitAudit(ctx, auditEventInteractiveSuccess, true, result.Account.HomeID, result.Account.Policy, authority.URL(), nil, nil)
	c.session.set(true)
	return successOutcome(result)
}

// redirectToReset performs the single automatic retry against the
// reset-password authority after the provider signalled the
// forced-password-reset condition.
func (c *Client) redirectToReset(ctx context.Context, from Authority, req InteractiveRequest, cause error) AcquisitionOutcome {
	c.metricInc(MetricPolicyRedirect)
	c.emitAudit(ctx, auditEventPolicyRedirect, false, "", from.Policy(), from.URL(), cause, func() map[string]string {
		return map[string]string{"redirect_code": CodePasswordResetRequired}
	})

	reset, ok := c.authorities.For(FlowResetPassword)
	if !ok {
		c.metricInc(MetricInteractiveFailure)
		return failureOutcome(fmt.Errorf("%w: no reset-password policy configured: %w", ErrPasswordResetRequired, cause))
	}

	resp, err := c.prompt(ctx, reset, req.Scopes, PromptSelectAccount, req.ParentWindow)
	if err != nil {
		c.metricInc(MetricInteractiveFailure)
		c.emitAudit(ctx, auditEventInteractiveFailure, false, "", reset.Policy(), reset.URL(), err, nil)
		// The retry's own failure is part of the story; never hide it
		// behind the original redirect condition.
		return failureOutcome(fmt.Errorf("%w: reset-password retry: %w", ErrAuthenticationFailed, err))
	}

	if ctx.Err() != nil {
		c.metricInc(MetricInteractiveFailure)
		return failureOutcome(fmt.Errorf("%w: %v", ErrAuthenticationFailed, ctx.Err()))
	}

	result, err := c.persistResponse(ctx, reset, resp)
	if err != nil {
		c.metricInc(MetricInteractiveFailure)
		c.emitAudit(ctx, auditEventInteractiveFailure, false, "", reset.Policy(), reset.URL(), err, nil)
		return failureOutcome(err)
	}

	c.metricInc(MetricInteractiveSuccess)
	c.emitAudit(ctx, auditEventInteractiveSuccess, true, result.Account.HomeID, result.Account.Policy, reset.URL(), nil, nil)
	c.session.set(true)
	return successOutcome(result)
}

func (c *Client) prompt(ctx context.Context, authority Authority, scopes []string, mode PromptMode, parent uintptr) (*TokenResponse, error) {
	return c.prompter.Prompt(ctx, PromptRequest{
		Authority:     authority,
		Scopes:        c.resolveScopes(scopes),
		Mode:          mode,
		RedirectURI:   c.config.RedirectURI,
		ClientID:      c.config.ClientID,
		CorrelationID: correlationIDFromContext(ctx),
		ParentWindow:  parent,
	})
}
