package b2cflow

import (
	"context"
	"errors"
	"fmt"
)

// SignOut removes every cached account and its credentials, then marks the
// session signed out. The account list is re-read after each removal so
// concurrent mutation of the cache cannot stall or skip entries; accounts
// whose removal fails are set aside and reported together. Signing out with
// an empty cache is a no-op.
func (c *Client) SignOut(ctx context.Context) error {
	if c == nil || c.cache == nil {
		return ErrClientNotReady
	}

	ctx = ensureCorrelationID(ctx)

	var failures []error
	failed := make(map[string]bool)

	for {
		accounts, err := c.cache.Accounts(ctx)
		if err != nil {
			c.metricInc(MetricCacheUnavailable)
			failures = append(failures, fmt.Errorf("%w: %v", ErrCacheUnavailable, err))
			break
		}

		var next *Account
		for i := range accounts {
			if !failed[accounts[i].HomeID] {
				next = &accounts[i]
				break
			}
		}
		if next == nil {
			break
		}

		if err := c.cache.Remove(ctx, next.HomeID); err != nil {
			failed[next.HomeID] = true
			failures = append(failures, fmt.Errorf("remove account %s: %w", next.HomeID, err))
			c.emitAudit(ctx, auditEventAccountRemoveFailed, false, next.HomeID, next.Policy, "", err, nil)
			continue
		}

		c.metricInc(MetricAccountRemoved)
		c.emitAudit(ctx, auditEventAccountRemoved, true, next.HomeID, next.Policy, "", nil, nil)
	}

	c.session.set(false)
	c.metricInc(MetricSignOut)
	c.emitAudit(ctx, auditEventSignOut, len(failures) == 0, "", "", "", errors.Join(failures...), nil)

	return errors.Join(failures...)
}

// RemoveAccount evicts a single account and its credentials from the cache.
// Removing an unknown account is a no-op.
func (c *Client) RemoveAccount(ctx context.Context, account Account) error {
	if c == nil || c.cache == nil {
		return ErrClientNotReady
	}

	ctx = ensureCorrelationID(ctx)

	if err := c.cache.Remove(ctx, account.HomeID); err != nil {
		c.emitAudit(ctx, auditEventAccountRemoveFailed, false, account.HomeID, account.Policy, "", err, nil)
		return fmt.Errorf("remove account %s: %w", account.HomeID, err)
	}

	c.metricInc(MetricAccountRemoved)
	c.emitAudit(ctx, auditEventAccountRemoved, true, account.HomeID, account.Policy, "", nil, nil)
	return nil
}
