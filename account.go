package b2cflow

import (
	"context"
	"fmt"
	"strings"
)

// Accounts returns a snapshot of every cached account. Order is not
// deterministic; the snapshot is unaffected by concurrent removals.
func (c *Client) Accounts(ctx context.Context) ([]Account, error) {
	if c == nil || c.cache == nil {
		return nil, ErrClientNotReady
	}
	accounts, err := c.cache.Accounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return accounts, nil
}

// AccountForFlow returns the first cached account associated with the
// flow's policy, or nil when none matches. Association prefers the
// first-class policy attribute written at credential creation; records
// without one fall back to the legacy local-id suffix match.
func (c *Client) AccountForFlow(ctx context.Context, flow Flow) (*Account, error) {
	if c == nil || c.cache == nil {
		return nil, ErrClientNotReady
	}
	authority, ok := c.authorities.For(flow)
	if !ok {
		return nil, configErr("Policies", "no policy configured for flow "+flow.String())
	}

	accounts, err := c.cache.Accounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}

	for i := range accounts {
		if c.accountMatchesPolicy(accounts[i], authority.Policy()) {
			return &accounts[i], nil
		}
	}
	return nil, nil
}

func (c *Client) accountMatchesPolicy(account Account, policy string) bool {
	if account.Policy != "" {
		return strings.EqualFold(account.Policy, policy)
	}
	// Legacy record: the issuing policy is only present as a suffix of the
	// local id. Case handling is configurable because source lineages
	// disagree on it.
	local := account.LocalID()
	if c.config.Compat.SuffixMatchCaseSensitive {
		return strings.HasSuffix(local, policy)
	}
	return strings.HasSuffix(strings.ToLower(local), strings.ToLower(policy))
}
