package tokencache

import (
	"strings"
	"time"
)

// Account references a previously authenticated principal. An account is
// permanently associated with the policy that was active when its first
// credential was issued.
type Account struct {
	// HomeID is the composite identifier "<local-id>.<tenant-id>". The
	// local part carries the issuing policy as a suffix in records written
	// by legacy providers.
	HomeID string
	// Username is the display identifier shown to the human.
	Username string
	// Policy is the first-class record of the issuing policy. Empty on
	// records written before the attribute existed; consumers fall back to
	// local-id suffix matching for those.
	Policy string
	// Environment is the provider hostname the account was issued by.
	Environment string
}

// LocalID returns the local half of the home account id.
func (a Account) LocalID() string {
	local, _, _ := strings.Cut(a.HomeID, ".")
	return local
}

// Credential is one cached (account, policy, tokens, expiry) tuple. Values
// returned by [Store.Get] are immutable snapshots; the store is the only
// writer.
type Credential struct {
	Account      Account
	Authority    string
	Policy       string
	AccessToken  string
	IDToken      string
	RefreshToken string
	// ExpiresAt is the access-token expiry as a Unix timestamp.
	ExpiresAt int64
}

// Expired reports whether the access token expiry has passed.
func (c *Credential) Expired(now time.Time) bool {
	return now.Unix() >= c.ExpiresAt
}

// ExpiresWithin reports whether the access token expires before now+window.
func (c *Credential) ExpiresWithin(now time.Time, window time.Duration) bool {
	return now.Add(window).Unix() >= c.ExpiresAt
}
