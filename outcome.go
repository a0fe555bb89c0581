package b2cflow

import (
	"time"

	"github.com/aurelialabs/b2cflow/tokencache"
)

// Account re-exports the cached principal reference from the token cache.
type Account = tokencache.Account

// Credential re-exports the cached credential record from the token cache.
type Credential = tokencache.Credential

// OutcomeKind tags one branch of an [AcquisitionOutcome].
type OutcomeKind uint8

const (
	// OutcomeSuccess carries a usable credential in Result.
	OutcomeSuccess OutcomeKind = iota
	// OutcomeNoCachedAccount reports a silent attempt with no resolvable
	// account; expected, drives interactive fallback.
	OutcomeNoCachedAccount
	// OutcomeInteractionRequired reports a silent attempt that found no
	// redeemable credential; expected, drives interactive fallback.
	OutcomeInteractionRequired
	// OutcomePolicyRedirect reports a password-grant attempt that hit the
	// forced-password-reset condition after its single automatic retry was
	// consumed; the caller must run the reset flow.
	OutcomePolicyRedirect
	// OutcomeFailure reports a terminal failure; Err carries the detail.
	OutcomeFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeNoCachedAccount:
		return "no-cached-account"
	case OutcomeInteractionRequired:
		return "interaction-required"
	case OutcomePolicyRedirect:
		return "policy-redirect"
	}
	return "failure"
}

// AuthResult is the successful payload of an acquisition: the credential
// snapshot plus the decoded identity claims. Treat it as immutable.
type AuthResult struct {
	Account     Account
	AccessToken string
	IDToken     string
	ExpiresAt   time.Time
	Claims      *IDTokenClaims
}

// AcquisitionOutcome is the tagged result of one orchestration attempt. It
// is produced and consumed within a single call and never persisted.
// Exactly one of Result (success) or Err (every other kind) is populated;
// Provider additionally carries the parsed provider error when one exists.
type AcquisitionOutcome struct {
	Kind     OutcomeKind
	Result   *AuthResult
	Err      error
	Provider *ProviderError
}

// Succeeded reports whether the outcome carries a usable credential.
func (o AcquisitionOutcome) Succeeded() bool {
	return o.Kind == OutcomeSuccess && o.Result != nil
}

func successOutcome(result *AuthResult) AcquisitionOutcome {
	return AcquisitionOutcome{Kind: OutcomeSuccess, Result: result}
}

func noAccountOutcome() AcquisitionOutcome {
	return AcquisitionOutcome{Kind: OutcomeNoCachedAccount, Err: ErrNoCachedAccount}
}

func interactionRequiredOutcome(err error) AcquisitionOutcome {
	if err == nil {
		err = ErrInteractionRequired
	}
	return AcquisitionOutcome{Kind: OutcomeInteractionRequired, Err: err}
}

func failureOutcome(err error) AcquisitionOutcome {
	out := AcquisitionOutcome{Kind: OutcomeFailure, Err: err}
	if pe, ok := AsProviderError(err); ok {
		out.Provider = pe
	}
	return out
}

func policyRedirectOutcome(err error) AcquisitionOutcome {
	out := AcquisitionOutcome{Kind: OutcomePolicyRedirect, Err: err}
	if pe, ok := AsProviderError(err); ok {
		out.Provider = pe
	}
	return out
}
