package b2cflow

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrClientNotReady is returned when a Client method is called before the
	// instance has been initialized through [Builder.Build].
	ErrClientNotReady = errors.New("client not initialized")
	// ErrNoCachedAccount is the expected miss condition for silent
	// acquisition without a resolved account; callers escalate to
	// interactive acquisition.
	ErrNoCachedAccount = errors.New("no cached account")
	// ErrInteractionRequired is the expected condition driving the
	// silent-to-interactive fallback: no usable cached credential and no
	// redeemable refresh material.
	ErrInteractionRequired = errors.New("interaction required")
	// ErrAuthenticationFailed wraps a provider-reported failure. The raw
	// provider message is preserved in the wrap chain and surfaced verbatim;
	// it is never retried automatically.
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrPasswordResetRequired reports the forced-password-reset provider
	// condition after the single automatic redirect has been consumed or
	// could not be attempted.
	ErrPasswordResetRequired = errors.New("password reset required")
	// ErrPrompterNotConfigured is returned by interactive acquisition when
	// the Client was built without an [InteractivePrompter].
	ErrPrompterNotConfigured = errors.New("interactive prompter not configured")
	// ErrProviderNotConfigured is returned by refresh and password-grant
	// paths when the Client was built without a [TokenProvider].
	ErrProviderNotConfigured = errors.New("token provider not configured")
	// ErrCacheUnavailable wraps token-cache backend failures.
	ErrCacheUnavailable = errors.New("token cache unavailable")
)

// CodePasswordResetRequired is the provider error code signalling that the
// user must complete the password-reset flow before the requested flow can
// continue.
const CodePasswordResetRequired = "AADB2C90118"

// CodeUserCancelled is the provider error code reported when the user
// abandons the interactive consent step.
const CodeUserCancelled = "AADB2C90091"

// ConfigurationError reports invalid authority or client configuration.
// It is fatal at startup: [Builder.Build] fails and no Client is returned.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "invalid configuration: " + e.Field + ": " + e.Reason
}

func configErr(field, reason string) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: reason}
}

// ProviderError is a structured identity-provider failure. Code holds the
// provider's error code (for instance [CodePasswordResetRequired]) so that
// orchestration branches compare a typed field instead of scanning message
// substrings.
type ProviderError struct {
	Code        string
	Description string
}

func (e *ProviderError) Error() string {
	if e.Code == "" {
		return e.Description
	}
	if e.Description == "" {
		return e.Code
	}
	return e.Code + ": " + e.Description
}

// AsProviderError unwraps err to a [ProviderError] when one is present in
// the chain.
func AsProviderError(err error) (*ProviderError, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// ParseProviderError builds a [ProviderError] from a raw provider message.
// Providers embed their error code at the start of the description
// ("AADB2C90118: the user has forgotten their password"); collaborators that
// only relay message text can use this to recover the typed code.
func ParseProviderError(message string) *ProviderError {
	code, rest, found := strings.Cut(message, ":")
	code = strings.TrimSpace(code)
	if !found || code == "" || strings.ContainsRune(code, ' ') {
		return &ProviderError{Description: message}
	}
	return &ProviderError{Code: code, Description: strings.TrimSpace(rest)}
}

func wrapProviderFailure(err error) error {
	return fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
}
