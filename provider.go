package b2cflow

import (
	"context"
	"sync"
	"time"
)

// PromptMode selects the consent behavior requested from the interactive
// collaborator.
type PromptMode uint8

const (
	// PromptDefault lets the provider decide whether to show account
	// selection.
	PromptDefault PromptMode = iota
	// PromptSelectAccount forces the account picker; the automatic
	// password-reset redirect always uses it.
	PromptSelectAccount
	// PromptNone forbids any visible prompt; used by the edit-profile flow
	// when an established session is expected.
	PromptNone
)

func (m PromptMode) String() string {
	switch m {
	case PromptSelectAccount:
		return "select-account"
	case PromptNone:
		return "no-prompt"
	}
	return "default"
}

// PromptRequest carries everything the interactive collaborator needs to
// run one consent round trip.
type PromptRequest struct {
	Authority     Authority
	Scopes        []string
	Mode          PromptMode
	RedirectURI   string
	ClientID      string
	CorrelationID string
	// ParentWindow is an opaque UI anchor handed through unchanged.
	ParentWindow uintptr
}

// TokenResponse is the raw result of a provider round trip, interactive or
// not.
type TokenResponse struct {
	AccessToken  string
	IDToken      string
	RefreshToken string
	ExpiresAt    time.Time
	Scopes       []string
}

// InteractivePrompter is the human-facing consent collaborator. Prompt
// blocks until the user completes or abandons the round trip; failures are
// reported as a [ProviderError] (wrapped or direct) when the provider
// supplied a coded error, or any other error for transport-level problems.
//
// This is the GUI boundary: implementations may open browsers, embedded
// web views, or read a terminal. The orchestrator only ever sees the
// returned tokens or error.
type InteractivePrompter interface {
	Prompt(ctx context.Context, req PromptRequest) (*TokenResponse, error)
}

// TokenProvider performs the non-interactive provider round trips: refresh
// redemption for silent acquisition and the resource-owner-password grant.
type TokenProvider interface {
	Redeem(ctx context.Context, authority Authority, refreshToken string, scopes []string) (*TokenResponse, error)
	PasswordGrant(ctx context.Context, authority Authority, username string, password *Secret, scopes []string) (*TokenResponse, error)
}

// Secret holds a password in wipeable memory. It exists so the
// resource-owner-password entry point never passes plain strings around;
// callers wipe it as soon as the grant returns.
type Secret struct {
	mu   sync.Mutex
	data []byte
}

// NewSecret copies value into a fresh Secret.
func NewSecret(value string) *Secret {
	return &Secret{data: []byte(value)}
}

// Reveal returns a copy of the secret value. Returns "" after Wipe.
func (s *Secret) Reveal() string {
	if s == nil {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return string(s.data)
}

// Wipe zeroes the secret in place. Safe to call more than once.
func (s *Secret) Wipe() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data {
		s.data[i] = 0
	}
	s.data = nil
}
