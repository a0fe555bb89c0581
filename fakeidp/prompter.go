package fakeidp

import (
	"context"

	b2cflow "github.com/aurelialabs/b2cflow"
)

// AutoPrompter completes interactive consent round trips against a
// [Provider] without a browser. It satisfies
// [b2cflow.InteractivePrompter].
type AutoPrompter struct {
	Provider *Provider
	Username string
	Password string

	// Cancel makes every prompt fail as if the user closed the window.
	Cancel bool
}

// Prompt authenticates the configured user against the requested authority.
func (a *AutoPrompter) Prompt(ctx context.Context, req b2cflow.PromptRequest) (*b2cflow.TokenResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if a.Cancel {
		return nil, &b2cflow.ProviderError{Code: b2cflow.CodeUserCancelled, Description: "the user has cancelled entering self-asserted information"}
	}

	return a.Provider.Authenticate(req.Authority, a.Username, a.Password, req.Scopes...)
}
