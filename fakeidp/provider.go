package fakeidp

import (
	"context"
	"strings"
	"sync"
	"time"

	b2cflow "github.com/aurelialabs/b2cflow"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Provider error codes reproduced from the hosted identity provider.
const (
	codeInvalidCredentials = "AADB2C90225"
	codeInvalidGrant       = "AADB2C90080"
)

// User seeds one identity into the provider.
type User struct {
	Username    string
	Password    string
	DisplayName string
	Emails      []string

	StreetAddress string
	City          string
	State         string
	Country       string
	JobTitle      string

	// ForceReset makes every non-reset-policy authentication fail with the
	// forced-password-reset code until the user completes the reset policy.
	ForceReset bool
}

type userRecord struct {
	User
	objectID string
}

type refreshGrant struct {
	username string
	policy   string
}

// Provider mints tokens for seeded users. It satisfies
// [b2cflow.TokenProvider].
type Provider struct {
	mu          sync.Mutex
	key         []byte
	tokenTTL    time.Duration
	resetPolicy string
	users       map[string]*userRecord
	refresh     map[string]refreshGrant
}

// New creates a Provider signing with key. resetPolicy names the policy
// whose completion clears a user's ForceReset flag.
func New(key []byte, resetPolicy string) *Provider {
	return &Provider{
		key:         key,
		tokenTTL:    time.Hour,
		resetPolicy: resetPolicy,
		users:       make(map[string]*userRecord),
		refresh:     make(map[string]refreshGrant),
	}
}

// WithTokenTTL overrides the minted token lifetime. Useful for expiry tests.
func (p *Provider) WithTokenTTL(ttl time.Duration) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tokenTTL = ttl
	return p
}

// AddUser seeds a user. Re-adding a username replaces it.
func (p *Provider) AddUser(u User) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.users[strings.ToLower(u.Username)] = &userRecord{User: u, objectID: uuid.NewString()}
}

// SetForceReset toggles the forced-password-reset condition for a user.
func (p *Provider) SetForceReset(username string, force bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if rec, ok := p.users[strings.ToLower(username)]; ok {
		rec.ForceReset = force
	}
}

// Authenticate runs the credential check and token mint for one user
// against one authority. It is the shared core behind PasswordGrant and
// [AutoPrompter].
func (p *Provider) Authenticate(authority b2cflow.Authority, username, password string, scopes ...string) (*b2cflow.TokenResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	rec, ok := p.users[strings.ToLower(username)]
	if !ok || rec.Password != password {
		return nil, &b2cflow.ProviderError{Code: codeInvalidCredentials, Description: "the provided credentials are invalid"}
	}

	if rec.ForceReset && !strings.EqualFold(authority.Policy(), p.resetPolicy) {
		return nil, &b2cflow.ProviderError{Code: b2cflow.CodePasswordResetRequired, Description: "the user has forgotten their password"}
	}
	if strings.EqualFold(authority.Policy(), p.resetPolicy) {
		rec.ForceReset = false
	}

	return p.issueLocked(authority, rec, scopes)
}

// Redeem exchanges a refresh token previously issued by this provider.
func (p *Provider) Redeem(_ context.Context, authority b2cflow.Authority, refreshToken string, scopes []string) (*b2cflow.TokenResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	grant, ok := p.refresh[refreshToken]
	if !ok || !strings.EqualFold(grant.policy, authority.Policy()) {
		return nil, &b2cflow.ProviderError{Code: codeInvalidGrant, Description: "the provided grant has expired"}
	}
	rec, ok := p.users[grant.username]
	if !ok {
		return nil, &b2cflow.ProviderError{Code: codeInvalidGrant, Description: "the provided grant has expired"}
	}

	delete(p.refresh, refreshToken)
	return p.issueLocked(authority, rec, scopes)
}

// PasswordGrant implements the resource-owner-password exchange.
func (p *Provider) PasswordGrant(_ context.Context, authority b2cflow.Authority, username string, password *b2cflow.Secret, scopes []string) (*b2cflow.TokenResponse, error) {
	return p.Authenticate(authority, username, password.Reveal(), scopes...)
}

// RevokeRefreshTokens invalidates every outstanding refresh token. Used to
// simulate server-side session revocation.
func (p *Provider) RevokeRefreshTokens() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.refresh = make(map[string]refreshGrant)
}

func (p *Provider) issueLocked(authority b2cflow.Authority, rec *userRecord, scopes []string) (*b2cflow.TokenResponse, error) {
	now := time.Now()
	expiresAt := now.Add(p.tokenTTL)

	idClaims := jwt.MapClaims{
		"iss":  authority.URL() + "/v2.0/",
		"sub":  rec.objectID,
		"oid":  rec.objectID,
		"name": rec.DisplayName,
		"tfp":  authority.Policy(),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}
	if len(rec.Emails) > 0 {
		idClaims["emails"] = rec.Emails
	}
	if rec.StreetAddress != "" {
		idClaims["streetAddress"] = rec.StreetAddress
	}
	if rec.City != "" {
		idClaims["city"] = rec.City
	}
	if rec.State != "" {
		idClaims["state"] = rec.State
	}
	if rec.Country != "" {
		idClaims["country"] = rec.Country
	}
	if rec.JobTitle != "" {
		idClaims["jobTitle"] = rec.JobTitle
	}

	idToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, idClaims).SignedString(p.key)
	if err != nil {
		return nil, err
	}

	accessClaims := jwt.MapClaims{
		"iss":  authority.URL() + "/v2.0/",
		"sub":  rec.objectID,
		"name": rec.DisplayName,
		"scp":  strings.Join(scopes, " "),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString(p.key)
	if err != nil {
		return nil, err
	}

	refreshToken := uuid.NewString()
	p.refresh[refreshToken] = refreshGrant{
		username: strings.ToLower(rec.Username),
		policy:   authority.Policy(),
	}

	return &b2cflow.TokenResponse{
		AccessToken:  accessToken,
		IDToken:      idToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		Scopes:       scopes,
	}, nil
}
