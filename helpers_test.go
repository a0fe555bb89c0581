package b2cflow

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Host = "contosob2c.b2clogin.com"
	cfg.Tenant = "contosob2c.onmicrosoft.com"
	cfg.ClientID = "test-client"
	cfg.RedirectURI = "http://localhost/redirect"
	cfg.Scopes = []string{"api.read"}
	cfg.Policies = PolicyConfig{
		SignUpSignIn:  "b2c_1_susi",
		EditProfile:   "b2c_1_edit_profile",
		ResetPassword: "b2c_1_reset",
		PasswordGrant: "b2c_1_ropc",
	}
	return cfg
}

type clientOption func(*Builder)

func buildTestClient(t *testing.T, cfg Config, opts ...clientOption) (*Client, *miniredis.Miniredis) {
	t.Helper()

	mr, rdb := newTestRedis(t)
	builder := New().WithConfig(cfg).WithRedis(rdb)
	for _, opt := range opts {
		opt(builder)
	}

	client, err := builder.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(client.Close)
	return client, mr
}

func withPrompter(p InteractivePrompter) clientOption {
	return func(b *Builder) { b.WithPrompter(p) }
}

func withProvider(p TokenProvider) clientOption {
	return func(b *Builder) { b.WithTokenProvider(p) }
}

// mintIDToken builds an unsigned-but-well-formed identity token from raw
// claims. Signature verification is out of scope for the orchestrator, so a
// placeholder third segment is enough.
func mintIDToken(t *testing.T, claims map[string]any) string {
	t.Helper()

	payload, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("marshal claims: %v", err)
	}
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

func testTokenResponse(t *testing.T, oid, name, policy string) *TokenResponse {
	t.Helper()

	return &TokenResponse{
		AccessToken: "at-" + oid + "-" + policy,
		IDToken: mintIDToken(t, map[string]any{
			"oid":  oid,
			"name": name,
			"tfp":  policy,
			"iss":  "https://contosob2c.b2clogin.com/tfp/contosob2c.onmicrosoft.com/" + policy + "/v2.0/",
		}),
		RefreshToken: "rt-" + oid + "-" + policy,
		ExpiresAt:    time.Now().Add(time.Hour),
	}
}

type mockPrompter struct {
	mu    sync.Mutex
	calls []PromptRequest
	fn    func(req PromptRequest) (*TokenResponse, error)
}

func (m *mockPrompter) Prompt(ctx context.Context, req PromptRequest) (*TokenResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()
	return m.fn(req)
}

func (m *mockPrompter) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockPrompter) call(i int) PromptRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[i]
}

type mockProvider struct {
	mu         sync.Mutex
	redeems    int
	grants     int
	redeemFn   func(authority Authority, refreshToken string, scopes []string) (*TokenResponse, error)
	passwordFn func(authority Authority, username string, password *Secret, scopes []string) (*TokenResponse, error)
}

func (m *mockProvider) Redeem(ctx context.Context, authority Authority, refreshToken string, scopes []string) (*TokenResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.redeems++
	m.mu.Unlock()
	if m.redeemFn == nil {
		return nil, &ProviderError{Code: "AADB2C90080", Description: "the provided grant has expired"}
	}
	return m.redeemFn(authority, refreshToken, scopes)
}

func (m *mockProvider) PasswordGrant(ctx context.Context, authority Authority, username string, password *Secret, scopes []string) (*TokenResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.grants++
	m.mu.Unlock()
	if m.passwordFn == nil {
		return nil, &ProviderError{Code: "AADB2C90225", Description: "the provided credentials are invalid"}
	}
	return m.passwordFn(authority, username, password, scopes)
}

func (m *mockProvider) redeemCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.redeems
}

func (m *mockProvider) grantCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.grants
}

func cachedCredentialCount(t *testing.T, client *Client) int {
	t.Helper()

	accounts, err := client.Accounts(context.Background())
	if err != nil {
		t.Fatalf("Accounts failed: %v", err)
	}
	return len(accounts)
}
