package b2cflow

import (
	"context"
	"errors"
	"testing"
	"time"
)

func seedCredential(t *testing.T, client *Client, policy string, expiresAt time.Time) Account {
	t.Helper()

	account := Account{
		HomeID:      "oid1-" + policy + ".contosob2c.onmicrosoft.com",
		Username:    "Jane Doe",
		Policy:      policy,
		Environment: "contosob2c.b2clogin.com",
	}
	err := client.cache.Put(context.Background(), &Credential{
		Account:      account,
		Authority:    "https://contosob2c.b2clogin.com/tfp/contosob2c.onmicrosoft.com/" + policy,
		Policy:       policy,
		AccessToken:  "cached-access-token",
		IDToken:      mintIDToken(t, map[string]any{"oid": "oid1", "name": "Jane Doe", "tfp": policy}),
		RefreshToken: "cached-refresh-token",
		ExpiresAt:    expiresAt.Unix(),
	})
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	return account
}

func TestAcquireSilentServesFreshCredential(t *testing.T) {
	prompter := &mockPrompter{fn: func(PromptRequest) (*TokenResponse, error) {
		return nil, errors.New("prompter must not be reached")
	}}
	client, _ := buildTestClient(t, testConfig(), withPrompter(prompter))

	account := seedCredential(t, client, "b2c_1_susi", time.Now().Add(time.Hour))

	outcome := client.AcquireSilent(context.Background(), SilentRequest{
		Flow:    FlowSignUpSignIn,
		Account: &account,
	})
	if !outcome.Succeeded() {
		t.Fatalf("expected success, got %s: %v", outcome.Kind, outcome.Err)
	}
	if outcome.Result.AccessToken != "cached-access-token" {
		t.Fatalf("expected cached token, got %q", outcome.Result.AccessToken)
	}
	if prompter.callCount() != 0 {
		t.Fatal("silent acquisition must never prompt")
	}
	if !client.SignedIn() {
		t.Fatal("expected session marked signed in")
	}
}

func TestAcquireSilentNilAccount(t *testing.T) {
	client, _ := buildTestClient(t, testConfig())

	outcome := client.AcquireSilent(context.Background(), SilentRequest{Flow: FlowSignUpSignIn})
	if outcome.Kind != OutcomeNoCachedAccount {
		t.Fatalf("expected no-cached-account, got %s", outcome.Kind)
	}
	if !errors.Is(outcome.Err, ErrNoCachedAccount) {
		t.Fatalf("expected ErrNoCachedAccount, got %v", outcome.Err)
	}
}

func TestAcquireSilentMissingCredential(t *testing.T) {
	client, _ := buildTestClient(t, testConfig())

	account := Account{HomeID: "unknown.contosob2c.onmicrosoft.com", Policy: "b2c_1_susi"}
	outcome := client.AcquireSilent(context.Background(), SilentRequest{
		Flow:    FlowSignUpSignIn,
		Account: &account,
	})
	if outcome.Kind != OutcomeInteractionRequired {
		t.Fatalf("expected interaction-required, got %s", outcome.Kind)
	}
	if !errors.Is(outcome.Err, ErrInteractionRequired) {
		t.Fatalf("expected ErrInteractionRequired, got %v", outcome.Err)
	}
}

func TestAcquireSilentRefreshesExpiredCredential(t *testing.T) {
	provider := &mockProvider{
		redeemFn: func(authority Authority, refreshToken string, scopes []string) (*TokenResponse, error) {
			if refreshToken != "cached-refresh-token" {
				t.Fatalf("expected cached refresh token, got %q", refreshToken)
			}
			if authority.Policy() != "b2c_1_susi" {
				t.Fatalf("expected susi authority, got %q", authority.Policy())
			}
			resp := testTokenResponse(t, "oid1", "Jane Doe", "b2c_1_susi")
			resp.AccessToken = "refreshed-access-token"
			return resp, nil
		},
	}
	client, _ := buildTestClient(t, testConfig(), withProvider(provider))

	account := seedCredential(t, client, "b2c_1_susi", time.Now().Add(-time.Minute))

	outcome := client.AcquireSilent(context.Background(), SilentRequest{
		Flow:    FlowSignUpSignIn,
		Account: &account,
	})
	if !outcome.Succeeded() {
		t.Fatalf("expected success, got %s: %v", outcome.Kind, outcome.Err)
	}
	if outcome.Result.AccessToken != "refreshed-access-token" {
		t.Fatalf("expected refreshed token, got %q", outcome.Result.AccessToken)
	}
	if outcome.Result.Account.HomeID != account.HomeID {
		t.Fatalf("refresh must preserve account identity, got %q", outcome.Result.Account.HomeID)
	}

	// The replacement is persisted.
	cached, err := client.cache.Get(context.Background(), account.HomeID, "b2c_1_susi")
	if err != nil {
		t.Fatalf("Get after refresh failed: %v", err)
	}
	if cached.AccessToken != "refreshed-access-token" {
		t.Fatalf("expected refreshed token in cache, got %q", cached.AccessToken)
	}
}

func TestAcquireSilentRefreshKeepsOldRefreshTokenWhenNotRotated(t *testing.T) {
	provider := &mockProvider{
		redeemFn: func(Authority, string, []string) (*TokenResponse, error) {
			return &TokenResponse{
				AccessToken: "refreshed-access-token",
				ExpiresAt:   time.Now().Add(time.Hour),
			}, nil
		},
	}
	client, _ := buildTestClient(t, testConfig(), withProvider(provider))

	account := seedCredential(t, client, "b2c_1_susi", time.Now().Add(-time.Minute))

	outcome := client.AcquireSilent(context.Background(), SilentRequest{
		Flow:    FlowSignUpSignIn,
		Account: &account,
	})
	if !outcome.Succeeded() {
		t.Fatalf("expected success, got %s: %v", outcome.Kind, outcome.Err)
	}

	cached, err := client.cache.Get(context.Background(), account.HomeID, "b2c_1_susi")
	if err != nil {
		t.Fatalf("Get after refresh failed: %v", err)
	}
	if cached.RefreshToken != "cached-refresh-token" {
		t.Fatalf("expected old refresh token preserved, got %q", cached.RefreshToken)
	}
	if cached.IDToken == "" {
		t.Fatal("expected old identity token preserved")
	}
}

func TestAcquireSilentExpiredAndRefreshFails(t *testing.T) {
	client, _ := buildTestClient(t, testConfig(), withProvider(&mockProvider{}))

	account := seedCredential(t, client, "b2c_1_susi", time.Now().Add(-time.Minute))

	outcome := client.AcquireSilent(context.Background(), SilentRequest{
		Flow:    FlowSignUpSignIn,
		Account: &account,
	})
	if outcome.Kind != OutcomeInteractionRequired {
		t.Fatalf("expected interaction-required, got %s: %v", outcome.Kind, outcome.Err)
	}
	if !errors.Is(outcome.Err, ErrInteractionRequired) {
		t.Fatalf("expected ErrInteractionRequired, got %v", outcome.Err)
	}
}

func TestAcquireSilentServesCachedWhenProactiveRefreshFails(t *testing.T) {
	client, _ := buildTestClient(t, testConfig(), withProvider(&mockProvider{}))

	// Inside the 5m proactive window but not yet expired.
	account := seedCredential(t, client, "b2c_1_susi", time.Now().Add(2*time.Minute))

	outcome := client.AcquireSilent(context.Background(), SilentRequest{
		Flow:    FlowSignUpSignIn,
		Account: &account,
	})
	if !outcome.Succeeded() {
		t.Fatalf("expected cached fallback success, got %s: %v", outcome.Kind, outcome.Err)
	}
	if outcome.Result.AccessToken != "cached-access-token" {
		t.Fatalf("expected cached token, got %q", outcome.Result.AccessToken)
	}
}

func TestAcquireSilentForceRefresh(t *testing.T) {
	provider := &mockProvider{
		redeemFn: func(Authority, string, []string) (*TokenResponse, error) {
			resp := testTokenResponse(t, "oid1", "Jane Doe", "b2c_1_susi")
			resp.AccessToken = "forced-access-token"
			return resp, nil
		},
	}
	client, _ := buildTestClient(t, testConfig(), withProvider(provider))

	account := seedCredential(t, client, "b2c_1_susi", time.Now().Add(time.Hour))

	outcome := client.AcquireSilent(context.Background(), SilentRequest{
		Flow:         FlowSignUpSignIn,
		Account:      &account,
		ForceRefresh: true,
	})
	if !outcome.Succeeded() {
		t.Fatalf("expected success, got %s: %v", outcome.Kind, outcome.Err)
	}
	if outcome.Result.AccessToken != "forced-access-token" {
		t.Fatalf("expected forced refresh result, got %q", outcome.Result.AccessToken)
	}
	if provider.redeemCount() != 1 {
		t.Fatalf("expected one redeem call, got %d", provider.redeemCount())
	}
}

func TestAcquireSilentForceRefreshFailureDoesNotServeCached(t *testing.T) {
	client, _ := buildTestClient(t, testConfig(), withProvider(&mockProvider{}))

	account := seedCredential(t, client, "b2c_1_susi", time.Now().Add(time.Hour))

	outcome := client.AcquireSilent(context.Background(), SilentRequest{
		Flow:         FlowSignUpSignIn,
		Account:      &account,
		ForceRefresh: true,
	})
	if outcome.Kind != OutcomeInteractionRequired {
		t.Fatalf("expected interaction-required, got %s", outcome.Kind)
	}
}

func TestAcquireSilentNoProviderServesValidCached(t *testing.T) {
	client, _ := buildTestClient(t, testConfig())

	// Inside the proactive window, no provider configured. The cached
	// token is still valid, so it is served instead of failing.
	account := seedCredential(t, client, "b2c_1_susi", time.Now().Add(2*time.Minute))

	outcome := client.AcquireSilent(context.Background(), SilentRequest{
		Flow:    FlowSignUpSignIn,
		Account: &account,
	})
	if !outcome.Succeeded() {
		t.Fatalf("expected cached fallback success, got %s: %v", outcome.Kind, outcome.Err)
	}
}

func TestAcquireSilentRecordsMetrics(t *testing.T) {
	client, _ := buildTestClient(t, testConfig())

	account := seedCredential(t, client, "b2c_1_susi", time.Now().Add(time.Hour))

	outcome := client.AcquireSilent(context.Background(), SilentRequest{
		Flow:    FlowSignUpSignIn,
		Account: &account,
	})
	if !outcome.Succeeded() {
		t.Fatalf("expected success, got %s: %v", outcome.Kind, outcome.Err)
	}

	snapshot := client.MetricsSnapshot()
	if snapshot.Counters[MetricSilentCacheHit] != 1 {
		t.Fatalf("expected one cache-hit metric, got %d", snapshot.Counters[MetricSilentCacheHit])
	}
}
