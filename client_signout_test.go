package b2cflow

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSignOutRemovesAllAccounts(t *testing.T) {
	client, _ := buildTestClient(t, testConfig())

	seedCredential(t, client, "b2c_1_susi", time.Now().Add(time.Hour))
	seedCredential(t, client, "b2c_1_edit_profile", time.Now().Add(time.Hour))
	client.session.set(true)

	if err := client.SignOut(context.Background()); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}
	if got := cachedCredentialCount(t, client); got != 0 {
		t.Fatalf("expected empty cache, got %d accounts", got)
	}
	if client.SignedIn() {
		t.Fatal("expected session signed out")
	}

	snapshot := client.MetricsSnapshot()
	if snapshot.Counters[MetricAccountRemoved] != 2 {
		t.Fatalf("expected two removal metrics, got %d", snapshot.Counters[MetricAccountRemoved])
	}
}

func TestSignOutEmptyCacheIsNoOp(t *testing.T) {
	client, _ := buildTestClient(t, testConfig())

	if err := client.SignOut(context.Background()); err != nil {
		t.Fatalf("expected no-op sign-out, got %v", err)
	}
	if err := client.SignOut(context.Background()); err != nil {
		t.Fatalf("expected idempotent sign-out, got %v", err)
	}
}

func TestSignOutAggregatesBackendFailures(t *testing.T) {
	client, mr := buildTestClient(t, testConfig())

	seedCredential(t, client, "b2c_1_susi", time.Now().Add(time.Hour))
	mr.SetError("backend down")

	err := client.SignOut(context.Background())
	if err == nil {
		t.Fatal("expected aggregated failure")
	}
	if client.SignedIn() {
		t.Fatal("expected session signed out even on failure")
	}

	mr.SetError("")
	if err := client.SignOut(context.Background()); err != nil {
		t.Fatalf("expected recovery after backend returns, got %v", err)
	}
	if got := cachedCredentialCount(t, client); got != 0 {
		t.Fatalf("expected empty cache after recovery, got %d", got)
	}
}

func TestRemoveAccount(t *testing.T) {
	client, _ := buildTestClient(t, testConfig())

	account := seedCredential(t, client, "b2c_1_susi", time.Now().Add(time.Hour))
	other := seedCredential(t, client, "b2c_1_edit_profile", time.Now().Add(time.Hour))

	if err := client.RemoveAccount(context.Background(), account); err != nil {
		t.Fatalf("RemoveAccount failed: %v", err)
	}

	accounts, err := client.Accounts(context.Background())
	if err != nil {
		t.Fatalf("Accounts failed: %v", err)
	}
	if len(accounts) != 1 || accounts[0].HomeID != other.HomeID {
		t.Fatalf("expected only the other account to remain, got %+v", accounts)
	}

	// Removing an unknown account is a no-op.
	if err := client.RemoveAccount(context.Background(), account); err != nil {
		t.Fatalf("expected no-op removal, got %v", err)
	}
}

func TestSignOutOnNilClient(t *testing.T) {
	var client *Client
	if err := client.SignOut(context.Background()); !errors.Is(err, ErrClientNotReady) {
		t.Fatalf("expected ErrClientNotReady, got %v", err)
	}
}
