package b2cflow

import (
	"errors"
	"testing"
)

func TestAuthorityRegistryDerivesPerFlowURLs(t *testing.T) {
	registry, err := NewAuthorityRegistry(testConfig())
	if err != nil {
		t.Fatalf("NewAuthorityRegistry failed: %v", err)
	}

	cases := []struct {
		flow   Flow
		policy string
	}{
		{FlowSignUpSignIn, "b2c_1_susi"},
		{FlowEditProfile, "b2c_1_edit_profile"},
		{FlowResetPassword, "b2c_1_reset"},
		{FlowPasswordGrant, "b2c_1_ropc"},
	}
	for _, tc := range cases {
		authority, ok := registry.For(tc.flow)
		if !ok {
			t.Fatalf("expected authority for flow %s", tc.flow)
		}
		want := "https://contosob2c.b2clogin.com/tfp/contosob2c.onmicrosoft.com/" + tc.policy
		if authority.URL() != want {
			t.Fatalf("flow %s: expected %q, got %q", tc.flow, want, authority.URL())
		}
		if authority.Policy() != tc.policy {
			t.Fatalf("flow %s: expected policy %q, got %q", tc.flow, tc.policy, authority.Policy())
		}
	}
}

func TestAuthorityRegistryPasswordGrantOptional(t *testing.T) {
	cfg := testConfig()
	cfg.Policies.PasswordGrant = ""

	registry, err := NewAuthorityRegistry(cfg)
	if err != nil {
		t.Fatalf("NewAuthorityRegistry failed: %v", err)
	}

	if _, ok := registry.For(FlowPasswordGrant); ok {
		t.Fatal("expected no authority for unconfigured password-grant flow")
	}
	if _, ok := registry.For(FlowSignUpSignIn); !ok {
		t.Fatal("expected sign-up-sign-in authority to remain available")
	}
}

func TestAuthorityRegistryRejectsBlankSegments(t *testing.T) {
	cfg := testConfig()
	cfg.Host = "   "

	if _, err := NewAuthorityRegistry(cfg); err == nil {
		t.Fatal("expected error for blank host")
	} else {
		var ce *ConfigurationError
		if !errors.As(err, &ce) {
			t.Fatalf("expected ConfigurationError, got %T", err)
		}
	}

	cfg = testConfig()
	cfg.Policies.EditProfile = " "
	if _, err := NewAuthorityRegistry(cfg); err == nil {
		t.Fatal("expected error for whitespace policy name")
	}
}

func TestAuthorityRegistryOutOfRangeFlow(t *testing.T) {
	registry, err := NewAuthorityRegistry(testConfig())
	if err != nil {
		t.Fatalf("NewAuthorityRegistry failed: %v", err)
	}
	if _, ok := registry.For(Flow(200)); ok {
		t.Fatal("expected no authority for out-of-range flow")
	}
}
