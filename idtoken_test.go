package b2cflow

import (
	"encoding/base64"
	"testing"
)

func TestParseIDTokenClaims(t *testing.T) {
	token := mintIDToken(t, map[string]any{
		"name":   "Jane Doe",
		"oid":    "11111111-2222-3333-4444-555555555555",
		"sub":    "fallback-sub",
		"emails": []string{"jane@example.com"},
		"tfp":    "b2c_1_susi",
		"city":   "Redmond",
	})

	claims, err := ParseIDTokenClaims(token)
	if err != nil {
		t.Fatalf("ParseIDTokenClaims failed: %v", err)
	}
	if claims.Name != "Jane Doe" {
		t.Fatalf("expected name, got %q", claims.Name)
	}
	if claims.PolicyMarker() != "b2c_1_susi" {
		t.Fatalf("expected tfp policy marker, got %q", claims.PolicyMarker())
	}
	if claims.PrincipalID() != "11111111-2222-3333-4444-555555555555" {
		t.Fatalf("expected oid principal, got %q", claims.PrincipalID())
	}
	if claims.City != "Redmond" {
		t.Fatalf("expected city claim, got %q", claims.City)
	}
	if len(claims.Emails) != 1 || claims.Emails[0] != "jane@example.com" {
		t.Fatalf("expected emails claim, got %v", claims.Emails)
	}
}

func TestPolicyMarkerFallsBackToACR(t *testing.T) {
	token := mintIDToken(t, map[string]any{
		"acr": "b2c_1_legacy",
		"sub": "legacy-sub",
	})

	claims, err := ParseIDTokenClaims(token)
	if err != nil {
		t.Fatalf("ParseIDTokenClaims failed: %v", err)
	}
	if claims.PolicyMarker() != "b2c_1_legacy" {
		t.Fatalf("expected acr fallback, got %q", claims.PolicyMarker())
	}
	if claims.PrincipalID() != "legacy-sub" {
		t.Fatalf("expected sub fallback, got %q", claims.PrincipalID())
	}
}

func TestParseIDTokenClaimsRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"only-one-part",
		"two.parts",
		"a.b.c.d",
		"aGVhZGVy.!!!notbase64!!!.sig",
		"aGVhZGVy." + base64.RawURLEncoding.EncodeToString([]byte("not json")) + ".sig",
	}
	for _, raw := range cases {
		if _, err := ParseIDTokenClaims(raw); err == nil {
			t.Fatalf("expected parse failure for %q", raw)
		}
	}
}

func TestBase64URLDecodePadding(t *testing.T) {
	// Payload lengths chosen to exercise zero, one, and two pad bytes.
	for _, payload := range []string{"abcd", "abcde", "abcdef", "ab?~cd"} {
		encoded := base64.RawURLEncoding.EncodeToString([]byte(payload))
		decoded, err := base64URLDecode(encoded)
		if err != nil {
			t.Fatalf("decode %q failed: %v", payload, err)
		}
		if string(decoded) != payload {
			t.Fatalf("expected %q, got %q", payload, decoded)
		}
	}
}
