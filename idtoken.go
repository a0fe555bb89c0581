package b2cflow

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
)

// IDTokenClaims is the decoded identity-token payload. Only the claims the
// orchestrator and its callers consume are modelled; unknown claims are
// dropped on decode.
type IDTokenClaims struct {
	Name    string   `json:"name"`
	OID     string   `json:"oid"`
	Subject string   `json:"sub"`
	Emails  []string `json:"emails"`
	Issuer  string   `json:"iss"`

	// TFP is the trust-framework-policy marker naming the policy that
	// issued the token. Some provider versions emit it as "acr" instead.
	TFP string `json:"tfp"`
	ACR string `json:"acr"`

	StreetAddress string `json:"streetAddress"`
	City          string `json:"city"`
	State         string `json:"state"`
	Country       string `json:"country"`
	JobTitle      string `json:"jobTitle"`
}

// PolicyMarker returns the policy named by the token, preferring tfp over
// the legacy acr claim.
func (c *IDTokenClaims) PolicyMarker() string {
	if c.TFP != "" {
		return c.TFP
	}
	return c.ACR
}

// PrincipalID returns the stable principal identifier, preferring oid over
// sub.
func (c *IDTokenClaims) PrincipalID() string {
	if c.OID != "" {
		return c.OID
	}
	return c.Subject
}

var errMalformedIDToken = errors.New("malformed identity token")

// ParseIDTokenClaims decodes the payload segment of a `.`-delimited
// three-part identity token. Only the middle segment is consumed; the
// signature is never verified here; the provider collaborators own trust.
func ParseIDTokenClaims(idToken string) (*IDTokenClaims, error) {
	parts := strings.Split(idToken, ".")
	if len(parts) != 3 {
		return nil, errMalformedIDToken
	}

	payload, err := base64URLDecode(parts[1])
	if err != nil {
		return nil, errMalformedIDToken
	}

	claims := &IDTokenClaims{}
	if err := json.Unmarshal(payload, claims); err != nil {
		return nil, errMalformedIDToken
	}
	return claims, nil
}

// base64URLDecode decodes an unpadded base64url string: `-`→`+`, `_`→`/`,
// right-padded with `=` to a multiple of four bytes.
func base64URLDecode(s string) ([]byte, error) {
	s = strings.ReplaceAll(s, "-", "+")
	s = strings.ReplaceAll(s, "_", "/")
	if rem := len(s) % 4; rem != 0 {
		s += strings.Repeat("=", 4-rem)
	}
	return base64.StdEncoding.DecodeString(s)
}
