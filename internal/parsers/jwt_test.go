package parsers

import (
	"encoding/base64"
	"testing"
)

func buildToken(t *testing.T, claimsJSON string) string {
	t.Helper()
	enc := base64.RawURLEncoding
	header := enc.EncodeToString([]byte(`{"alg":"RS256","typ":"JWT"}`))
	return header + "." + enc.EncodeToString([]byte(claimsJSON)) + ".sig"
}

func TestTokenClaims(t *testing.T) {
	token := buildToken(t, `{"email":"dev@example.com","https://api.openai.com/auth":{"chatgpt_account_id":"acct-123","chatgpt_plan_type":"plus"}}`)

	claims := TokenClaims(token)
	if claims == nil {
		t.Fatal("expected claims, got nil")
	}
	if got := ClaimString(claims, "email"); got != "dev@example.com" {
		t.Errorf("email claim = %q", got)
	}
	if got := ClaimString(claims, "https://api.openai.com/auth", "chatgpt_account_id"); got != "acct-123" {
		t.Errorf("nested claim = %q", got)
	}
}

func TestTokenClaimsMalformed(t *testing.T) {
	cases := []string{
		"",
		"not-a-jwt",
		"only.two",
		"a.%%%.c",
		buildToken(t, `not json`),
	}
	for _, token := range cases {
		if claims := TokenClaims(token); claims != nil {
			t.Errorf("TokenClaims(%q) = %v, want nil", token, claims)
		}
	}
}

func TestClaimStringMissingPath(t *testing.T) {
	claims := map[string]any{"a": map[string]any{"b": 7}}
	if got := ClaimString(claims, "a", "b"); got != "" {
		t.Errorf("non-string leaf should be empty, got %q", got)
	}
	if got := ClaimString(claims, "x", "y"); got != "" {
		t.Errorf("missing path should be empty, got %q", got)
	}
	if got := ClaimString(nil, "a"); got != "" {
		t.Errorf("nil claims should be empty, got %q", got)
	}
}
