package parsers

import "github.com/golang-jwt/jwt/v5"

// TokenClaims decodes the claims of a JWT without verifying its signature.
// The tokens we see are only mined for identity hints (email, account id),
// never trusted for authorization, so signature checks are pointless here.
// Malformed tokens yield nil.
func TokenClaims(token string) map[string]any {
	if token == "" {
		return nil
	}
	parser := jwt.NewParser(jwt.WithPaddingAllowed())
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil
	}
	return claims
}

// ClaimString walks a claims map along path and returns the string leaf, or
// "" when any step is missing or the wrong shape.
func ClaimString(claims map[string]any, path ...string) string {
	if claims == nil || len(path) == 0 {
		return ""
	}
	cur := claims
	for _, key := range path[:len(path)-1] {
		next, ok := cur[key].(map[string]any)
		if !ok {
			return ""
		}
		cur = next
	}
	s, _ := cur[path[len(path)-1]].(string)
	return s
}
