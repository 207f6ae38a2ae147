package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenStatus classifies a stored access token without contacting the backend.
type TokenStatus int

const (
	TokenMissing TokenStatus = iota
	TokenOpaque
	TokenInvalid
	TokenExpired
	TokenValid
)

var tokenStatusNames = []string{"TokenMissing", "TokenOpaque", "TokenInvalid", "TokenExpired", "TokenValid"}

func (t TokenStatus) String() string {
	if t < 0 || int(t) >= len(tokenStatusNames) {
		return fmt.Sprintf("TokenStatus(%d)", int(t))
	}
	return tokenStatusNames[t]
}

func (t TokenStatus) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// TokenInfo is what Inspect can tell about a token.
type TokenInfo struct {
	Status    TokenStatus `json:"status"`
	Subject   string      `json:"subject,omitempty"`
	ExpiresAt *time.Time  `json:"expires_at,omitempty"`
}

// Inspect parses JWT claims without verifying the signature. Tokens that are not
// JWT-shaped are reported as opaque.
func Inspect(token string, now time.Time) TokenInfo {
	if token == "" {
		return TokenInfo{Status: TokenMissing}
	}
	if strings.Count(token, ".") != 2 {
		return TokenInfo{Status: TokenOpaque}
	}

	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	claims := &jwt.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return TokenInfo{Status: TokenInvalid}
	}

	info := TokenInfo{Status: TokenValid, Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		exp := claims.ExpiresAt.Time.UTC()
		info.ExpiresAt = &exp
		if !exp.After(now) {
			info.Status = TokenExpired
		}
	}
	return info
}
