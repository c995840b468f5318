package auth

import "github.com/golang-jwt/jwt/v5"

// ScopeRefresh is the scope claim value that marks a refresh token.
// Access tokens carry no scope claim at all.
const ScopeRefresh = "refresh_token"

// Claims are the only supported JWT claims shape for this service.
// Keeping the scope a named field (instead of an open map) makes the
// access/refresh isolation check explicit: a token either carries
// scope == "refresh_token" or it is an access token.
type Claims struct {
	jwt.RegisteredClaims

	Scope string `json:"scope,omitempty"`
}

// IsRefresh reports whether the claims mark a refresh token.
func (c Claims) IsRefresh() bool { return c.Scope == ScopeRefresh }

// TokenPair is one access/refresh issuance.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
