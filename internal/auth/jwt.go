package auth

import (
	"errors"
	"fmt"
	"time"

	"blog-platform/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Manager is the token codec: it signs and verifies the claim sets carried
// by access and refresh tokens. Tokens are stateless; nothing is persisted.
type Manager struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewManager(cfg config.AuthConfig) (*Manager, error) {
	if cfg.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	method, err := signingMethod(cfg.Algorithm)
	if err != nil {
		return nil, err
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("token TTLs must be positive")
	}

	return &Manager{
		secret:     []byte(cfg.Secret),
		method:     method,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
	}, nil
}

// RefreshTTL is exposed for cookie Max-Age computation.
func (m *Manager) RefreshTTL() time.Duration { return m.refreshTTL }

/* ===================== ISSUE TOKENS ===================== */

// IssuePair mints an access token and a refresh token for one subject.
func (m *Manager) IssuePair(now time.Time, subject string) (TokenPair, error) {
	access, err := m.IssueAccess(now, subject)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := m.IssueRefresh(now, subject)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// IssueAccess mints a short-lived token with no scope claim.
func (m *Manager) IssueAccess(now time.Time, subject string) (string, error) {
	return m.issue(now, subject, "", m.accessTTL)
}

// IssueRefresh mints a long-lived token marked with the refresh scope.
func (m *Manager) IssueRefresh(now time.Time, subject string) (string, error) {
	return m.issue(now, subject, ScopeRefresh, m.refreshTTL)
}

func (m *Manager) issue(now time.Time, subject, scope string, ttl time.Duration) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Scope: scope,
	}

	t := jwt.NewWithClaims(m.method, claims)
	return t.SignedString(m.secret)
}

/* ===================== DECODE TOKEN ===================== */

// Decode verifies signature and expiration against the verifier's clock and
// returns the claim set. Tokens signed with any algorithm other than the
// configured one are rejected, never accepted as a fallback.
// Failures are always a *DecodeError.
func (m *Manager) Decode(tokenString string, now time.Time) (Claims, error) {
	var claims Claims

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{m.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)

	_, err := parser.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		return Claims{}, &DecodeError{Reason: decodeReason(err), cause: err}
	}
	return claims, nil
}

func decodeReason(err error) DecodeReason {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ReasonExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ReasonBadSignature
	default:
		// Covers unparsable tokens and missing required claims alike.
		return ReasonMalformed
	}
}

func signingMethod(alg string) (jwt.SigningMethod, error) {
	switch alg {
	case "HS256":
		return jwt.SigningMethodHS256, nil
	case "HS384":
		return jwt.SigningMethodHS384, nil
	case "HS512":
		return jwt.SigningMethodHS512, nil
	default:
		return nil, fmt.Errorf("unsupported signing algorithm %q", alg)
	}
}
