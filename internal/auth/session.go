package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"blog-platform/internal/user"
)

// UserStore is the persistence surface the session service borrows.
// The connection behind it is owned by the request boundary, not by auth.
type UserStore interface {
	UserByEmail(ctx context.Context, email string) (user.User, error)
	UserByID(ctx context.Context, id int64) (user.User, error)
}

// Service orchestrates the session lifecycle: login issues a token pair,
// refresh rotates it, authenticate resolves a bearer token to a principal.
// It is stateless; concurrent use needs no locking.
type Service struct {
	tokens *Manager
	users  UserStore

	// now is injectable for deterministic tests.
	now func() time.Time
}

func NewService(tokens *Manager, users UserStore) *Service {
	return &Service{tokens: tokens, users: users, now: time.Now}
}

// Tokens exposes the codec for middleware and handlers that need TTLs.
func (s *Service) Tokens() *Manager { return s.tokens }

// Login verifies credentials and mints a fresh token pair.
// Unknown email and wrong password both return ErrInvalidCredentials so the
// response never reveals whether an account exists.
func (s *Service) Login(ctx context.Context, email, password string) (TokenPair, error) {
	u, err := s.users.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return TokenPair{}, ErrInvalidCredentials
		}
		return TokenPair{}, fmt.Errorf("user lookup: %w", err)
	}
	if !VerifyPassword(password, u.PasswordHash) {
		return TokenPair{}, ErrInvalidCredentials
	}
	return s.tokens.IssuePair(s.now(), strconv.FormatInt(u.ID, 10))
}

// Refresh validates a refresh token and mints a new pair for the same
// subject. The pair rotates on every call; the old refresh token is not
// invalidated server-side (stateless tokens have no denylist).
func (s *Service) Refresh(token string) (TokenPair, error) {
	claims, err := s.tokens.Decode(token, s.now())
	if err != nil {
		return TokenPair{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	// An access token presented as a refresh token must be rejected.
	if !claims.IsRefresh() {
		return TokenPair{}, fmt.Errorf("%w: missing refresh scope", ErrInvalidToken)
	}
	if claims.Subject == "" {
		return TokenPair{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return s.tokens.IssuePair(s.now(), claims.Subject)
}

// Authenticate resolves an access token to its principal.
func (s *Service) Authenticate(ctx context.Context, token string) (user.User, error) {
	claims, err := s.tokens.Decode(token, s.now())
	if err != nil {
		return user.User{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	// A refresh token must never authorize a request.
	if claims.IsRefresh() {
		return user.User{}, fmt.Errorf("%w: refresh scope on access path", ErrInvalidToken)
	}
	if claims.Subject == "" {
		return user.User{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return user.User{}, fmt.Errorf("%w: non-numeric subject", ErrInvalidToken)
	}

	u, err := s.users.UserByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			// Valid token, vanished account.
			return user.User{}, ErrPrincipalNotFound
		}
		return user.User{}, fmt.Errorf("principal lookup: %w", err)
	}
	return u, nil
}
