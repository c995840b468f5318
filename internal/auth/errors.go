package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials covers both unknown user and wrong password.
	// Callers must not distinguish the two; that would leak which emails exist.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken covers malformed, badly signed, expired and
	// wrong-scope tokens alike.
	ErrInvalidToken = errors.New("invalid token")

	// ErrPrincipalNotFound means a valid token whose subject no longer maps
	// to a user record. Surfaced to clients the same as an invalid token.
	ErrPrincipalNotFound = errors.New("principal not found")
)

type DecodeReason string

const (
	ReasonMalformed    DecodeReason = "malformed"
	ReasonBadSignature DecodeReason = "bad_signature"
	ReasonExpired      DecodeReason = "expired"
)

// DecodeError reports why a token failed to decode.
type DecodeError struct {
	Reason DecodeReason
	cause  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("token decode failed: %s", e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.cause }
