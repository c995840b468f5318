package user

import (
	"errors"
	"time"
)

// ErrNotFound is returned by stores when no user matches the lookup.
var ErrNotFound = errors.New("user not found")

// ErrEmailTaken is returned when registration collides on the unique email.
var ErrEmailTaken = errors.New("email already exists")

// User is the persisted identity record.
// PasswordHash is a one-way bcrypt hash; the plaintext is never stored or logged.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`

	PasswordHash string `json:"-"`

	// Level is the privilege tier. Plain users are 0.
	Level int `json:"level"`

	CreatedAt time.Time `json:"created_at"`
}

// NewUser carries validated registration input.
// PasswordHash must already be hashed by the caller.
type NewUser struct {
	Name         string
	Email        string
	PasswordHash string
	Level        int
}
