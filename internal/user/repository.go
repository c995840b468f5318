package user

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// NOTE: This repository assumes the following table exists:
//
// CREATE TABLE users (
//   id            BIGSERIAL PRIMARY KEY,
//   name          TEXT NOT NULL,
//   email         TEXT NOT NULL UNIQUE,
//   password_hash TEXT NOT NULL,
//   level         INT  NOT NULL DEFAULT 0,
//   created_at    TIMESTAMPTZ NOT NULL
// );

// Repo is the Postgres-backed user store.
type Repo struct {
	db *sql.DB
	// clock is injectable for deterministic tests.
	clock func() time.Time
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db, clock: time.Now}
}

func (r *Repo) Create(ctx context.Context, n NewUser) (User, error) {
	const q = `
INSERT INTO users (name, email, password_hash, level, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, name, email, password_hash, level, created_at
`
	var u User
	err := r.db.QueryRowContext(ctx, q, n.Name, n.Email, n.PasswordHash, n.Level, r.clock().UTC()).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Level,
		&u.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}
	return u, nil
}

func (r *Repo) UserByID(ctx context.Context, id int64) (User, error) {
	const q = `
SELECT id, name, email, password_hash, level, created_at
FROM users
WHERE id = $1
`
	return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

func (r *Repo) UserByEmail(ctx context.Context, email string) (User, error) {
	const q = `
SELECT id, name, email, password_hash, level, created_at
FROM users
WHERE email = $1
`
	return r.scanOne(r.db.QueryRowContext(ctx, q, email))
}

// List returns one page of users ordered by id, plus the total row count.
func (r *Repo) List(ctx context.Context, offset, limit int) ([]User, int, error) {
	const countQ = `SELECT COUNT(*) FROM users`
	var total int
	if err := r.db.QueryRowContext(ctx, countQ).Scan(&total); err != nil {
		return nil, 0, err
	}

	const q = `
SELECT id, name, email, password_hash, level, created_at
FROM users
ORDER BY id
OFFSET $1 LIMIT $2
`
	rows, err := r.db.QueryContext(ctx, q, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Level, &u.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *Repo) scanOne(row *sql.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Level, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

// isUniqueViolation matches Postgres SQLSTATE 23505 (unique_violation).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
