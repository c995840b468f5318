package post

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// NOTE: This repository assumes the following table exists:
//
// CREATE TABLE posts (
//   id         BIGSERIAL PRIMARY KEY,
//   title      TEXT NOT NULL UNIQUE,
//   content    TEXT NOT NULL,
//   user_id    BIGINT NOT NULL REFERENCES users(id),
//   created_at TIMESTAMPTZ NOT NULL
// );

// Repo is the Postgres-backed post store.
type Repo struct {
	db    *sql.DB
	clock func() time.Time
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db, clock: time.Now}
}

func (r *Repo) Create(ctx context.Context, n NewPost) (Post, error) {
	const q = `
INSERT INTO posts (title, content, user_id, created_at)
VALUES ($1, $2, $3, $4)
RETURNING id, title, content, user_id, created_at
`
	var p Post
	err := r.db.QueryRowContext(ctx, q, n.Title, n.Content, n.UserID, r.clock().UTC()).Scan(
		&p.ID,
		&p.Title,
		&p.Content,
		&p.UserID,
		&p.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Post{}, ErrTitleTaken
		}
		return Post{}, err
	}
	return p, nil
}

func (r *Repo) PostByID(ctx context.Context, id int64) (Post, error) {
	const q = `
SELECT id, title, content, user_id, created_at
FROM posts
WHERE id = $1
`
	var p Post
	err := r.db.QueryRowContext(ctx, q, id).Scan(&p.ID, &p.Title, &p.Content, &p.UserID, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Post{}, ErrNotFound
		}
		return Post{}, err
	}
	return p, nil
}
