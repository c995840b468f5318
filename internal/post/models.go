package post

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned by stores when no post matches the lookup.
	ErrNotFound = errors.New("post not found")
	// ErrTitleTaken is returned when creation collides on an existing title.
	ErrTitleTaken = errors.New("post title already exists")
)

// Post is a user-authored entry.
type Post struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`

	// UserID is the authoring user; always the authenticated principal.
	UserID int64 `json:"user_id"`

	CreatedAt time.Time `json:"created_at"`
}

// NewPost carries validated creation input.
type NewPost struct {
	Title   string
	Content string
	UserID  int64
}
