package post

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is an in-memory post store useful for tests.
// It is not intended for production use.

type MemoryRepo struct {
	mu     sync.Mutex
	nextID int64
	posts  map[int64]Post
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{nextID: 1, posts: make(map[int64]Post)}
}

func (r *MemoryRepo) Create(ctx context.Context, n NewPost) (Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.posts {
		if p.Title == n.Title {
			return Post{}, ErrTitleTaken
		}
	}
	p := Post{
		ID:        r.nextID,
		Title:     n.Title,
		Content:   n.Content,
		UserID:    n.UserID,
		CreatedAt: time.Now().UTC(),
	}
	r.posts[p.ID] = p
	r.nextID++
	return p, nil
}

func (r *MemoryRepo) PostByID(ctx context.Context, id int64) (Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return Post{}, ErrNotFound
	}
	return p, nil
}
