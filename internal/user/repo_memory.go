package user

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory user store useful for tests.
// It is not intended for production use.

type MemoryRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]User
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{nextID: 1, users: make(map[int64]User)}
}

func (r *MemoryRepo) Create(ctx context.Context, n NewUser) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == n.Email {
			return User{}, ErrEmailTaken
		}
	}
	u := User{
		ID:           r.nextID,
		Name:         n.Name,
		Email:        n.Email,
		PasswordHash: n.PasswordHash,
		Level:        n.Level,
		CreatedAt:    time.Now().UTC(),
	}
	r.users[u.ID] = u
	r.nextID++
	return u, nil
}

func (r *MemoryRepo) UserByID(ctx context.Context, id int64) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (r *MemoryRepo) UserByEmail(ctx context.Context, email string) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *MemoryRepo) List(ctx context.Context, offset, limit int) ([]User, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

// Delete removes a user. Tests use it to simulate a vanished principal.
func (r *MemoryRepo) Delete(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
}
