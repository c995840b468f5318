package post

import "context"

// Store is the persistence surface post operations need.
type Store interface {
	Create(ctx context.Context, n NewPost) (Post, error)
	PostByID(ctx context.Context, id int64) (Post, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Create(ctx context.Context, n NewPost) (Post, error) {
	return s.store.Create(ctx, n)
}

func (s *Service) GetByID(ctx context.Context, id int64) (Post, error) {
	return s.store.PostByID(ctx, id)
}
