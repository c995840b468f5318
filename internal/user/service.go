package user

import (
	"context"

	"blog-platform/internal/config"
)

// Store is the persistence surface user operations need.
type Store interface {
	Create(ctx context.Context, n NewUser) (User, error)
	UserByID(ctx context.Context, id int64) (User, error)
	UserByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context, offset, limit int) ([]User, int, error)
}

// Service provides user operations over a Store.
type Service struct {
	store  Store
	paging config.PagingConfig
}

func NewService(store Store, paging config.PagingConfig) *Service {
	return &Service{store: store, paging: paging}
}

func (s *Service) Register(ctx context.Context, n NewUser) (User, error) {
	return s.store.Create(ctx, n)
}

func (s *Service) GetByID(ctx context.Context, id int64) (User, error) {
	return s.store.UserByID(ctx, id)
}

// Page is the paginated listing envelope. Its JSON shape is also what gets
// cached, so it must stay stable across releases.
type Page struct {
	Data       []User     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

type Pagination struct {
	CurrentPage int  `json:"current_page"`
	PageSize    int  `json:"page_size"`
	TotalUsers  int  `json:"total_users"`
	TotalPages  int  `json:"total_pages"`
	NextPage    *int `json:"next_page"`
	PrevPage    *int `json:"prev_page"`
}

// List returns one page of users. Page and size are clamped to configured
// bounds, and the offset is (page-1)*size so page 1 starts at the first row.
func (s *Service) List(ctx context.Context, page, pageSize int) (Page, error) {
	page, pageSize = s.Clamp(page, pageSize)

	users, total, err := s.store.List(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		return Page{}, err
	}
	if users == nil {
		users = []User{}
	}

	totalPages := (total + pageSize - 1) / pageSize
	p := Page{
		Data: users,
		Pagination: Pagination{
			CurrentPage: page,
			PageSize:    pageSize,
			TotalUsers:  total,
			TotalPages:  totalPages,
		},
	}
	if page < totalPages {
		next := page + 1
		p.Pagination.NextPage = &next
	}
	if page > 1 {
		prev := page - 1
		p.Pagination.PrevPage = &prev
	}
	return p, nil
}

// Clamp normalizes pagination query input to configured bounds.
func (s *Service) Clamp(page, pageSize int) (int, int) {
	if page <= 0 {
		page = s.paging.DefaultPage
	}
	if pageSize <= 0 {
		pageSize = s.paging.DefaultPageSize
	}
	if pageSize > s.paging.MaxPageSize {
		pageSize = s.paging.MaxPageSize
	}
	return page, pageSize
}
