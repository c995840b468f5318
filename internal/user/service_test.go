package user

import (
	"context"
	"fmt"
	"testing"

	"blog-platform/internal/config"
)

func testPaging() config.PagingConfig {
	return config.PagingConfig{DefaultPage: 1, DefaultPageSize: 10, MaxPageSize: 100}
}

func seed(t *testing.T, repo *MemoryRepo, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := repo.Create(context.Background(), NewUser{
			Name:         fmt.Sprintf("user-%d", i),
			Email:        fmt.Sprintf("user-%d@example.com", i),
			PasswordHash: "x",
		})
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func TestRegister_RejectsDuplicateEmail(t *testing.T) {
	svc := NewService(NewMemoryRepo(), testPaging())

	if _, err := svc.Register(context.Background(), NewUser{Name: "a", Email: "a@example.com", PasswordHash: "h"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := svc.Register(context.Background(), NewUser{Name: "b", Email: "a@example.com", PasswordHash: "h"})
	if err != ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestList_PaginationEnvelope(t *testing.T) {
	repo := NewMemoryRepo()
	seed(t, repo, 25)
	svc := NewService(repo, testPaging())

	p, err := svc.List(context.Background(), 2, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(p.Data) != 10 {
		t.Fatalf("expected 10 users on page 2, got %d", len(p.Data))
	}
	// Page 1 covers ids 1..10, so page 2 must start at id 11.
	if p.Data[0].ID != 11 {
		t.Fatalf("expected page 2 to start at id 11, got %d", p.Data[0].ID)
	}
	pg := p.Pagination
	if pg.CurrentPage != 2 || pg.PageSize != 10 || pg.TotalUsers != 25 || pg.TotalPages != 3 {
		t.Fatalf("unexpected pagination: %+v", pg)
	}
	if pg.NextPage == nil || *pg.NextPage != 3 {
		t.Fatalf("expected next_page 3, got %v", pg.NextPage)
	}
	if pg.PrevPage == nil || *pg.PrevPage != 1 {
		t.Fatalf("expected prev_page 1, got %v", pg.PrevPage)
	}
}

func TestList_LastPageHasNoNext(t *testing.T) {
	repo := NewMemoryRepo()
	seed(t, repo, 25)
	svc := NewService(repo, testPaging())

	p, err := svc.List(context.Background(), 3, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(p.Data) != 5 {
		t.Fatalf("expected 5 users on last page, got %d", len(p.Data))
	}
	if p.Pagination.NextPage != nil {
		t.Fatalf("expected no next_page on last page")
	}
}

func TestList_ClampsToBounds(t *testing.T) {
	repo := NewMemoryRepo()
	seed(t, repo, 3)
	svc := NewService(repo, testPaging())

	p, err := svc.List(context.Background(), 0, 1000)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if p.Pagination.CurrentPage != 1 {
		t.Fatalf("expected default page 1, got %d", p.Pagination.CurrentPage)
	}
	if p.Pagination.PageSize != 100 {
		t.Fatalf("expected page size clamped to 100, got %d", p.Pagination.PageSize)
	}
}

func TestList_EmptyPageIsNotAnError(t *testing.T) {
	svc := NewService(NewMemoryRepo(), testPaging())
	p, err := svc.List(context.Background(), 5, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if p.Data == nil || len(p.Data) != 0 {
		t.Fatalf("expected empty data slice, got %v", p.Data)
	}
}
