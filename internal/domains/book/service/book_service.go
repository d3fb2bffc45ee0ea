package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"bookshelf-backend/internal/domains/book"
)

type bookService struct {
	repo book.Repository
}

// NewBookService wires the catalog logic to its repository.
func NewBookService(repo book.Repository) book.Service {
	return &bookService{repo: repo}
}

func (s *bookService) Create(ctx context.Context, ownerID uuid.UUID, req book.CreateBookRequest) (*book.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// The owner is always the authenticated caller - never taken from
	// the request body.
	b := &book.Book{
		ID:     uuid.New(),
		Title:  req.Title,
		Author: req.Author,
		Genre:  req.Genre,
		UserID: ownerID,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	return b, nil
}

func (s *bookService) GetByID(ctx context.Context, id uuid.UUID) (*book.BookWithOwner, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *bookService) ListOwn(ctx context.Context, ownerID uuid.UUID) ([]book.Book, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *bookService) ListAll(ctx context.Context) ([]book.BookWithOwner, error) {
	return s.repo.ListAll(ctx)
}

func (s *bookService) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	return s.repo.DeleteOwned(ctx, id, ownerID)
}
