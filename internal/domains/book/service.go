package book

import (
	"context"

	"github.com/google/uuid"
)

// Service is the catalog business-logic contract.
type Service interface {
	// Create adds a book owned by ownerID.
	Create(ctx context.Context, ownerID uuid.UUID, req CreateBookRequest) (*Book, error)

	// GetByID returns a single book with its owner's name (public).
	GetByID(ctx context.Context, id uuid.UUID) (*BookWithOwner, error)

	// ListOwn returns the caller's books, newest first.
	ListOwn(ctx context.Context, ownerID uuid.UUID) ([]Book, error)

	// ListAll returns the public listing, newest first.
	ListAll(ctx context.Context) ([]BookWithOwner, error)

	// Delete removes a book the caller owns.
	// Returns ErrBookNotFound when it is absent or not theirs.
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}
