package book

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the data-access contract for books.
type Repository interface {
	// Create inserts a new book. The store assigns created_at; the
	// inserted row's id and timestamp are written back into b.
	Create(ctx context.Context, b *Book) error

	// FindByID returns a book with its owner's display name.
	// Returns ErrBookNotFound when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*BookWithOwner, error)

	// ListByOwner returns a user's books, newest first.
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]Book, error)

	// ListAll returns every book with owner names, newest first.
	ListAll(ctx context.Context) ([]BookWithOwner, error)

	// DeleteOwned deletes the book only if ownerID matches, in a single
	// conditional statement - no separate read, no check-then-act gap.
	// Returns ErrBookNotFound when nothing was deleted, whether the book
	// is absent or owned by someone else.
	DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error
}
