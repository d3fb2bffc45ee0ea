package book

import (
	"time"

	"github.com/google/uuid"
)

// Book is a catalog entry. Every book has exactly one owner; only the owner
// may delete it, everyone may read it through the public listing. There is
// no edit operation - a book is immutable once created.
type Book struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Author    string    `db:"author" json:"author"`
	Genre     string    `db:"genre" json:"genre"`
	UserID    uuid.UUID `db:"user_id" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// BookWithOwner is a Book annotated with the owner's display name for the
// public views. Only the name is exposed - never the owner's email or id.
type BookWithOwner struct {
	Book
	OwnerName string `json:"owner_name"`
}
