package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookshelf-backend/internal/domains/book"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository returns the pgx-backed book.Repository.
func NewPostgresRepository(pool *pgxpool.Pool) book.Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, b *book.Book) error {
	// created_at defaults to now() in the schema; reading it back keeps
	// the returned entity byte-identical to what later fetches will see.
	query := `
		INSERT INTO books (id, title, author, genre, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.pool.QueryRow(ctx, query,
		b.ID,
		b.Title,
		b.Author,
		b.Genre,
		b.UserID,
	).Scan(&b.CreatedAt)
	if err != nil {
		return fmt.Errorf("create book: %w", err)
	}

	return nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*book.BookWithOwner, error) {
	query := `
		SELECT b.id, b.title, b.author, b.genre, b.user_id, b.created_at, u.name
		FROM books b
		JOIN users u ON u.id = b.user_id
		WHERE b.id = $1
	`

	var bw book.BookWithOwner
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&bw.ID,
		&bw.Title,
		&bw.Author,
		&bw.Genre,
		&bw.UserID,
		&bw.CreatedAt,
		&bw.OwnerName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, book.ErrBookNotFound
		}
		return nil, fmt.Errorf("find book by id: %w", err)
	}

	return &bw, nil
}

func (r *postgresRepository) ListByOwner(ctx context.Context, userID uuid.UUID) ([]book.Book, error) {
	query := `
		SELECT id, title, author, genre, user_id, created_at
		FROM books
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list books by owner: %w", err)
	}
	defer rows.Close()

	books := []book.Book{}
	for rows.Next() {
		var b book.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Genre, &b.UserID, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan book row: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate book rows: %w", err)
	}

	return books, nil
}

func (r *postgresRepository) ListAll(ctx context.Context) ([]book.BookWithOwner, error) {
	query := `
		SELECT b.id, b.title, b.author, b.genre, b.user_id, b.created_at, u.name
		FROM books b
		JOIN users u ON u.id = b.user_id
		ORDER BY b.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list all books: %w", err)
	}
	defer rows.Close()

	books := []book.BookWithOwner{}
	for rows.Next() {
		var bw book.BookWithOwner
		if err := rows.Scan(&bw.ID, &bw.Title, &bw.Author, &bw.Genre, &bw.UserID, &bw.CreatedAt, &bw.OwnerName); err != nil {
			return nil, fmt.Errorf("scan book row: %w", err)
		}
		books = append(books, bw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate book rows: %w", err)
	}

	return books, nil
}

func (r *postgresRepository) DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error {
	// Ownership is checked atomically with the delete itself. Zero rows
	// affected means "absent or not yours" - callers report both as not
	// found.
	query := `DELETE FROM books WHERE id = $1 AND user_id = $2`

	tag, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return book.ErrBookNotFound
	}
	return nil
}
