package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookshelf-backend/internal/domains/user"
)

// uniqueViolation is the PostgreSQL error code for a unique-index conflict.
const uniqueViolation = "23505"

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository returns the pgx-backed user.Repository.
func NewPostgresRepository(pool *pgxpool.Pool) user.Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (id, email, name, password_hash, google_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		u.ID,
		u.Email,
		u.Name,
		u.PasswordHash,
		u.GoogleID,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		// A losing concurrent insert surfaces here as a unique
		// violation; map it to the domain error instead of a raw fault.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			if strings.Contains(pgErr.ConstraintName, "google_id") {
				return user.ErrAccountConflict
			}
			return user.ErrEmailAlreadyExists
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `
		SELECT id, email, name, password_hash, google_id, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	u, err := r.scanOne(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

func (r *postgresRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `
		SELECT id, email, name, password_hash, google_id, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	u, err := r.scanOne(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

func (r *postgresRepository) AttachGoogleID(ctx context.Context, id uuid.UUID, googleID string) error {
	// Conditional on google_id IS NULL so a concurrent link attempt
	// cannot overwrite an id that landed first.
	query := `
		UPDATE users
		SET google_id = $2, updated_at = $3
		WHERE id = $1 AND google_id IS NULL
	`

	tag, err := r.pool.Exec(ctx, query, id, googleID, time.Now())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			// The google id is already bound to some other user.
			return user.ErrAccountConflict
		}
		return fmt.Errorf("attach google id: %w", err)
	}

	if tag.RowsAffected() == 0 {
		// Either the user vanished or it gained a google id since we
		// looked; tell them apart with one more read.
		u, err := r.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if u.GoogleID != nil && *u.GoogleID == googleID {
			// Concurrent link of the same identity already won.
			return nil
		}
		return user.ErrAccountConflict
	}

	return nil
}

func (r *postgresRepository) scanOne(row pgx.Row) (*user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.PasswordHash,
		&u.GoogleID,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
