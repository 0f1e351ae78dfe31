package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"assembly_portal_backend/platform/apperr"
)

const userNotFoundMessage = "user not found"

// uniqueViolation is the PostgreSQL error code for unique constraint hits.
const uniqueViolation = "23505"

// Repo implements the auth repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new auth repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

const userColumns = `id, email, password_hash, role, created_at, updated_at`

func scanUser(row pgx.Row) (User, error) {
	var user User
	var createdAt, updatedAt time.Time
	if err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Role, &createdAt, &updatedAt,
	); err != nil {
		return User{}, err
	}
	user.CreatedAt = createdAt.Format(time.RFC3339)
	user.UpdatedAt = updatedAt.Format(time.RFC3339)
	return user, nil
}

// CreateUser creates a user. Emails are stored lowercased and must be unique.
func (r *Repo) CreateUser(ctx context.Context, email, passwordHash, role string) (User, error) {
	query := fmt.Sprintf(`
		INSERT INTO users (email, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING %s`, userColumns)

	user, err := scanUser(r.pool.QueryRow(ctx, query, strings.ToLower(email), passwordHash, role))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return User{}, apperr.Conflict("email already registered")
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email.
func (r *Repo) GetUserByEmail(ctx context.Context, email string) (User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)

	user, err := scanUser(r.pool.QueryRow(ctx, query, strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, apperr.NotFound(userNotFoundMessage)
		}
		return User{}, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by ID.
func (r *Repo) GetUserByID(ctx context.Context, id int64) (User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, apperr.NotFound(userNotFoundMessage)
		}
		return User{}, fmt.Errorf("get user by id: %w", err)
	}
	return user, nil
}

// CreateRefreshToken stores a refresh token hash with its expiry.
func (r *Repo) CreateRefreshToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	query := `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)`
	if _, err := r.pool.Exec(ctx, query, userID, tokenHash, expiresAt); err != nil {
		return fmt.Errorf("create refresh token: %w", err)
	}
	return nil
}

// GetRefreshToken returns the owning user and expiry for a token hash.
func (r *Repo) GetRefreshToken(ctx context.Context, tokenHash string) (int64, time.Time, error) {
	query := `SELECT user_id, expires_at FROM refresh_tokens WHERE token_hash = $1`

	var userID int64
	var expiresAt time.Time
	if err := r.pool.QueryRow(ctx, query, tokenHash).Scan(&userID, &expiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, time.Time{}, apperr.Unauthorized("invalid refresh token")
		}
		return 0, time.Time{}, fmt.Errorf("get refresh token: %w", err)
	}
	return userID, expiresAt, nil
}

// RevokeRefreshToken deletes a refresh token by hash.
func (r *Repo) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	query := `DELETE FROM refresh_tokens WHERE token_hash = $1`
	if _, err := r.pool.Exec(ctx, query, tokenHash); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// RevokeAllRefreshTokens deletes every refresh token of a user.
func (r *Repo) RevokeAllRefreshTokens(ctx context.Context, userID int64) error {
	query := `DELETE FROM refresh_tokens WHERE user_id = $1`
	if _, err := r.pool.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("revoke all refresh tokens: %w", err)
	}
	return nil
}
