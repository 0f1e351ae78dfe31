package repository

import (
	"context"
	"time"
)

// User roles. Administrators see all projects and manage the catalog,
// promotions and order confirmation.
const (
	RoleStandard      = "standard"
	RoleAdministrator = "administrator"
)

// User is a registered account.
type User struct {
	ID           int64  `db:"id"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	Role         string `db:"role"`
	CreatedAt    string `db:"created_at"`
	UpdatedAt    string `db:"updated_at"`
}

// Repository defines persistence operations for users and refresh tokens.
type Repository interface {
	CreateUser(ctx context.Context, email, passwordHash, role string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, id int64) (User, error)

	CreateRefreshToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error
	// GetRefreshToken returns the owning user and expiry for a token hash.
	GetRefreshToken(ctx context.Context, tokenHash string) (int64, time.Time, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllRefreshTokens(ctx context.Context, userID int64) error
}
