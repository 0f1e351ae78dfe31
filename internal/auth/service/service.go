// Package service provides authentication business logic: registration,
// credential checks, and token issuing.
package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"assembly_portal_backend/internal/auth/password"
	"assembly_portal_backend/internal/auth/repository"
	"assembly_portal_backend/internal/auth/token"
	"assembly_portal_backend/internal/auth/transport"
	"assembly_portal_backend/internal/events"
	"assembly_portal_backend/platform/apperr"
	"assembly_portal_backend/platform/config"
	"assembly_portal_backend/platform/logger"
)

const accessTokenType = "access"

// Service provides authentication business logic.
type Service struct {
	repo repository.Repository
	cfg  config.AuthServiceConfig
	bus  events.Bus
	log  *logger.Logger
}

// New creates a new auth service.
func New(repo repository.Repository, cfg config.AuthServiceConfig, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, bus: bus, log: log}
}

// Register creates a standard account and publishes UserRegistered.
func (s *Service) Register(ctx context.Context, req transport.RegisterRequest) (transport.UserResponse, error) {
	hash, err := password.Hash(req.Password)
	if err != nil {
		return transport.UserResponse{}, err
	}

	user, err := s.repo.CreateUser(ctx, strings.TrimSpace(req.Email), hash, repository.RoleStandard)
	if err != nil {
		s.log.AuthEvent("register", req.Email, false, err.Error())
		return transport.UserResponse{}, err
	}

	s.bus.Publish(ctx, events.UserRegistered{
		BaseEvent: events.NewBaseEvent(),
		UserID:    user.ID,
		Email:     user.Email,
	})

	s.log.AuthEvent("register", user.Email, true, "")
	return toUserResponse(user), nil
}

// Login verifies credentials and issues a token pair. A missing user and a
// wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req transport.LoginRequest) (transport.TokenPairResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		s.log.AuthEvent("login", req.Email, false, "unknown email")
		return transport.TokenPairResponse{}, apperr.Unauthorized("invalid credentials")
	}

	if err := password.Compare(user.PasswordHash, req.Password); err != nil {
		s.log.AuthEvent("login", req.Email, false, "wrong password")
		return transport.TokenPairResponse{}, apperr.Unauthorized("invalid credentials")
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return transport.TokenPairResponse{}, err
	}

	s.log.AuthEvent("login", user.Email, true, "")
	return pair, nil
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is issued.
func (s *Service) Refresh(ctx context.Context, req transport.RefreshRequest) (transport.TokenPairResponse, error) {
	hash := token.HashSHA256(req.RefreshToken)
	userID, expiresAt, err := s.repo.GetRefreshToken(ctx, hash)
	if err != nil {
		return transport.TokenPairResponse{}, apperr.Unauthorized("invalid refresh token")
	}

	if time.Now().After(expiresAt) {
		_ = s.repo.RevokeRefreshToken(ctx, hash)
		return transport.TokenPairResponse{}, apperr.Unauthorized("refresh token expired")
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return transport.TokenPairResponse{}, apperr.Unauthorized("invalid refresh token")
	}

	if err := s.repo.RevokeRefreshToken(ctx, hash); err != nil {
		return transport.TokenPairResponse{}, err
	}
	return s.issueTokens(ctx, user)
}

// Logout revokes the presented refresh token.
func (s *Service) Logout(ctx context.Context, req transport.LogoutRequest) error {
	return s.repo.RevokeRefreshToken(ctx, token.HashSHA256(req.RefreshToken))
}

// GetUser retrieves the account for an authenticated user ID.
func (s *Service) GetUser(ctx context.Context, userID int64) (transport.UserResponse, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return transport.UserResponse{}, err
	}
	return toUserResponse(user), nil
}

func (s *Service) issueTokens(ctx context.Context, user repository.User) (transport.TokenPairResponse, error) {
	accessToken, err := s.signJWT(user)
	if err != nil {
		return transport.TokenPairResponse{}, err
	}

	refreshToken, err := token.GenerateRandomToken(48)
	if err != nil {
		return transport.TokenPairResponse{}, err
	}

	expiresAt := time.Now().Add(s.cfg.GetRefreshTokenTTL())
	if err := s.repo.CreateRefreshToken(ctx, user.ID, token.HashSHA256(refreshToken), expiresAt); err != nil {
		return transport.TokenPairResponse{}, err
	}

	return transport.TokenPairResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *Service) signJWT(user repository.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(user.ID, 10),
		"role": user.Role,
		"type": accessTokenType,
		"exp":  now.Add(s.cfg.GetAccessTokenTTL()).Unix(),
		"iat":  now.Unix(),
	}

	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenObj.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}

func toUserResponse(u repository.User) transport.UserResponse {
	return transport.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
