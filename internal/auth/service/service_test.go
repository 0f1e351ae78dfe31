package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"assembly_portal_backend/internal/auth/repository"
	"assembly_portal_backend/internal/auth/transport"
	"assembly_portal_backend/internal/events"
	"assembly_portal_backend/platform/apperr"
	"assembly_portal_backend/platform/logger"
)

type storedToken struct {
	userID    int64
	expiresAt time.Time
}

type fakeUsersRepo struct {
	users  map[string]repository.User
	tokens map[string]storedToken
	nextID int64
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{
		users:  make(map[string]repository.User),
		tokens: make(map[string]storedToken),
		nextID: 1,
	}
}

func (f *fakeUsersRepo) CreateUser(_ context.Context, email, passwordHash, role string) (repository.User, error) {
	if _, exists := f.users[email]; exists {
		return repository.User{}, apperr.Conflict("email already registered")
	}
	user := repository.User{ID: f.nextID, Email: email, PasswordHash: passwordHash, Role: role}
	f.users[email] = user
	f.nextID++
	return user, nil
}

func (f *fakeUsersRepo) GetUserByEmail(_ context.Context, email string) (repository.User, error) {
	user, ok := f.users[email]
	if !ok {
		return repository.User{}, apperr.NotFound("user not found")
	}
	return user, nil
}

func (f *fakeUsersRepo) GetUserByID(_ context.Context, id int64) (repository.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return repository.User{}, apperr.NotFound("user not found")
}

func (f *fakeUsersRepo) CreateRefreshToken(_ context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	f.tokens[tokenHash] = storedToken{userID: userID, expiresAt: expiresAt}
	return nil
}

func (f *fakeUsersRepo) GetRefreshToken(_ context.Context, tokenHash string) (int64, time.Time, error) {
	stored, ok := f.tokens[tokenHash]
	if !ok {
		return 0, time.Time{}, apperr.Unauthorized("invalid refresh token")
	}
	return stored.userID, stored.expiresAt, nil
}

func (f *fakeUsersRepo) RevokeRefreshToken(_ context.Context, tokenHash string) error {
	delete(f.tokens, tokenHash)
	return nil
}

func (f *fakeUsersRepo) RevokeAllRefreshTokens(_ context.Context, userID int64) error {
	for hash, stored := range f.tokens {
		if stored.userID == userID {
			delete(f.tokens, hash)
		}
	}
	return nil
}

var _ repository.Repository = (*fakeUsersRepo)(nil)

type testConfig struct{}

func (testConfig) GetJWTAccessSecret() string        { return "test-secret" }
func (testConfig) GetAccessTokenTTL() time.Duration  { return 15 * time.Minute }
func (testConfig) GetRefreshTokenTTL() time.Duration { return 24 * time.Hour }

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.published = append(b.published, event)
}

func (b *recordingBus) PublishSync(_ context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func newTestService(repo *fakeUsersRepo, bus *recordingBus) *Service {
	return New(repo, testConfig{}, bus, logger.New("test"))
}

func TestRegisterPublishesEvent(t *testing.T) {
	repo := newFakeUsersRepo()
	bus := &recordingBus{}
	svc := newTestService(repo, bus)

	user, err := svc.Register(context.Background(), transport.RegisterRequest{
		Email:    "alex@example.test",
		Password: "secret-password",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != repository.RoleStandard {
		t.Fatalf("role = %q, want %q", user.Role, repository.RoleStandard)
	}
	if stored := repo.users[user.Email]; stored.PasswordHash == "secret-password" {
		t.Fatal("password stored in plaintext")
	}

	if len(bus.published) != 1 {
		t.Fatalf("published %d events, want 1", len(bus.published))
	}
	if _, ok := bus.published[0].(events.UserRegistered); !ok {
		t.Fatalf("published %T, want UserRegistered", bus.published[0])
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	repo := newFakeUsersRepo()
	svc := newTestService(repo, &recordingBus{})

	req := transport.RegisterRequest{Email: "alex@example.test", Password: "secret-password"}
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(context.Background(), req); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("err = %v, want conflict", err)
	}
}

func TestLoginIssuesValidAccessToken(t *testing.T) {
	repo := newFakeUsersRepo()
	svc := newTestService(repo, &recordingBus{})

	if _, err := svc.Register(context.Background(), transport.RegisterRequest{
		Email:    "alex@example.test",
		Password: "secret-password",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	pair, err := svc.Login(context.Background(), transport.LoginRequest{
		Email:    "alex@example.test",
		Password: "secret-password",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("token pair incomplete")
	}

	parsed, err := jwt.Parse(pair.AccessToken, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("access token invalid: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != "1" {
		t.Errorf("sub = %v, want %q", claims["sub"], "1")
	}
	if claims["role"] != repository.RoleStandard {
		t.Errorf("role = %v, want %q", claims["role"], repository.RoleStandard)
	}
	if claims["type"] != "access" {
		t.Errorf("type = %v, want %q", claims["type"], "access")
	}
}

func TestLoginWrongPasswordUnauthorized(t *testing.T) {
	repo := newFakeUsersRepo()
	svc := newTestService(repo, &recordingBus{})

	if _, err := svc.Register(context.Background(), transport.RegisterRequest{
		Email:    "alex@example.test",
		Password: "secret-password",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := svc.Login(context.Background(), transport.LoginRequest{
		Email:    "alex@example.test",
		Password: "wrong",
	})
	if !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("err = %v, want unauthorized", err)
	}

	// Unknown email looks identical to a wrong password.
	_, err = svc.Login(context.Background(), transport.LoginRequest{
		Email:    "nobody@example.test",
		Password: "whatever",
	})
	if !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("err = %v, want unauthorized", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	repo := newFakeUsersRepo()
	svc := newTestService(repo, &recordingBus{})

	if _, err := svc.Register(context.Background(), transport.RegisterRequest{
		Email:    "alex@example.test",
		Password: "secret-password",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	pair, err := svc.Login(context.Background(), transport.LoginRequest{
		Email:    "alex@example.test",
		Password: "secret-password",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	rotated, err := svc.Refresh(context.Background(), transport.RefreshRequest{RefreshToken: pair.RefreshToken})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if rotated.RefreshToken == pair.RefreshToken {
		t.Fatal("refresh token not rotated")
	}

	// The old token is gone after rotation.
	if _, err := svc.Refresh(context.Background(), transport.RefreshRequest{RefreshToken: pair.RefreshToken}); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("err = %v, want unauthorized for reused token", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	repo := newFakeUsersRepo()
	svc := newTestService(repo, &recordingBus{})

	if _, err := svc.Register(context.Background(), transport.RegisterRequest{
		Email:    "alex@example.test",
		Password: "secret-password",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	pair, err := svc.Login(context.Background(), transport.LoginRequest{
		Email:    "alex@example.test",
		Password: "secret-password",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.Logout(context.Background(), transport.LogoutRequest{RefreshToken: pair.RefreshToken}); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(repo.tokens) != 0 {
		t.Fatalf("%d refresh tokens remain after logout", len(repo.tokens))
	}
}
