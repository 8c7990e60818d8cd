package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/harshpalas/GlamBook/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users map[string]*domain.User
	seq   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	clone.Bookings = append([]string(nil), u.Bookings...)
	clone.Favorites = append([]string(nil), u.Favorites...)
	return &clone
}

// Create mirrors the unique index on email.
func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	clone := cloneUser(user)
	clone.ID = fmt.Sprintf("u%d", r.seq)
	r.users[clone.ID] = clone
	return cloneUser(clone), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id, name, phone string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if name != "" {
		u.Name = name
	}
	if phone != "" {
		u.Phone = phone
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) AddBooking(_ context.Context, userID, bookingID string) error {
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Bookings = append(u.Bookings, bookingID)
	return nil
}

func (r *stubUserRepo) AddFavorite(_ context.Context, userID, salonID string) error {
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	for _, id := range u.Favorites {
		if id == salonID {
			return nil
		}
	}
	u.Favorites = append(u.Favorites, salonID)
	return nil
}

func (r *stubUserRepo) RemoveFavorite(_ context.Context, userID, salonID string) error {
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	out := u.Favorites[:0]
	for _, id := range u.Favorites {
		if id != salonID {
			out = append(out, id)
		}
	}
	u.Favorites = out
	return nil
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

const testSecret = "test-secret"

func newAuthFixture() (*AuthService, *stubUserRepo) {
	repo := newStubUserRepo()
	return NewAuthService(repo, testSecret, time.Hour), repo
}

func TestAuthService_Register(t *testing.T) {
	svc, repo := newAuthFixture()

	token, user, err := svc.Register(context.Background(), "Priya", "p@example.com", "s3cret", domain.RoleUser)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected user id")
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected role user, got %q", user.Role)
	}

	stored := repo.users[user.ID]
	if stored.PasswordHash == "s3cret" {
		t.Fatalf("password stored in plain text")
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret")) != nil {
		t.Fatalf("stored hash does not match password")
	}

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil {
		t.Fatalf("token does not parse: %v", err)
	}
	if claims["user_id"] != user.ID || claims["role"] != string(domain.RoleUser) {
		t.Fatalf("unexpected claims: %v", claims)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "Priya", "p@example.com", "s3cret", domain.RoleUser); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, _, err := svc.Register(ctx, "Other", "p@example.com", "pass", domain.RoleUser); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Register_AdminRejected(t *testing.T) {
	svc, _ := newAuthFixture()

	if _, _, err := svc.Register(context.Background(), "Eve", "e@example.com", "pass", domain.RoleAdmin); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for self-registered admin, got %v", err)
	}
}

func TestAuthService_Register_MissingFields(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	cases := [][3]string{
		{"", "p@example.com", "pass"},
		{"Priya", "", "pass"},
		{"Priya", "p@example.com", ""},
	}
	for _, c := range cases {
		if _, _, err := svc.Register(ctx, c[0], c[1], c[2], domain.RoleUser); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials for %v, got %v", c, err)
		}
	}
}

func TestAuthService_Login(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	_, registered, err := svc.Register(ctx, "Priya", "p@example.com", "s3cret", domain.RoleSalonOwner)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, user, err := svc.Login(ctx, "p@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if user.ID != registered.ID {
		t.Fatalf("expected user %s, got %s", registered.ID, user.ID)
	}
	if token == "" {
		t.Fatalf("expected token")
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "Priya", "p@example.com", "s3cret", domain.RoleUser); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, _, err := svc.Login(ctx, "p@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

// An unknown email must not be distinguishable from a wrong password.
func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc, _ := newAuthFixture()

	if _, _, err := svc.Login(context.Background(), "nobody@example.com", "pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
