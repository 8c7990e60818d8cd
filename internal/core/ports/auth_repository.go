package ports

import (
	"context"

	"github.com/harshpalas/GlamBook/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// UpdateProfile patches the mutable profile fields; empty strings are skipped.
	UpdateProfile(ctx context.Context, id, name, phone string) (*domain.User, error)
	AddBooking(ctx context.Context, userID, bookingID string) error
	AddFavorite(ctx context.Context, userID, salonID string) error
	RemoveFavorite(ctx context.Context, userID, salonID string) error
}
