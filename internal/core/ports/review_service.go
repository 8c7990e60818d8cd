package ports

import (
	"context"

	"github.com/harshpalas/GlamBook/internal/core/domain"
)

// CreateReviewInput carries all data needed to create a review.
type CreateReviewInput struct {
	UserID    string
	SalonID   string
	BookingID string
	UserName  string
	Rating    int
	Comment   string
}

// ReviewService defines use-case operations for reviews and the derived
// per-salon rating.
type ReviewService interface {
	// Create inserts the review and schedules a rating recompute for the salon.
	Create(ctx context.Context, input CreateReviewInput) (*domain.Review, error)
	// GetAverageRating returns the live mean of the salon's review ratings,
	// 0 when none exist.
	GetAverageRating(ctx context.Context, salonID string) (float64, error)
	ListBySalon(ctx context.Context, salonID string, limit int64) ([]*domain.Review, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Review, error)
	// Recompute derives mean and count from the reviews collection and pushes
	// both to the salon directory. Called by the recompute queue workers.
	Recompute(ctx context.Context, salonID string) error
}
