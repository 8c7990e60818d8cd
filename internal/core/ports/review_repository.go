package ports

import (
	"context"

	"github.com/harshpalas/GlamBook/internal/core/domain"
)

// ReviewRepository defines persistence operations for reviews.
type ReviewRepository interface {
	// Create inserts a review. The compound unique index on
	// (user_id, salon_id, booking_id) maps clashes to domain.ErrDuplicateReview.
	Create(ctx context.Context, r *domain.Review) (*domain.Review, error)
	// FindBySalon returns the salon's reviews newest first, up to limit.
	FindBySalon(ctx context.Context, salonID string, limit int64) ([]*domain.Review, error)
	FindByUser(ctx context.Context, userID string) ([]*domain.Review, error)
	Exists(ctx context.Context, userID, salonID, bookingID string) (bool, error)
	// AggregateRating computes mean and count over all of the salon's reviews
	// in a single aggregation. A salon with no reviews yields {0, 0}.
	AggregateRating(ctx context.Context, salonID string) (*domain.RatingSummary, error)
}
