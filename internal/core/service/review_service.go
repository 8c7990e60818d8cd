package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/harshpalas/GlamBook/internal/core/domain"
	"github.com/harshpalas/GlamBook/internal/core/ports"
)

// RatingQueue schedules per-salon rating recomputes. Jobs for the same salon
// must be processed in order.
type RatingQueue interface {
	Enqueue(salonID string)
}

// ReviewService owns review records and derives the per-salon rating.
type ReviewService struct {
	reviews ports.ReviewRepository
	salons  ports.SalonRepository
	queue   RatingQueue
	logger  zerolog.Logger
}

func NewReviewService(reviews ports.ReviewRepository, salons ports.SalonRepository, queue RatingQueue, logger zerolog.Logger) *ReviewService {
	return &ReviewService{reviews: reviews, salons: salons, queue: queue, logger: logger}
}

// SetQueue wires the recompute queue after construction. The dispatcher
// processing the queue needs this service, so the two are linked in two steps
// at startup.
func (s *ReviewService) SetQueue(queue RatingQueue) {
	s.queue = queue
}

// Create inserts the review and schedules a rating recompute for the salon.
// The duplicate check is advisory; the compound unique index is the authority.
func (s *ReviewService) Create(ctx context.Context, input ports.CreateReviewInput) (*domain.Review, error) {
	exists, err := s.reviews.Exists(ctx, input.UserID, input.SalonID, input.BookingID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateReview
	}

	now := time.Now().UTC()
	review := &domain.Review{
		UserID:    input.UserID,
		SalonID:   input.SalonID,
		BookingID: input.BookingID,
		UserName:  input.UserName,
		Rating:    input.Rating,
		Comment:   input.Comment,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.reviews.Create(ctx, review)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("review_id", created.ID).Str("salon_id", created.SalonID).Int("rating", created.Rating).Msg("review created")

	if s.queue != nil {
		s.queue.Enqueue(created.SalonID)
	}
	return created, nil
}

func (s *ReviewService) GetAverageRating(ctx context.Context, salonID string) (float64, error) {
	summary, err := s.reviews.AggregateRating(ctx, salonID)
	if err != nil {
		return 0, err
	}
	return summary.Average, nil
}

func (s *ReviewService) ListBySalon(ctx context.Context, salonID string, limit int64) ([]*domain.Review, error) {
	return s.reviews.FindBySalon(ctx, salonID, limit)
}

func (s *ReviewService) ListByUser(ctx context.Context, userID string) ([]*domain.Review, error) {
	return s.reviews.FindByUser(ctx, userID)
}

// Recompute derives the salon's mean and review count from one aggregation
// and writes both together, so the stored pair can never drift. Recomputes
// for the same salon are serialized by the rating queue.
func (s *ReviewService) Recompute(ctx context.Context, salonID string) error {
	summary, err := s.reviews.AggregateRating(ctx, salonID)
	if err != nil {
		return err
	}
	if err := s.salons.UpdateRating(ctx, salonID, summary.Average, summary.Count); err != nil {
		return err
	}

	s.logger.Debug().
		Str("salon_id", salonID).
		Float64("rating", summary.Average).
		Int64("total_reviews", summary.Count).
		Msg("rating recomputed")
	return nil
}
