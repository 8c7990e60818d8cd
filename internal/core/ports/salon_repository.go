package ports

import (
	"context"

	"github.com/harshpalas/GlamBook/internal/core/domain"
)

// SalonUpdate is a partial update of a salon profile; nil fields are left untouched.
type SalonUpdate struct {
	Name        *string
	Description *string
	Phone       *string
	Location    *domain.Location
	Images      *[]string
	Hours       *map[string]domain.DayHours
	IsActive    *bool
}

// ServicePatch is a partial update of one embedded service; nil fields are
// left untouched.
type ServicePatch struct {
	Name        *string
	Price       *float64
	Duration    *int
	Description *string
}

// SalonRepository defines persistence operations for salons and their
// embedded services. Read operations are filtered to active salons.
type SalonRepository interface {
	Create(ctx context.Context, s *domain.Salon) (*domain.Salon, error)
	FindByID(ctx context.Context, id string) (*domain.Salon, error)
	// FindByCity matches the city case-insensitively; an empty city lists all
	// active salons up to limit.
	FindByCity(ctx context.Context, city string, limit int64) ([]*domain.Salon, error)
	// Search matches query case-insensitively against name, description, and
	// embedded service names, optionally scoped to a city.
	Search(ctx context.Context, query, city string, limit int64) ([]*domain.Salon, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*domain.Salon, error)
	UpdateByID(ctx context.Context, id string, upd SalonUpdate) (*domain.Salon, error)
	// UpdateRating overwrites both the derived mean and the review count from
	// one full recompute of the reviews collection.
	UpdateRating(ctx context.Context, salonID string, rating float64, totalReviews int64) error
	AddService(ctx context.Context, salonID string, svc domain.Service) error
	UpdateService(ctx context.Context, salonID, serviceID string, patch ServicePatch) error
	RemoveService(ctx context.Context, salonID, serviceID string) error
	// UpsertAvailableSlots replaces the slot list for the date, adding the
	// date entry when absent.
	UpsertAvailableSlots(ctx context.Context, salonID, date string, slots []string) error
}
