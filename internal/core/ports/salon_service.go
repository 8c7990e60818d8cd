package ports

import (
	"context"

	"github.com/harshpalas/GlamBook/internal/core/domain"
)

// Actor identifies the authenticated caller for ownership checks.
type Actor struct {
	UserID string
	Role   domain.Role
}

// CanManage reports whether the actor may mutate the given salon.
func (a Actor) CanManage(s *domain.Salon) bool {
	return a.Role == domain.RoleAdmin || (a.Role == domain.RoleSalonOwner && s.OwnerID == a.UserID)
}

// CreateSalonInput carries all data needed to register a salon.
type CreateSalonInput struct {
	Name        string
	Location    domain.Location
	Description string
	Phone       string
	Images      []string
	Hours       map[string]domain.DayHours
	Services    []ServiceInput
	OwnerID     string
}

// ServiceInput describes one service offering.
type ServiceInput struct {
	Name        string
	Price       float64
	Duration    int
	Description string
}

// SalonDetail is the public detail view: the salon with its most recent
// reviews and the live average rating.
type SalonDetail struct {
	Salon   *domain.Salon
	Reviews []*domain.Review
	Rating  float64
}

// SalonService defines use-case operations for the salon directory.
type SalonService interface {
	Create(ctx context.Context, input CreateSalonInput) (*domain.Salon, error)
	GetByID(ctx context.Context, id string) (*SalonDetail, error)
	ListByCity(ctx context.Context, city string, limit int64) ([]*domain.Salon, error)
	Search(ctx context.Context, query, city string) ([]*domain.Salon, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Salon, error)
	Update(ctx context.Context, id string, actor Actor, upd SalonUpdate) (*domain.Salon, error)
	AddService(ctx context.Context, salonID string, actor Actor, svc ServiceInput) (*domain.Service, error)
	UpdateService(ctx context.Context, salonID, serviceID string, actor Actor, patch ServicePatch) error
	RemoveService(ctx context.Context, salonID, serviceID string, actor Actor) error
	SetAvailableSlots(ctx context.Context, salonID string, actor Actor, date string, slots []string) error
}
