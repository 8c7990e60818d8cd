package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/harshpalas/GlamBook/internal/core/domain"
	"github.com/harshpalas/GlamBook/internal/core/ports"
)

const (
	defaultListLimit  = 20
	homepageListLimit = 50
	detailReviewLimit = 10
)

// ServiceIDFunc mints sub-ids for services embedded in a salon.
type ServiceIDFunc func() string

// SalonService owns salon profiles and their embedded service lists.
type SalonService struct {
	salons  ports.SalonRepository
	reviews ports.ReviewRepository
	newID   ServiceIDFunc
	logger  zerolog.Logger
}

func NewSalonService(salons ports.SalonRepository, reviews ports.ReviewRepository, newID ServiceIDFunc, logger zerolog.Logger) *SalonService {
	return &SalonService{salons: salons, reviews: reviews, newID: newID, logger: logger}
}

func (s *SalonService) Create(ctx context.Context, input ports.CreateSalonInput) (*domain.Salon, error) {
	now := time.Now().UTC()

	services := make([]domain.Service, 0, len(input.Services))
	for _, svc := range input.Services {
		services = append(services, domain.Service{
			ID:          s.newID(),
			Name:        svc.Name,
			Price:       svc.Price,
			Duration:    svc.Duration,
			Description: svc.Description,
		})
	}

	salon := &domain.Salon{
		Name:           input.Name,
		Location:       input.Location,
		Services:       services,
		Rating:         0,
		TotalReviews:   0,
		Images:         input.Images,
		Description:    input.Description,
		Phone:          input.Phone,
		Hours:          input.Hours,
		AvailableSlots: []domain.DateSlots{},
		OwnerID:        input.OwnerID,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := s.salons.Create(ctx, salon)
	if err != nil {
		s.logger.Error().Err(err).Str("owner_id", input.OwnerID).Msg("failed to create salon")
		return nil, err
	}

	s.logger.Info().Str("salon_id", created.ID).Str("owner_id", created.OwnerID).Msg("salon created")
	return created, nil
}

// GetByID returns the salon with its most recent reviews and the live average
// rating, recomputed from the reviews collection rather than read from the
// stored derived field.
func (s *SalonService) GetByID(ctx context.Context, id string) (*ports.SalonDetail, error) {
	salon, err := s.salons.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviews.FindBySalon(ctx, id, detailReviewLimit)
	if err != nil {
		return nil, err
	}

	summary, err := s.reviews.AggregateRating(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ports.SalonDetail{Salon: salon, Reviews: reviews, Rating: summary.Average}, nil
}

func (s *SalonService) ListByCity(ctx context.Context, city string, limit int64) ([]*domain.Salon, error) {
	if limit <= 0 {
		limit = defaultListLimit
		if city == "" {
			limit = homepageListLimit
		}
	}
	return s.salons.FindByCity(ctx, city, limit)
}

func (s *SalonService) Search(ctx context.Context, query, city string) ([]*domain.Salon, error) {
	return s.salons.Search(ctx, query, city, defaultListLimit)
}

func (s *SalonService) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Salon, error) {
	return s.salons.FindByOwner(ctx, ownerID)
}

func (s *SalonService) Update(ctx context.Context, id string, actor ports.Actor, upd ports.SalonUpdate) (*domain.Salon, error) {
	if err := s.authorize(ctx, id, actor); err != nil {
		return nil, err
	}
	return s.salons.UpdateByID(ctx, id, upd)
}

func (s *SalonService) AddService(ctx context.Context, salonID string, actor ports.Actor, svc ports.ServiceInput) (*domain.Service, error) {
	if err := s.authorize(ctx, salonID, actor); err != nil {
		return nil, err
	}

	service := domain.Service{
		ID:          s.newID(),
		Name:        svc.Name,
		Price:       svc.Price,
		Duration:    svc.Duration,
		Description: svc.Description,
	}
	if err := s.salons.AddService(ctx, salonID, service); err != nil {
		return nil, err
	}
	return &service, nil
}

func (s *SalonService) UpdateService(ctx context.Context, salonID, serviceID string, actor ports.Actor, patch ports.ServicePatch) error {
	if err := s.authorize(ctx, salonID, actor); err != nil {
		return err
	}
	return s.salons.UpdateService(ctx, salonID, serviceID, patch)
}

func (s *SalonService) RemoveService(ctx context.Context, salonID, serviceID string, actor ports.Actor) error {
	if err := s.authorize(ctx, salonID, actor); err != nil {
		return err
	}
	return s.salons.RemoveService(ctx, salonID, serviceID)
}

func (s *SalonService) SetAvailableSlots(ctx context.Context, salonID string, actor ports.Actor, date string, slots []string) error {
	if err := s.authorize(ctx, salonID, actor); err != nil {
		return err
	}
	return s.salons.UpsertAvailableSlots(ctx, salonID, date, slots)
}

// authorize verifies the actor owns the salon or is an admin.
func (s *SalonService) authorize(ctx context.Context, salonID string, actor ports.Actor) error {
	salon, err := s.salons.FindByID(ctx, salonID)
	if err != nil {
		return err
	}
	if !actor.CanManage(salon) {
		return domain.ErrForbidden
	}
	return nil
}
