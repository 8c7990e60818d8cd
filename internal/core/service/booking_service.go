package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/harshpalas/GlamBook/internal/core/domain"
	"github.com/harshpalas/GlamBook/internal/core/ports"
)

// SlotHolder abstracts the short-lived slot reservation taken between the
// availability check and the booking insert (Redis).
type SlotHolder interface {
	// Acquire claims the slot for the duration of the create call. It returns
	// false when another request already holds it.
	Acquire(ctx context.Context, salonID, date, timeSlot string) (bool, error)
	Release(ctx context.Context, salonID, date, timeSlot string)
}

// StatusNotifier publishes booking status changes to interested consumers.
// Implementations must be best-effort: a publish failure never fails the request.
type StatusNotifier interface {
	NotifyStatusChange(ctx context.Context, b *domain.Booking)
}

// GuestTokenFunc mints tokens for new guest sessions.
type GuestTokenFunc func() string

const guestSessionTTL = 90 * 24 * time.Hour

// BookingService owns the booking lifecycle: slot claims, the status state
// machine, reschedule requests, payment status, and per-salon stats.
type BookingService struct {
	bookings ports.BookingRepository
	salons   ports.SalonRepository
	users    ports.UserRepository
	guests   ports.GuestSessionRepository
	reviews  ports.ReviewRepository
	holder   SlotHolder
	notifier StatusNotifier
	newToken GuestTokenFunc
	logger   zerolog.Logger
}

func NewBookingService(
	bookings ports.BookingRepository,
	salons ports.SalonRepository,
	users ports.UserRepository,
	guests ports.GuestSessionRepository,
	reviews ports.ReviewRepository,
	holder SlotHolder,
	notifier StatusNotifier,
	newToken GuestTokenFunc,
	logger zerolog.Logger,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		salons:   salons,
		users:    users,
		guests:   guests,
		reviews:  reviews,
		holder:   holder,
		notifier: notifier,
		newToken: newToken,
		logger:   logger,
	}
}

// Create books a slot. The claim is a conditional insert: a Redis hold guards
// the window between the availability check and the write, and the bookings
// collection's partial unique index is the final arbiter, so two concurrent
// requests for the same tuple cannot both succeed.
func (s *BookingService) Create(ctx context.Context, input ports.CreateBookingInput) (*ports.BookingResult, error) {
	salon, err := s.salons.FindByID(ctx, input.SalonID)
	if err != nil {
		return nil, err
	}

	snapshot := make([]domain.BookedService, 0, len(input.ServiceIDs))
	var totalPrice float64
	var totalDuration int
	for _, id := range input.ServiceIDs {
		svc, ok := salon.ServiceByID(id)
		if !ok {
			return nil, fmt.Errorf("create booking: service %s: %w", id, domain.ErrServiceNotFound)
		}
		snapshot = append(snapshot, domain.BookedService{
			ID:       svc.ID,
			Name:     svc.Name,
			Price:    svc.Price,
			Duration: svc.Duration,
		})
		totalPrice += svc.Price
		totalDuration += svc.Duration
	}

	// Fast-path availability check. The hold and the unique index below close
	// the race this check alone would leave open.
	if _, err := s.bookings.FindOccupying(ctx, input.SalonID, input.Date, input.TimeSlot); err == nil {
		return nil, domain.ErrSlotTaken
	}

	acquired, err := s.holder.Acquire(ctx, input.SalonID, input.Date, input.TimeSlot)
	if err != nil {
		// Redis outage degrades to the unique index alone.
		s.logger.Warn().Err(err).Str("salon_id", input.SalonID).Msg("slot hold unavailable, relying on index")
	} else if !acquired {
		return nil, domain.ErrSlotTaken
	}

	userID := input.UserID
	if userID == "" {
		userID = domain.GuestUserID
	}

	now := time.Now().UTC()
	booking := &domain.Booking{
		UserID:        userID,
		SalonID:       input.SalonID,
		Services:      snapshot,
		Date:          input.Date,
		TimeSlot:      input.TimeSlot,
		CustomerName:  input.CustomerName,
		CustomerPhone: input.CustomerPhone,
		CustomerEmail: input.CustomerEmail,
		Notes:         input.Notes,
		TotalPrice:    totalPrice,
		TotalDuration: totalDuration,
		Status:        domain.BookingPending,
		PaymentStatus: domain.PaymentPending,
		SlotActive:    true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created, err := s.bookings.Create(ctx, booking)
	if err != nil {
		if acquired {
			s.holder.Release(ctx, input.SalonID, input.Date, input.TimeSlot)
		}
		return nil, err
	}

	result := &ports.BookingResult{Booking: created}
	if input.UserID != "" {
		if err := s.users.AddBooking(ctx, input.UserID, created.ID); err != nil {
			s.logger.Warn().Err(err).Str("user_id", input.UserID).Str("booking_id", created.ID).Msg("failed to link booking to user")
		}
	} else {
		token, err := s.attachGuestBooking(ctx, input.GuestToken, created.ID)
		if err != nil {
			s.logger.Warn().Err(err).Str("booking_id", created.ID).Msg("failed to record guest session")
		}
		result.GuestToken = token
	}

	s.logger.Info().
		Str("booking_id", created.ID).
		Str("salon_id", created.SalonID).
		Str("date", created.Date).
		Str("time_slot", created.TimeSlot).
		Msg("booking created")

	return result, nil
}

// attachGuestBooking resumes the caller's guest session or mints a new one,
// then records the booking in it.
func (s *BookingService) attachGuestBooking(ctx context.Context, token, bookingID string) (string, error) {
	if token != "" {
		if _, err := s.guests.Find(ctx, token); err == nil {
			return token, s.guests.AppendBooking(ctx, token, bookingID)
		}
	}

	now := time.Now().UTC()
	session := &domain.GuestSession{
		Token:      s.newToken(),
		BookingIDs: []string{bookingID},
		CreatedAt:  now,
		ExpiresAt:  now.Add(guestSessionTTL),
	}
	if err := s.guests.Create(ctx, session); err != nil {
		return "", err
	}
	return session.Token, nil
}

// CheckSlotAvailability reports whether the tuple is free of slot-holding
// bookings. This is a point read; Create remains the authority.
func (s *BookingService) CheckSlotAvailability(ctx context.Context, salonID, date, timeSlot string) (bool, error) {
	_, err := s.bookings.FindOccupying(ctx, salonID, date, timeSlot)
	if err == nil {
		return false, nil
	}
	if err == domain.ErrBookingNotFound {
		return true, nil
	}
	return false, err
}

func (s *BookingService) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	return s.bookings.FindByID(ctx, id)
}

func (s *BookingService) ListByUser(ctx context.Context, userID string) ([]*domain.Booking, error) {
	return s.bookings.FindByUser(ctx, userID)
}

// ListBySalon returns a salon's booking book. Bookings carry customer names
// and phone numbers, so only the salon's owner and admins may read it.
func (s *BookingService) ListBySalon(ctx context.Context, salonID string, actor ports.Actor) ([]*domain.Booking, error) {
	if err := s.authorizeManage(ctx, salonID, actor); err != nil {
		return nil, err
	}
	return s.bookings.FindBySalon(ctx, salonID)
}

// ListByGuest resolves a guest session token to its bookings.
func (s *BookingService) ListByGuest(ctx context.Context, guestToken string) ([]*domain.Booking, error) {
	session, err := s.guests.Find(ctx, guestToken)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Booking, 0, len(session.BookingIDs))
	for _, id := range session.BookingIDs {
		b, err := s.bookings.FindByID(ctx, id)
		if err != nil {
			if err == domain.ErrBookingNotFound {
				continue
			}
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// UpdateStatus applies a plain state machine transition. Entering or leaving
// reschedule_requested goes through RequestReschedule / ResolveReschedule,
// which carry the request data. Customers may only cancel their own bookings.
func (s *BookingService) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus, actor ports.Actor) (*domain.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if actor.Role == domain.RoleUser {
		if !s.ownsBooking(booking, actor) || status != domain.BookingCancelled {
			return nil, domain.ErrForbidden
		}
	} else if err := s.authorizeManage(ctx, booking.SalonID, actor); err != nil {
		return nil, err
	}

	if status == domain.BookingRescheduleRequested || booking.Status == domain.BookingRescheduleRequested ||
		!booking.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, booking.Status, status)
	}

	updated, err := s.bookings.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("booking_id", id).Str("status", string(status)).Msg("booking status updated")
	if s.notifier != nil {
		s.notifier.NotifyStatusChange(ctx, updated)
	}
	return updated, nil
}

func (s *BookingService) UpdatePaymentStatus(ctx context.Context, id string, ps domain.PaymentStatus, actor ports.Actor) (*domain.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeManage(ctx, booking.SalonID, actor); err != nil {
		return nil, err
	}
	return s.bookings.UpdatePaymentStatus(ctx, id, ps)
}

// RequestReschedule records a customer-proposed date/time change on a
// confirmed booking, pending owner approval.
func (s *BookingService) RequestReschedule(ctx context.Context, id string, req domain.RescheduleRequest, actor ports.Actor) (*domain.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleUser {
		if !s.ownsBooking(booking, actor) {
			return nil, domain.ErrForbidden
		}
	} else if err := s.authorizeManage(ctx, booking.SalonID, actor); err != nil {
		return nil, err
	}
	if !booking.Status.CanTransitionTo(domain.BookingRescheduleRequested) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, booking.Status, domain.BookingRescheduleRequested)
	}
	return s.bookings.SetReschedule(ctx, id, req)
}

// ResolveReschedule approves or denies the pending request. Approval moves the
// booking to the requested slot; the storage layer's unique index rejects the
// move when that slot is already claimed.
func (s *BookingService) ResolveReschedule(ctx context.Context, id string, approve bool, actor ports.Actor) (*domain.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeManage(ctx, booking.SalonID, actor); err != nil {
		return nil, err
	}
	if booking.Status != domain.BookingRescheduleRequested || booking.Reschedule == nil {
		return nil, domain.ErrNoReschedulePending
	}

	var updated *domain.Booking
	if approve {
		updated, err = s.bookings.ApplyReschedule(ctx, id, booking.Reschedule.NewDate, booking.Reschedule.NewTime)
	} else {
		updated, err = s.bookings.ClearReschedule(ctx, id)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("booking_id", id).Bool("approved", approve).Msg("reschedule resolved")
	if s.notifier != nil {
		s.notifier.NotifyStatusChange(ctx, updated)
	}
	return updated, nil
}

// Stats aggregates booking counts, completed revenue, and the live average
// rating for a salon. Restricted to the salon's owner and admins.
func (s *BookingService) Stats(ctx context.Context, salonID string, actor ports.Actor) (*domain.BookingStats, error) {
	if err := s.authorizeManage(ctx, salonID, actor); err != nil {
		return nil, err
	}
	stats, err := s.bookings.Stats(ctx, salonID)
	if err != nil {
		return nil, err
	}
	summary, err := s.reviews.AggregateRating(ctx, salonID)
	if err != nil {
		s.logger.Warn().Err(err).Str("salon_id", salonID).Msg("rating aggregation failed for stats")
		return stats, nil
	}
	stats.AverageRating = summary.Average
	return stats, nil
}

// authorizeManage verifies the actor owns the salon or is an admin.
func (s *BookingService) authorizeManage(ctx context.Context, salonID string, actor ports.Actor) error {
	if actor.Role == domain.RoleAdmin {
		return nil
	}
	salon, err := s.salons.FindByID(ctx, salonID)
	if err != nil {
		return err
	}
	if !actor.CanManage(salon) {
		return domain.ErrForbidden
	}
	return nil
}

// ownsBooking reports whether the actor is the booking's customer. The guest
// sentinel never matches an authenticated caller.
func (s *BookingService) ownsBooking(b *domain.Booking, actor ports.Actor) bool {
	return b.UserID != domain.GuestUserID && b.UserID == actor.UserID
}
