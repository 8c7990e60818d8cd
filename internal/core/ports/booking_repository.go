package ports

import (
	"context"

	"github.com/harshpalas/GlamBook/internal/core/domain"
)

// BookingRepository defines persistence operations for bookings.
type BookingRepository interface {
	// Create inserts a new booking. The storage layer enforces the slot
	// claim with a partial unique index; a clash maps to domain.ErrSlotTaken.
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	FindByID(ctx context.Context, id string) (*domain.Booking, error)
	// FindByUser returns the user's bookings newest first.
	FindByUser(ctx context.Context, userID string) ([]*domain.Booking, error)
	// FindBySalon returns the salon's bookings ordered by date then time slot.
	FindBySalon(ctx context.Context, salonID string) ([]*domain.Booking, error)
	// FindByDateRange returns non-cancelled bookings for the salon within
	// [startDate, endDate], ordered by date then time slot.
	FindByDateRange(ctx context.Context, salonID, startDate, endDate string) ([]*domain.Booking, error)
	// FindOccupying returns the booking currently claiming the slot, or
	// domain.ErrBookingNotFound when the slot is free.
	FindOccupying(ctx context.Context, salonID, date, timeSlot string) (*domain.Booking, error)
	// UpdateStatus sets the status and keeps the slot claim in sync with it.
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error)
	UpdatePaymentStatus(ctx context.Context, id string, ps domain.PaymentStatus) (*domain.Booking, error)
	// SetReschedule stores a pending reschedule request and moves the booking
	// to reschedule_requested.
	SetReschedule(ctx context.Context, id string, req domain.RescheduleRequest) (*domain.Booking, error)
	// ApplyReschedule confirms the booking on the requested date/time and
	// discards the request.
	ApplyReschedule(ctx context.Context, id, date, timeSlot string) (*domain.Booking, error)
	// ClearReschedule confirms the booking on its original date/time and
	// discards the request.
	ClearReschedule(ctx context.Context, id string) (*domain.Booking, error)
	// Stats aggregates booking counts and completed revenue for a salon.
	Stats(ctx context.Context, salonID string) (*domain.BookingStats, error)
}

// GuestSessionRepository persists the server-side records behind guest bookings.
type GuestSessionRepository interface {
	Create(ctx context.Context, s *domain.GuestSession) error
	Find(ctx context.Context, token string) (*domain.GuestSession, error)
	AppendBooking(ctx context.Context, token, bookingID string) error
}
