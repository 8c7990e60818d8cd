package ports

import (
	"context"

	"github.com/harshpalas/GlamBook/internal/core/domain"
)

// CreateBookingInput carries all data needed to create a booking. ServiceIDs
// reference services embedded in the salon; the service layer snapshots them
// into the booking so later salon edits cannot rewrite history.
type CreateBookingInput struct {
	SalonID       string
	ServiceIDs    []string
	Date          string
	TimeSlot      string
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	Notes         string
	// UserID is the authenticated caller, empty for guests.
	UserID string
	// GuestToken resumes an existing guest session. Ignored when UserID is set.
	GuestToken string
}

// BookingResult is returned after creating a booking. GuestToken is set only
// for guest bookings: either the resumed token or a freshly minted one.
type BookingResult struct {
	Booking    *domain.Booking
	GuestToken string
}

// BookingService defines use-case operations for the booking lifecycle.
// Operations taking an Actor enforce ownership: customers act only on their
// own bookings, salon owners only on bookings of salons they own.
type BookingService interface {
	Create(ctx context.Context, input CreateBookingInput) (*BookingResult, error)
	// CheckSlotAvailability reports whether the (salon, date, timeSlot) tuple
	// is free of slot-holding bookings.
	CheckSlotAvailability(ctx context.Context, salonID, date, timeSlot string) (bool, error)
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Booking, error)
	ListBySalon(ctx context.Context, salonID string, actor Actor) ([]*domain.Booking, error)
	ListByGuest(ctx context.Context, guestToken string) ([]*domain.Booking, error)
	// UpdateStatus applies a state machine transition. Customers may only
	// cancel their own bookings; the rest of the lifecycle belongs to the
	// salon's owner and admins.
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus, actor Actor) (*domain.Booking, error)
	UpdatePaymentStatus(ctx context.Context, id string, ps domain.PaymentStatus, actor Actor) (*domain.Booking, error)
	RequestReschedule(ctx context.Context, id string, req domain.RescheduleRequest, actor Actor) (*domain.Booking, error)
	// ResolveReschedule approves or denies a pending reschedule request.
	// Either way the booking returns to confirmed; approval overwrites its
	// date and time slot from the request.
	ResolveReschedule(ctx context.Context, id string, approve bool, actor Actor) (*domain.Booking, error)
	Stats(ctx context.Context, salonID string, actor Actor) (*domain.BookingStats, error)
}
