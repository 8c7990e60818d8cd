package domain

import (
	"errors"
	"time"
)

// BookingStatus represents the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending             BookingStatus = "pending"
	BookingConfirmed           BookingStatus = "confirmed"
	BookingCompleted           BookingStatus = "completed"
	BookingCancelled           BookingStatus = "cancelled"
	BookingRescheduleRequested BookingStatus = "reschedule_requested"
)

// validTransitions defines the allowed state machine transitions.
// completed and cancelled are terminal.
var validTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:             {BookingConfirmed, BookingCancelled},
	BookingConfirmed:           {BookingCompleted, BookingCancelled, BookingRescheduleRequested},
	BookingRescheduleRequested: {BookingConfirmed},
}

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Occupying reports whether a booking in this status still claims its slot.
// A pending reschedule keeps the original slot held until the owner resolves
// it, so only completed and cancelled bookings free the tuple.
func (s BookingStatus) Occupying() bool {
	return s == BookingPending || s == BookingConfirmed || s == BookingRescheduleRequested
}

// PaymentStatus tracks payment independently of the booking lifecycle.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

var ErrInvalidTransition = errors.New("invalid status transition")
var ErrBookingNotFound = errors.New("booking not found")
var ErrSlotTaken = errors.New("time slot already booked")
var ErrNoReschedulePending = errors.New("no reschedule request pending")
var ErrForbidden = errors.New("access forbidden")

// GuestUserID is the sentinel stored on bookings created without an
// authenticated user. Guest bookings are tracked through guest sessions.
const GuestUserID = "guest"

// BookedService is the denormalized snapshot of a salon service at booking
// time. Later edits to the salon's service list do not affect it.
type BookedService struct {
	ID       string  `json:"id" bson:"_id"`
	Name     string  `json:"name" bson:"name"`
	Price    float64 `json:"price" bson:"price"`
	Duration int     `json:"duration" bson:"duration"`
}

// RescheduleRequest is a customer-proposed date/time change pending owner approval.
type RescheduleRequest struct {
	NewDate string `json:"new_date" bson:"new_date"`
	NewTime string `json:"new_time" bson:"new_time"`
	Reason  string `json:"reason,omitempty" bson:"reason,omitempty"`
}

// Booking is the appointment aggregate root.
type Booking struct {
	ID            string          `json:"id" bson:"_id,omitempty"`
	UserID        string          `json:"user_id" bson:"user_id"`
	SalonID       string          `json:"salon_id" bson:"salon_id"`
	Services      []BookedService `json:"services" bson:"services"`
	Date          string          `json:"date" bson:"date"`
	TimeSlot      string          `json:"time_slot" bson:"time_slot"`
	CustomerName  string          `json:"customer_name" bson:"customer_name"`
	CustomerPhone string          `json:"customer_phone" bson:"customer_phone"`
	CustomerEmail string          `json:"customer_email,omitempty" bson:"customer_email,omitempty"`
	Notes         string          `json:"notes,omitempty" bson:"notes,omitempty"`
	TotalPrice    float64         `json:"total_price" bson:"total_price"`
	TotalDuration int             `json:"total_duration" bson:"total_duration"`
	Status        BookingStatus   `json:"status" bson:"status"`
	PaymentStatus PaymentStatus   `json:"payment_status" bson:"payment_status"`
	// SlotActive mirrors Status.Occupying(), so the claim stays held through
	// a pending reschedule. It backs the partial unique index that makes the
	// slot claim a single conditional insert.
	SlotActive bool               `json:"-" bson:"slot_active"`
	Reschedule *RescheduleRequest `json:"reschedule_request,omitempty" bson:"reschedule_request,omitempty"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"`
}

// BookingStats is the per-salon aggregate returned to owner/admin dashboards.
type BookingStats struct {
	TotalBookings     int64   `json:"total_bookings"`
	CompletedBookings int64   `json:"completed_bookings"`
	TotalRevenue      float64 `json:"total_revenue"`
	AverageRating     float64 `json:"average_rating"`
}
