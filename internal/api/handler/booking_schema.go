package handler

import "github.com/harshpalas/GlamBook/internal/core/domain"

type createBookingRequest struct {
	SalonID       string   `json:"salon_id"       validate:"required"`
	ServiceIDs    []string `json:"service_ids"    validate:"required,min=1"`
	Date          string   `json:"date"           validate:"required"`
	TimeSlot      string   `json:"time_slot"      validate:"required"`
	CustomerName  string   `json:"customer_name"  validate:"required"`
	CustomerPhone string   `json:"customer_phone" validate:"required"`
	CustomerEmail string   `json:"customer_email" validate:"omitempty,email"`
	Notes         string   `json:"notes"`
	// GuestToken resumes an existing guest session on unauthenticated requests.
	GuestToken string `json:"guest_token"`
}

type bookingResponse struct {
	Booking *domain.Booking `json:"booking"`
	// GuestToken is present only on guest bookings: the caller stores it to
	// look up their bookings later.
	GuestToken string `json:"guest_token,omitempty"`
}

// patchBookingRequest updates either the booking status or the payment
// status; exactly one must be supplied.
type patchBookingRequest struct {
	Status        string `json:"status"         validate:"omitempty,oneof=confirmed completed cancelled"`
	PaymentStatus string `json:"payment_status" validate:"omitempty,oneof=pending paid refunded"`
}

type rescheduleRequest struct {
	NewDate string `json:"new_date" validate:"required"`
	NewTime string `json:"new_time" validate:"required"`
	Reason  string `json:"reason"`
}

type resolveRescheduleRequest struct {
	Approve *bool `json:"approve" validate:"required"`
}

type availabilityResponse struct {
	Available bool `json:"available"`
}
