package domain

import (
	"errors"
	"time"
)

var ErrReviewNotFound = errors.New("review not found")
var ErrDuplicateReview = errors.New("booking already reviewed")

// Review is a customer's rating of a salon, tied to one completed booking.
// A (user, salon, booking) triple produces at most one review; reviews are
// immutable once created.
type Review struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	UserID    string    `json:"user_id" bson:"user_id"`
	SalonID   string    `json:"salon_id" bson:"salon_id"`
	BookingID string    `json:"booking_id" bson:"booking_id"`
	UserName  string    `json:"user_name" bson:"user_name"`
	Rating    int       `json:"rating" bson:"rating"`
	Comment   string    `json:"comment" bson:"comment"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// RatingSummary is the full recompute pushed to the salon directory after a
// review is created: mean and count derived together from one aggregation so
// they cannot drift apart.
type RatingSummary struct {
	Average float64
	Count   int64
}
