package domain

import (
	"errors"
	"time"
)

var ErrGuestSessionNotFound = errors.New("guest session not found")

// GuestSession is the server-side record backing unauthenticated bookings.
// The token is minted on the first guest booking and passed explicitly on
// later requests; there is no ambient client-side state.
type GuestSession struct {
	Token      string    `json:"token" bson:"_id"`
	BookingIDs []string  `json:"booking_ids" bson:"booking_ids"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	ExpiresAt  time.Time `json:"expires_at" bson:"expires_at"`
}
