package domain

import "time"

// ChatMessage is one entry in a booking's append-only conversation log,
// ordered by Timestamp ascending at read time.
type ChatMessage struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	BookingID  string    `json:"booking_id" bson:"booking_id"`
	SenderID   string    `json:"sender_id" bson:"sender_id"`
	SenderName string    `json:"sender_name" bson:"sender_name"`
	SenderRole Role      `json:"sender_role" bson:"sender_role"`
	Message    string    `json:"message" bson:"message"`
	Timestamp  time.Time `json:"timestamp" bson:"timestamp"`
}
