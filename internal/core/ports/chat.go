package ports

import (
	"context"

	"github.com/harshpalas/GlamBook/internal/core/domain"
)

// ChatRepository persists the append-only per-booking message log.
type ChatRepository interface {
	Insert(ctx context.Context, m *domain.ChatMessage) (*domain.ChatMessage, error)
	// FindByBooking returns the booking's messages oldest first.
	FindByBooking(ctx context.Context, bookingID string) ([]*domain.ChatMessage, error)
}

// SendMessageInput carries one chat message from a customer or owner.
type SendMessageInput struct {
	BookingID  string
	SenderID   string
	SenderName string
	SenderRole domain.Role
	Message    string
}

// ChatService defines use-case operations for per-booking chat. A booking's
// conversation is private to its customer, the salon's owner, and admins.
type ChatService interface {
	Send(ctx context.Context, input SendMessageInput) (*domain.ChatMessage, error)
	History(ctx context.Context, bookingID string, actor Actor) ([]*domain.ChatMessage, error)
}
