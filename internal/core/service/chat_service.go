package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/harshpalas/GlamBook/internal/core/domain"
	"github.com/harshpalas/GlamBook/internal/core/ports"
)

// ChatService owns the per-booking message log. A conversation is scoped to
// the booking's customer, the salon's owner, and admins.
type ChatService struct {
	messages ports.ChatRepository
	bookings ports.BookingRepository
	salons   ports.SalonRepository
	logger   zerolog.Logger
}

func NewChatService(messages ports.ChatRepository, bookings ports.BookingRepository, salons ports.SalonRepository, logger zerolog.Logger) *ChatService {
	return &ChatService{messages: messages, bookings: bookings, salons: salons, logger: logger}
}

// Send appends a message to the booking's log. There is no delivery mechanism
// beyond clients re-reading the history.
func (s *ChatService) Send(ctx context.Context, input ports.SendMessageInput) (*domain.ChatMessage, error) {
	booking, err := s.bookings.FindByID(ctx, input.BookingID)
	if err != nil {
		return nil, err
	}
	actor := ports.Actor{UserID: input.SenderID, Role: input.SenderRole}
	if err := s.authorize(ctx, booking, actor); err != nil {
		return nil, err
	}

	msg := &domain.ChatMessage{
		BookingID:  input.BookingID,
		SenderID:   input.SenderID,
		SenderName: input.SenderName,
		SenderRole: input.SenderRole,
		Message:    input.Message,
		Timestamp:  time.Now().UTC(),
	}
	return s.messages.Insert(ctx, msg)
}

func (s *ChatService) History(ctx context.Context, bookingID string, actor ports.Actor) ([]*domain.ChatMessage, error) {
	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, booking, actor); err != nil {
		return nil, err
	}
	return s.messages.FindByBooking(ctx, bookingID)
}

// authorize admits the booking's customer, the salon's owner, and admins.
// The guest sentinel never matches an authenticated caller.
func (s *ChatService) authorize(ctx context.Context, b *domain.Booking, actor ports.Actor) error {
	if actor.Role == domain.RoleAdmin {
		return nil
	}
	if actor.UserID != "" && b.UserID != domain.GuestUserID && b.UserID == actor.UserID {
		return nil
	}
	if actor.Role == domain.RoleSalonOwner {
		salon, err := s.salons.FindByID(ctx, b.SalonID)
		if err != nil {
			return err
		}
		if actor.CanManage(salon) {
			return nil
		}
	}
	return domain.ErrForbidden
}
