package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/harshpalas/GlamBook/internal/core/domain"
)

const statusQueue = "booking.status"

// StatusNotifier publishes booking status changes to a durable RabbitMQ
// queue. Publishing is best effort: failures are logged and the request
// that triggered them is never failed.
type StatusNotifier struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	log  zerolog.Logger
}

// statusEvent is the wire payload consumed by notification workers.
type statusEvent struct {
	BookingID     string    `json:"booking_id"`
	SalonID       string    `json:"salon_id"`
	UserID        string    `json:"user_id"`
	Status        string    `json:"status"`
	Date          string    `json:"date"`
	TimeSlot      string    `json:"time_slot"`
	CustomerEmail string    `json:"customer_email"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewStatusNotifier dials the broker and declares the status queue. The
// queue is durable so events survive broker restarts.
func NewStatusNotifier(url string, log zerolog.Logger) (*StatusNotifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if _, err := ch.QueueDeclare(statusQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	return &StatusNotifier{conn: conn, ch: ch, log: log}, nil
}

// NotifyStatusChange publishes the booking's new status. Errors are logged,
// not returned.
func (n *StatusNotifier) NotifyStatusChange(ctx context.Context, b *domain.Booking) {
	body, err := json.Marshal(statusEvent{
		BookingID:     b.ID,
		SalonID:       b.SalonID,
		UserID:        b.UserID,
		Status:        string(b.Status),
		Date:          b.Date,
		TimeSlot:      b.TimeSlot,
		CustomerEmail: b.CustomerEmail,
		OccurredAt:    time.Now().UTC(),
	})
	if err != nil {
		n.log.Error().Err(err).Str("booking_id", b.ID).Msg("marshal status event")
		return
	}

	err = n.ch.PublishWithContext(ctx, "", statusQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		n.log.Error().Err(err).Str("booking_id", b.ID).Str("status", string(b.Status)).Msg("publish status event")
		return
	}

	n.log.Debug().Str("booking_id", b.ID).Str("status", string(b.Status)).Msg("status event published")
}

// Close releases the channel and connection.
func (n *StatusNotifier) Close() {
	_ = n.ch.Close()
	_ = n.conn.Close()
}
