package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const holdTTL = 30 * time.Second

// SlotHold takes short-lived reservations on (salon, date, time slot) while a
// booking insert is in flight, so two concurrent requests for the same slot
// are serialised before they reach the database.
// Key format: slot:<salon_id>:<date>:<time_slot>
type SlotHold struct {
	client *redis.Client
}

// NewSlotHold creates a SlotHold wrapping the given Redis client.
func NewSlotHold(client *redis.Client) *SlotHold {
	return &SlotHold{client: client}
}

// Acquire claims the slot; it reports false when another request holds it.
// The hold expires after holdTTL so a crashed caller cannot wedge the slot.
func (h *SlotHold) Acquire(ctx context.Context, salonID, date, timeSlot string) (bool, error) {
	ok, err := h.client.SetNX(ctx, h.key(salonID, date, timeSlot), "1", holdTTL).Result()
	if err != nil {
		return false, fmt.Errorf("acquire slot hold: %w", err)
	}
	return ok, nil
}

// Release frees the hold early after a failed insert. Best effort: the TTL
// covers the case where the delete itself fails.
func (h *SlotHold) Release(ctx context.Context, salonID, date, timeSlot string) {
	_ = h.client.Del(ctx, h.key(salonID, date, timeSlot)).Err()
}

func (h *SlotHold) key(salonID, date, timeSlot string) string {
	return fmt.Sprintf("slot:%s:%s:%s", salonID, date, timeSlot)
}
