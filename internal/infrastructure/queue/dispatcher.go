package queue

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/rs/zerolog"

	"github.com/harshpalas/GlamBook/internal/api/metrics"
	"github.com/harshpalas/GlamBook/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes rating recompute jobs to a fixed set of workers using
// consistent hashing on the salon id, so recomputes for the same salon run
// one at a time and in order.
type Dispatcher struct {
	workers []chan string
	reviews ports.ReviewService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, reviews ports.ReviewService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan string, numWorkers),
		reviews: reviews,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan string, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue schedules a recompute for the salon on its designated worker.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(salonID string) {
	d.workers[d.shardIndex(salonID)] <- salonID
}

// shardIndex maps a salon id deterministically to a worker index.
func (d *Dispatcher) shardIndex(salonID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(salonID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case salonID, ok := <-ch:
			if !ok {
				return
			}
			start := time.Now()
			if err := d.reviews.Recompute(ctx, salonID); err != nil {
				d.log.Error().Err(err).
					Str("salon_id", salonID).
					Int("worker_id", id).
					Msg("rating recompute failed")
				continue
			}
			metrics.RatingRecomputeDuration.Observe(time.Since(start).Seconds())
		}
	}
}
