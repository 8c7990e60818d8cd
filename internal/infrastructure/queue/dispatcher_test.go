package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/harshpalas/GlamBook/internal/core/domain"
	"github.com/harshpalas/GlamBook/internal/core/ports"
)

type stubReviewService struct {
	mu       sync.Mutex
	computed []string
	done     chan struct{}
}

func (s *stubReviewService) Recompute(_ context.Context, salonID string) error {
	s.mu.Lock()
	s.computed = append(s.computed, salonID)
	s.mu.Unlock()
	s.done <- struct{}{}
	return nil
}

func (s *stubReviewService) Create(context.Context, ports.CreateReviewInput) (*domain.Review, error) {
	return nil, nil
}
func (s *stubReviewService) GetAverageRating(context.Context, string) (float64, error) {
	return 0, nil
}
func (s *stubReviewService) ListBySalon(context.Context, string, int64) ([]*domain.Review, error) {
	return nil, nil
}
func (s *stubReviewService) ListByUser(context.Context, string) ([]*domain.Review, error) {
	return nil, nil
}

func waitN(t *testing.T, done <-chan struct{}, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for job %d of %d", i+1, n)
		}
	}
}

func TestDispatcher_ProcessesJobs(t *testing.T) {
	stub := &stubReviewService{done: make(chan struct{}, 16)}
	d := NewDispatcher(4, stub, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue("s1")
	d.Enqueue("s2")
	d.Enqueue("s3")
	waitN(t, stub.done, 3)

	stub.mu.Lock()
	defer stub.mu.Unlock()
	if len(stub.computed) != 3 {
		t.Fatalf("expected 3 recomputes, got %d", len(stub.computed))
	}
}

// Jobs for the same salon hash to the same worker and run in submit order.
func TestDispatcher_SameSalonInOrder(t *testing.T) {
	stub := &stubReviewService{done: make(chan struct{}, 64)}
	d := NewDispatcher(4, stub, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	const jobs = 20
	for i := 0; i < jobs; i++ {
		d.Enqueue("s1")
	}
	waitN(t, stub.done, jobs)

	stub.mu.Lock()
	defer stub.mu.Unlock()
	for i, id := range stub.computed {
		if id != "s1" {
			t.Fatalf("job %d recomputed wrong salon %q", i, id)
		}
	}
}

func TestDispatcher_ShardIsDeterministic(t *testing.T) {
	d := NewDispatcher(4, &stubReviewService{done: make(chan struct{}, 1)}, zerolog.Nop())

	for _, id := range []string{"s1", "s2", "salon-with-long-id"} {
		first := d.shardIndex(id)
		for i := 0; i < 10; i++ {
			if got := d.shardIndex(id); got != first {
				t.Fatalf("shard for %q changed: %d then %d", id, first, got)
			}
		}
		if first < 0 || first >= 4 {
			t.Fatalf("shard out of range: %d", first)
		}
	}
}

func TestDispatcher_DefaultWorkerCount(t *testing.T) {
	d := NewDispatcher(0, &stubReviewService{done: make(chan struct{}, 1)}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}
