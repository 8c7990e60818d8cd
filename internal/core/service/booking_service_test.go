package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/harshpalas/GlamBook/internal/core/domain"
	"github.com/harshpalas/GlamBook/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubBookingRepo struct {
	bookings  map[string]*domain.Booking
	seq       int
	createErr error // if set, Create returns this error
}

func newStubBookingRepo() *stubBookingRepo {
	return &stubBookingRepo{bookings: make(map[string]*domain.Booking)}
}

func cloneBooking(b *domain.Booking) *domain.Booking {
	clone := *b
	if b.Reschedule != nil {
		req := *b.Reschedule
		clone.Reschedule = &req
	}
	return &clone
}

// Create mirrors the partial unique index: at most one slot_active booking
// per (salon, date, timeSlot).
func (r *stubBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, existing := range r.bookings {
		if existing.SlotActive && existing.SalonID == b.SalonID &&
			existing.Date == b.Date && existing.TimeSlot == b.TimeSlot {
			return nil, domain.ErrSlotTaken
		}
	}
	r.seq++
	clone := cloneBooking(b)
	clone.ID = fmt.Sprintf("bk%d", r.seq)
	r.bookings[clone.ID] = clone
	return cloneBooking(clone), nil
}

func (r *stubBookingRepo) FindByID(_ context.Context, id string) (*domain.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	return cloneBooking(b), nil
}

func (r *stubBookingRepo) FindByUser(_ context.Context, userID string) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, cloneBooking(b))
		}
	}
	return out, nil
}

func (r *stubBookingRepo) FindBySalon(_ context.Context, salonID string) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range r.bookings {
		if b.SalonID == salonID {
			out = append(out, cloneBooking(b))
		}
	}
	return out, nil
}

func (r *stubBookingRepo) FindByDateRange(_ context.Context, salonID, startDate, endDate string) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range r.bookings {
		if b.SalonID == salonID && b.Date >= startDate && b.Date <= endDate &&
			b.Status != domain.BookingCancelled {
			out = append(out, cloneBooking(b))
		}
	}
	return out, nil
}

// FindOccupying keys on the slot claim, like the partial index does.
func (r *stubBookingRepo) FindOccupying(_ context.Context, salonID, date, timeSlot string) (*domain.Booking, error) {
	for _, b := range r.bookings {
		if b.SalonID == salonID && b.Date == date && b.TimeSlot == timeSlot && b.SlotActive {
			return cloneBooking(b), nil
		}
	}
	return nil, domain.ErrBookingNotFound
}

func (r *stubBookingRepo) UpdateStatus(_ context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	b.Status = status
	b.SlotActive = status.Occupying()
	return cloneBooking(b), nil
}

func (r *stubBookingRepo) UpdatePaymentStatus(_ context.Context, id string, ps domain.PaymentStatus) (*domain.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	b.PaymentStatus = ps
	return cloneBooking(b), nil
}

func (r *stubBookingRepo) SetReschedule(_ context.Context, id string, req domain.RescheduleRequest) (*domain.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	b.Status = domain.BookingRescheduleRequested
	b.Reschedule = &req
	return cloneBooking(b), nil
}

// ApplyReschedule mirrors the index check on the target tuple.
func (r *stubBookingRepo) ApplyReschedule(_ context.Context, id, date, timeSlot string) (*domain.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	for _, other := range r.bookings {
		if other.ID != id && other.SlotActive && other.SalonID == b.SalonID &&
			other.Date == date && other.TimeSlot == timeSlot {
			return nil, domain.ErrSlotTaken
		}
	}
	b.Status = domain.BookingConfirmed
	b.Date = date
	b.TimeSlot = timeSlot
	b.SlotActive = true
	b.Reschedule = nil
	return cloneBooking(b), nil
}

func (r *stubBookingRepo) ClearReschedule(_ context.Context, id string) (*domain.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	b.Status = domain.BookingConfirmed
	b.Reschedule = nil
	return cloneBooking(b), nil
}

func (r *stubBookingRepo) Stats(_ context.Context, salonID string) (*domain.BookingStats, error) {
	stats := &domain.BookingStats{}
	for _, b := range r.bookings {
		if b.SalonID != salonID {
			continue
		}
		stats.TotalBookings++
		if b.Status == domain.BookingCompleted {
			stats.CompletedBookings++
			stats.TotalRevenue += b.TotalPrice
		}
	}
	return stats, nil
}

type stubGuestRepo struct {
	sessions map[string]*domain.GuestSession
}

func newStubGuestRepo() *stubGuestRepo {
	return &stubGuestRepo{sessions: make(map[string]*domain.GuestSession)}
}

func (r *stubGuestRepo) Create(_ context.Context, s *domain.GuestSession) error {
	clone := *s
	clone.BookingIDs = append([]string(nil), s.BookingIDs...)
	r.sessions[s.Token] = &clone
	return nil
}

func (r *stubGuestRepo) Find(_ context.Context, token string) (*domain.GuestSession, error) {
	s, ok := r.sessions[token]
	if !ok {
		return nil, domain.ErrGuestSessionNotFound
	}
	clone := *s
	clone.BookingIDs = append([]string(nil), s.BookingIDs...)
	return &clone, nil
}

func (r *stubGuestRepo) AppendBooking(_ context.Context, token, bookingID string) error {
	s, ok := r.sessions[token]
	if !ok {
		return domain.ErrGuestSessionNotFound
	}
	s.BookingIDs = append(s.BookingIDs, bookingID)
	return nil
}

// stubHolder records Acquire/Release calls and can simulate contention or a
// Redis outage.
type stubHolder struct {
	denied   bool
	err      error
	acquired int
	released int
}

func (h *stubHolder) Acquire(_ context.Context, _, _, _ string) (bool, error) {
	if h.err != nil {
		return false, h.err
	}
	if h.denied {
		return false, nil
	}
	h.acquired++
	return true, nil
}

func (h *stubHolder) Release(_ context.Context, _, _, _ string) {
	h.released++
}

type stubNotifier struct {
	statuses []domain.BookingStatus
}

func (n *stubNotifier) NotifyStatusChange(_ context.Context, b *domain.Booking) {
	n.statuses = append(n.statuses, b.Status)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type bookingFixture struct {
	svc      *BookingService
	bookings *stubBookingRepo
	salons   *stubSalonRepo
	users    *stubUserRepo
	guests   *stubGuestRepo
	reviews  *stubReviewRepo
	holder   *stubHolder
	notifier *stubNotifier
}

func newBookingFixture() *bookingFixture {
	f := &bookingFixture{
		bookings: newStubBookingRepo(),
		salons:   newStubSalonRepo(),
		users:    newStubUserRepo(),
		guests:   newStubGuestRepo(),
		reviews:  newStubReviewRepo(),
		holder:   &stubHolder{},
		notifier: &stubNotifier{},
	}
	f.salons.salons["salon1"] = &domain.Salon{
		ID:       "salon1",
		Name:     "Shear Genius",
		OwnerID:  "owner1",
		IsActive: true,
		Services: []domain.Service{
			{ID: "svc1", Name: "Haircut", Price: 30, Duration: 45},
			{ID: "svc2", Name: "Color", Price: 80, Duration: 90},
		},
	}
	tokens := 0
	newToken := func() string {
		tokens++
		return fmt.Sprintf("guest-token-%d", tokens)
	}
	f.svc = NewBookingService(f.bookings, f.salons, f.users, f.guests, f.reviews,
		f.holder, f.notifier, newToken, discardLogger)
	return f
}

// Actors against the fixture salon (owned by owner1).
var (
	ownerActor    = ports.Actor{UserID: "owner1", Role: domain.RoleSalonOwner}
	otherOwner    = ports.Actor{UserID: "owner2", Role: domain.RoleSalonOwner}
	adminActor    = ports.Actor{UserID: "admin1", Role: domain.RoleAdmin}
	customerActor = ports.Actor{UserID: "user1", Role: domain.RoleUser}
)

func bookingInput(userID string) ports.CreateBookingInput {
	return ports.CreateBookingInput{
		SalonID:       "salon1",
		ServiceIDs:    []string{"svc1", "svc2"},
		Date:          "2026-09-15",
		TimeSlot:      "10:00",
		CustomerName:  "Priya",
		CustomerPhone: "+911234567890",
		UserID:        userID,
	}
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestBookingService_Create_SnapshotsServices(t *testing.T) {
	f := newBookingFixture()
	f.users.users["user1"] = &domain.User{ID: "user1", Email: "p@example.com"}

	result, err := f.svc.Create(context.Background(), bookingInput("user1"))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	b := result.Booking
	if len(b.Services) != 2 {
		t.Fatalf("expected 2 snapshotted services, got %d", len(b.Services))
	}
	if b.TotalPrice != 110 {
		t.Fatalf("expected total price 110, got %v", b.TotalPrice)
	}
	if b.TotalDuration != 135 {
		t.Fatalf("expected total duration 135, got %d", b.TotalDuration)
	}
	if b.Status != domain.BookingPending {
		t.Fatalf("expected pending status, got %s", b.Status)
	}
	if b.PaymentStatus != domain.PaymentPending {
		t.Fatalf("expected pending payment, got %s", b.PaymentStatus)
	}
	if result.GuestToken != "" {
		t.Fatalf("authenticated booking should not return a guest token")
	}

	// Later salon edits must not rewrite the snapshot.
	f.salons.salons["salon1"].Services[0].Price = 999
	stored, _ := f.bookings.FindByID(context.Background(), b.ID)
	if stored.Services[0].Price != 30 {
		t.Fatalf("snapshot changed after salon edit: %v", stored.Services[0].Price)
	}
}

func TestBookingService_Create_UnknownService(t *testing.T) {
	f := newBookingFixture()

	input := bookingInput("")
	input.ServiceIDs = []string{"svc1", "nope"}
	_, err := f.svc.Create(context.Background(), input)
	if !errors.Is(err, domain.ErrServiceNotFound) {
		t.Fatalf("expected ErrServiceNotFound, got %v", err)
	}
}

func TestBookingService_Create_UnknownSalon(t *testing.T) {
	f := newBookingFixture()

	input := bookingInput("")
	input.SalonID = "missing"
	_, err := f.svc.Create(context.Background(), input)
	if !errors.Is(err, domain.ErrSalonNotFound) {
		t.Fatalf("expected ErrSalonNotFound, got %v", err)
	}
}

func TestBookingService_Create_SlotOccupied(t *testing.T) {
	f := newBookingFixture()

	if _, err := f.svc.Create(context.Background(), bookingInput("")); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}
	_, err := f.svc.Create(context.Background(), bookingInput(""))
	if !errors.Is(err, domain.ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}
}

func TestBookingService_Create_HoldContention(t *testing.T) {
	f := newBookingFixture()
	f.holder.denied = true

	_, err := f.svc.Create(context.Background(), bookingInput(""))
	if !errors.Is(err, domain.ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken when hold is denied, got %v", err)
	}
	if len(f.bookings.bookings) != 0 {
		t.Fatalf("no booking should be inserted when the hold is denied")
	}
}

func TestBookingService_Create_HoldOutageDegradesToIndex(t *testing.T) {
	f := newBookingFixture()
	f.holder.err = errors.New("connection refused")

	result, err := f.svc.Create(context.Background(), bookingInput(""))
	if err != nil {
		t.Fatalf("Create should survive a hold outage: %v", err)
	}
	if result.Booking.ID == "" {
		t.Fatalf("expected booking to be created")
	}

	// The index still rejects a second claim.
	_, err = f.svc.Create(context.Background(), bookingInput(""))
	if !errors.Is(err, domain.ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken from index, got %v", err)
	}
}

func TestBookingService_Create_InsertFailureReleasesHold(t *testing.T) {
	f := newBookingFixture()
	f.bookings.createErr = errors.New("write failed")

	if _, err := f.svc.Create(context.Background(), bookingInput("")); err == nil {
		t.Fatalf("expected error")
	}
	if f.holder.released != 1 {
		t.Fatalf("expected hold release after failed insert, got %d", f.holder.released)
	}
}

func TestBookingService_Create_LinksToUser(t *testing.T) {
	f := newBookingFixture()
	f.users.users["user1"] = &domain.User{ID: "user1", Email: "p@example.com"}

	result, err := f.svc.Create(context.Background(), bookingInput("user1"))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	u := f.users.users["user1"]
	if len(u.Bookings) != 1 || u.Bookings[0] != result.Booking.ID {
		t.Fatalf("booking not linked to user: %v", u.Bookings)
	}
}

// ---------------------------------------------------------------------------
// Guest flow
// ---------------------------------------------------------------------------

func TestBookingService_Create_GuestMintsSession(t *testing.T) {
	f := newBookingFixture()

	result, err := f.svc.Create(context.Background(), bookingInput(""))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if result.GuestToken == "" {
		t.Fatalf("expected a guest token")
	}
	if result.Booking.UserID != domain.GuestUserID {
		t.Fatalf("expected guest sentinel user id, got %s", result.Booking.UserID)
	}

	session, err := f.guests.Find(context.Background(), result.GuestToken)
	if err != nil {
		t.Fatalf("session not stored: %v", err)
	}
	if len(session.BookingIDs) != 1 || session.BookingIDs[0] != result.Booking.ID {
		t.Fatalf("booking not recorded in session: %v", session.BookingIDs)
	}
	if session.ExpiresAt.Before(time.Now().Add(89 * 24 * time.Hour)) {
		t.Fatalf("expected ~90 day expiry, got %v", session.ExpiresAt)
	}
}

func TestBookingService_Create_GuestResumesSession(t *testing.T) {
	f := newBookingFixture()

	first, err := f.svc.Create(context.Background(), bookingInput(""))
	if err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	input := bookingInput("")
	input.TimeSlot = "11:00"
	input.GuestToken = first.GuestToken
	second, err := f.svc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("second booking failed: %v", err)
	}
	if second.GuestToken != first.GuestToken {
		t.Fatalf("expected resumed token %s, got %s", first.GuestToken, second.GuestToken)
	}

	bookings, err := f.svc.ListByGuest(context.Background(), first.GuestToken)
	if err != nil {
		t.Fatalf("ListByGuest failed: %v", err)
	}
	if len(bookings) != 2 {
		t.Fatalf("expected 2 guest bookings, got %d", len(bookings))
	}
}

func TestBookingService_Create_GuestUnknownTokenMintsNew(t *testing.T) {
	f := newBookingFixture()

	input := bookingInput("")
	input.GuestToken = "stale-token"
	result, err := f.svc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if result.GuestToken == "" || result.GuestToken == "stale-token" {
		t.Fatalf("expected a fresh token, got %q", result.GuestToken)
	}
}

// ---------------------------------------------------------------------------
// Availability
// ---------------------------------------------------------------------------

func TestBookingService_Availability(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	free, err := f.svc.CheckSlotAvailability(ctx, "salon1", "2026-09-15", "10:00")
	if err != nil || !free {
		t.Fatalf("expected free slot, got %v %v", free, err)
	}

	result, err := f.svc.Create(ctx, bookingInput(""))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	free, err = f.svc.CheckSlotAvailability(ctx, "salon1", "2026-09-15", "10:00")
	if err != nil || free {
		t.Fatalf("expected occupied slot, got %v %v", free, err)
	}

	// Cancellation frees the slot again.
	if _, err := f.svc.UpdateStatus(ctx, result.Booking.ID, domain.BookingCancelled, ownerActor); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	free, err = f.svc.CheckSlotAvailability(ctx, "salon1", "2026-09-15", "10:00")
	if err != nil || !free {
		t.Fatalf("expected slot free after cancellation, got %v %v", free, err)
	}
}

// ---------------------------------------------------------------------------
// Status state machine
// ---------------------------------------------------------------------------

func TestBookingService_UpdateStatus_ValidTransitions(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	result, err := f.svc.Create(ctx, bookingInput(""))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	id := result.Booking.ID

	b, err := f.svc.UpdateStatus(ctx, id, domain.BookingConfirmed, ownerActor)
	if err != nil {
		t.Fatalf("pending->confirmed failed: %v", err)
	}
	if b.Status != domain.BookingConfirmed {
		t.Fatalf("expected confirmed, got %s", b.Status)
	}

	b, err = f.svc.UpdateStatus(ctx, id, domain.BookingCompleted, ownerActor)
	if err != nil {
		t.Fatalf("confirmed->completed failed: %v", err)
	}
	if b.SlotActive {
		t.Fatalf("completed booking should not hold the slot")
	}

	if len(f.notifier.statuses) != 2 {
		t.Fatalf("expected 2 status notifications, got %d", len(f.notifier.statuses))
	}
}

func TestBookingService_UpdateStatus_TerminalStatesAreFinal(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	result, _ := f.svc.Create(ctx, bookingInput(""))
	id := result.Booking.ID
	_, _ = f.svc.UpdateStatus(ctx, id, domain.BookingConfirmed, ownerActor)
	_, _ = f.svc.UpdateStatus(ctx, id, domain.BookingCompleted, ownerActor)

	for _, next := range []domain.BookingStatus{
		domain.BookingPending, domain.BookingConfirmed, domain.BookingCancelled,
	} {
		if _, err := f.svc.UpdateStatus(ctx, id, next, ownerActor); !errors.Is(err, domain.ErrInvalidTransition) {
			t.Fatalf("completed->%s should be rejected, got %v", next, err)
		}
	}
}

func TestBookingService_UpdateStatus_RejectsRescheduleShortcut(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	result, _ := f.svc.Create(ctx, bookingInput(""))
	id := result.Booking.ID
	_, _ = f.svc.UpdateStatus(ctx, id, domain.BookingConfirmed, ownerActor)

	// Entering reschedule_requested must go through RequestReschedule.
	if _, err := f.svc.UpdateStatus(ctx, id, domain.BookingRescheduleRequested, ownerActor); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	// And leaving it must go through ResolveReschedule.
	if _, err := f.svc.RequestReschedule(ctx, id, domain.RescheduleRequest{NewDate: "2026-09-16", NewTime: "12:00"}, ownerActor); err != nil {
		t.Fatalf("RequestReschedule failed: %v", err)
	}
	if _, err := f.svc.UpdateStatus(ctx, id, domain.BookingConfirmed, ownerActor); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestBookingService_UpdateStatus_NotFound(t *testing.T) {
	f := newBookingFixture()
	if _, err := f.svc.UpdateStatus(context.Background(), "missing", domain.BookingConfirmed, ownerActor); !errors.Is(err, domain.ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Reschedule
// ---------------------------------------------------------------------------

func TestBookingService_Reschedule_ApproveMovesSlot(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	result, _ := f.svc.Create(ctx, bookingInput(""))
	id := result.Booking.ID
	_, _ = f.svc.UpdateStatus(ctx, id, domain.BookingConfirmed, ownerActor)

	if _, err := f.svc.RequestReschedule(ctx, id, domain.RescheduleRequest{NewDate: "2026-09-16", NewTime: "14:00", Reason: "travel"}, ownerActor); err != nil {
		t.Fatalf("RequestReschedule failed: %v", err)
	}

	b, err := f.svc.ResolveReschedule(ctx, id, true, ownerActor)
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if b.Status != domain.BookingConfirmed || b.Date != "2026-09-16" || b.TimeSlot != "14:00" {
		t.Fatalf("approve did not move the booking: %+v", b)
	}
	if b.Reschedule != nil {
		t.Fatalf("request should be discarded after resolution")
	}
}

func TestBookingService_Reschedule_DenyKeepsSlot(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	result, _ := f.svc.Create(ctx, bookingInput(""))
	id := result.Booking.ID
	_, _ = f.svc.UpdateStatus(ctx, id, domain.BookingConfirmed, ownerActor)
	_, _ = f.svc.RequestReschedule(ctx, id, domain.RescheduleRequest{NewDate: "2026-09-16", NewTime: "14:00"}, ownerActor)

	b, err := f.svc.ResolveReschedule(ctx, id, false, ownerActor)
	if err != nil {
		t.Fatalf("deny failed: %v", err)
	}
	if b.Status != domain.BookingConfirmed || b.Date != "2026-09-15" || b.TimeSlot != "10:00" {
		t.Fatalf("deny should keep the original slot: %+v", b)
	}
	if b.Reschedule != nil {
		t.Fatalf("request should be discarded after denial")
	}
}

func TestBookingService_Reschedule_OnlyFromConfirmed(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	result, _ := f.svc.Create(ctx, bookingInput(""))
	if _, err := f.svc.RequestReschedule(ctx, result.Booking.ID, domain.RescheduleRequest{NewDate: "2026-09-16", NewTime: "14:00"}, ownerActor); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("pending booking should not be reschedulable, got %v", err)
	}
}

func TestBookingService_Reschedule_ResolveWithoutPending(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	result, _ := f.svc.Create(ctx, bookingInput(""))
	if _, err := f.svc.ResolveReschedule(ctx, result.Booking.ID, true, ownerActor); !errors.Is(err, domain.ErrNoReschedulePending) {
		t.Fatalf("expected ErrNoReschedulePending, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Stats
// ---------------------------------------------------------------------------

func TestBookingService_Stats(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	first, _ := f.svc.Create(ctx, bookingInput(""))
	input := bookingInput("")
	input.TimeSlot = "11:00"
	second, _ := f.svc.Create(ctx, input)

	_, _ = f.svc.UpdateStatus(ctx, first.Booking.ID, domain.BookingConfirmed, ownerActor)
	_, _ = f.svc.UpdateStatus(ctx, first.Booking.ID, domain.BookingCompleted, ownerActor)
	_, _ = f.svc.UpdateStatus(ctx, second.Booking.ID, domain.BookingCancelled, ownerActor)

	f.reviews.summary = &domain.RatingSummary{Average: 4.5, Count: 2}

	stats, err := f.svc.Stats(ctx, "salon1", ownerActor)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalBookings != 2 || stats.CompletedBookings != 1 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	if stats.TotalRevenue != 110 {
		t.Fatalf("expected revenue 110, got %v", stats.TotalRevenue)
	}
	if stats.AverageRating != 4.5 {
		t.Fatalf("expected rating 4.5, got %v", stats.AverageRating)
	}
}

// ---------------------------------------------------------------------------
// Ownership
// ---------------------------------------------------------------------------

// The booking book carries customer names and phone numbers, so it is only
// readable by the salon's own owner and by admins.
func TestBookingService_ListBySalon_OwnershipEnforced(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, bookingInput("")); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	bookings, err := f.svc.ListBySalon(ctx, "salon1", ownerActor)
	if err != nil {
		t.Fatalf("owner should read their booking book: %v", err)
	}
	if len(bookings) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(bookings))
	}

	if _, err := f.svc.ListBySalon(ctx, "salon1", otherOwner); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("foreign owner should be forbidden, got %v", err)
	}
	if _, err := f.svc.ListBySalon(ctx, "salon1", customerActor); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("customer should be forbidden, got %v", err)
	}
	if _, err := f.svc.ListBySalon(ctx, "salon1", adminActor); err != nil {
		t.Fatalf("admin should read any booking book: %v", err)
	}
}

func TestBookingService_UpdateStatus_CustomerCancelsOwnBookingOnly(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()
	f.users.users["user1"] = &domain.User{ID: "user1", Email: "p@example.com"}

	result, err := f.svc.Create(ctx, bookingInput("user1"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	id := result.Booking.ID

	if _, err := f.svc.UpdateStatus(ctx, id, domain.BookingConfirmed, customerActor); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("customer should not confirm, got %v", err)
	}
	stranger := ports.Actor{UserID: "user2", Role: domain.RoleUser}
	if _, err := f.svc.UpdateStatus(ctx, id, domain.BookingCancelled, stranger); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("another customer should not cancel, got %v", err)
	}

	b, err := f.svc.UpdateStatus(ctx, id, domain.BookingCancelled, customerActor)
	if err != nil {
		t.Fatalf("customer should cancel their own booking: %v", err)
	}
	if b.Status != domain.BookingCancelled {
		t.Fatalf("expected cancelled, got %s", b.Status)
	}
}

func TestBookingService_UpdateStatus_ForeignOwnerForbidden(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	result, _ := f.svc.Create(ctx, bookingInput(""))
	if _, err := f.svc.UpdateStatus(ctx, result.Booking.ID, domain.BookingConfirmed, otherOwner); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("foreign owner should be forbidden, got %v", err)
	}
	if _, err := f.svc.UpdatePaymentStatus(ctx, result.Booking.ID, domain.PaymentPaid, otherOwner); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("foreign owner should not change payment status, got %v", err)
	}
}

func TestBookingService_RequestReschedule_CustomerOwnOnly(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()
	f.users.users["user1"] = &domain.User{ID: "user1", Email: "p@example.com"}

	result, _ := f.svc.Create(ctx, bookingInput("user1"))
	id := result.Booking.ID
	_, _ = f.svc.UpdateStatus(ctx, id, domain.BookingConfirmed, ownerActor)

	stranger := ports.Actor{UserID: "user2", Role: domain.RoleUser}
	if _, err := f.svc.RequestReschedule(ctx, id, domain.RescheduleRequest{NewDate: "2026-09-16", NewTime: "14:00"}, stranger); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("another customer should not request a reschedule, got %v", err)
	}

	if _, err := f.svc.RequestReschedule(ctx, id, domain.RescheduleRequest{NewDate: "2026-09-16", NewTime: "14:00"}, customerActor); err != nil {
		t.Fatalf("booking's customer should request a reschedule: %v", err)
	}

	if _, err := f.svc.ResolveReschedule(ctx, id, true, otherOwner); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("foreign owner should not resolve, got %v", err)
	}
}

func TestBookingService_Stats_OwnershipEnforced(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	if _, err := f.svc.Stats(ctx, "salon1", otherOwner); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("foreign owner should not read stats, got %v", err)
	}
	if _, err := f.svc.Stats(ctx, "salon1", customerActor); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("customer should not read stats, got %v", err)
	}
	if _, err := f.svc.Stats(ctx, "salon1", adminActor); err != nil {
		t.Fatalf("admin should read stats: %v", err)
	}
}

// A pending reschedule keeps the original slot claimed, so the availability
// report and the insert-guarding index agree on the tuple.
func TestBookingService_Availability_HeldDuringReschedule(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()
	f.users.users["user1"] = &domain.User{ID: "user1", Email: "p@example.com"}

	result, _ := f.svc.Create(ctx, bookingInput("user1"))
	id := result.Booking.ID
	_, _ = f.svc.UpdateStatus(ctx, id, domain.BookingConfirmed, ownerActor)
	if _, err := f.svc.RequestReschedule(ctx, id, domain.RescheduleRequest{NewDate: "2026-09-16", NewTime: "14:00"}, customerActor); err != nil {
		t.Fatalf("request failed: %v", err)
	}

	free, err := f.svc.CheckSlotAvailability(ctx, "salon1", "2026-09-15", "10:00")
	if err != nil {
		t.Fatalf("availability check failed: %v", err)
	}
	if free {
		t.Fatalf("slot should stay held while the reschedule is pending")
	}
	if _, err := f.svc.Create(ctx, bookingInput("")); !errors.Is(err, domain.ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken for the held slot, got %v", err)
	}

	// Denial keeps the original slot; cancellation frees it.
	if _, err := f.svc.ResolveReschedule(ctx, id, false, ownerActor); err != nil {
		t.Fatalf("deny failed: %v", err)
	}
	if _, err := f.svc.UpdateStatus(ctx, id, domain.BookingCancelled, customerActor); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	free, err = f.svc.CheckSlotAvailability(ctx, "salon1", "2026-09-15", "10:00")
	if err != nil {
		t.Fatalf("availability check failed: %v", err)
	}
	if !free {
		t.Fatalf("slot should be free after cancellation")
	}
}
