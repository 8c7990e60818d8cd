package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harshpalas/GlamBook/internal/core/domain"
)

// BookingRepository implements ports.BookingRepository over the bookings
// collection. The partial unique index on (salon_id, date, time_slot) where
// slot_active is true turns the slot claim into a single conditional write.
type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection(collectionBookings)}
}

type bookingDoc struct {
	ID            primitive.ObjectID        `bson:"_id,omitempty"`
	UserID        string                    `bson:"user_id"`
	SalonID       string                    `bson:"salon_id"`
	Services      []domain.BookedService    `bson:"services"`
	Date          string                    `bson:"date"`
	TimeSlot      string                    `bson:"time_slot"`
	CustomerName  string                    `bson:"customer_name"`
	CustomerPhone string                    `bson:"customer_phone"`
	CustomerEmail string                    `bson:"customer_email,omitempty"`
	Notes         string                    `bson:"notes,omitempty"`
	TotalPrice    float64                   `bson:"total_price"`
	TotalDuration int                       `bson:"total_duration"`
	Status        string                    `bson:"status"`
	PaymentStatus string                    `bson:"payment_status"`
	SlotActive    bool                      `bson:"slot_active"`
	Reschedule    *domain.RescheduleRequest `bson:"reschedule_request,omitempty"`
	CreatedAt     time.Time                 `bson:"created_at"`
	UpdatedAt     time.Time                 `bson:"updated_at"`
}

func (d *bookingDoc) toDomain() *domain.Booking {
	return &domain.Booking{
		ID:            d.ID.Hex(),
		UserID:        d.UserID,
		SalonID:       d.SalonID,
		Services:      d.Services,
		Date:          d.Date,
		TimeSlot:      d.TimeSlot,
		CustomerName:  d.CustomerName,
		CustomerPhone: d.CustomerPhone,
		CustomerEmail: d.CustomerEmail,
		Notes:         d.Notes,
		TotalPrice:    d.TotalPrice,
		TotalDuration: d.TotalDuration,
		Status:        domain.BookingStatus(d.Status),
		PaymentStatus: domain.PaymentStatus(d.PaymentStatus),
		SlotActive:    d.SlotActive,
		Reschedule:    d.Reschedule,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// Create inserts a booking. A clash on the active-slot index means another
// request claimed the tuple first.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bookingDoc{
		UserID:        b.UserID,
		SalonID:       b.SalonID,
		Services:      b.Services,
		Date:          b.Date,
		TimeSlot:      b.TimeSlot,
		CustomerName:  b.CustomerName,
		CustomerPhone: b.CustomerPhone,
		CustomerEmail: b.CustomerEmail,
		Notes:         b.Notes,
		TotalPrice:    b.TotalPrice,
		TotalDuration: b.TotalDuration,
		Status:        string(b.Status),
		PaymentStatus: string(b.PaymentStatus),
		SlotActive:    b.SlotActive,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrSlotTaken
		}
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id string) (*domain.Booking, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrBookingNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc bookingDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("find booking: %w", err)
	}
	return doc.toDomain(), nil
}

// FindByUser returns the user's bookings newest first.
func (r *BookingRepository) FindByUser(ctx context.Context, userID string) ([]*domain.Booking, error) {
	return r.findAll(ctx, bson.M{"user_id": userID}, bson.D{{Key: "created_at", Value: -1}})
}

// FindBySalon returns the salon's bookings in calendar order.
func (r *BookingRepository) FindBySalon(ctx context.Context, salonID string) ([]*domain.Booking, error) {
	return r.findAll(ctx, bson.M{"salon_id": salonID}, bson.D{{Key: "date", Value: 1}, {Key: "time_slot", Value: 1}})
}

func (r *BookingRepository) FindByDateRange(ctx context.Context, salonID, startDate, endDate string) ([]*domain.Booking, error) {
	filter := bson.M{
		"salon_id": salonID,
		"date":     bson.M{"$gte": startDate, "$lte": endDate},
		"status":   bson.M{"$ne": string(domain.BookingCancelled)},
	}
	return r.findAll(ctx, filter, bson.D{{Key: "date", Value: 1}, {Key: "time_slot", Value: 1}})
}

func (r *BookingRepository) findAll(ctx context.Context, filter bson.M, sort bson.D) ([]*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("find bookings: %w", err)
	}
	defer cur.Close(ctx)

	out := []*domain.Booking{}
	for cur.Next(ctx) {
		var doc bookingDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode booking: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	return out, cur.Err()
}

// FindOccupying returns the booking holding the slot, if any. Keying on
// slot_active keeps this read in agreement with the partial unique index that
// guards inserts.
func (r *BookingRepository) FindOccupying(ctx context.Context, salonID, date, timeSlot string) (*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"salon_id":    salonID,
		"date":        date,
		"time_slot":   timeSlot,
		"slot_active": true,
	}

	var doc bookingDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("find occupying booking: %w", err)
	}
	return doc.toDomain(), nil
}

// UpdateStatus sets the status and keeps slot_active in sync, releasing the
// slot claim when the booking leaves the pending/confirmed set.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{
		"$set": bson.M{
			"status":      string(status),
			"slot_active": status.Occupying(),
			"updated_at":  time.Now().UTC(),
		},
	})
}

func (r *BookingRepository) UpdatePaymentStatus(ctx context.Context, id string, ps domain.PaymentStatus) (*domain.Booking, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{
		"$set": bson.M{
			"payment_status": string(ps),
			"updated_at":     time.Now().UTC(),
		},
	})
}

func (r *BookingRepository) SetReschedule(ctx context.Context, id string, req domain.RescheduleRequest) (*domain.Booking, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{
		"$set": bson.M{
			"status":             string(domain.BookingRescheduleRequested),
			"reschedule_request": req,
			"updated_at":         time.Now().UTC(),
		},
	})
}

// ApplyReschedule moves the booking to the requested slot. The active-slot
// index rejects the move when the target tuple is already claimed.
func (r *BookingRepository) ApplyReschedule(ctx context.Context, id, date, timeSlot string) (*domain.Booking, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{
		"$set": bson.M{
			"status":      string(domain.BookingConfirmed),
			"date":        date,
			"time_slot":   timeSlot,
			"slot_active": true,
			"updated_at":  time.Now().UTC(),
		},
		"$unset": bson.M{"reschedule_request": ""},
	})
}

func (r *BookingRepository) ClearReschedule(ctx context.Context, id string) (*domain.Booking, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{
		"$set": bson.M{
			"status":     string(domain.BookingConfirmed),
			"updated_at": time.Now().UTC(),
		},
		"$unset": bson.M{"reschedule_request": ""},
	})
}

func (r *BookingRepository) findOneAndUpdate(ctx context.Context, id string, update bson.M) (*domain.Booking, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrBookingNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc bookingDoc
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBookingNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrSlotTaken
		}
		return nil, fmt.Errorf("update booking: %w", err)
	}
	return doc.toDomain(), nil
}

// Stats aggregates booking counts and completed revenue for a salon.
func (r *BookingRepository) Stats(ctx context.Context, salonID string) (*domain.BookingStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	completed := string(domain.BookingCompleted)
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"salon_id": salonID}}},
		{{Key: "$group", Value: bson.M{
			"_id":            nil,
			"total_bookings": bson.M{"$sum": 1},
			"completed_bookings": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", completed}}, 1, 0},
			}},
			"total_revenue": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", completed}}, "$total_price", 0},
			}},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("booking stats: %w", err)
	}
	defer cur.Close(ctx)

	var row struct {
		TotalBookings     int64   `bson:"total_bookings"`
		CompletedBookings int64   `bson:"completed_bookings"`
		TotalRevenue      float64 `bson:"total_revenue"`
	}
	if cur.Next(ctx) {
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode booking stats: %w", err)
		}
	}
	return &domain.BookingStats{
		TotalBookings:     row.TotalBookings,
		CompletedBookings: row.CompletedBookings,
		TotalRevenue:      row.TotalRevenue,
	}, cur.Err()
}

// EnsureIndexes creates the query and slot-claim indexes.
func (r *BookingRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "salon_id", Value: 1}, {Key: "date", Value: 1}}},
		{
			Keys: bson.D{{Key: "salon_id", Value: 1}, {Key: "date", Value: 1}, {Key: "time_slot", Value: 1}},
			Options: options.Index().
				SetName("active_slot_claim").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"slot_active": true}),
		},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
