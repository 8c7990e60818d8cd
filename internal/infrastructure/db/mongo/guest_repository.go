package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harshpalas/GlamBook/internal/core/domain"
)

// GuestSessionRepository implements ports.GuestSessionRepository. Sessions
// use the generated token as _id and expire via a TTL index on expires_at,
// so stale sessions disappear without a cleanup job.
type GuestSessionRepository struct {
	col *mongo.Collection
}

func NewGuestSessionRepository(db *mongo.Database) *GuestSessionRepository {
	return &GuestSessionRepository{col: db.Collection(collectionGuests)}
}

func (r *GuestSessionRepository) Create(ctx context.Context, session *domain.GuestSession) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, session); err != nil {
		return fmt.Errorf("insert guest session: %w", err)
	}
	return nil
}

func (r *GuestSessionRepository) Find(ctx context.Context, token string) (*domain.GuestSession, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var session domain.GuestSession
	err := r.col.FindOne(ctx, bson.M{"_id": token}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrGuestSessionNotFound
		}
		return nil, fmt.Errorf("find guest session: %w", err)
	}
	return &session, nil
}

func (r *GuestSessionRepository) AppendBooking(ctx context.Context, token, bookingID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": token},
		bson.M{"$push": bson.M{"booking_ids": bookingID}},
	)
	if err != nil {
		return fmt.Errorf("append guest booking: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrGuestSessionNotFound
	}
	return nil
}

func (r *GuestSessionRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	return err
}
