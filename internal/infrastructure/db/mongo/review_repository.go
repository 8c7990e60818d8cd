package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harshpalas/GlamBook/internal/core/domain"
)

// ReviewRepository implements ports.ReviewRepository over the reviews
// collection. The compound unique index makes "one review per booking per
// user" a storage-level guarantee.
type ReviewRepository struct {
	col *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{col: db.Collection(collectionReviews)}
}

type reviewDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	SalonID   string             `bson:"salon_id"`
	BookingID string             `bson:"booking_id"`
	UserName  string             `bson:"user_name"`
	Rating    int                `bson:"rating"`
	Comment   string             `bson:"comment"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d *reviewDoc) toDomain() *domain.Review {
	return &domain.Review{
		ID:        d.ID.Hex(),
		UserID:    d.UserID,
		SalonID:   d.SalonID,
		BookingID: d.BookingID,
		UserName:  d.UserName,
		Rating:    d.Rating,
		Comment:   d.Comment,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) (*domain.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := reviewDoc{
		UserID:    rv.UserID,
		SalonID:   rv.SalonID,
		BookingID: rv.BookingID,
		UserName:  rv.UserName,
		Rating:    rv.Rating,
		Comment:   rv.Comment,
		CreatedAt: rv.CreatedAt,
		UpdatedAt: rv.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateReview
		}
		return nil, fmt.Errorf("insert review: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *ReviewRepository) FindBySalon(ctx context.Context, salonID string, limit int64) ([]*domain.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return r.findAll(ctx, bson.M{"salon_id": salonID}, opts)
}

func (r *ReviewRepository) FindByUser(ctx context.Context, userID string) ([]*domain.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.findAll(ctx, bson.M{"user_id": userID}, opts)
}

func (r *ReviewRepository) findAll(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find reviews: %w", err)
	}
	defer cur.Close(ctx)

	out := []*domain.Review{}
	for cur.Next(ctx) {
		var doc reviewDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode review: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	return out, cur.Err()
}

func (r *ReviewRepository) Exists(ctx context.Context, userID, salonID, bookingID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{
		"user_id":    userID,
		"salon_id":   salonID,
		"booking_id": bookingID,
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("check review exists: %w", err)
	}
	return n > 0, nil
}

// AggregateRating computes mean and count in one pipeline so the derived pair
// is always consistent. A salon with no reviews yields {0, 0}.
func (r *ReviewRepository) AggregateRating(ctx context.Context, salonID string) (*domain.RatingSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"salon_id": salonID}}},
		{{Key: "$group", Value: bson.M{
			"_id":            nil,
			"average_rating": bson.M{"$avg": "$rating"},
			"total_reviews":  bson.M{"$sum": 1},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate rating: %w", err)
	}
	defer cur.Close(ctx)

	var row struct {
		AverageRating float64 `bson:"average_rating"`
		TotalReviews  int64   `bson:"total_reviews"`
	}
	if cur.Next(ctx) {
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode rating summary: %w", err)
		}
	}
	return &domain.RatingSummary{Average: row.AverageRating, Count: row.TotalReviews}, cur.Err()
}

// EnsureIndexes enforces at most one review per (user, salon, booking) triple.
func (r *ReviewRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "salon_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "salon_id", Value: 1}, {Key: "booking_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
