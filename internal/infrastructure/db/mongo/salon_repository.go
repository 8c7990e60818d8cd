package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harshpalas/GlamBook/internal/core/domain"
	"github.com/harshpalas/GlamBook/internal/core/ports"
)

// SalonRepository implements ports.SalonRepository over the salons collection.
// Services and per-date slot lists live embedded in the salon document.
type SalonRepository struct {
	col *mongo.Collection
}

func NewSalonRepository(db *mongo.Database) *SalonRepository {
	return &SalonRepository{col: db.Collection(collectionSalons)}
}

type salonDoc struct {
	ID             primitive.ObjectID         `bson:"_id,omitempty"`
	Name           string                     `bson:"name"`
	Location       domain.Location            `bson:"location"`
	Services       []domain.Service           `bson:"services"`
	Rating         float64                    `bson:"rating"`
	TotalReviews   int64                      `bson:"total_reviews"`
	Images         []string                   `bson:"images"`
	Description    string                     `bson:"description"`
	Phone          string                     `bson:"phone"`
	Hours          map[string]domain.DayHours `bson:"hours"`
	AvailableSlots []domain.DateSlots         `bson:"available_slots"`
	OwnerID        string                     `bson:"owner_id"`
	IsActive       bool                       `bson:"is_active"`
	CreatedAt      time.Time                  `bson:"created_at"`
	UpdatedAt      time.Time                  `bson:"updated_at"`
}

func (d *salonDoc) toDomain() *domain.Salon {
	return &domain.Salon{
		ID:             d.ID.Hex(),
		Name:           d.Name,
		Location:       d.Location,
		Services:       d.Services,
		Rating:         d.Rating,
		TotalReviews:   d.TotalReviews,
		Images:         d.Images,
		Description:    d.Description,
		Phone:          d.Phone,
		Hours:          d.Hours,
		AvailableSlots: d.AvailableSlots,
		OwnerID:        d.OwnerID,
		IsActive:       d.IsActive,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func (r *SalonRepository) Create(ctx context.Context, s *domain.Salon) (*domain.Salon, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := salonDoc{
		Name:           s.Name,
		Location:       s.Location,
		Services:       s.Services,
		Rating:         s.Rating,
		TotalReviews:   s.TotalReviews,
		Images:         s.Images,
		Description:    s.Description,
		Phone:          s.Phone,
		Hours:          s.Hours,
		AvailableSlots: s.AvailableSlots,
		OwnerID:        s.OwnerID,
		IsActive:       s.IsActive,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
	if doc.Services == nil {
		doc.Services = []domain.Service{}
	}
	if doc.AvailableSlots == nil {
		doc.AvailableSlots = []domain.DateSlots{}
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert salon: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

// FindByID retrieves an active salon; soft-deleted salons are invisible here.
func (r *SalonRepository) FindByID(ctx context.Context, id string) (*domain.Salon, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrSalonNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc salonDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid, "is_active": true}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSalonNotFound
		}
		return nil, fmt.Errorf("find salon: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *SalonRepository) FindByCity(ctx context.Context, city string, limit int64) ([]*domain.Salon, error) {
	filter := bson.M{"is_active": true}
	if city != "" {
		filter["location.city"] = substringMatch(city)
	}
	return r.findAll(ctx, filter, limit)
}

func (r *SalonRepository) Search(ctx context.Context, query, city string, limit int64) ([]*domain.Salon, error) {
	re := substringMatch(query)
	filter := bson.M{
		"is_active": true,
		"$or": bson.A{
			bson.M{"name": re},
			bson.M{"description": re},
			bson.M{"services.name": re},
		},
	}
	if city != "" {
		filter["location.city"] = substringMatch(city)
	}
	return r.findAll(ctx, filter, limit)
}

func (r *SalonRepository) FindByOwner(ctx context.Context, ownerID string) ([]*domain.Salon, error) {
	return r.findAll(ctx, bson.M{"owner_id": ownerID, "is_active": true}, 0)
}

func (r *SalonRepository) findAll(ctx context.Context, filter bson.M, limit int64) ([]*domain.Salon, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find salons: %w", err)
	}
	defer cur.Close(ctx)

	out := []*domain.Salon{}
	for cur.Next(ctx) {
		var doc salonDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode salon: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	return out, cur.Err()
}

func (r *SalonRepository) UpdateByID(ctx context.Context, id string, upd ports.SalonUpdate) (*domain.Salon, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrSalonNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Phone != nil {
		set["phone"] = *upd.Phone
	}
	if upd.Location != nil {
		set["location"] = *upd.Location
	}
	if upd.Images != nil {
		set["images"] = *upd.Images
	}
	if upd.Hours != nil {
		set["hours"] = *upd.Hours
	}
	if upd.IsActive != nil {
		set["is_active"] = *upd.IsActive
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc salonDoc
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSalonNotFound
		}
		return nil, fmt.Errorf("update salon: %w", err)
	}
	return doc.toDomain(), nil
}

// UpdateRating overwrites the derived rating and review count together. Both
// values come from one aggregation over the reviews collection, never from an
// increment, so they cannot drift apart.
func (r *SalonRepository) UpdateRating(ctx context.Context, salonID string, rating float64, totalReviews int64) error {
	oid, err := primitive.ObjectIDFromHex(salonID)
	if err != nil {
		return domain.ErrSalonNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{
			"rating":        rating,
			"total_reviews": totalReviews,
			"updated_at":    time.Now().UTC(),
		},
	})
	if err != nil {
		return fmt.Errorf("update rating: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrSalonNotFound
	}
	return nil
}

func (r *SalonRepository) AddService(ctx context.Context, salonID string, svc domain.Service) error {
	oid, err := primitive.ObjectIDFromHex(salonID)
	if err != nil {
		return domain.ErrSalonNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$push": bson.M{"services": svc},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("add service: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrSalonNotFound
	}
	return nil
}

// UpdateService patches only the supplied fields of one embedded service.
func (r *SalonRepository) UpdateService(ctx context.Context, salonID, serviceID string, patch ports.ServicePatch) error {
	oid, err := primitive.ObjectIDFromHex(salonID)
	if err != nil {
		return domain.ErrSalonNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Name != nil {
		set["services.$.name"] = *patch.Name
	}
	if patch.Price != nil {
		set["services.$.price"] = *patch.Price
	}
	if patch.Duration != nil {
		set["services.$.duration"] = *patch.Duration
	}
	if patch.Description != nil {
		set["services.$.description"] = *patch.Description
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, "services._id": serviceID},
		bson.M{"$set": set},
	)
	if err != nil {
		return fmt.Errorf("update service: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrServiceNotFound
	}
	return nil
}

func (r *SalonRepository) RemoveService(ctx context.Context, salonID, serviceID string) error {
	oid, err := primitive.ObjectIDFromHex(salonID)
	if err != nil {
		return domain.ErrSalonNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$pull": bson.M{"services": bson.M{"_id": serviceID}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("remove service: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrSalonNotFound
	}
	return nil
}

// UpsertAvailableSlots replaces the slot list for a date, appending the date
// entry when it does not exist yet.
func (r *SalonRepository) UpsertAvailableSlots(ctx context.Context, salonID, date string, slots []string) error {
	oid, err := primitive.ObjectIDFromHex(salonID)
	if err != nil {
		return domain.ErrSalonNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, "available_slots.date": date},
		bson.M{"$set": bson.M{
			"available_slots.$.slots": slots,
			"updated_at":              time.Now().UTC(),
		}},
	)
	if err != nil {
		return fmt.Errorf("update slots: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	res, err = r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$push": bson.M{"available_slots": domain.DateSlots{Date: date, Slots: slots}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("push slots: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrSalonNotFound
	}
	return nil
}

// EnsureIndexes creates the directory query indexes.
func (r *SalonRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		{Keys: bson.D{{Key: "location.city", Value: 1}, {Key: "is_active", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// substringMatch builds a case-insensitive literal substring matcher.
// Quoting keeps regex metacharacters in user input from changing the match.
func substringMatch(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}
