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

// ChatRepository implements ports.ChatRepository over the chat_messages
// collection. The log is append-only; there are no update or delete paths.
type ChatRepository struct {
	col *mongo.Collection
}

func NewChatRepository(db *mongo.Database) *ChatRepository {
	return &ChatRepository{col: db.Collection(collectionChat)}
}

type chatMessageDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	BookingID  string             `bson:"booking_id"`
	SenderID   string             `bson:"sender_id"`
	SenderName string             `bson:"sender_name"`
	SenderRole domain.Role        `bson:"sender_role"`
	Message    string             `bson:"message"`
	Timestamp  time.Time          `bson:"timestamp"`
}

func (d *chatMessageDoc) toDomain() *domain.ChatMessage {
	return &domain.ChatMessage{
		ID:         d.ID.Hex(),
		BookingID:  d.BookingID,
		SenderID:   d.SenderID,
		SenderName: d.SenderName,
		SenderRole: d.SenderRole,
		Message:    d.Message,
		Timestamp:  d.Timestamp,
	}
}

func (r *ChatRepository) Insert(ctx context.Context, msg *domain.ChatMessage) (*domain.ChatMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := chatMessageDoc{
		BookingID:  msg.BookingID,
		SenderID:   msg.SenderID,
		SenderName: msg.SenderName,
		SenderRole: msg.SenderRole,
		Message:    msg.Message,
		Timestamp:  msg.Timestamp,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert chat message: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *ChatRepository) FindByBooking(ctx context.Context, bookingID string) ([]*domain.ChatMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"booking_id": bookingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find chat messages: %w", err)
	}
	defer cur.Close(ctx)

	out := []*domain.ChatMessage{}
	for cur.Next(ctx) {
		var doc chatMessageDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode chat message: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	return out, cur.Err()
}

func (r *ChatRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "booking_id", Value: 1}, {Key: "timestamp", Value: 1}},
	})
	return err
}
