package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/frayen/support-desk/internal/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type messageDoc struct {
	ID        string                  `bson:"_id"`
	SessionID string                  `bson:"session_id"`
	Role      string                  `bson:"role"`
	Content   string                  `bson:"content"`
	Metadata  *domain.MessageMetadata `bson:"metadata,omitempty"`
	CreatedAt time.Time               `bson:"created_at"`
}

func (d messageDoc) toDomain() (domain.Message, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return domain.Message{}, fmt.Errorf("invalid message id %q: %w", d.ID, err)
	}
	sessionID, err := uuid.Parse(d.SessionID)
	if err != nil {
		return domain.Message{}, fmt.Errorf("invalid session id %q: %w", d.SessionID, err)
	}
	return domain.Message{
		ID:        id,
		SessionID: sessionID,
		Role:      domain.MessageRole(d.Role),
		Content:   d.Content,
		Metadata:  d.Metadata,
		CreatedAt: d.CreatedAt,
	}, nil
}

// MessageRepository implements domain.MessageRepository on MongoDB
type MessageRepository struct {
	coll *mongo.Collection
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(store *Store) *MessageRepository {
	return &MessageRepository{coll: store.db.Collection("messages")}
}

func (r *MessageRepository) Create(ctx context.Context, message *domain.Message) error {
	doc := messageDoc{
		ID:        message.ID.String(),
		SessionID: message.SessionID.String(),
		Role:      string(message.Role),
		Content:   message.Content,
		Metadata:  message.Metadata,
		CreatedAt: message.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// ListBySession returns the last limit messages in chronological order.
// A limit of zero returns the full history.
func (r *MessageRepository) ListBySession(ctx context.Context, sessionID uuid.UUID, limit int) ([]domain.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}

	cursor, err := r.coll.Find(ctx, bson.M{"session_id": sessionID.String()}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer cursor.Close(ctx)

	var messages []domain.Message
	for cursor.Next(ctx) {
		var doc messageDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode message: %w", err)
		}
		m, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *MessageRepository) CountBySession(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"session_id": sessionID.String()})
	if err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}

func (r *MessageRepository) DeleteBySession(ctx context.Context, sessionID uuid.UUID) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"session_id": sessionID.String()}); err != nil {
		return fmt.Errorf("failed to delete messages: %w", err)
	}
	return nil
}
