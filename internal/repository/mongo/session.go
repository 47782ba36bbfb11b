package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/frayen/support-desk/internal/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type sessionDoc struct {
	ID               string    `bson:"_id"`
	Title            string    `bson:"title"`
	Status           string    `bson:"status"`
	EscalationReason string    `bson:"escalation_reason,omitempty"`
	FailedAttempts   int       `bson:"failed_attempts"`
	Summary          string    `bson:"summary,omitempty"`
	CreatedAt        time.Time `bson:"created_at"`
	UpdatedAt        time.Time `bson:"updated_at"`
}

func (d sessionDoc) toDomain() (*domain.ChatSession, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid session id %q: %w", d.ID, err)
	}
	return &domain.ChatSession{
		ID:               id,
		Title:            d.Title,
		Status:           domain.SessionStatus(d.Status),
		EscalationReason: d.EscalationReason,
		FailedAttempts:   d.FailedAttempts,
		Summary:          d.Summary,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}, nil
}

func sessionToDoc(s *domain.ChatSession) sessionDoc {
	return sessionDoc{
		ID:               s.ID.String(),
		Title:            s.Title,
		Status:           string(s.Status),
		EscalationReason: s.EscalationReason,
		FailedAttempts:   s.FailedAttempts,
		Summary:          s.Summary,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

// SessionRepository implements domain.SessionRepository on MongoDB
type SessionRepository struct {
	coll *mongo.Collection
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(store *Store) *SessionRepository {
	return &SessionRepository{coll: store.db.Collection("chat_sessions")}
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.ChatSession) error {
	if _, err := r.coll.InsertOne(ctx, sessionToDoc(session)); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, id uuid.UUID) (*domain.ChatSession, error) {
	var doc sessionDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return doc.toDomain()
}

func (r *SessionRepository) List(ctx context.Context, limit, offset int) ([]domain.ChatSession, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []domain.ChatSession
	for cursor.Next(ctx) {
		var doc sessionDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode session: %w", err)
		}
		s, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}
	return sessions, nil
}

func (r *SessionRepository) Update(ctx context.Context, session *domain.ChatSession) error {
	update := bson.M{"$set": bson.M{
		"title":             session.Title,
		"status":            string(session.Status),
		"escalation_reason": session.EscalationReason,
		"failed_attempts":   session.FailedAttempts,
		"summary":           session.Summary,
		"updated_at":        session.UpdatedAt,
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": session.ID.String()}, update)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}
