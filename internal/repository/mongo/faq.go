package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/frayen/support-desk/internal/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type faqDoc struct {
	ID        string    `bson:"_id"`
	Question  string    `bson:"question"`
	Answer    string    `bson:"answer"`
	Category  string    `bson:"category"`
	Keywords  []string  `bson:"keywords"`
	CreatedAt time.Time `bson:"created_at"`
}

func (d faqDoc) toDomain() (domain.FaqEntry, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return domain.FaqEntry{}, fmt.Errorf("invalid faq id %q: %w", d.ID, err)
	}
	return domain.FaqEntry{
		ID:        id,
		Question:  d.Question,
		Answer:    d.Answer,
		Category:  d.Category,
		Keywords:  d.Keywords,
		CreatedAt: d.CreatedAt,
	}, nil
}

// FaqRepository implements domain.FaqRepository on MongoDB
type FaqRepository struct {
	coll *mongo.Collection
}

// NewFaqRepository creates a new FAQ repository
func NewFaqRepository(store *Store) *FaqRepository {
	return &FaqRepository{coll: store.db.Collection("faqs")}
}

func (r *FaqRepository) Create(ctx context.Context, entry *domain.FaqEntry) error {
	doc := faqDoc{
		ID:        entry.ID.String(),
		Question:  entry.Question,
		Answer:    entry.Answer,
		Category:  entry.Category,
		Keywords:  entry.Keywords,
		CreatedAt: entry.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create faq: %w", err)
	}
	return nil
}

func (r *FaqRepository) List(ctx context.Context, category string) ([]domain.FaqEntry, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list faqs: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []domain.FaqEntry
	for cursor.Next(ctx) {
		var doc faqDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode faq: %w", err)
		}
		entry, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate faqs: %w", err)
	}
	return entries, nil
}

func (r *FaqRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count faqs: %w", err)
	}
	return count, nil
}
