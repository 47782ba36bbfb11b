package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// FaqEntry is a knowledge-base record. Entries are immutable after
// creation and read-only to the chat core.
type FaqEntry struct {
	ID        uuid.UUID `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Category  string    `json:"category"`
	Keywords  []string  `json:"keywords"`
	CreatedAt time.Time `json:"created_at"`
}

// FaqRepository defines the interface for FAQ storage
type FaqRepository interface {
	Create(ctx context.Context, entry *FaqEntry) error
	List(ctx context.Context, category string) ([]FaqEntry, error)
	Count(ctx context.Context) (int64, error)
}
