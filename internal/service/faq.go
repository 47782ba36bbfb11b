package service

import (
	"context"
	"fmt"
	"time"

	"github.com/frayen/support-desk/internal/domain"
	"github.com/frayen/support-desk/internal/faq"
	"github.com/frayen/support-desk/internal/repository/redis"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// FaqService manages the FAQ corpus backing the matcher.
type FaqService struct {
	faqRepo domain.FaqRepository
	cache   *redis.FaqCache
}

// NewFaqService creates a new FAQ service
func NewFaqService(faqRepo domain.FaqRepository, cache *redis.FaqCache) *FaqService {
	return &FaqService{
		faqRepo: faqRepo,
		cache:   cache,
	}
}

// List returns FAQ entries, optionally filtered by category. Reads go
// through the Redis cache; a miss falls back to the store and
// repopulates the cache.
func (s *FaqService) List(ctx context.Context, category string) ([]domain.FaqEntry, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, category)
		if err != nil {
			log.Warn().Err(err).Msg("faq cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	entries, err := s.faqRepo.List(ctx, category)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, category, entries); err != nil {
			log.Warn().Err(err).Msg("faq cache write failed")
		}
	}

	return entries, nil
}

// Corpus returns the full FAQ corpus for ranking.
func (s *FaqService) Corpus(ctx context.Context) ([]domain.FaqEntry, error) {
	return s.List(ctx, "")
}

// CreateInput is the payload for adding an FAQ entry.
type CreateInput struct {
	Question string   `json:"question" validate:"required"`
	Answer   string   `json:"answer" validate:"required"`
	Category string   `json:"category"`
	Keywords []string `json:"keywords"`
}

// Create adds an FAQ entry and drops every cached list so the matcher
// sees it on the next turn.
func (s *FaqService) Create(ctx context.Context, input CreateInput) (*domain.FaqEntry, error) {
	if input.Category == "" {
		input.Category = "general"
	}

	entry := &domain.FaqEntry{
		ID:        uuid.New(),
		Question:  input.Question,
		Answer:    input.Answer,
		Category:  input.Category,
		Keywords:  input.Keywords,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.faqRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if _, err := s.cache.FlushAll(ctx); err != nil {
			log.Warn().Err(err).Msg("faq cache flush failed")
		}
	}

	return entry, nil
}

// FlushCache drops all cached FAQ lists.
func (s *FaqService) FlushCache(ctx context.Context) (int64, error) {
	if s.cache == nil {
		return 0, nil
	}
	return s.cache.FlushAll(ctx)
}

// EnsureSeeded loads the bundled FAQ corpus into an empty store. It is
// a no-op when any entries already exist, so operator edits survive
// restarts.
func (s *FaqService) EnsureSeeded(ctx context.Context) error {
	count, err := s.faqRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to check faq corpus: %w", err)
	}
	if count > 0 {
		return nil
	}

	seeds, err := faq.SeedEntries()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, seed := range seeds {
		entry := &domain.FaqEntry{
			ID:        uuid.New(),
			Question:  seed.Question,
			Answer:    seed.Answer,
			Category:  seed.Category,
			Keywords:  seed.Keywords,
			CreatedAt: now,
		}
		if err := s.faqRepo.Create(ctx, entry); err != nil {
			return fmt.Errorf("failed to seed faq corpus: %w", err)
		}
	}

	log.Info().Int("count", len(seeds)).Msg("seeded FAQ corpus")
	return nil
}
