package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/frayen/support-desk/internal/domain"
)

const (
	faqCachePrefix = "faq:"
	faqCacheTTL    = 5 * time.Minute
)

// FaqCache keeps the FAQ corpus in Redis so the matcher does not hit
// the store on every turn. Entries are cached per category; the empty
// category holds the full corpus.
type FaqCache struct {
	client *Client
}

// NewFaqCache creates a new FAQ cache
func NewFaqCache(client *Client) *FaqCache {
	return &FaqCache{client: client}
}

func faqCacheKey(category string) string {
	if category == "" {
		category = "_all"
	}
	return fmt.Sprintf("%s%s", faqCachePrefix, category)
}

// Get retrieves a cached FAQ list for a category
func (c *FaqCache) Get(ctx context.Context, category string) ([]domain.FaqEntry, error) {
	data, err := c.client.rdb.Get(ctx, faqCacheKey(category)).Bytes()
	if err != nil {
		return nil, nil // Cache miss
	}

	var entries []domain.FaqEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal faq cache: %w", err)
	}

	return entries, nil
}

// Set caches a FAQ list for a category
func (c *FaqCache) Set(ctx context.Context, category string, entries []domain.FaqEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal faq cache: %w", err)
	}

	return c.client.rdb.Set(ctx, faqCacheKey(category), data, faqCacheTTL).Err()
}

// FlushAll removes every cached FAQ list. Called after corpus writes
// so stale categories never survive an insert.
func (c *FaqCache) FlushAll(ctx context.Context) (int64, error) {
	pattern := faqCachePrefix + "*"
	var cursor uint64
	var deleted int64

	for {
		keys, nextCursor, err := c.client.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return deleted, fmt.Errorf("failed to scan keys: %w", err)
		}

		if len(keys) > 0 {
			count, err := c.client.rdb.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, fmt.Errorf("failed to delete keys: %w", err)
			}
			deleted += count
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return deleted, nil
}
