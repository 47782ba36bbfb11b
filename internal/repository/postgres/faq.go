package postgres

import (
	"context"
	"fmt"

	"github.com/frayen/support-desk/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FaqRepository implements domain.FaqRepository
type FaqRepository struct {
	pool *pgxpool.Pool
}

// NewFaqRepository creates a new FAQ repository
func NewFaqRepository(db *DB) *FaqRepository {
	return &FaqRepository{pool: db.Pool}
}

func (r *FaqRepository) Create(ctx context.Context, entry *domain.FaqEntry) error {
	query := `
		INSERT INTO faqs (id, question, answer, category, keywords, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.Question,
		entry.Answer,
		entry.Category,
		entry.Keywords,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create faq: %w", err)
	}
	return nil
}

func (r *FaqRepository) List(ctx context.Context, category string) ([]domain.FaqEntry, error) {
	query := `
		SELECT id, question, answer, category, keywords, created_at
		FROM faqs
	`
	args := []any{}
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list faqs: %w", err)
	}
	defer rows.Close()

	var entries []domain.FaqEntry
	for rows.Next() {
		var e domain.FaqEntry
		if err := rows.Scan(
			&e.ID,
			&e.Question,
			&e.Answer,
			&e.Category,
			&e.Keywords,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan faq: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (r *FaqRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM faqs`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count faqs: %w", err)
	}
	return count, nil
}
