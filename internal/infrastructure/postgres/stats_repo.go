package postgres

import (
	"context"
	"fmt"

	"github.com/ErlanBelekov/mystery-threads/internal/domain"
)

type StatsRepository struct {
	db DB
}

func NewStatsRepository(db DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) Totals(ctx context.Context) (domain.Totals, error) {
	var t domain.Totals
	err := r.db.QueryRow(ctx, `
		SELECT (SELECT COUNT(*) FROM users WHERE is_verified),
		       (SELECT COUNT(*) FROM users WHERE NOT is_verified),
		       (SELECT COUNT(*) FROM messages)`,
	).Scan(&t.VerifiedUsers, &t.UnverifiedUsers, &t.Messages)
	if err != nil {
		return domain.Totals{}, fmt.Errorf("count totals: %w", err)
	}
	return t, nil
}
