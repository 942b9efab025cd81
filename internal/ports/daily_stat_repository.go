package ports

import (
	"context"

	"github.com/burphub/burphub/internal/domain"
)

type DailyStatRepository interface {
	// Get returns nil, nil when no row exists for date.
	Get(ctx context.Context, date string) (*domain.DailyStat, error)
	// Upsert replaces every counter of the row for stat.Date, creating it if absent.
	Upsert(ctx context.Context, stat *domain.DailyStat) error
	// List returns all rows, or only rows dated on or after since when since is non-empty.
	List(ctx context.Context, since string) ([]domain.DailyStat, error)
}
