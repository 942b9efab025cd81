package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/burphub/burphub/internal/domain"
)

type SyncRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewSyncRepository(db *sql.DB) *SyncRepository {
	return &SyncRepository{db: db, dialect: DialectOf(db)}
}

func (r *SyncRepository) ApplyBatch(ctx context.Context, batch *domain.SyncBatch) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i := range batch.DailyStats {
		if err := upsertDailyStat(ctx, tx, r.dialect, &batch.DailyStats[i]); err != nil {
			return fmt.Errorf("failed to upsert daily stat %s: %w", batch.DailyStats[i].Date, err)
		}
	}

	if batch.Streak != nil {
		if err := setStreak(ctx, tx, r.dialect, batch.Streak); err != nil {
			return fmt.Errorf("failed to set streak: %w", err)
		}
	}

	if batch.Profile != nil {
		if err := setProfile(ctx, tx, r.dialect, batch.Profile); err != nil {
			return fmt.Errorf("failed to set profile: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sync batch: %w", err)
	}
	return nil
}
