package ports

import (
	"context"

	"github.com/burphub/burphub/internal/domain"
)

// SyncRepository persists a whole upload atomically.
type SyncRepository interface {
	// ApplyBatch writes every record in batch in one transaction.
	// On error nothing from the batch is visible to later reads.
	ApplyBatch(ctx context.Context, batch *domain.SyncBatch) error
}
