package ports

import (
	"context"

	"github.com/burphub/burphub/internal/domain"
)

type StreakRepository interface {
	Get(ctx context.Context) (*domain.StreakInfo, error)
	Set(ctx context.Context, streak *domain.StreakInfo) error
}

type ProfileRepository interface {
	Get(ctx context.Context) (*domain.UserProfile, error)
	Set(ctx context.Context, profile *domain.UserProfile) error
}
