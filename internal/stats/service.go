// Package stats builds the dashboard payload from the store on every call.
package stats

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/burphub/burphub/internal/domain"
	"github.com/burphub/burphub/internal/ports"
)

// Clock returns the current time. Its location decides what "today" is.
type Clock func() time.Time

type Service struct {
	dailyStats ports.DailyStatRepository
	streak     ports.StreakRepository
	profile    ports.ProfileRepository
	now        Clock
}

func NewService(ds ports.DailyStatRepository, sr ports.StreakRepository, pr ports.ProfileRepository, clock Clock) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		dailyStats: ds,
		streak:     sr,
		profile:    pr,
		now:        clock,
	}
}

// Dashboard loads the singletons and every daily row concurrently, then
// aggregates in process.
func (s *Service) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	now := s.now()
	today := domain.FormatDate(now)
	since := domain.ToolWindowStart(now)

	var (
		streak  *domain.StreakInfo
		profile *domain.UserProfile
		all     []domain.DailyStat
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		if streak, err = s.streak.Get(gctx); err != nil {
			return fmt.Errorf("failed to load streak: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		if profile, err = s.profile.Get(gctx); err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}
		return nil
	})

	// One read feeds today, totals, heatmap and tools so they always agree.
	g.Go(func() error {
		var err error
		if all, err = s.dailyStats.List(gctx, ""); err != nil {
			return fmt.Errorf("failed to load daily stats: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if streak == nil {
		streak = &domain.StreakInfo{}
	}
	if profile == nil {
		profile = &domain.UserProfile{}
	}

	d := &domain.Dashboard{
		Streak: domain.StreakView{
			Current:    streak.CurrentStreak,
			Longest:    streak.LongestStreak,
			LastActive: streak.LastActiveDate,
		},
		Profile: domain.ProfileView{
			Handle: profile.Handle,
			Bio:    profile.Bio,
			GitHub: profile.GitHub,
		},
		Totals:  domain.ComputeTotals(all),
		Heatmap: domain.BuildHeatmap(now, all),
		Tools:   domain.BuildToolBreakdown(since, all),
	}
	for i := range all {
		if all[i].Date == today {
			d.Today.Requests = all[i].PrimaryRequests()
			break
		}
	}

	return d, nil
}
