package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/burphub/burphub/internal/domain"
	"github.com/burphub/burphub/internal/util"
)

// singletonID is the fixed key of the streak_info and user_profile rows.
const singletonID = 1

type StreakRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewStreakRepository(db *sql.DB) *StreakRepository {
	return &StreakRepository{db: db, dialect: DialectOf(db)}
}

// Get returns zero values when the row has not been created.
func (r *StreakRepository) Get(ctx context.Context) (*domain.StreakInfo, error) {
	var s domain.StreakInfo
	var lastActive sql.NullString
	err := r.db.QueryRowContext(ctx,
		r.dialect.Rebind(`SELECT current_streak, longest_streak, last_active_date FROM streak_info WHERE id = ?`),
		singletonID,
	).Scan(&s.CurrentStreak, &s.LongestStreak, &lastActive)
	if err != nil {
		if err == sql.ErrNoRows {
			return &domain.StreakInfo{}, nil
		}
		return nil, fmt.Errorf("failed to get streak: %w", err)
	}
	s.LastActiveDate = util.NullStringToPtr(lastActive)
	return &s, nil
}

func (r *StreakRepository) Set(ctx context.Context, streak *domain.StreakInfo) error {
	if err := setStreak(ctx, r.db, r.dialect, streak); err != nil {
		return fmt.Errorf("failed to set streak: %w", err)
	}
	return nil
}

func setStreak(ctx context.Context, ex execer, d Dialect, s *domain.StreakInfo) error {
	_, err := ex.ExecContext(ctx, d.Rebind(`
		INSERT INTO streak_info (id, current_streak, longest_streak, last_active_date)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			current_streak = excluded.current_streak,
			longest_streak = excluded.longest_streak,
			last_active_date = excluded.last_active_date`),
		singletonID, s.CurrentStreak, s.LongestStreak, util.NullStringPtr(s.LastActiveDate),
	)
	return err
}

type ProfileRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db, dialect: DialectOf(db)}
}

// Get returns an empty profile when the row has not been created.
func (r *ProfileRepository) Get(ctx context.Context) (*domain.UserProfile, error) {
	var p domain.UserProfile
	err := r.db.QueryRowContext(ctx,
		r.dialect.Rebind(`SELECT handle, bio, github FROM user_profile WHERE id = ?`),
		singletonID,
	).Scan(&p.Handle, &p.Bio, &p.GitHub)
	if err != nil {
		if err == sql.ErrNoRows {
			return &domain.UserProfile{}, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

func (r *ProfileRepository) Set(ctx context.Context, profile *domain.UserProfile) error {
	if err := setProfile(ctx, r.db, r.dialect, profile); err != nil {
		return fmt.Errorf("failed to set profile: %w", err)
	}
	return nil
}

func setProfile(ctx context.Context, ex execer, d Dialect, p *domain.UserProfile) error {
	_, err := ex.ExecContext(ctx, d.Rebind(`
		INSERT INTO user_profile (id, handle, bio, github)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			handle = excluded.handle,
			bio = excluded.bio,
			github = excluded.github`),
		singletonID, p.Handle, p.Bio, p.GitHub,
	)
	return err
}
