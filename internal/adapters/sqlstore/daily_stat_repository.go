package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/burphub/burphub/internal/domain"
)

const dailyStatColumns = `date, intercepted_requests, repeater_requests, intruder_requests,
	scanner_requests, spider_requests, decoder_operations, comparer_operations,
	sequencer_operations, extender_events, target_additions, logger_requests,
	session_minutes, sessions_count`

const upsertDailyStatSQL = `INSERT INTO daily_stats (` + dailyStatColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(date) DO UPDATE SET
		intercepted_requests = excluded.intercepted_requests,
		repeater_requests = excluded.repeater_requests,
		intruder_requests = excluded.intruder_requests,
		scanner_requests = excluded.scanner_requests,
		spider_requests = excluded.spider_requests,
		decoder_operations = excluded.decoder_operations,
		comparer_operations = excluded.comparer_operations,
		sequencer_operations = excluded.sequencer_operations,
		extender_events = excluded.extender_events,
		target_additions = excluded.target_additions,
		logger_requests = excluded.logger_requests,
		session_minutes = excluded.session_minutes,
		sessions_count = excluded.sessions_count`

type DailyStatRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewDailyStatRepository(db *sql.DB) *DailyStatRepository {
	return &DailyStatRepository{db: db, dialect: DialectOf(db)}
}

func (r *DailyStatRepository) Get(ctx context.Context, date string) (*domain.DailyStat, error) {
	row := r.db.QueryRowContext(ctx, r.dialect.Rebind(`SELECT `+dailyStatColumns+` FROM daily_stats WHERE date = ?`), date)
	stat, err := scanDailyStat(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get daily stat: %w", err)
	}
	return stat, nil
}

func (r *DailyStatRepository) Upsert(ctx context.Context, stat *domain.DailyStat) error {
	if err := upsertDailyStat(ctx, r.db, r.dialect, stat); err != nil {
		return fmt.Errorf("failed to upsert daily stat: %w", err)
	}
	return nil
}

func (r *DailyStatRepository) List(ctx context.Context, since string) ([]domain.DailyStat, error) {
	query := `SELECT ` + dailyStatColumns + ` FROM daily_stats`
	var args []any
	if since != "" {
		query += ` WHERE date >= ?`
		args = append(args, since)
	}
	query += ` ORDER BY date`

	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily stats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var stats []domain.DailyStat
	for rows.Next() {
		stat, err := scanDailyStat(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily stat: %w", err)
		}
		stats = append(stats, *stat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list daily stats: %w", err)
	}
	return stats, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDailyStat(row scanner) (*domain.DailyStat, error) {
	var s domain.DailyStat
	err := row.Scan(
		&s.Date,
		&s.InterceptedRequests,
		&s.RepeaterRequests,
		&s.IntruderRequests,
		&s.ScannerRequests,
		&s.SpiderRequests,
		&s.DecoderOperations,
		&s.ComparerOperations,
		&s.SequencerOperations,
		&s.ExtenderEvents,
		&s.TargetAdditions,
		&s.LoggerRequests,
		&s.SessionMinutes,
		&s.SessionsCount,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func upsertDailyStat(ctx context.Context, ex execer, d Dialect, s *domain.DailyStat) error {
	_, err := ex.ExecContext(ctx, d.Rebind(upsertDailyStatSQL),
		s.Date,
		s.InterceptedRequests,
		s.RepeaterRequests,
		s.IntruderRequests,
		s.ScannerRequests,
		s.SpiderRequests,
		s.DecoderOperations,
		s.ComparerOperations,
		s.SequencerOperations,
		s.ExtenderEvents,
		s.TargetAdditions,
		s.LoggerRequests,
		s.SessionMinutes,
		s.SessionsCount,
	)
	return err
}
