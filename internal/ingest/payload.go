package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/burphub/burphub/internal/domain"
	"github.com/burphub/burphub/internal/util"
)

// DecodeBatch parses a sync payload.
//
// Counter fields that are missing, malformed or negative become 0 and unknown
// fields are ignored, so every decoded DailyStat is a full replacement for its
// date. Date keys must be YYYY-MM-DD. Streak and profile are only returned
// when the payload carries them as non-empty objects.
func DecodeBatch(body []byte) (*domain.SyncBatch, error) {
	root, err := decodeRawObject(body)
	if err != nil {
		return nil, invalid("request body must be a JSON object")
	}

	batch := &domain.SyncBatch{}

	if raw, ok := root["daily_stats"]; ok && !isNull(raw) {
		entries, err := decodeRawObject(raw)
		if err != nil {
			return nil, invalid("daily_stats must be an object keyed by date")
		}

		dates := make([]string, 0, len(entries))
		for date := range entries {
			dates = append(dates, date)
		}
		sort.Strings(dates)

		batch.DailyStats = make([]domain.DailyStat, 0, len(dates))
		for _, date := range dates {
			if _, err := domain.ParseDate(date); err != nil {
				return nil, invalid(err.Error())
			}
			fields, err := decodeObject(entries[date])
			if err != nil {
				return nil, invalid(fmt.Sprintf("daily_stats[%s] must be an object", date))
			}
			batch.DailyStats = append(batch.DailyStats, dailyStatFromFields(date, fields))
		}
	}

	if raw, ok := root["streak"]; ok && !isNull(raw) {
		fields, err := decodeObject(raw)
		if err != nil {
			return nil, invalid("streak must be an object")
		}
		if len(fields) > 0 {
			streak, err := streakFromFields(fields)
			if err != nil {
				return nil, err
			}
			batch.Streak = streak
		}
	}

	if raw, ok := root["profile"]; ok && !isNull(raw) {
		fields, err := decodeObject(raw)
		if err != nil {
			return nil, invalid("profile must be an object")
		}
		if len(fields) > 0 {
			batch.Profile = profileFromFields(fields)
		}
	}

	return batch, nil
}

func dailyStatFromFields(date string, f map[string]any) domain.DailyStat {
	return domain.DailyStat{
		Date:                date,
		InterceptedRequests: util.ToCounter(f["intercepted_requests"]),
		RepeaterRequests:    util.ToCounter(f["repeater_requests"]),
		IntruderRequests:    util.ToCounter(f["intruder_requests"]),
		ScannerRequests:     util.ToCounter(f["scanner_requests"]),
		SpiderRequests:      util.ToCounter(f["spider_requests"]),
		DecoderOperations:   util.ToCounter(f["decoder_operations"]),
		ComparerOperations:  util.ToCounter(f["comparer_operations"]),
		SequencerOperations: util.ToCounter(f["sequencer_operations"]),
		ExtenderEvents:      util.ToCounter(f["extender_events"]),
		TargetAdditions:     util.ToCounter(f["target_additions"]),
		LoggerRequests:      util.ToCounter(f["logger_requests"]),
		SessionMinutes:      util.ToCounter(f["session_minutes"]),
		SessionsCount:       util.ToCounter(f["sessions_count"]),
	}
}

func streakFromFields(f map[string]any) (*domain.StreakInfo, error) {
	streak := &domain.StreakInfo{
		CurrentStreak: util.ToCounter(f["current_streak"]),
		LongestStreak: util.ToCounter(f["longest_streak"]),
	}
	if last := util.ToString(f["last_active_date"]); last != "" {
		if _, err := domain.ParseDate(last); err != nil {
			return nil, invalid("streak.last_active_date: " + err.Error())
		}
		streak.LastActiveDate = &last
	}
	return streak, nil
}

func profileFromFields(f map[string]any) *domain.UserProfile {
	return &domain.UserProfile{
		Handle: util.Truncate(util.ToString(f["handle"]), domain.MaxHandleLength),
		Bio:    util.Truncate(util.ToString(f["bio"]), domain.MaxBioLength),
		GitHub: util.Truncate(util.ToString(f["github"]), domain.MaxGitHubLength),
	}
}

func decodeRawObject(data []byte) (map[string]json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, fmt.Errorf("not an object")
	}
	return obj, nil
}

func decodeObject(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, fmt.Errorf("not an object")
	}
	return obj, nil
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

type dailyStatPayload struct {
	InterceptedRequests int64 `json:"intercepted_requests"`
	RepeaterRequests    int64 `json:"repeater_requests"`
	IntruderRequests    int64 `json:"intruder_requests"`
	ScannerRequests     int64 `json:"scanner_requests"`
	SpiderRequests      int64 `json:"spider_requests"`
	DecoderOperations   int64 `json:"decoder_operations"`
	ComparerOperations  int64 `json:"comparer_operations"`
	SequencerOperations int64 `json:"sequencer_operations"`
	ExtenderEvents      int64 `json:"extender_events"`
	TargetAdditions     int64 `json:"target_additions"`
	LoggerRequests      int64 `json:"logger_requests"`
	SessionMinutes      int64 `json:"session_minutes"`
	SessionsCount       int64 `json:"sessions_count"`
}

type streakPayload struct {
	CurrentStreak  int64   `json:"current_streak"`
	LongestStreak  int64   `json:"longest_streak"`
	LastActiveDate *string `json:"last_active_date"`
}

type profilePayload struct {
	Handle string `json:"handle"`
	Bio    string `json:"bio"`
	GitHub string `json:"github"`
}

type batchPayload struct {
	DailyStats map[string]dailyStatPayload `json:"daily_stats"`
	Streak     *streakPayload              `json:"streak,omitempty"`
	Profile    *profilePayload             `json:"profile,omitempty"`
}

// EncodeBatch renders batch in the sync payload format accepted by DecodeBatch.
func EncodeBatch(batch *domain.SyncBatch) ([]byte, error) {
	p := batchPayload{DailyStats: make(map[string]dailyStatPayload, len(batch.DailyStats))}
	for _, s := range batch.DailyStats {
		p.DailyStats[s.Date] = dailyStatPayload{
			InterceptedRequests: s.InterceptedRequests,
			RepeaterRequests:    s.RepeaterRequests,
			IntruderRequests:    s.IntruderRequests,
			ScannerRequests:     s.ScannerRequests,
			SpiderRequests:      s.SpiderRequests,
			DecoderOperations:   s.DecoderOperations,
			ComparerOperations:  s.ComparerOperations,
			SequencerOperations: s.SequencerOperations,
			ExtenderEvents:      s.ExtenderEvents,
			TargetAdditions:     s.TargetAdditions,
			LoggerRequests:      s.LoggerRequests,
			SessionMinutes:      s.SessionMinutes,
			SessionsCount:       s.SessionsCount,
		}
	}
	if batch.Streak != nil {
		p.Streak = &streakPayload{
			CurrentStreak:  batch.Streak.CurrentStreak,
			LongestStreak:  batch.Streak.LongestStreak,
			LastActiveDate: batch.Streak.LastActiveDate,
		}
	}
	if batch.Profile != nil {
		p.Profile = &profilePayload{
			Handle: batch.Profile.Handle,
			Bio:    batch.Profile.Bio,
			GitHub: batch.Profile.GitHub,
		}
	}
	return json.MarshalIndent(p, "", "  ")
}
