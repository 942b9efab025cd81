package domain

// SyncBatch is one decoded upload from the extension.
// Streak and Profile are nil when the payload omitted them or sent an empty object.
type SyncBatch struct {
	DailyStats []DailyStat
	Streak     *StreakInfo
	Profile    *UserProfile
}
