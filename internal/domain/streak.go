package domain

// StreakInfo is the singleton record of consecutive active-day streaks.
// The extension computes the values; the server stores them as received.
type StreakInfo struct {
	CurrentStreak  int64
	LongestStreak  int64
	LastActiveDate *string
}
