package sqlstore

import (
	"database/sql"

	"github.com/burphub/burphub/internal/ports"
)

// Repositories holds all store implementations as port interfaces.
type Repositories struct {
	DailyStats ports.DailyStatRepository
	Streak     ports.StreakRepository
	Profile    ports.ProfileRepository
	Sync       ports.SyncRepository
}

// NewRepositories creates all store implementations from a database connection.
func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		DailyStats: NewDailyStatRepository(db),
		Streak:     NewStreakRepository(db),
		Profile:    NewProfileRepository(db),
		Sync:       NewSyncRepository(db),
	}
}
