package domain

// Maximum stored lengths, in runes, of the profile fields.
const (
	MaxHandleLength = 100
	MaxBioLength    = 500
	MaxGitHubLength = 200
)

// UserProfile is the singleton free-text profile shown on the dashboard.
type UserProfile struct {
	Handle string
	Bio    string
	GitHub string
}
