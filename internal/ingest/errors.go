package ingest

import "errors"

var (
	// ErrUnauthorized is returned when the request key does not match the configured secret.
	ErrUnauthorized = errors.New("invalid API key")
	// ErrRateLimited is returned when the client address exceeded its sync budget.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// ValidationError reports a payload the server refuses to store.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func invalid(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}
