package api

import (
	"errors"
	"fmt"
)

// ErrTokenExpired is returned before any network call when the bearer
// token already expired; the doctor must sign in again.
var ErrTokenExpired = errors.New("auth token expired")

// APIError carries the backend failure message for one call. The raw
// message is preserved untouched so the session manager can recognize
// the active-session conflict wording.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend request failed with status %d", e.Status)
	}
	return e.Message
}

// BackendMessage extracts the backend message from an error chain.
// Transport failures and message-less responses return empty so
// callers substitute their localized fallback; raw Go error text is
// never shown to the doctor.
func BackendMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
