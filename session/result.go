package session

import "shuryan/models"

// Result is the uniform envelope every public store operation
// returns. Store operations never panic across their public surface;
// callers always branch on Success.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func ok() Result {
	return Result{Success: true}
}

func fail(message string) Result {
	return Result{Success: false, Error: message}
}

// SessionResult is the envelope for start/resume operations. IsActive
// is false (with a nil Session) when no session exists for the
// appointment; that is a successful outcome, not an error.
type SessionResult struct {
	Result
	IsActive    bool            `json:"isActive"`
	IsCompleted bool            `json:"isCompleted"`
	Session     *models.Session `json:"data,omitempty"`
}
