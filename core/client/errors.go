package client

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the structured failure returned by the remote API.
// StatusCode carries the HTTP status; Id is the server-side error
// identifier used to classify authentication failures.
type AppError struct {
	Id         string `json:"id"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}

func (e *AppError) Error() string {
	if e.Id != "" {
		return fmt.Sprintf("%s: %s (status %d)", e.Id, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// Error ids the server uses when a session token is no longer usable.
const (
	ErrIdSessionExpired = "api.context.session_expired.app_error"
	ErrIdInvalidToken   = "api.context.invalid_token.app_error"
)

// IsSessionExpired reports whether err signals that the session token is
// expired or invalid and the server should be logged out.
func IsSessionExpired(err error) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	if appErr.StatusCode != http.StatusUnauthorized {
		return false
	}
	switch appErr.Id {
	case ErrIdSessionExpired, ErrIdInvalidToken:
		return true
	}
	// Older servers return 401 without a stable id.
	return appErr.Id == ""
}
