package errors

import (
	"context"
	"errors"
	"io/fs"
)

// ErrorSeverity indicates the severity of an error for UI presentation.
type ErrorSeverity int

const (
	SeverityInfo    ErrorSeverity = iota // User should know, not blocking
	SeverityWarning                      // Degraded functionality
	SeverityError                        // Operation failed, can retry
	SeverityFatal                        // Application must exit
)

// ErrorAction represents a user action that can be taken in response to an error.
type ErrorAction struct {
	Label   string
	Handler func()
}

// UIError wraps an error with UI-friendly presentation metadata.
type UIError struct {
	Err      error
	Severity ErrorSeverity
	Title    string        // Short user-facing title
	Message  string        // Detailed user-facing message
	Recovery []string      // Suggested actions (bullet points)
	Actions  []ErrorAction // Buttons for user actions
	Details  string        // Technical details (collapsed by default)
}

func (e UIError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Title
}

// Unwrap returns the underlying error.
func (e UIError) Unwrap() error {
	return e.Err
}

// ClassifyError converts a standard error into a UIError with appropriate
// severity, title, message, and recovery suggestions.
func ClassifyError(err error) *UIError {
	if err == nil {
		return nil
	}

	var uiErr *UIError
	if errors.As(err, &uiErr) {
		return uiErr
	}

	switch {
	case errors.Is(err, context.Canceled):
		return &UIError{
			Err:      err,
			Severity: SeverityInfo,
			Title:    "Cancelled",
			Message:  "The operation was cancelled.",
			Recovery: []string{},
		}

	case errors.Is(err, ErrSnapshotNotFound):
		return &UIError{
			Err:      err,
			Severity: SeverityInfo,
			Title:    "No Saved State",
			Message:  "No saved header state was found. The header starts expanded.",
			Recovery: []string{},
		}

	case errors.Is(err, ErrInvalidSnapshot):
		return &UIError{
			Err:      err,
			Severity: SeverityWarning,
			Title:    "Saved State Unreadable",
			Message:  "The saved header state is corrupt and was ignored.",
			Recovery: []string{"Collapse or expand the header to save a fresh state"},
			Details:  err.Error(),
		}

	case errors.Is(err, ErrInvalidKey):
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Invalid State Key",
			Message:  "The configured state key cannot be used as a storage name.",
			Recovery: []string{"Choose a key without path separators or \"..\""},
			Details:  err.Error(),
		}

	case errors.Is(err, fs.ErrPermission):
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Storage Not Writable",
			Message:  "The header state could not be written to disk.",
			Recovery: []string{"Check permissions of the storage directory", "Try again"},
			Actions:  []ErrorAction{{Label: "Retry"}},
			Details:  err.Error(),
		}
	}

	var validationErr ValidationError
	if errors.As(err, &validationErr) {
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Validation Error",
			Message:  validationErr.Message,
			Recovery: []string{"Correct the configuration value and try again"},
			Details:  validationErr.Error(),
		}
	}

	return &UIError{
		Err:      err,
		Severity: SeverityError,
		Title:    "Unexpected Error",
		Message:  "An unexpected error occurred.",
		Recovery: []string{"Try again"},
		Actions:  []ErrorAction{{Label: "Retry"}},
		Details:  err.Error(),
	}
}
