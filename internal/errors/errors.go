package errors

import "errors"

// Sentinel errors for common failure modes.
var (
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrInvalidSnapshot  = errors.New("invalid snapshot")
	ErrInvalidKey       = errors.New("invalid state key")
	ErrUnknownBackend   = errors.New("unknown storage backend")
)

// ValidationError represents a field validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}
