package storage

import (
	"fmt"
	"strings"

	"github.com/shhac/coordinator/internal/domain"
	apperrors "github.com/shhac/coordinator/internal/errors"
)

// Repository persists header snapshots under a state key, so several
// headers (or windows) can keep independent collapse states.
type Repository interface {
	SaveSnapshot(key string, snap domain.Snapshot) error
	// LoadSnapshot returns an error wrapping errors.ErrSnapshotNotFound
	// when nothing is stored under key.
	LoadSnapshot(key string) (domain.Snapshot, error)
	ListSnapshots() ([]string, error)
	DeleteSnapshot(key string) error
}

// validateKey checks that a state key is safe for use as a filename.
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: must not be empty", apperrors.ErrInvalidKey)
	}
	if strings.Contains(key, "..") {
		return fmt.Errorf("%w: must not contain %q", apperrors.ErrInvalidKey, "..")
	}
	if strings.ContainsAny(key, "/\\") {
		return fmt.Errorf("%w: must not contain path separators", apperrors.ErrInvalidKey)
	}
	if strings.ContainsRune(key, 0) {
		return fmt.Errorf("%w: must not contain null bytes", apperrors.ErrInvalidKey)
	}
	return nil
}

func notFound(key string) error {
	return fmt.Errorf("%w: %q", apperrors.ErrSnapshotNotFound, key)
}
