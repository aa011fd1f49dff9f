package storage

import (
	"fmt"
	"log/slog"
	"slices"
	"sort"

	"fyne.io/fyne/v2"

	"github.com/shhac/coordinator/internal/domain"
	apperrors "github.com/shhac/coordinator/internal/errors"
)

// Preference keys.
const (
	prefSnapshotPrefix = "coordinator.snapshot."
	prefSnapshotIndex  = "coordinator.snapshots"
)

// PreferencesRepository stores snapshots in the Fyne app preferences as
// float lists. Fyne cannot enumerate preference keys, so an index of
// state keys is kept alongside.
type PreferencesRepository struct {
	prefs  fyne.Preferences
	logger *slog.Logger
}

// NewPreferencesRepository creates a repository on prefs.
func NewPreferencesRepository(prefs fyne.Preferences, logger *slog.Logger) *PreferencesRepository {
	return &PreferencesRepository{prefs: prefs, logger: logger}
}

// SaveSnapshot implements Repository.
func (r *PreferencesRepository) SaveSnapshot(key string, snap domain.Snapshot) error {
	if err := validateKey(key); err != nil {
		return err
	}
	r.prefs.SetFloatList(prefSnapshotPrefix+key, []float64{
		float64(snap.CollapsedHeight),
		float64(snap.MaxCollapsableHeight),
	})

	index := r.prefs.StringList(prefSnapshotIndex)
	if !slices.Contains(index, key) {
		r.prefs.SetStringList(prefSnapshotIndex, append(index, key))
	}

	r.logger.Debug("saved snapshot to preferences", slog.String("key", key))
	return nil
}

// LoadSnapshot implements Repository.
func (r *PreferencesRepository) LoadSnapshot(key string) (domain.Snapshot, error) {
	if err := validateKey(key); err != nil {
		return domain.Snapshot{}, err
	}
	values := r.prefs.FloatList(prefSnapshotPrefix + key)
	if len(values) == 0 {
		return domain.Snapshot{}, notFound(key)
	}
	if len(values) != 2 {
		return domain.Snapshot{}, fmt.Errorf("%w: want 2 values, got %d", apperrors.ErrInvalidSnapshot, len(values))
	}
	return domain.SnapshotFromPair([2]float32{float32(values[0]), float32(values[1])}), nil
}

// ListSnapshots implements Repository.
func (r *PreferencesRepository) ListSnapshots() ([]string, error) {
	keys := slices.Clone(r.prefs.StringList(prefSnapshotIndex))
	if keys == nil {
		keys = []string{}
	}
	sort.Strings(keys)
	return keys, nil
}

// DeleteSnapshot implements Repository.
func (r *PreferencesRepository) DeleteSnapshot(key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if len(r.prefs.FloatList(prefSnapshotPrefix+key)) == 0 {
		return notFound(key)
	}
	r.prefs.RemoveValue(prefSnapshotPrefix + key)

	index := slices.DeleteFunc(slices.Clone(r.prefs.StringList(prefSnapshotIndex)), func(k string) bool {
		return k == key
	})
	r.prefs.SetStringList(prefSnapshotIndex, index)

	r.logger.Debug("deleted snapshot from preferences", slog.String("key", key))
	return nil
}
