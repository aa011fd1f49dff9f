package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shhac/coordinator/internal/domain"
	apperrors "github.com/shhac/coordinator/internal/errors"
)

const (
	statesDir      = "states"
	filePermission = 0644
	dirPermission  = 0755
)

// JSONRepository implements Repository using one JSON file per state key.
// Each file holds the pair [collapsedHeight, maxCollapsableHeight].
type JSONRepository struct {
	basePath string
	logger   *slog.Logger
}

// NewJSONRepository creates a new JSON-based storage repository
func NewJSONRepository(basePath string, logger *slog.Logger) *JSONRepository {
	return &JSONRepository{
		basePath: basePath,
		logger:   logger,
	}
}

// SaveSnapshot saves a snapshot to a JSON file
func (r *JSONRepository) SaveSnapshot(key string, snap domain.Snapshot) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := r.ensureStatesDir(); err != nil {
		return fmt.Errorf("ensure states directory: %w", err)
	}

	path := r.statePath(key)
	if err := r.verifyPathInStatesDir(path); err != nil {
		return err
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := atomicWriteFile(path, data, filePermission); err != nil {
		return fmt.Errorf("write snapshot file: %w", err)
	}

	r.logger.Debug("saved snapshot",
		slog.String("key", key),
		slog.String("path", path))

	return nil
}

// LoadSnapshot loads a snapshot from a JSON file
func (r *JSONRepository) LoadSnapshot(key string) (domain.Snapshot, error) {
	if err := validateKey(key); err != nil {
		return domain.Snapshot{}, err
	}
	path := r.statePath(key)
	if err := r.verifyPathInStatesDir(path); err != nil {
		return domain.Snapshot{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Snapshot{}, notFound(key)
		}
		return domain.Snapshot{}, fmt.Errorf("read snapshot file: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.Snapshot{}, fmt.Errorf("%w: %q: %v", apperrors.ErrInvalidSnapshot, key, err)
	}

	r.logger.Debug("loaded snapshot",
		slog.String("key", key),
		slog.String("path", path))

	return snap, nil
}

// ListSnapshots returns the keys of all saved snapshots
func (r *JSONRepository) ListSnapshots() ([]string, error) {
	statesPath := filepath.Join(r.basePath, statesDir)

	// If directory doesn't exist, return empty list (not an error)
	if _, err := os.Stat(statesPath); os.IsNotExist(err) {
		r.logger.Debug("states directory does not exist, returning empty list")
		return []string{}, nil
	}

	entries, err := os.ReadDir(statesPath)
	if err != nil {
		return nil, fmt.Errorf("read states directory: %w", err)
	}

	keys := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if filepath.Ext(entry.Name()) == ".json" {
			keys = append(keys, strings.TrimSuffix(entry.Name(), ".json"))
		}
	}
	sort.Strings(keys)

	r.logger.Debug("listed snapshots", slog.Int("count", len(keys)))
	return keys, nil
}

// DeleteSnapshot removes a snapshot file
func (r *JSONRepository) DeleteSnapshot(key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	path := r.statePath(key)
	if err := r.verifyPathInStatesDir(path); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return notFound(key)
		}
		return fmt.Errorf("delete snapshot file: %w", err)
	}

	r.logger.Debug("deleted snapshot",
		slog.String("key", key),
		slog.String("path", path))

	return nil
}

// atomicWriteFile writes data to a file atomically by writing to a temp file
// in the same directory, syncing, then renaming over the target path.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := f.Name()

	// Clean up temp file on any failure
	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	success = true
	return nil
}

func (r *JSONRepository) ensureStatesDir() error {
	path := filepath.Join(r.basePath, statesDir)
	if err := os.MkdirAll(path, dirPermission); err != nil {
		return fmt.Errorf("create states directory: %w", err)
	}
	return nil
}

func (r *JSONRepository) statePath(key string) string {
	return filepath.Join(r.basePath, statesDir, key+".json")
}

// verifyPathInStatesDir checks that the resolved path is within the states directory.
func (r *JSONRepository) verifyPathInStatesDir(path string) error {
	base := filepath.Join(r.basePath, statesDir)
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return fmt.Errorf("path outside states directory: %w", err)
	}
	if strings.HasPrefix(rel, "..") {
		return fmt.Errorf("path %q escapes states directory", path)
	}
	return nil
}
