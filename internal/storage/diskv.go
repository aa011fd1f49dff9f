package storage

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/peterbourgon/diskv/v3"

	"github.com/shhac/coordinator/internal/domain"
)

const (
	diskvDir       = "diskv"
	diskvCacheSize = 64 * 1024
)

// DiskvRepository implements Repository on a diskv store, one file per
// state key, encoded with the configured Codec.
type DiskvRepository struct {
	d      *diskv.Diskv
	codec  Codec
	logger *slog.Logger
}

// NewDiskvRepository creates a diskv-backed repository under basePath.
func NewDiskvRepository(basePath string, codec Codec, logger *slog.Logger) *DiskvRepository {
	return &DiskvRepository{
		d: diskv.New(diskv.Options{
			BasePath:     filepath.Join(basePath, diskvDir),
			Transform:    func(string) []string { return []string{} },
			CacheSizeMax: diskvCacheSize,
			FilePerm:     filePermission,
			PathPerm:     dirPermission,
		}),
		codec:  codec,
		logger: logger,
	}
}

// SaveSnapshot implements Repository.
func (r *DiskvRepository) SaveSnapshot(key string, snap domain.Snapshot) error {
	if err := validateKey(key); err != nil {
		return err
	}
	data, err := r.codec.Encode(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := r.d.Write(key, data); err != nil {
		return fmt.Errorf("write snapshot %q: %w", key, err)
	}

	r.logger.Debug("saved snapshot", slog.String("key", key), slog.Int("bytes", len(data)))
	return nil
}

// LoadSnapshot implements Repository.
func (r *DiskvRepository) LoadSnapshot(key string) (domain.Snapshot, error) {
	if err := validateKey(key); err != nil {
		return domain.Snapshot{}, err
	}
	if !r.d.Has(key) {
		return domain.Snapshot{}, notFound(key)
	}
	data, err := r.d.Read(key)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("read snapshot %q: %w", key, err)
	}
	snap, err := r.codec.Decode(data)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode snapshot %q: %w", key, err)
	}

	r.logger.Debug("loaded snapshot", slog.String("key", key))
	return snap, nil
}

// ListSnapshots implements Repository.
func (r *DiskvRepository) ListSnapshots() ([]string, error) {
	keys := []string{}
	for key := range r.d.Keys(nil) {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// DeleteSnapshot implements Repository.
func (r *DiskvRepository) DeleteSnapshot(key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if !r.d.Has(key) {
		return notFound(key)
	}
	if err := r.d.Erase(key); err != nil {
		return fmt.Errorf("erase snapshot %q: %w", key, err)
	}

	r.logger.Debug("deleted snapshot", slog.String("key", key))
	return nil
}
