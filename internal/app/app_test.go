package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shhac/coordinator/internal/coordinator/coordtest"
	"github.com/shhac/coordinator/internal/domain"
	apperrors "github.com/shhac/coordinator/internal/errors"
	"github.com/shhac/coordinator/internal/logging"
	"github.com/shhac/coordinator/internal/storage"
)

func testConfig(t *testing.T, backend string) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Storage = backend
	cfg.StoragePath = t.TempDir()
	return cfg
}

func newTestApp(t *testing.T, cfg *Config) *App {
	t.Helper()
	a, err := newApp(test.NewApp(), cfg, logging.NewNopLogger(), coordtest.NewManualFrames())
	require.NoError(t, err)
	return a
}

func TestNew_FreshState(t *testing.T) {
	a := newTestApp(t, testConfig(t, BackendMemory))

	assert.Zero(t, a.State().CollapsedHeight())
	assert.False(t, a.State().IsFullyCollapsed())

	status, _ := a.StorageState().State.Get()
	assert.Equal(t, "idle", status)
}

func TestNew_Backends(t *testing.T) {
	tests := []struct {
		backend string
		want    any
	}{
		{BackendJSON, &storage.JSONRepository{}},
		{BackendDiskv, &storage.DiskvRepository{}},
		{BackendPreferences, &storage.PreferencesRepository{}},
		{BackendMemory, &storage.MemoryRepository{}},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			a := newTestApp(t, testConfig(t, tt.backend))
			assert.IsType(t, tt.want, a.Storage())
		})
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := testConfig(t, "sqlite")

	_, err := newApp(test.NewApp(), cfg, logging.NewNopLogger(), coordtest.NewManualFrames())
	require.Error(t, err)
	var verr apperrors.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestOpenRepository_UnknownBackend(t *testing.T) {
	cfg := testConfig(t, "sqlite")

	_, err := openRepository(test.NewApp(), cfg, logging.NewNopLogger())
	assert.ErrorIs(t, err, apperrors.ErrUnknownBackend)
}

func TestSaveOnCloseRestoreOnStart(t *testing.T) {
	cfg := testConfig(t, BackendJSON)

	first := newTestApp(t, cfg)
	first.State().SetMaxCollapsableHeight(100)
	first.State().ApplyDelta(-60)
	require.NoError(t, first.Close())

	status, _ := first.StorageState().State.Get()
	assert.Equal(t, "saved", status)

	second := newTestApp(t, cfg)
	assert.Equal(t, float32(60), second.State().CollapsedHeight())
	assert.Equal(t, float32(100), second.State().MaxCollapsableHeight())
	assert.False(t, second.State().IsFullyCollapsed())

	status, _ = second.StorageState().State.Get()
	assert.Equal(t, "restored", status)

	collapsed, _ := second.HeaderState().CollapsedHeight.Get()
	assert.Equal(t, 60.0, collapsed)
}

func TestRestore_FullyCollapsed(t *testing.T) {
	cfg := testConfig(t, BackendJSON)
	repo := storage.NewJSONRepository(cfg.StoragePath, logging.NewNopLogger())
	require.NoError(t, repo.SaveSnapshot(cfg.StateKey, domain.Snapshot{CollapsedHeight: 100, MaxCollapsableHeight: 100}))

	a := newTestApp(t, cfg)

	assert.True(t, a.State().IsFullyCollapsed())
	fully, _ := a.HeaderState().FullyCollapsed.Get()
	assert.True(t, fully)
}

func TestRestore_CorruptSnapshotStartsFresh(t *testing.T) {
	cfg := testConfig(t, BackendDiskv)
	require.NoError(t, writeCorruptDiskv(cfg))

	a := newTestApp(t, cfg)

	assert.Zero(t, a.State().CollapsedHeight())
	status, _ := a.StorageState().State.Get()
	assert.Equal(t, "error", status)
}

func writeCorruptDiskv(cfg *Config) error {
	repo := storage.NewDiskvRepository(cfg.StoragePath, storage.JSONCodec{}, logging.NewNopLogger())
	return repo.SaveSnapshot(cfg.StateKey, domain.Snapshot{CollapsedHeight: 1, MaxCollapsableHeight: 2})
}

func TestClose_Idempotent(t *testing.T) {
	cfg := testConfig(t, BackendMemory)
	a := newTestApp(t, cfg)
	a.State().SetMaxCollapsableHeight(80)
	a.State().ApplyDelta(-20)

	require.NoError(t, a.Close())
	a.State().ApplyDelta(-20)
	require.NoError(t, a.Close())

	snap, err := a.Storage().LoadSnapshot(cfg.StateKey)
	require.NoError(t, err)
	assert.Equal(t, float32(20), snap.CollapsedHeight)
}

func TestClose_CancelsAnimation(t *testing.T) {
	a := newTestApp(t, testConfig(t, BackendMemory))
	a.State().SetMaxCollapsableHeight(100)

	anim := a.State().StartAnimateToCollapsed(a.AnimationSpec())
	require.True(t, a.State().IsAnimating())

	require.NoError(t, a.Close())
	assert.False(t, anim.Wait(context.Background()))
	assert.False(t, a.State().IsAnimating())
}

func TestSaveState_InvalidKey(t *testing.T) {
	cfg := testConfig(t, BackendJSON)
	a := newTestApp(t, cfg)
	a.config.StateKey = filepath.Join("..", "escape")

	err := a.SaveState()
	assert.ErrorIs(t, err, apperrors.ErrInvalidKey)
	status, _ := a.StorageState().State.Get()
	assert.Equal(t, "error", status)
}

func TestSetAnimation(t *testing.T) {
	a := newTestApp(t, testConfig(t, BackendMemory))

	require.NoError(t, a.SetAnimation(AnimationConfig{Duration: 300 * time.Millisecond, Curve: CurveEaseOut}))
	assert.Equal(t, 300*time.Millisecond, a.AnimationSpec().Duration)
	assert.InDelta(t, fyne.AnimationEaseOut(0.5), a.AnimationSpec().Curve(0.5), 1e-6)
	assert.Equal(t, CurveEaseOut, a.Config().Animation.Curve)

	assert.Error(t, a.SetAnimation(AnimationConfig{Curve: "bounce"}))
	assert.Error(t, a.SetAnimation(AnimationConfig{Duration: -time.Second, Curve: CurveLinear}))
	assert.Equal(t, 300*time.Millisecond, a.AnimationSpec().Duration, "rejected settings are not applied")
}

func TestClose_RetriesAfterFailedSave(t *testing.T) {
	cfg := testConfig(t, BackendJSON)
	a := newTestApp(t, cfg)
	a.State().SetMaxCollapsableHeight(100)
	a.State().ApplyDelta(-40)
	a.config.StateKey = filepath.Join("..", "escape")

	require.ErrorIs(t, a.Close(), apperrors.ErrInvalidKey)

	a.config.StateKey = "recovered"
	require.NoError(t, a.Close())

	snap, err := a.Storage().LoadSnapshot("recovered")
	require.NoError(t, err)
	assert.Equal(t, float32(40), snap.CollapsedHeight)
}

func TestNew_DiskvCodec(t *testing.T) {
	tests := []struct {
		codec string
		read  storage.Codec
	}{
		{CodecProto, storage.ProtoCodec{}},
		{CodecJSON, storage.JSONCodec{}},
	}

	for _, tt := range tests {
		t.Run(tt.codec, func(t *testing.T) {
			cfg := testConfig(t, BackendDiskv)
			cfg.Codec = tt.codec
			a := newTestApp(t, cfg)
			a.State().SetMaxCollapsableHeight(100)
			a.State().ApplyDelta(-25)
			require.NoError(t, a.Close())

			repo := storage.NewDiskvRepository(cfg.StoragePath, tt.read, logging.NewNopLogger())
			snap, err := repo.LoadSnapshot(cfg.StateKey)
			require.NoError(t, err)
			assert.Equal(t, domain.Snapshot{CollapsedHeight: 25, MaxCollapsableHeight: 100}, snap)
		})
	}
}

func TestSavedStates(t *testing.T) {
	cfg := testConfig(t, BackendJSON)
	repo := storage.NewJSONRepository(cfg.StoragePath, logging.NewNopLogger())
	require.NoError(t, repo.SaveSnapshot("inbox", domain.Snapshot{CollapsedHeight: 10, MaxCollapsableHeight: 100}))
	require.NoError(t, repo.SaveSnapshot("archive", domain.Snapshot{CollapsedHeight: 100, MaxCollapsableHeight: 100}))

	a := newTestApp(t, cfg)

	keys, err := a.SavedStates()
	require.NoError(t, err)
	assert.Equal(t, []string{"archive", "inbox"}, keys)
}

func TestRestoreState(t *testing.T) {
	cfg := testConfig(t, BackendJSON)
	repo := storage.NewJSONRepository(cfg.StoragePath, logging.NewNopLogger())
	require.NoError(t, repo.SaveSnapshot("archive", domain.Snapshot{CollapsedHeight: 100, MaxCollapsableHeight: 100}))

	a := newTestApp(t, cfg)
	notified := 0
	a.State().AddListener(func() { notified++ })

	require.NoError(t, a.RestoreState("archive"))

	assert.Equal(t, float32(100), a.State().CollapsedHeight())
	assert.True(t, a.State().IsFullyCollapsed())
	assert.Equal(t, 1, notified)
	assert.Equal(t, "archive", a.Config().StateKey)

	fully, _ := a.HeaderState().FullyCollapsed.Get()
	assert.True(t, fully)
	status, _ := a.StorageState().State.Get()
	assert.Equal(t, "restored", status)
}

func TestRestoreState_Missing(t *testing.T) {
	a := newTestApp(t, testConfig(t, BackendMemory))
	a.State().SetMaxCollapsableHeight(100)
	a.State().ApplyDelta(-30)

	err := a.RestoreState("absent")
	assert.ErrorIs(t, err, apperrors.ErrSnapshotNotFound)
	assert.Equal(t, float32(30), a.State().CollapsedHeight(), "live state is untouched")
	assert.Equal(t, "default", a.Config().StateKey)

	status, _ := a.StorageState().State.Get()
	assert.Equal(t, "error", status)
}

func TestDeleteState(t *testing.T) {
	cfg := testConfig(t, BackendMemory)
	a := newTestApp(t, cfg)
	require.NoError(t, a.Storage().SaveSnapshot("inbox", domain.Snapshot{MaxCollapsableHeight: 50}))

	require.NoError(t, a.DeleteState("inbox"))

	keys, err := a.SavedStates()
	require.NoError(t, err)
	assert.Empty(t, keys)
	assert.ErrorIs(t, a.DeleteState("inbox"), apperrors.ErrSnapshotNotFound)
}

func TestNewLogger_LogFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogFile = filepath.Join(t.TempDir(), "logs", "coordinator.log")

	logger, err := newLogger(cfg)
	require.NoError(t, err)
	logger.Info("opened")

	data, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"opened"`)
}
