package app

import (
	"errors"
	"fmt"
	"log/slog"

	"fyne.io/fyne/v2"

	"github.com/shhac/coordinator/internal/coordinator"
	apperrors "github.com/shhac/coordinator/internal/errors"
	"github.com/shhac/coordinator/internal/logging"
	"github.com/shhac/coordinator/internal/model"
	"github.com/shhac/coordinator/internal/storage"
)

// App is the main application coordinator, responsible for wiring
// together all components and managing their lifecycle.
type App struct {
	fyneApp   fyne.App
	window    fyne.Window
	config    *Config
	logger    *slog.Logger
	storage   storage.Repository
	state     *coordinator.State
	header    *model.HeaderState
	storageUI *model.StorageUIState
	spec      coordinator.AnimationSpec
	closed    bool
}

// New creates a new App instance with the given configuration.
// This performs all dependency injection and wiring.
func New(fyneApp fyne.App, cfg *Config) (*App, error) {
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return newApp(fyneApp, cfg, logger, coordinator.FyneFrames{})
}

func newLogger(cfg *Config) (*slog.Logger, error) {
	if cfg.LogFile != "" {
		return logging.InitLoggerAt(cfg.LogFile, cfg.Debug)
	}
	return logging.InitLogger("coordinator", cfg.Debug)
}

func newApp(fyneApp fyne.App, cfg *Config, logger *slog.Logger, frames coordinator.FrameSource) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Info("initializing coordinator application",
		slog.Bool("debug", cfg.Debug),
		slog.String("storage", cfg.Storage),
		slog.String("codec", cfg.Codec),
		slog.String("storage_path", cfg.StoragePath),
		slog.String("state_key", cfg.StateKey),
	)

	repo, err := openRepository(fyneApp, cfg, logger)
	if err != nil {
		return nil, err
	}

	curve, _ := ParseCurve(cfg.Animation.Curve)
	a := &App{
		fyneApp:   fyneApp,
		config:    cfg,
		logger:    logger,
		storage:   repo,
		header:    model.NewHeaderState(),
		storageUI: model.NewStorageUIState(),
		spec:      coordinator.Tween(cfg.Animation.Duration, curve),
	}
	a.state = a.restoreState(frames)
	a.state.Bind(a.header)

	logger.Info("application initialized successfully")
	return a, nil
}

func openRepository(fyneApp fyne.App, cfg *Config, logger *slog.Logger) (storage.Repository, error) {
	if cfg.Storage == BackendMemory {
		return storage.NewMemoryRepository(), nil
	}
	if cfg.Storage == BackendPreferences {
		return storage.NewPreferencesRepository(fyneApp.Preferences(), logger), nil
	}

	storagePath := cfg.StoragePath
	if storagePath == "" {
		var err error
		storagePath, err = storage.DefaultStoragePath()
		if err != nil {
			return nil, fmt.Errorf("failed to determine storage path: %w", err)
		}
	}

	switch cfg.Storage {
	case BackendJSON:
		return storage.NewJSONRepository(storagePath, logger), nil
	case BackendDiskv:
		var codec storage.Codec = storage.ProtoCodec{}
		if cfg.Codec == CodecJSON {
			codec = storage.JSONCodec{}
		}
		return storage.NewDiskvRepository(storagePath, codec, logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownBackend, cfg.Storage)
	}
}

// restoreState loads the snapshot stored under the configured key. A missing
// or unreadable snapshot starts a fresh, fully expanded state.
func (a *App) restoreState(frames coordinator.FrameSource) *coordinator.State {
	key := a.config.StateKey
	snap, err := a.storage.LoadSnapshot(key)
	switch {
	case err == nil:
		a.setStorageStatus("restored", fmt.Sprintf("Restored %q", key))
		return coordinator.Restore(snap, frames, a.logger)
	case errors.Is(err, apperrors.ErrSnapshotNotFound):
		a.logger.Debug("no saved snapshot", slog.String("key", key))
	default:
		a.logger.Warn("discarding unreadable snapshot",
			slog.String("key", key),
			slog.Any("error", err))
		a.setStorageStatus("error", err.Error())
	}
	return coordinator.NewState(frames, a.logger)
}

// SaveState persists the current collapse state under the configured key.
// Must be called on the UI goroutine.
func (a *App) SaveState() error {
	snap := coordinator.Save(a.state)
	if err := a.storage.SaveSnapshot(a.config.StateKey, snap); err != nil {
		a.logger.Error("failed to save snapshot",
			slog.String("key", a.config.StateKey),
			slog.Any("error", err))
		a.setStorageStatus("error", err.Error())
		return fmt.Errorf("save state %q: %w", a.config.StateKey, err)
	}
	a.logger.Debug("saved snapshot",
		slog.String("key", a.config.StateKey),
		slog.Float64("collapsed_height", float64(snap.CollapsedHeight)),
		slog.Float64("max_collapsable_height", float64(snap.MaxCollapsableHeight)))
	a.setStorageStatus("saved", fmt.Sprintf("Saved %q", a.config.StateKey))
	return nil
}

// SavedStates lists the keys of every stored snapshot.
func (a *App) SavedStates() ([]string, error) {
	keys, err := a.storage.ListSnapshots()
	if err != nil {
		a.logger.Error("failed to list snapshots", slog.Any("error", err))
		a.setStorageStatus("error", err.Error())
		return nil, fmt.Errorf("list saved states: %w", err)
	}
	return keys, nil
}

// RestoreState loads the snapshot stored under key into the live state and
// makes key the one saved on close. Must be called on the UI goroutine.
func (a *App) RestoreState(key string) error {
	snap, err := a.storage.LoadSnapshot(key)
	if err != nil {
		a.logger.Warn("failed to restore snapshot",
			slog.String("key", key),
			slog.Any("error", err))
		a.setStorageStatus("error", err.Error())
		return fmt.Errorf("restore state %q: %w", key, err)
	}
	a.state.RestoreFrom(snap)
	a.config.StateKey = key
	a.setStorageStatus("restored", fmt.Sprintf("Restored %q", key))
	return nil
}

// DeleteState removes the snapshot stored under key. Deleting the active
// key only drops what is on disk; the live state is saved again on close.
func (a *App) DeleteState(key string) error {
	if err := a.storage.DeleteSnapshot(key); err != nil {
		a.logger.Error("failed to delete snapshot",
			slog.String("key", key),
			slog.Any("error", err))
		a.setStorageStatus("error", err.Error())
		return fmt.Errorf("delete state %q: %w", key, err)
	}
	a.logger.Debug("deleted snapshot", slog.String("key", key))
	a.setStorageStatus("saved", fmt.Sprintf("Deleted %q", key))
	return nil
}

// Close stops any running animation and saves the state. Once a save has
// succeeded further calls are no-ops; after a failure Close tries again.
func (a *App) Close() error {
	if a.closed {
		return nil
	}

	a.state.CancelAnimation()
	if err := a.SaveState(); err != nil {
		return err
	}
	a.closed = true
	a.logger.Info("application closed")
	return nil
}

func (a *App) setStorageStatus(state, message string) {
	_ = a.storageUI.State.Set(state)
	_ = a.storageUI.Message.Set(message)
}

// Run starts the application and displays the main window.
// This is a blocking call that runs the Fyne event loop.
func (a *App) Run(window fyne.Window) {
	a.window = window
	a.logger.Info("starting application")
	a.window.ShowAndRun()
}

// State returns the collapse state for use by UI components.
func (a *App) State() *coordinator.State {
	return a.state
}

// HeaderState returns the bindings mirroring the collapse state.
func (a *App) HeaderState() *model.HeaderState {
	return a.header
}

// StorageState returns the persistence status bindings.
func (a *App) StorageState() *model.StorageUIState {
	return a.storageUI
}

// AnimationSpec returns the configured transition for programmatic
// collapse and expand.
func (a *App) AnimationSpec() coordinator.AnimationSpec {
	return a.spec
}

// SetAnimation replaces the transition used for programmatic collapse and
// expand.
func (a *App) SetAnimation(cfg AnimationConfig) error {
	curve, err := ParseCurve(cfg.Curve)
	if err != nil {
		return err
	}
	if cfg.Duration < 0 {
		return apperrors.ValidationError{Field: "animation.duration", Message: "must not be negative"}
	}
	a.config.Animation = cfg
	a.spec = coordinator.Tween(cfg.Duration, curve)
	a.logger.Debug("animation updated",
		slog.Duration("duration", cfg.Duration),
		slog.String("curve", cfg.Curve))
	return nil
}

// Config returns the active configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Storage returns the storage repository.
func (a *App) Storage() storage.Repository {
	return a.storage
}

// FyneApp returns the underlying Fyne application instance.
func (a *App) FyneApp() fyne.App {
	return a.fyneApp
}
