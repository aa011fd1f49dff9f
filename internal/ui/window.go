package ui

import (
	"context"
	"fmt"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/shhac/coordinator/internal/app"
	"github.com/shhac/coordinator/internal/coordinator"
	"github.com/shhac/coordinator/internal/model"
	"github.com/shhac/coordinator/internal/ui/components"
	uierrors "github.com/shhac/coordinator/internal/ui/errors"
	"github.com/shhac/coordinator/internal/ui/settings"
)

// AppController defines the interface for app-level operations needed by the UI
type AppController interface {
	State() *coordinator.State
	HeaderState() *model.HeaderState
	StorageState() *model.StorageUIState
	AnimationSpec() coordinator.AnimationSpec
	Config() *app.Config
	Logger() *slog.Logger
	SetAnimation(app.AnimationConfig) error
	SaveState() error
	SavedStates() ([]string, error)
	RestoreState(key string) error
	DeleteState(key string) error
	Close() error
}

// MainWindow manages the main application window and its layout.
type MainWindow struct {
	fyneApp fyne.App
	window  fyne.Window
	logger *slog.Logger
	app    AppController

	// ctx is cancelled when the window closes, abandoning pending animations
	ctx    context.Context
	cancel context.CancelFunc

	coordinatorLayout *components.CoordinatorLayout
	statusBar         *components.StatusBar

	// closeFailed is set once saving on close has failed
	closeFailed bool
}

// NewMainWindow creates a new main window with the demo layout:
// a collapsing header over a list of items, with a status bar below.
func NewMainWindow(fyneApp fyne.App, controller AppController) *MainWindow {
	window := fyneApp.NewWindow("Coordinator")
	ctx, cancel := context.WithCancel(context.Background())

	mw := &MainWindow{
		fyneApp: fyneApp,
		window:  window,
		logger:  controller.Logger(),
		app:     controller,
		ctx:     ctx,
		cancel:  cancel,
	}

	LoadThemePreference(fyneApp)
	mw.applyAnimation(settings.LoadAnimation(fyneApp.Preferences(), controller.Config().Animation))

	header, pinned := mw.buildHeader()
	mw.coordinatorLayout = components.NewCoordinatorLayout(controller.State(), header, mw.buildItems(), mw.logger)
	mw.coordinatorLayout.SetPinnedHeight(pinned)
	mw.statusBar = components.NewStatusBar(controller.StorageState(), controller.HeaderState())

	mw.SetContent()
	mw.setupMenu()
	mw.setupKeyboardShortcuts()
	window.SetCloseIntercept(mw.handleClose)

	window.Resize(fyne.NewSize(480, 720))

	return mw
}

// buildHeader returns the header and the height of its pinned toolbar.
func (w *MainWindow) buildHeader() (fyne.CanvasObject, float32) {
	cfg := w.app.Config().Header

	banner := canvas.NewRectangle(theme.Color(theme.ColorNamePrimary))
	banner.SetMinSize(fyne.NewSize(0, cfg.Height-cfg.Pinned))
	title := widget.NewLabelWithStyle("Coordinator", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})

	toolbar := container.NewHBox(
		widget.NewButtonWithIcon("Collapse", theme.MoveUpIcon(), w.Collapse),
		widget.NewButtonWithIcon("Expand", theme.MoveDownIcon(), w.Expand),
		widget.NewButtonWithIcon("", theme.MediaStopIcon(), w.CancelAnimation),
		layout.NewSpacer(),
		widget.NewButtonWithIcon("", theme.DocumentSaveIcon(), w.Save),
	)
	toolbarBg := canvas.NewRectangle(theme.Color(theme.ColorNameHeaderBackground))
	toolbarBg.SetMinSize(fyne.NewSize(0, cfg.Pinned))
	pinned := container.NewStack(toolbarBg, toolbar)

	header := container.New(layout.NewCustomPaddedVBoxLayout(0),
		container.NewStack(banner, container.NewCenter(title)),
		pinned,
	)
	return header, pinned.MinSize().Height
}

func (w *MainWindow) buildItems() fyne.CanvasObject {
	items := container.NewVBox()
	for i := 1; i <= w.app.Config().Header.ItemCount; i++ {
		items.Add(widget.NewLabel(fmt.Sprintf("Item %d", i)))
	}
	return items
}

// SetContent builds and sets the main window layout.
// Layout structure:
//
//	┌──────────────────────────────┐
//	│  Header (collapses)          │
//	│  Toolbar (pinned)            │
//	├──────────────────────────────┤
//	│  Items                       │
//	├──────────────────────────────┤
//	│  Status Bar                  │
//	└──────────────────────────────┘
func (w *MainWindow) SetContent() {
	w.window.SetContent(container.NewBorder(
		nil,                 // top
		w.statusBar,         // bottom
		nil,                 // left
		nil,                 // right
		w.coordinatorLayout, // center
	))
}

func (w *MainWindow) setupMenu() {
	w.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu("Header",
			fyne.NewMenuItem("Collapse", w.Collapse),
			fyne.NewMenuItem("Expand", w.Expand),
			fyne.NewMenuItem("Save State", w.Save),
			fyne.NewMenuItem("Saved States…", func() { w.showSavedStates() }),
			fyne.NewMenuItemSeparator(),
			fyne.NewMenuItem("Preferences…", w.showPreferences),
		),
		fyne.NewMenu("Help",
			fyne.NewMenuItem("Keyboard Shortcuts", func() { ShowShortcutDialog(w.window) }),
			fyne.NewMenuItem("About", func() { ShowAboutDialog(w.window) }),
		),
	))
}

func (w *MainWindow) showPreferences() {
	settings.ShowPreferencesDialog(w.fyneApp, w.window, w.app.Config().Animation, settings.PreferencesCallbacks{
		OnAnimationChange: w.applyAnimation,
		OnThemeChange: func(mode string) {
			ApplyTheme(w.fyneApp, mode)
		},
	})
}

func (w *MainWindow) applyAnimation(cfg app.AnimationConfig) {
	if err := w.app.SetAnimation(cfg); err != nil {
		w.logger.Warn("ignoring invalid animation settings", slog.Any("error", err))
	}
}

// Collapse animates the header to fully collapsed.
func (w *MainWindow) Collapse() {
	w.animate("collapse", func(ctx context.Context, spec coordinator.AnimationSpec) bool {
		return w.app.State().AnimateToCollapsed(ctx, spec)
	})
}

// Expand animates the header to fully expanded.
func (w *MainWindow) Expand() {
	w.animate("expand", func(ctx context.Context, spec coordinator.AnimationSpec) bool {
		return w.app.State().AnimateToExpanded(ctx, spec)
	})
}

// animate runs a blocking transition off the UI goroutine.
func (w *MainWindow) animate(name string, run func(context.Context, coordinator.AnimationSpec) bool) {
	spec := w.app.AnimationSpec()
	go func() {
		completed := run(w.ctx, spec)
		w.logger.Debug("animation finished",
			slog.String("animation", name),
			slog.Bool("completed", completed))
	}()
}

// CancelAnimation stops a running transition where it is.
func (w *MainWindow) CancelAnimation() {
	w.app.State().CancelAnimation()
}

// Save persists the header state, offering a retry on failure.
func (w *MainWindow) Save() {
	if err := w.app.SaveState(); err != nil {
		uierrors.ShowStorageError(err, w.window, w.Save)
	}
}

// handleClose saves the state before the window closes. If saving fails the
// window stays open with an error dialog offering a retry. Closing again
// tries one more save and closes even if it fails.
func (w *MainWindow) handleClose() {
	err := w.app.Close()
	switch {
	case err == nil:
		w.closeWindow()
	case w.closeFailed:
		w.logger.Warn("closing without saved state", slog.Any("error", err))
		w.closeWindow()
	default:
		w.closeFailed = true
		w.logger.Error("failed to save state on close", slog.Any("error", err))
		uierrors.ShowStorageError(err, w.window, func() {
			if w.app.Close() == nil {
				w.closeWindow()
			}
		})
	}
}

func (w *MainWindow) closeWindow() {
	w.cancel()
	w.window.Close()
}

// Window returns the underlying Fyne window.
func (w *MainWindow) Window() fyne.Window {
	return w.window
}
