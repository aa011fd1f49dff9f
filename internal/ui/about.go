package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// Version is set at build time via ldflags:
//
//	go build -ldflags "-X github.com/shhac/coordinator/internal/ui.Version=1.2.3"
var Version = "dev"

// shortcutHelp lists the bindings installed by setupKeyboardShortcuts.
var shortcutHelp = []struct{ action, key string }{
	{"Collapse Header", "⌘ ↑"},
	{"Expand Header", "⌘ ↓"},
	{"Save Header State", "⌘ S"},
	{"Cancel Animation", "Escape"},
}

// ShowAboutDialog displays information about the demo application.
func ShowAboutDialog(parent fyne.Window) {
	content := container.NewVBox(
		widget.NewLabelWithStyle("Coordinator", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		widget.NewLabel("A collapsing header coordinated with nested scrolling"),
		widget.NewLabel("Version "+Version),
		widget.NewSeparator(),
		widget.NewLabel("Built with Fyne and Go"),
	)
	dialog.ShowCustom("About Coordinator", "Close", content, parent)
}

// ShowShortcutDialog displays a reference of all keyboard shortcuts.
func ShowShortcutDialog(parent fyne.Window) {
	grid := container.NewGridWithColumns(2)
	for _, s := range shortcutHelp {
		grid.Add(widget.NewLabel(s.action))
		grid.Add(widget.NewLabelWithStyle(s.key, fyne.TextAlignTrailing, fyne.TextStyle{Monospace: true}))
	}

	dialog.ShowCustom("Keyboard Shortcuts", "Close", grid, parent)
}
