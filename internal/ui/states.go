package ui

import (
	"slices"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	uierrors "github.com/shhac/coordinator/internal/ui/errors"
)

// savedStatesView lists stored snapshot keys with restore and delete
// actions for the selected one.
type savedStatesView struct {
	keys     []string
	active   string
	selected string

	list    *widget.List
	empty   *widget.Label
	restore *widget.Button
	remove  *widget.Button

	onRestore func(key string) error
	onDelete  func(key string) error
}

func newSavedStatesView(keys []string, active string, onRestore, onDelete func(string) error) *savedStatesView {
	v := &savedStatesView{
		keys:      keys,
		active:    active,
		onRestore: onRestore,
		onDelete:  onDelete,
	}
	v.restore = widget.NewButtonWithIcon("Restore", theme.DocumentIcon(), v.restoreSelected)
	v.restore.Importance = widget.HighImportance
	v.remove = widget.NewButtonWithIcon("Delete", theme.DeleteIcon(), v.deleteSelected)
	v.empty = widget.NewLabel("No saved states")

	v.list = widget.NewList(
		func() int { return len(v.keys) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			text := v.keys[id]
			if text == v.active {
				text += " (active)"
			}
			obj.(*widget.Label).SetText(text)
		},
	)
	v.list.OnSelected = func(id widget.ListItemID) {
		v.selected = v.keys[id]
		v.refresh()
	}
	v.list.OnUnselected = func(widget.ListItemID) {
		v.selected = ""
		v.refresh()
	}

	v.refresh()
	return v
}

func (v *savedStatesView) content() fyne.CanvasObject {
	return container.NewBorder(
		nil,
		container.NewHBox(layout.NewSpacer(), v.remove, v.restore),
		nil,
		nil,
		container.NewStack(v.list, container.NewCenter(v.empty)),
	)
}

func (v *savedStatesView) refresh() {
	if len(v.keys) == 0 {
		v.empty.Show()
	} else {
		v.empty.Hide()
	}
	if v.selected == "" {
		v.restore.Disable()
		v.remove.Disable()
	} else {
		v.restore.Enable()
		v.remove.Enable()
	}
	v.list.Refresh()
}

func (v *savedStatesView) restoreSelected() {
	if v.selected == "" {
		return
	}
	if err := v.onRestore(v.selected); err != nil {
		return
	}
	v.active = v.selected
	v.refresh()
}

func (v *savedStatesView) deleteSelected() {
	key := v.selected
	if key == "" {
		return
	}
	if err := v.onDelete(key); err != nil {
		return
	}
	v.keys = slices.DeleteFunc(v.keys, func(k string) bool { return k == key })
	v.list.UnselectAll()
	v.selected = ""
	v.refresh()
}

// showSavedStates opens the saved states dialog. Restoring a state closes
// the dialog; failures are reported with the storage error dialog.
func (w *MainWindow) showSavedStates() *savedStatesView {
	keys, err := w.app.SavedStates()
	if err != nil {
		uierrors.ShowStorageError(err, w.window, func() { w.showSavedStates() })
		return nil
	}

	var dlg dialog.Dialog
	view := newSavedStatesView(keys, w.app.Config().StateKey,
		func(key string) error {
			if err := w.app.RestoreState(key); err != nil {
				uierrors.ShowStorageError(err, w.window, nil)
				return err
			}
			dlg.Hide()
			return nil
		},
		func(key string) error {
			if err := w.app.DeleteState(key); err != nil {
				uierrors.ShowStorageError(err, w.window, nil)
				return err
			}
			return nil
		},
	)

	dlg = dialog.NewCustom("Saved States", "Close", view.content(), w.window)
	dlg.Resize(fyne.NewSize(360, 360))
	dlg.Show()
	return view
}
