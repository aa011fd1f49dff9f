package ui

import (
	"errors"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavedStatesView_NothingSelected(t *testing.T) {
	test.NewTempApp(t)

	v := newSavedStatesView([]string{"archive", "inbox"}, "inbox", nil, nil)

	assert.True(t, v.restore.Disabled())
	assert.True(t, v.remove.Disabled())
	assert.False(t, v.empty.Visible())
}

func TestSavedStatesView_Empty(t *testing.T) {
	test.NewTempApp(t)

	v := newSavedStatesView(nil, "default", nil, nil)

	assert.True(t, v.empty.Visible())
}

func TestSavedStatesView_RestoreSelected(t *testing.T) {
	test.NewTempApp(t)

	var restored []string
	v := newSavedStatesView([]string{"archive", "inbox"}, "inbox",
		func(key string) error {
			restored = append(restored, key)
			return nil
		}, nil)

	v.list.Select(0)
	require.False(t, v.restore.Disabled())
	test.Tap(v.restore)

	assert.Equal(t, []string{"archive"}, restored)
	assert.Equal(t, "archive", v.active)
}

func TestSavedStatesView_DeleteSelected(t *testing.T) {
	test.NewTempApp(t)

	var deleted []string
	v := newSavedStatesView([]string{"archive"}, "default", nil,
		func(key string) error {
			deleted = append(deleted, key)
			return nil
		})

	v.list.Select(0)
	test.Tap(v.remove)

	assert.Equal(t, []string{"archive"}, deleted)
	assert.Empty(t, v.keys)
	assert.Empty(t, v.selected)
	assert.True(t, v.remove.Disabled())
	assert.True(t, v.empty.Visible())
}

func TestSavedStatesView_FailedDeleteKeepsKey(t *testing.T) {
	test.NewTempApp(t)

	v := newSavedStatesView([]string{"archive"}, "default", nil,
		func(string) error { return errors.New("permission denied") })

	v.list.Select(0)
	test.Tap(v.remove)

	assert.Equal(t, []string{"archive"}, v.keys)
	assert.Equal(t, "archive", v.selected)
}

func TestMainWindow_SavedStatesMenu(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	mw := NewMainWindow(a, newFakeController())
	defer mw.Window().Close()

	var labels []string
	for _, item := range mw.Window().MainMenu().Items[0].Items {
		labels = append(labels, item.Label)
	}
	assert.Contains(t, labels, "Saved States…")
}

func TestMainWindow_SavedStatesRestore(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	ctrl := newFakeController()
	ctrl.saved = []string{"archive", "default"}
	mw := NewMainWindow(a, ctrl)
	defer mw.Window().Close()

	v := mw.showSavedStates()
	require.NotNil(t, v)
	dlg := mw.Window().Canvas().Overlays().Top()
	require.NotNil(t, dlg)
	assert.Equal(t, "default", v.active)

	v.list.Select(0)
	test.Tap(v.restore)

	assert.Equal(t, []string{"archive"}, ctrl.restored)
	assert.Equal(t, "archive", ctrl.config.StateKey)
	assert.Nil(t, mw.Window().Canvas().Overlays().Top(), "dialog should close after restoring")
}

func TestMainWindow_SavedStatesDelete(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	ctrl := newFakeController()
	ctrl.saved = []string{"archive", "default"}
	mw := NewMainWindow(a, ctrl)
	defer mw.Window().Close()

	v := mw.showSavedStates()
	require.NotNil(t, v)

	v.list.Select(0)
	test.Tap(v.remove)

	assert.Equal(t, []string{"archive"}, ctrl.deleted)
	assert.Equal(t, []string{"default"}, v.keys)
	assert.NotNil(t, mw.Window().Canvas().Overlays().Top(), "dialog stays open after deleting")
}

func TestMainWindow_SavedStatesListFailure(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	ctrl := newFakeController()
	ctrl.stateErr = errors.New("read states directory: permission denied")
	mw := NewMainWindow(a, ctrl)
	defer mw.Window().Close()

	assert.Nil(t, mw.showSavedStates())
	assert.NotNil(t, mw.Window().Canvas().Overlays().Top(), "error dialog should be shown")
}
