package settings

import (
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/shhac/coordinator/internal/app"
)

// Preference keys (must match the constants used elsewhere in the app).
const (
	PrefAnimationDuration = "animationDurationMs"
	PrefAnimationCurve    = "animationCurve"
	PrefTheme             = "appTheme"
)

var curveOptions = []string{app.CurveLinear, app.CurveEaseIn, app.CurveEaseOut, app.CurveEaseInOut}

// PreferencesCallbacks provides hooks for the preferences dialog to apply changes.
type PreferencesCallbacks struct {
	OnAnimationChange func(app.AnimationConfig)
	OnThemeChange     func(mode string) // Called with "system", "dark", or "light"
}

// LoadAnimation returns the animation settings saved in prefs, falling back
// to fallback for anything unset or invalid.
func LoadAnimation(prefs fyne.Preferences, fallback app.AnimationConfig) app.AnimationConfig {
	cfg := fallback
	ms := prefs.FloatWithFallback(PrefAnimationDuration, -1)
	if ms >= 0 {
		cfg.Duration = time.Duration(ms * float64(time.Millisecond))
	}
	if curve := prefs.String(PrefAnimationCurve); curve != "" {
		if _, err := app.ParseCurve(curve); err == nil {
			cfg.Curve = curve
		}
	}
	return cfg
}

// SaveAnimation stores cfg in prefs.
func SaveAnimation(prefs fyne.Preferences, cfg app.AnimationConfig) {
	prefs.SetFloat(PrefAnimationDuration, float64(cfg.Duration)/float64(time.Millisecond))
	prefs.SetString(PrefAnimationCurve, cfg.Curve)
}

// ShowPreferencesDialog displays the preferences dialog with Animation and Appearance tabs.
func ShowPreferencesDialog(a fyne.App, window fyne.Window, current app.AnimationConfig, callbacks PreferencesCallbacks) {
	prefs := a.Preferences()

	// --- Animation tab ---

	durationEntry := widget.NewEntry()
	durationEntry.SetText(strconv.FormatInt(current.Duration.Milliseconds(), 10))

	curveSelector := widget.NewSelect(curveOptions, nil)
	curveSelector.SetSelected(current.Curve)

	animationTab := container.NewTabItem("Animation", container.NewVBox(
		widget.NewForm(
			widget.NewFormItem("Duration (ms)", durationEntry),
			widget.NewFormItem("Curve", curveSelector),
		),
		widget.NewLabel("Used by Collapse and Expand. Scrolling is not animated."),
	))

	// --- Appearance tab ---

	themeSelector := widget.NewSelect(
		[]string{"System Default", "Light", "Dark"},
		nil,
	)

	savedTheme := prefs.StringWithFallback(PrefTheme, "system")
	switch savedTheme {
	case "dark":
		themeSelector.SetSelected("Dark")
	case "light":
		themeSelector.SetSelected("Light")
	default:
		themeSelector.SetSelected("System Default")
	}

	appearanceTab := container.NewTabItem("Appearance", container.NewVBox(
		widget.NewForm(
			widget.NewFormItem("Theme", themeSelector),
		),
	))

	// --- Build dialog ---

	tabs := container.NewAppTabs(animationTab, appearanceTab)

	dlg := dialog.NewCustomConfirm("Preferences", "Save", "Cancel", tabs, func(save bool) {
		if !save {
			return
		}

		anim := current
		if val, err := strconv.ParseInt(durationEntry.Text, 10, 64); err == nil && val >= 0 {
			anim.Duration = time.Duration(val) * time.Millisecond
		}
		if curveSelector.Selected != "" {
			anim.Curve = curveSelector.Selected
		}
		SaveAnimation(prefs, anim)
		if callbacks.OnAnimationChange != nil {
			callbacks.OnAnimationChange(anim)
		}

		mode := themeMode(themeSelector.Selected)
		prefs.SetString(PrefTheme, mode)
		if callbacks.OnThemeChange != nil {
			callbacks.OnThemeChange(mode)
		}
	}, window)

	dlg.Resize(fyne.NewSize(460, 320))
	dlg.Show()
}

func themeMode(selected string) string {
	switch selected {
	case "Dark":
		return "dark"
	case "Light":
		return "light"
	default:
		return "system"
	}
}
