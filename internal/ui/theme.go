package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"github.com/shhac/coordinator/internal/ui/settings"
)

// ThemePreferenceKey is the key used to store theme preference
const ThemePreferenceKey = settings.PrefTheme

// forcedVariant wraps a theme to force a specific variant (light/dark)
type forcedVariant struct {
	fyne.Theme
	variant fyne.ThemeVariant
}

// Color returns the color for the forced variant, ignoring the passed variant
func (f *forcedVariant) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return f.Theme.Color(name, f.variant)
}

// ApplyTheme sets the application theme based on the mode
// mode can be "dark", "light", or "system" (default)
func ApplyTheme(a fyne.App, mode string) {
	switch mode {
	case "dark":
		a.Settings().SetTheme(&forcedVariant{
			Theme:   theme.DefaultTheme(),
			variant: theme.VariantDark,
		})
	case "light":
		a.Settings().SetTheme(&forcedVariant{
			Theme:   theme.DefaultTheme(),
			variant: theme.VariantLight,
		})
	default: // "system"
		a.Settings().SetTheme(theme.DefaultTheme())
	}
}

// LoadThemePreference loads and applies the saved theme preference
func LoadThemePreference(a fyne.App) {
	mode := a.Preferences().StringWithFallback(ThemePreferenceKey, "system")
	ApplyTheme(a, mode)
}
