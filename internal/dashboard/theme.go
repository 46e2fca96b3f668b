package dashboard

import (
	"os"
	"strings"

	"github.com/muesli/termenv"
)

// Theme is the light/dark display preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ParseTheme accepts "light" or "dark" in any case; anything else yields fallback.
func ParseTheme(s string, fallback Theme) Theme {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight
	case ThemeDark:
		return ThemeDark
	default:
		return fallback
	}
}

// SystemTheme picks a theme from the terminal's background color. Output that
// is not a color terminal gets light.
func SystemTheme() Theme {
	return themeFor(termenv.NewOutput(os.Stdout))
}

func themeFor(out *termenv.Output) Theme {
	if out.Profile == termenv.Ascii {
		return ThemeLight
	}
	if out.HasDarkBackground() {
		return ThemeDark
	}
	return ThemeLight
}
