package styles

import (
	"image/color"

	"github.com/charmbracelet/lipgloss/v2"
)

// Theme holds the panel's color palette.
type Theme struct {
	Primary     color.Color
	Secondary   color.Color
	Border      color.Color
	BorderFocus color.Color
	FgBase      color.Color
	FgMuted     color.Color
	BgSubtle    color.Color
	Error       color.Color
	Warning     color.Color
	Success     color.Color
}

var themes = map[string]Theme{
	"paper": {
		Primary:     lipgloss.Color("110"),
		Secondary:   lipgloss.Color("183"),
		Border:      lipgloss.Color("240"),
		BorderFocus: lipgloss.Color("110"),
		FgBase:      lipgloss.Color("252"),
		FgMuted:     lipgloss.Color("243"),
		BgSubtle:    lipgloss.Color("236"),
		Error:       lipgloss.Color("203"),
		Warning:     lipgloss.Color("214"),
		Success:     lipgloss.Color("78"),
	},
	"ink": {
		Primary:     lipgloss.Color("205"),
		Secondary:   lipgloss.Color("99"),
		Border:      lipgloss.Color("238"),
		BorderFocus: lipgloss.Color("205"),
		FgBase:      lipgloss.Color("255"),
		FgMuted:     lipgloss.Color("245"),
		BgSubtle:    lipgloss.Color("234"),
		Error:       lipgloss.Color("196"),
		Warning:     lipgloss.Color("220"),
		Success:     lipgloss.Color("82"),
	},
}

var current = themes["paper"]

// SetTheme switches the active theme by name. Unknown names keep the
// current theme.
func SetTheme(name string) {
	if t, ok := themes[name]; ok {
		current = t
	}
}

// CurrentTheme returns the active theme.
func CurrentTheme() Theme {
	return current
}
