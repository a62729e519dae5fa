package ui

import (
	"github.com/charmbracelet/lipgloss"

	"grafanapdf/internal/prefs"
)

type palette struct {
	accent    lipgloss.Color
	text      lipgloss.Color
	muted     lipgloss.Color
	border    lipgloss.Color
	highlight lipgloss.Color
	selected  lipgloss.Color
	ok        lipgloss.Color
	err       lipgloss.Color
}

var palettes = map[prefs.ThemeMode]palette{
	prefs.Dark: {
		accent:    "62",
		text:      "230",
		muted:     "241",
		border:    "240",
		highlight: "229",
		selected:  "57",
		ok:        "#04B575",
		err:       "205",
	},
	prefs.Light: {
		accent:    "25",
		text:      "255",
		muted:     "244",
		border:    "250",
		highlight: "232",
		selected:  "153",
		ok:        "#027A48",
		err:       "160",
	},
}

var (
	current palette

	baseStyle   lipgloss.Style
	headerStyle lipgloss.Style
	titleStyle  lipgloss.Style
	keyStyle    lipgloss.Style
	descStyle   lipgloss.Style
	footerStyle lipgloss.Style
	docStyle    lipgloss.Style
	statusStyle lipgloss.Style
	errorStyle  lipgloss.Style
)

func init() {
	ApplyTheme(prefs.Dark)
}

// ApplyTheme rebuilds every style for the given theme.
func ApplyTheme(mode prefs.ThemeMode) {
	p, ok := palettes[mode]
	if !ok {
		p = palettes[prefs.Dark]
	}
	current = p

	baseStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.border).
		Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
		Foreground(p.text).
		Background(p.accent).
		Bold(true).
		Padding(0, 1).
		Align(lipgloss.Center)

	titleStyle = lipgloss.NewStyle().
		Foreground(p.text).
		Background(p.accent).
		Bold(true).
		Padding(0, 1)

	keyStyle = lipgloss.NewStyle().
		Foreground(p.accent).
		Bold(true)

	descStyle = lipgloss.NewStyle().Foreground(p.muted)

	footerStyle = lipgloss.NewStyle().
		MarginLeft(2).
		Foreground(p.border)

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	statusStyle = lipgloss.NewStyle().Foreground(p.ok)

	errorStyle = lipgloss.NewStyle().Foreground(p.err).Bold(true)
}
