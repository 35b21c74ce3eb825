package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mcncl/unfold/internal/config"
	"github.com/mcncl/unfold/internal/flatten"
)

// palette holds the colors of one theme.
type palette struct {
	key        lipgloss.Color
	str        lipgloss.Color
	number     lipgloss.Color
	boolean    lipgloss.Color
	null       lipgloss.Color
	bracket    lipgloss.Color
	guide      lipgloss.Color
	text       lipgloss.Color
	muted      lipgloss.Color
	statusBg   lipgloss.Color
	selectedBg lipgloss.Color
	match      lipgloss.Color
	current    lipgloss.Color
	err        lipgloss.Color
}

var (
	darkPalette = palette{
		key:        "#66B3E6",
		str:        "#99CC80",
		number:     "#E6B366",
		boolean:    "#CC80B3",
		null:       "#999999",
		bracket:    "#B3B3B3",
		guide:      "#808080",
		text:       "#E6E6E6",
		muted:      "#B3B3B3",
		statusBg:   "#262626",
		selectedBg: "#2E4A73",
		match:      "#E6B333",
		current:    "#E6801A",
		err:        "#E66666",
	}
	lightPalette = palette{
		key:        "#0066B3",
		str:        "#338033",
		number:     "#CC6600",
		boolean:    "#993399",
		null:       "#808080",
		bracket:    "#4D4D4D",
		guide:      "#999999",
		text:       "#1A1A1A",
		muted:      "#666666",
		statusBg:   "#E6E6E6",
		selectedBg: "#C5D6EE",
		match:      "#FFE666",
		current:    "#FF9933",
		err:        "#CC3333",
	}
)

// Styles holds the lipgloss styles used to draw the view.
type Styles struct {
	Key      lipgloss.Style
	String   lipgloss.Style
	Number   lipgloss.Style
	Bool     lipgloss.Style
	Null     lipgloss.Style
	Bracket  lipgloss.Style
	Guide    lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Match    lipgloss.Style
	Current  lipgloss.Style
	Header   lipgloss.Style
	Status   lipgloss.Style
	Error    lipgloss.Style
	Toggle   lipgloss.Style
	ToggleOn lipgloss.Style
}

// StylesFor returns the styles of a theme. Unknown names fall back to dark.
func StylesFor(theme string) Styles {
	p := darkPalette
	if theme == config.ThemeLight {
		p = lightPalette
	}
	return Styles{
		Key:      lipgloss.NewStyle().Foreground(p.key),
		String:   lipgloss.NewStyle().Foreground(p.str),
		Number:   lipgloss.NewStyle().Foreground(p.number),
		Bool:     lipgloss.NewStyle().Foreground(p.boolean),
		Null:     lipgloss.NewStyle().Foreground(p.null).Italic(true),
		Bracket:  lipgloss.NewStyle().Foreground(p.bracket),
		Guide:    lipgloss.NewStyle().Foreground(p.guide),
		Muted:    lipgloss.NewStyle().Foreground(p.muted),
		Selected: lipgloss.NewStyle().Background(p.selectedBg).Bold(true),
		Match:    lipgloss.NewStyle().Background(p.match).Foreground(lipgloss.Color("#000000")),
		Current:  lipgloss.NewStyle().Background(p.current).Foreground(lipgloss.Color("#000000")).Bold(true),
		Header:   lipgloss.NewStyle().Foreground(p.text).Background(p.statusBg).Bold(true).Padding(0, 1),
		Status:   lipgloss.NewStyle().Foreground(p.muted).Background(p.statusBg).Padding(0, 1),
		Error:    lipgloss.NewStyle().Foreground(p.err).Background(p.statusBg).Padding(0, 1),
		Toggle:   lipgloss.NewStyle().Foreground(p.guide),
		ToggleOn: lipgloss.NewStyle().Foreground(p.key).Bold(true),
	}
}

// ForCategory returns the value style of a row category.
func (s Styles) ForCategory(c flatten.Category) lipgloss.Style {
	switch c {
	case flatten.CategoryString:
		return s.String
	case flatten.CategoryNumber:
		return s.Number
	case flatten.CategoryBool:
		return s.Bool
	case flatten.CategoryNull:
		return s.Null
	case flatten.CategoryKey:
		return s.Key
	default:
		return s.Bracket
	}
}
