package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the viewer.
type KeyMap struct {
	Up              key.Binding
	Down            key.Binding
	PageUp          key.Binding
	PageDown        key.Binding
	HalfPageUp      key.Binding
	HalfPageDown    key.Binding
	GotoTop         key.Binding
	GotoEnd         key.Binding
	Toggle          key.Binding
	Expand          key.Binding
	Collapse        key.Binding
	ExpandSubtree   key.Binding
	CollapseSubtree key.Binding
	ExpandAll       key.Binding
	CollapseAll     key.Binding
	Search          key.Binding
	NextMatch       key.Binding
	PrevMatch       key.Binding
	ToggleCase      key.Binding
	ToggleRegex     key.Binding
	GoToPath        key.Binding
	CopyValue       key.Binding
	CopyFormatted   key.Binding
	CopyMinified    key.Binding
	CopyName        key.Binding
	CopyPath        key.Binding
	Export          key.Binding
	ToggleTheme     key.Binding
	Help            key.Binding
	Clear           key.Binding
	Quit            key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("j/↓", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+b"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+f"),
			key.WithHelp("pgdn", "page down"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "half page up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "half page down"),
		),
		GotoTop: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "go to top"),
		),
		GotoEnd: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "go to end"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter", " ", "space"),
			key.WithHelp("enter/space", "toggle"),
		),
		Expand: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("l/→", "expand"),
		),
		Collapse: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("h/←", "collapse / parent"),
		),
		ExpandSubtree: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "expand subtree"),
		),
		CollapseSubtree: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "collapse subtree"),
		),
		ExpandAll: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "expand all"),
		),
		CollapseAll: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "collapse all"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		NextMatch: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next match"),
		),
		PrevMatch: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "prev match"),
		),
		ToggleCase: key.NewBinding(
			key.WithKeys("alt+c"),
			key.WithHelp("alt+c", "case sensitive"),
		),
		ToggleRegex: key.NewBinding(
			key.WithKeys("alt+r"),
			key.WithHelp("alt+r", "regex"),
		),
		GoToPath: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "go to path"),
		),
		CopyValue: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy value"),
		),
		CopyFormatted: key.NewBinding(
			key.WithKeys("Y"),
			key.WithHelp("Y", "copy formatted"),
		),
		CopyMinified: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "copy minified"),
		),
		CopyName: key.NewBinding(
			key.WithKeys("K"),
			key.WithHelp("K", "copy key"),
		),
		CopyPath: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "copy path"),
		),
		Export: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "export"),
		),
		ToggleTheme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle theme"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Clear: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear search"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the short help bindings.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Search, k.NextMatch, k.CopyValue, k.Help, k.Quit}
}

// FullHelp returns the full help bindings.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.HalfPageUp, k.HalfPageDown, k.GotoTop, k.GotoEnd},
		{k.Toggle, k.Expand, k.Collapse, k.ExpandSubtree, k.CollapseSubtree, k.ExpandAll, k.CollapseAll},
		{k.Search, k.NextMatch, k.PrevMatch, k.ToggleCase, k.ToggleRegex, k.Clear, k.GoToPath},
		{k.CopyValue, k.CopyFormatted, k.CopyMinified, k.CopyName, k.CopyPath, k.Export, k.ToggleTheme, k.Help, k.Quit},
	}
}
