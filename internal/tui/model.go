// Package tui is the terminal front end: a bubbletea model that draws the
// session's virtual window and turns keys and mouse events into session
// operations.
package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/mcncl/unfold/internal/analyzer"
	"github.com/mcncl/unfold/internal/app"
	"github.com/mcncl/unfold/internal/config"
	"github.com/mcncl/unfold/internal/errors"
	"github.com/mcncl/unfold/internal/formatter"
	"github.com/mcncl/unfold/internal/logging"
	"github.com/mcncl/unfold/internal/models"
)

var errClipboardUnsupported error = errors.NewOutputError("clipboard is not available on this system", nil)

// statusTimeout is how long a status message stays in the footer.
const statusTimeout = 2 * time.Second

// chrome is the number of lines taken by the header and the footer.
const chrome = 2

type inputMode int

const (
	modeNormal inputMode = iota
	modeSearch
	modeGoto
	modeExport
)

// ReloadMsg replaces the document, e.g. after the file changed on disk.
type ReloadMsg struct {
	Document models.Document
}

// ReloadErrorMsg reports a failed reload. The current document stays.
type ReloadErrorMsg struct {
	Err error
}

// clearStatusMsg is sent to clear the status message after a delay.
type clearStatusMsg struct {
	seq int
}

// Model is the Bubble Tea model for the viewer.
type Model struct {
	session   *app.Session
	keys      KeyMap
	help      help.Model
	styles    Styles
	theme     string
	clipboard Clipboard
	log       *logrus.Entry

	// configPath is where theme changes are saved; empty disables saving
	configPath string

	width  int
	height int

	mode     inputMode
	input    textinput.Model
	showHelp bool

	status    string
	statusErr bool
	statusSeq int

	stats analyzer.Stats
}

// Option configures a Model.
type Option func(*Model)

// WithClipboard replaces the system clipboard.
func WithClipboard(c Clipboard) Option {
	return func(m *Model) { m.clipboard = c }
}

// WithConfigPath enables saving the theme to the config file at path.
func WithConfigPath(path string) Option {
	return func(m *Model) { m.configPath = path }
}

// New creates a model for a session that already has a document loaded.
func New(session *app.Session, opts ...Option) Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40

	theme := session.Config().Theme
	m := Model{
		session:   session,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		styles:    StylesFor(theme),
		theme:     theme,
		clipboard: SystemClipboard{},
		log:       logging.For("tui"),
		input:     ti,
		stats:     session.Stats(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init initializes the component.
func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) bodyHeight() int {
	return max(1, m.height-chrome)
}

// Update handles messages and user input.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.session.Resize(float64(m.bodyHeight()), 1)
		return m, nil

	case ReloadMsg:
		m.session.Reload(msg.Document)
		m.stats = m.session.Stats()
		m.log.WithField("source", msg.Document.Source).Info("reloaded document")
		cmd := m.setStatus("Reloaded " + displaySource(msg.Document.Source))
		return m, cmd

	case ReloadErrorMsg:
		m.log.WithError(msg.Err).Warn("reload failed")
		cmd := m.setError(msg.Err)
		return m, cmd

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status, m.statusErr = "", false
		}
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if m.mode != modeNormal {
			return m.updateInput(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.session
	if m.showHelp {
		// any key closes the help overlay
		m.showHelp = false
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		s.MoveSelection(-1)
	case key.Matches(msg, m.keys.Down):
		s.MoveSelection(1)
	case key.Matches(msg, m.keys.PageUp):
		s.MoveSelection(-m.bodyHeight())
	case key.Matches(msg, m.keys.PageDown):
		s.MoveSelection(m.bodyHeight())
	case key.Matches(msg, m.keys.HalfPageUp):
		s.MoveSelection(-m.bodyHeight() / 2)
	case key.Matches(msg, m.keys.HalfPageDown):
		s.MoveSelection(m.bodyHeight() / 2)
	case key.Matches(msg, m.keys.GotoTop):
		s.SelectFirst()
	case key.Matches(msg, m.keys.GotoEnd):
		s.SelectLast()

	case key.Matches(msg, m.keys.Toggle):
		s.ToggleSelected()
	case key.Matches(msg, m.keys.Expand):
		if row, ok := s.Selected(); ok && row.Expandable {
			if row.Expanded {
				s.MoveSelection(1)
			} else {
				s.ToggleSelected()
			}
		}
	case key.Matches(msg, m.keys.Collapse):
		if row, ok := s.Selected(); ok && row.Expandable && row.Expanded {
			s.ToggleSelected()
		} else {
			s.SelectParent()
		}
	case key.Matches(msg, m.keys.ExpandSubtree):
		s.ExpandSelected()
	case key.Matches(msg, m.keys.CollapseSubtree):
		s.CollapseSelected()
	case key.Matches(msg, m.keys.ExpandAll):
		s.ExpandAll()
	case key.Matches(msg, m.keys.CollapseAll):
		s.CollapseAll()

	case key.Matches(msg, m.keys.Search):
		return m.startInput(modeSearch, "/", "search keys and values", s.Search().Query())
	case key.Matches(msg, m.keys.NextMatch):
		s.NextMatch()
	case key.Matches(msg, m.keys.PrevMatch):
		s.PrevMatch()
	case key.Matches(msg, m.keys.ToggleCase):
		s.ToggleCaseSensitive()
	case key.Matches(msg, m.keys.ToggleRegex):
		s.ToggleRegex()
	case key.Matches(msg, m.keys.Clear):
		s.ClearSearch()

	case key.Matches(msg, m.keys.GoToPath):
		return m.startInput(modeGoto, ":", "users[0].email", s.CopyPath())
	case key.Matches(msg, m.keys.Export):
		return m.startInput(modeExport, "export to: ", "", s.ExportPath())

	case key.Matches(msg, m.keys.CopyValue):
		return m.copyValue(formatter.ModeRaw, "value")
	case key.Matches(msg, m.keys.CopyFormatted):
		return m.copyValue(formatter.ModeIndented, "formatted JSON")
	case key.Matches(msg, m.keys.CopyMinified):
		return m.copyValue(formatter.ModeMinified, "minified JSON")
	case key.Matches(msg, m.keys.CopyName):
		cmd := m.copyText(s.CopyName(), "key")
		return m, cmd
	case key.Matches(msg, m.keys.CopyPath):
		cmd := m.copyText(s.CopyPath(), "path")
		return m, cmd

	case key.Matches(msg, m.keys.ToggleTheme):
		return m.toggleTheme()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	}
	return m, nil
}

func (m Model) startInput(mode inputMode, prompt, placeholder, value string) (tea.Model, tea.Cmd) {
	m.mode = mode
	m.input.Prompt = prompt
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		mode, value := m.mode, m.input.Value()
		m.endInput()
		return m.commitInput(mode, value)
	case tea.KeyEsc:
		if m.mode == modeSearch {
			m.session.ClearSearch()
		}
		m.endInput()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.mode == modeSearch {
		// search as you type
		m.session.SetQuery(m.input.Value())
	}
	return m, cmd
}

func (m *Model) endInput() {
	m.mode = modeNormal
	m.input.Blur()
}

func (m Model) commitInput(mode inputMode, value string) (tea.Model, tea.Cmd) {
	switch mode {
	case modeSearch:
		m.session.SetQuery(value)
	case modeGoto:
		if err := m.session.GoToPath(value); err != nil {
			cmd := m.setError(err)
			return m, cmd
		}
	case modeExport:
		format := formatter.Mode(m.session.Config().Export.Format)
		written, err := m.session.Export(strings.TrimSpace(value), format)
		if err != nil {
			cmd := m.setError(err)
			return m, cmd
		}
		cmd := m.setStatus("Exported to " + written)
		return m, cmd
	}
	return m, nil
}

func (m Model) copyValue(mode formatter.Mode, what string) (tea.Model, tea.Cmd) {
	text, err := m.session.CopyValue(mode)
	if err != nil {
		cmd := m.setError(err)
		return m, cmd
	}
	cmd := m.copyText(text, what)
	return m, cmd
}

func (m *Model) copyText(text, what string) tea.Cmd {
	if text == "" {
		return m.setStatus("Nothing to copy")
	}
	if err := m.clipboard.WriteAll(text); err != nil {
		m.log.WithError(err).Warn("clipboard write failed")
		return m.setError(err)
	}
	return m.setStatus(fmt.Sprintf("Copied %s: %s", what, truncate(oneLine(text), 40)))
}

func (m Model) toggleTheme() (tea.Model, tea.Cmd) {
	if m.theme == config.ThemeLight {
		m.theme = config.ThemeDark
	} else {
		m.theme = config.ThemeLight
	}
	m.styles = StylesFor(m.theme)

	cfg := m.session.Config()
	cfg.Theme = m.theme
	if m.configPath != "" {
		if err := cfg.Save(m.configPath); err != nil {
			cmd := m.setError(err)
			return m, cmd
		}
	}
	cmd := m.setStatus("Theme: " + m.theme)
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	s := m.session
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		s.Scroll(-3)
	case tea.MouseButtonWheelDown:
		s.Scroll(3)
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
		line := msg.Y - 1 // below the header
		if line < 0 || line >= m.bodyHeight() {
			return m, nil
		}
		position := int(s.ScrollOffset()) + line
		rows := s.Rows()
		if position >= len(rows) {
			return m, nil
		}
		target := rows[position].NodeIndex
		if target == s.SelectedIndex() {
			s.Toggle(target)
		} else {
			s.Select(target)
		}
	}
	return m, nil
}

func (m *Model) setStatus(text string) tea.Cmd {
	m.status, m.statusErr = text, false
	return m.clearStatusAfter()
}

func (m *Model) setError(err error) tea.Cmd {
	m.status, m.statusErr = oneLine(errors.UserFriendlyError(err)), true
	return m.clearStatusAfter()
}

// clearStatusAfter returns a command that clears the status after a delay.
func (m *Model) clearStatusAfter() tea.Cmd {
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

func displaySource(source string) string {
	if source == "" {
		return "stdin"
	}
	return filepath.Base(source)
}

func oneLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}
