package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/unfold/internal/app"
	"github.com/mcncl/unfold/internal/config"
	"github.com/mcncl/unfold/internal/flatten"
	"github.com/mcncl/unfold/internal/parser"
)

// Node numbering: 0 root, 1 users, 2 users[0], 3 name, 4 email, 5 users[1],
// 6 name, 7 email, 8 count.
const usersJSON = `{
	"users": [
		{"name": "ada", "email": "ada@x.io"},
		{"name": "bob", "email": "bob@x.io"}
	],
	"count": 2
}`

type fakeClipboard struct {
	text string
	err  error
}

func (f *fakeClipboard) WriteAll(text string) error {
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}

func newTestModel(t *testing.T, opts ...Option) (Model, *fakeClipboard) {
	t.Helper()
	doc, err := parser.ParseString(usersJSON)
	require.NoError(t, err)

	session := app.New(config.NewConfig())
	session.Load(doc)

	clip := &fakeClipboard{}
	m := New(session, append([]Option{WithClipboard(clip)}, opts...)...)
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 12})
	return m, clip
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m = update(t, m, keyMsg(k))
	}
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestModel_WindowSize(t *testing.T) {
	m, _ := newTestModel(t)

	assert.Equal(t, 80, m.width)
	assert.Equal(t, 10, m.bodyHeight())
	assert.Equal(t, float64(10), m.session.ViewportHeight())
}

func TestModel_Navigation(t *testing.T) {
	m, _ := newTestModel(t)
	require.Equal(t, 1, m.session.SelectedIndex())

	m = press(t, m, "j")
	assert.Equal(t, 8, m.session.SelectedIndex())

	m = press(t, m, "k", "enter")
	assert.Equal(t, 1, m.session.SelectedIndex())
	assert.Len(t, m.session.Rows(), 4, "users expanded shows both items")

	m = press(t, m, "G")
	assert.Equal(t, 8, m.session.SelectedIndex())

	m = press(t, m, "g")
	assert.Equal(t, 1, m.session.SelectedIndex())
}

func TestModel_ExpandCollapseKeys(t *testing.T) {
	m, _ := newTestModel(t)

	// right on a collapsed container expands it, a second time steps in
	m = press(t, m, "l")
	assert.Len(t, m.session.Rows(), 4)
	m = press(t, m, "l")
	assert.Equal(t, 2, m.session.SelectedIndex())

	// left on a collapsed container goes to the parent, then collapses it
	m = press(t, m, "h")
	assert.Equal(t, 1, m.session.SelectedIndex())
	m = press(t, m, "h")
	assert.Len(t, m.session.Rows(), 2)

	m = press(t, m, "E")
	assert.Len(t, m.session.Rows(), 8)
	m = press(t, m, "C")
	assert.Len(t, m.session.Rows(), 2)
}

func TestModel_Search(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, "/")
	assert.Equal(t, modeSearch, m.mode)

	m = typeText(t, m, "bob")
	assert.Equal(t, "1/2", m.session.MatchStatus(), "searches while typing")
	assert.Equal(t, 6, m.session.SelectedIndex())

	m = press(t, m, "enter")
	assert.Equal(t, modeNormal, m.mode)

	m = press(t, m, "n")
	assert.Equal(t, 7, m.session.SelectedIndex())
	m = press(t, m, "n")
	assert.Equal(t, 6, m.session.SelectedIndex(), "wraps around")
	m = press(t, m, "N")
	assert.Equal(t, 7, m.session.SelectedIndex())

	m = press(t, m, "esc")
	assert.Equal(t, "", m.session.MatchStatus())
}

func TestModel_SearchEscapeClears(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, "/")
	m = typeText(t, m, "ada")
	require.Equal(t, "1/2", m.session.MatchStatus())

	m = press(t, m, "esc")
	assert.Equal(t, modeNormal, m.mode)
	assert.Equal(t, "", m.session.MatchStatus())
}

func TestModel_GoToPath(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, ":")
	require.Equal(t, modeGoto, m.mode)
	assert.Equal(t, "users", m.input.Value(), "prefilled with the selected path")

	m.input.SetValue("users[1].email")
	m = press(t, m, "enter")
	assert.Equal(t, modeNormal, m.mode)
	assert.Equal(t, 7, m.session.SelectedIndex())
	assert.False(t, m.statusErr)
}

func TestModel_GoToPathError(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, ":")
	m.input.SetValue("users[9]")
	m = press(t, m, "enter")

	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "users[9]")
	assert.Equal(t, 1, m.session.SelectedIndex())
}

func TestModel_Copy(t *testing.T) {
	m, clip := newTestModel(t)

	m = press(t, m, "p")
	assert.Equal(t, "users", clip.text)

	m = press(t, m, "m")
	assert.Equal(t, `[{"name":"ada","email":"ada@x.io"},{"name":"bob","email":"bob@x.io"}]`, clip.text)

	m = press(t, m, "j", "y")
	assert.Equal(t, "2", clip.text)

	m = press(t, m, "K")
	assert.Equal(t, "count", clip.text)
	assert.Contains(t, m.status, "Copied key")
}

func TestModel_CopyFailure(t *testing.T) {
	m, clip := newTestModel(t)
	clip.err = errors.New("no display")

	m = press(t, m, "p")

	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "no display")
}

func TestModel_Export(t *testing.T) {
	m, _ := newTestModel(t)
	target := filepath.Join(t.TempDir(), "users.json")

	m = press(t, m, "x")
	require.Equal(t, modeExport, m.mode)
	assert.Equal(t, "users.json", m.input.Value())

	m.input.SetValue(target)
	m = press(t, m, "enter")
	require.False(t, m.statusErr, m.status)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "[\n"))
}

func TestModel_ToggleTheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	m, _ := newTestModel(t, WithConfigPath(path))
	require.Equal(t, config.ThemeDark, m.theme)

	m = press(t, m, "t")
	assert.Equal(t, config.ThemeLight, m.theme)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config.ThemeLight, cfg.Theme)
}

func TestModel_MouseClick(t *testing.T) {
	m, _ := newTestModel(t)
	click := tea.MouseMsg{X: 4, Y: 2, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}

	m = update(t, m, click)
	assert.Equal(t, 8, m.session.SelectedIndex())

	// a second click on the selected container toggles it
	click.Y = 1
	m = update(t, m, click)
	require.Equal(t, 1, m.session.SelectedIndex())
	m = update(t, m, click)
	assert.Len(t, m.session.Rows(), 4)
}

func TestModel_Reload(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "enter", "j")
	require.Equal(t, 2, m.session.SelectedIndex())

	doc, err := parser.ParseString(`{"users": [{"name": "cy"}], "count": 1}`)
	require.NoError(t, err)
	m = update(t, m, ReloadMsg{Document: doc})

	assert.Equal(t, "users[0]", m.session.CopyPath(), "selection survives by path")
	assert.Contains(t, m.status, "Reloaded")

	m = update(t, m, ReloadErrorMsg{Err: errors.New("boom")})
	assert.True(t, m.statusErr)
	assert.Equal(t, "users[0]", m.session.CopyPath())
}

func TestModel_StaleStatusClear(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "p")
	require.NotEmpty(t, m.status)

	m = update(t, m, clearStatusMsg{seq: m.statusSeq - 1})
	assert.NotEmpty(t, m.status)

	m = update(t, m, clearStatusMsg{seq: m.statusSeq})
	assert.Empty(t, m.status)
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_View(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "enter")

	view := m.View()
	lines := strings.Split(view, "\n")
	assert.Len(t, lines, 12)
	assert.Contains(t, view, "9 nodes")
	assert.Contains(t, view, "├─ ")
	assert.Contains(t, view, "[0]")
	assert.Contains(t, view, "2 keys")
	assert.Contains(t, view, "[Aa]")
	assert.Contains(t, view, "[.*]")
}

func TestModel_MultilineValuesKeepLayout(t *testing.T) {
	doc, err := parser.ParseString(`{"a": "line1\nline2\nline3\nline4", "b": 1}`)
	require.NoError(t, err)
	session := app.New(config.NewConfig())
	session.Load(doc)
	m := New(session, WithClipboard(&fakeClipboard{}))
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 6})

	view := m.View()
	assert.Len(t, strings.Split(view, "\n"), 6)
	assert.Contains(t, view, `line1\nline2`)

	click := tea.MouseMsg{X: 4, Y: 2, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}
	m = update(t, m, click)
	assert.Equal(t, 2, m.session.SelectedIndex(), "second body line is the b row")
}

func TestModel_MultilineScalarRoot(t *testing.T) {
	doc, err := parser.ParseString(`"one\ntwo"`)
	require.NoError(t, err)
	session := app.New(config.NewConfig())
	session.Load(doc)
	m := New(session, WithClipboard(&fakeClipboard{}))
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 6})

	view := m.View()
	assert.Len(t, strings.Split(view, "\n"), 6)
	assert.Contains(t, view, `one\ntwo`)
}

func TestModel_HelpOverlay(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, "?")
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "go to top")

	m = press(t, m, "j")
	assert.False(t, m.showHelp)
	assert.Equal(t, 1, m.session.SelectedIndex(), "closing help swallows the key")
}

func TestChildCount(t *testing.T) {
	assert.Equal(t, "3 items", childCount(rowWith("[...]", 3)))
	assert.Equal(t, "1 item", childCount(rowWith("[...]", 1)))
	assert.Equal(t, "2 keys", childCount(rowWith("{...}", 2)))
}

func TestHumanSize(t *testing.T) {
	assert.Equal(t, "512 B", humanSize(512))
	assert.Equal(t, "1.5 KiB", humanSize(1536))
	assert.Equal(t, "2.0 MiB", humanSize(2*1024*1024))
}

func rowWith(display string, children int) flatten.FlatRow {
	return flatten.FlatRow{Display: display, Expandable: true, ChildCount: children}
}
