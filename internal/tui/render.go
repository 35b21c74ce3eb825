package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/mcncl/unfold/internal/analyzer"
	"github.com/mcncl/unfold/internal/flatten"
	"github.com/mcncl/unfold/internal/formatter"
	"github.com/mcncl/unfold/internal/tree"
	"github.com/mcncl/unfold/internal/window"
)

// View renders the header, the visible rows and the footer.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.help.FullHelpView(m.keys.FullHelp())
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteByte('\n')
	b.WriteString(m.bodyView())
	b.WriteByte('\n')
	b.WriteString(m.footerView())
	return b.String()
}

func (m Model) headerView() string {
	doc := m.session.Document()
	parts := []string{"unfold", displaySource(doc.Source)}
	if doc.Size > 0 {
		parts = append(parts, humanSize(doc.Size))
	}
	parts = append(parts,
		fmt.Sprintf("%d nodes", m.stats.Nodes),
		fmt.Sprintf("depth %d", m.stats.MaxDepth),
	)
	return m.styles.Header.Width(m.width).Render(truncate(strings.Join(parts, " · "), m.width-2))
}

func (m Model) bodyView() string {
	height := m.bodyHeight()
	lines := make([]string, 0, height)

	rows := m.session.VisibleRows()
	if len(m.session.Rows()) == 0 {
		lines = append(lines, m.emptyView())
	}

	top := int(m.session.ScrollOffset())
	viewport := window.Range{Start: top, End: top + height}
	for _, row := range rows {
		// the window carries buffer rows beyond the viewport
		if !viewport.Contains(row.Position) {
			continue
		}
		lines = append(lines, m.renderRow(row))
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// emptyView describes a document without rows: a scalar or an empty
// container at the root.
func (m Model) emptyView() string {
	root, ok := m.session.Tree().RootNode()
	if !ok {
		return m.styles.Muted.Render("(no document)")
	}
	switch root.Value.Kind {
	case tree.KindObject:
		return m.styles.Muted.Render("(empty object)")
	case tree.KindArray:
		return m.styles.Muted.Render("(empty array)")
	case tree.KindString:
		return m.styles.String.Render(`"` + formatter.EscapeControl(root.Value.Str) + `"`)
	default:
		return m.styles.Bracket.Render(root.Value.Text())
	}
}

func (m Model) renderRow(row flatten.FlatRow) string {
	s := m.styles
	label := row.Label()

	labelStyle := s.Key
	if !row.HasKey {
		labelStyle = s.Muted
	}
	if m.session.IsMatch(row.NodeIndex) {
		labelStyle = s.Match
		if current, ok := m.session.Search().Current(); ok && current == row.NodeIndex {
			labelStyle = s.Current
		}
	}

	used := runewidth.StringWidth(row.Prefix) + runewidth.StringWidth(label)

	var value string
	switch {
	case row.Display == ":":
		value = s.Bracket.Render(":")
	case row.Expandable:
		count := s.Muted.Render(" " + childCount(row))
		value = ": " + s.Bracket.Render(row.Display) + count
	default:
		avail := m.width - used - 2
		display := row.Display
		if avail > 0 {
			display = runewidth.Truncate(display, avail, "…")
		}
		value = ": " + s.ForCategory(row.Category).Render(display)
	}

	line := s.Guide.Render(row.Prefix) + labelStyle.Render(label) + value
	if row.NodeIndex == m.session.SelectedIndex() {
		return s.Selected.Width(m.width).Render(line)
	}
	return line
}

func childCount(row flatten.FlatRow) string {
	noun := "items"
	if strings.HasPrefix(row.Display, "{") {
		noun = "keys"
	}
	if row.ChildCount == 1 {
		noun = strings.TrimSuffix(noun, "s")
	}
	return fmt.Sprintf("%d %s", row.ChildCount, noun)
}

func (m Model) footerView() string {
	s := m.styles
	if m.mode != modeNormal {
		return s.Status.Width(m.width).Render(m.input.View())
	}

	right := m.searchIndicator()
	rightWidth := lipgloss.Width(right)
	leftWidth := max(0, m.width-rightWidth-2)

	var left string
	switch {
	case m.status != "" && m.statusErr:
		left = s.Error.Render(truncate(m.status, leftWidth))
	case m.status != "":
		left = s.Status.Render(truncate(m.status, leftWidth))
	default:
		left = s.Status.Render(truncate(m.selectionSummary(), leftWidth))
	}

	gap := max(0, m.width-lipgloss.Width(left)-rightWidth)
	return left + s.Status.Padding(0).Render(strings.Repeat(" ", gap)) + right
}

// selectionSummary is the path of the selection, plus its format when
// one is recognized.
func (m Model) selectionSummary() string {
	row, ok := m.session.Selected()
	if !ok {
		return "? for help"
	}
	summary := row.Path
	if f := m.session.SelectedFormat(); f != analyzer.FormatNone {
		summary += " · " + string(f)
	}
	return summary
}

func (m Model) searchIndicator() string {
	s := m.styles
	opts := m.session.SearchOptions()

	toggle := func(label string, on bool) string {
		if on {
			return s.ToggleOn.Render(label)
		}
		return s.Toggle.Render(label)
	}

	parts := []string{}
	if status := m.session.MatchStatus(); status != "" {
		style := s.Muted
		if m.session.Search().Err() != nil {
			style = s.Error.Padding(0)
		}
		parts = append(parts, style.Render(status))
	}
	parts = append(parts, toggle("[Aa]", opts.CaseSensitive), toggle("[.*]", opts.UseRegex))
	return strings.Join(parts, " ") + " "
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

func humanSize(n int) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := unit, 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGT"[exp])
}
