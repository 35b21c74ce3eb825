// Package app holds the state of one viewing session: the tree, its
// flattened rows, the selection, scroll geometry and search. Front ends
// drive it with discrete events and render what it exposes.
package app

import (
	stderrors "errors"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/mcncl/unfold/internal/analyzer"
	"github.com/mcncl/unfold/internal/config"
	"github.com/mcncl/unfold/internal/errors"
	"github.com/mcncl/unfold/internal/flatten"
	"github.com/mcncl/unfold/internal/formatter"
	"github.com/mcncl/unfold/internal/logging"
	"github.com/mcncl/unfold/internal/models"
	"github.com/mcncl/unfold/internal/navigation"
	"github.com/mcncl/unfold/internal/search"
	"github.com/mcncl/unfold/internal/tree"
	"github.com/mcncl/unfold/internal/window"
)

// Session is the explicit application state. It is not safe for
// concurrent use; every method runs to completion on the caller's goroutine.
type Session struct {
	cfg       *config.Config
	formatter *formatter.Formatter
	log       *logrus.Entry

	doc       models.Document
	tree      *tree.Tree
	rows      []flatten.FlatRow
	positions flatten.Positions

	selected int // node index, -1 when nothing is selected

	scrollOffset   float64
	viewportHeight float64
	rowHeight      float64

	search     *search.Session
	searchOpts search.Options
}

// New creates an empty session configured by cfg.
func New(cfg *config.Config) *Session {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	f := formatter.NewFormatter()
	if cfg.Export.Indent != "" {
		f.Indent = cfg.Export.Indent
	}
	return &Session{
		cfg:        cfg,
		formatter:  f,
		log:        logging.For("app"),
		tree:       tree.New(),
		selected:   -1,
		rowHeight:  1,
		search:     search.NewSession(),
		searchOpts: search.Options{CaseSensitive: cfg.Search.CaseSensitive, UseRegex: cfg.Search.Regex},
	}
}

// Load replaces the document. Node indices from the previous document are
// invalid afterwards.
func (s *Session) Load(doc models.Document) {
	s.doc = doc
	s.tree = tree.Build(doc.Root)
	s.tree.SetExpanded(s.tree.Root(), true)
	s.applyInitialExpansion()
	s.selected = -1
	s.refresh()

	if len(s.rows) > 0 {
		s.selected = s.rows[0].NodeIndex
	}
	s.scrollOffset = 0

	if s.search.Query() != "" {
		s.search.Rerun(s.tree)
	}
	s.log.WithFields(logrus.Fields{
		"source": doc.Source,
		"nodes":  s.tree.Len(),
		"rows":   len(s.rows),
	}).Debug("document loaded")
}

// Reload replaces the document but keeps expanded containers, the
// selection and the scroll position wherever their paths still exist.
func (s *Session) Reload(doc models.Document) {
	var expanded []string
	for _, r := range s.rows {
		if r.Expanded {
			expanded = append(expanded, r.Path)
		}
	}
	selectedPath := s.CopyPath()
	offset := s.scrollOffset

	s.Load(doc)

	for _, path := range expanded {
		if index, err := navigation.Resolve(s.tree, path); err == nil {
			s.tree.SetExpanded(index, true)
		}
	}
	s.refresh()

	if selectedPath != "" {
		if index, err := navigation.Resolve(s.tree, selectedPath); err == nil {
			if _, visible := s.positions.Of(index); visible {
				s.selected = index
			}
		}
	}
	s.setScroll(offset)
	s.log.WithField("restored", len(expanded)).Debug("document reloaded")
}

func (s *Session) applyInitialExpansion() {
	if depth := s.cfg.View.ExpandDepth; depth > 0 {
		s.tree.Walk(func(index int, n tree.Node) bool {
			if n.IsContainer() && n.Depth <= depth {
				s.tree.SetExpanded(index, true)
			}
			return true
		})
	}

	if len(s.cfg.View.AutoExpand) == 0 {
		return
	}
	// Expanding a match can reveal deeper matches, so repeat until stable
	for changed := true; changed; {
		changed = false
		for _, r := range flatten.Flatten(s.tree) {
			if r.Expandable && !r.Expanded && s.cfg.ShouldAutoExpand(r.Path) {
				s.tree.SetExpanded(r.NodeIndex, true)
				changed = true
			}
		}
	}
}

// refresh recomputes the rows after any structural change.
func (s *Session) refresh() {
	s.rows = flatten.Flatten(s.tree)
	s.positions = flatten.PositionsOf(s.rows)
	if s.selected >= 0 {
		if _, ok := s.positions.Of(s.selected); !ok {
			s.selected = s.nearestVisibleAncestor(s.selected)
		}
	}
	s.setScroll(s.scrollOffset)
}

func (s *Session) nearestVisibleAncestor(index int) int {
	path := s.tree.PathTo(index)
	for i := len(path) - 2; i >= 0; i-- {
		if _, ok := s.positions.Of(path[i]); ok {
			return path[i]
		}
	}
	if len(s.rows) > 0 {
		return s.rows[0].NodeIndex
	}
	return -1
}

// Document returns the loaded document.
func (s *Session) Document() models.Document { return s.doc }

// Tree returns the tree of the loaded document.
func (s *Session) Tree() *tree.Tree { return s.tree }

// Rows returns every visible row.
func (s *Session) Rows() []flatten.FlatRow { return s.rows }

// Config returns the session configuration.
func (s *Session) Config() *config.Config { return s.cfg }

// Toggle flips a container open or closed.
func (s *Session) Toggle(nodeIndex int) {
	s.tree.ToggleExpanded(nodeIndex)
	s.refresh()
}

// ToggleSelected flips the selected container.
func (s *Session) ToggleSelected() {
	if s.selected >= 0 {
		s.Toggle(s.selected)
	}
}

// ExpandSelected opens the selected container and everything below it.
func (s *Session) ExpandSelected() {
	if s.selected >= 0 {
		s.tree.ExpandSubtree(s.selected)
		s.refresh()
	}
}

// CollapseSelected closes the selected container and everything below it.
func (s *Session) CollapseSelected() {
	if s.selected >= 0 {
		s.tree.CollapseSubtree(s.selected)
		s.refresh()
	}
}

// ExpandAll opens every container.
func (s *Session) ExpandAll() {
	s.tree.ExpandSubtree(s.tree.Root())
	s.refresh()
}

// CollapseAll closes every container below the root.
func (s *Session) CollapseAll() {
	s.tree.CollapseSubtree(s.tree.Root())
	s.tree.SetExpanded(s.tree.Root(), true)
	s.refresh()
}

// Select makes a visible node the selection. Hidden or unknown nodes are
// ignored.
func (s *Session) Select(nodeIndex int) bool {
	if _, ok := s.positions.Of(nodeIndex); !ok {
		return false
	}
	s.selected = nodeIndex
	return true
}

// SelectedIndex returns the selected node index, or -1.
func (s *Session) SelectedIndex() int { return s.selected }

// Selected returns the selected row.
func (s *Session) Selected() (flatten.FlatRow, bool) {
	position, ok := s.selectedPosition()
	if !ok {
		return flatten.FlatRow{}, false
	}
	return s.rows[position], true
}

func (s *Session) selectedPosition() (int, bool) {
	if s.selected < 0 {
		return 0, false
	}
	return s.positions.Of(s.selected)
}

// MoveSelection moves the selection by delta rows, clamped to the rows, and
// scrolls just enough to keep it in view.
func (s *Session) MoveSelection(delta int) {
	if len(s.rows) == 0 {
		return
	}
	position, ok := s.selectedPosition()
	if !ok {
		position = 0
	} else {
		position += delta
	}
	position = min(max(position, 0), len(s.rows)-1)
	s.selected = s.rows[position].NodeIndex
	s.keepInView(position)
}

// SelectFirst selects the first row.
func (s *Session) SelectFirst() {
	s.MoveSelection(-len(s.rows))
}

// SelectLast selects the last row.
func (s *Session) SelectLast() {
	s.MoveSelection(len(s.rows))
}

// SelectParent moves the selection to the parent of the selected node.
func (s *Session) SelectParent() bool {
	path := s.tree.PathTo(s.selected)
	if len(path) < 3 {
		// top-level rows have only the root above them
		return false
	}
	parent := path[len(path)-2]
	s.selected = parent
	if position, ok := s.positions.Of(parent); ok {
		s.keepInView(position)
	}
	return true
}

func (s *Session) keepInView(position int) {
	top := float64(position) * s.rowHeight
	bottom := top + s.rowHeight
	switch {
	case top < s.scrollOffset:
		s.setScroll(top)
	case bottom > s.scrollOffset+s.viewportHeight:
		s.setScroll(bottom - s.viewportHeight)
	}
}

// Scroll moves the viewport by delta.
func (s *Session) Scroll(delta float64) {
	s.setScroll(s.scrollOffset + delta)
}

// ScrollTo moves the viewport to offset.
func (s *Session) ScrollTo(offset float64) {
	s.setScroll(offset)
}

func (s *Session) setScroll(offset float64) {
	limit := window.MaxOffset(len(s.rows), s.viewportHeight, s.rowHeight)
	s.scrollOffset = min(max(0, offset), limit)
}

// ScrollOffset returns the current scroll position.
func (s *Session) ScrollOffset() float64 { return s.scrollOffset }

// Resize sets the viewport geometry. A non-positive row height is ignored.
func (s *Session) Resize(viewportHeight, rowHeight float64) {
	s.viewportHeight = max(0, viewportHeight)
	if rowHeight > 0 {
		s.rowHeight = rowHeight
	}
	s.setScroll(s.scrollOffset)
}

// ViewportHeight returns the current viewport height.
func (s *Session) ViewportHeight() float64 { return s.viewportHeight }

// Window returns the range of rows to materialize, buffer included.
func (s *Session) Window() window.Range {
	return window.Compute(window.Params{
		TotalRows:      len(s.rows),
		ScrollOffset:   s.scrollOffset,
		ViewportHeight: s.viewportHeight,
		RowHeight:      s.rowHeight,
		BufferRows:     s.cfg.View.BufferRows,
	})
}

// VisibleRows returns the rows inside Window.
func (s *Session) VisibleRows() []flatten.FlatRow {
	return window.Slice(s.rows, s.Window())
}

// SetQuery runs a search. When it finds something the first match is
// selected, revealed and centered. An invalid regex keeps the previous
// results and is reported by SearchErr.
func (s *Session) SetQuery(query string) {
	target, ok := s.search.Update(s.tree, query, s.searchOpts)
	if err := s.search.Err(); err != nil {
		s.log.WithError(err).Debug("search failed")
		return
	}
	s.log.WithFields(logrus.Fields{
		"query":   query,
		"matches": s.search.Results().Len(),
	}).Debug("search finished")
	if ok {
		s.navigateTo(target)
	}
}

// ToggleCaseSensitive flips case sensitivity and reruns the query.
func (s *Session) ToggleCaseSensitive() {
	s.searchOpts.CaseSensitive = !s.searchOpts.CaseSensitive
	s.SetQuery(s.search.Query())
}

// ToggleRegex flips regex mode and reruns the query.
func (s *Session) ToggleRegex() {
	s.searchOpts.UseRegex = !s.searchOpts.UseRegex
	s.SetQuery(s.search.Query())
}

// SearchOptions returns the current search toggles.
func (s *Session) SearchOptions() search.Options { return s.searchOpts }

// NextMatch moves to the next match, wrapping around.
func (s *Session) NextMatch() bool {
	target, ok := s.search.Next()
	if ok {
		s.navigateTo(target)
	}
	return ok
}

// PrevMatch moves to the previous match, wrapping around.
func (s *Session) PrevMatch() bool {
	target, ok := s.search.Prev()
	if ok {
		s.navigateTo(target)
	}
	return ok
}

// ClearSearch drops the query and its results.
func (s *Session) ClearSearch() {
	s.search.Clear()
}

// Search exposes the search state for rendering.
func (s *Session) Search() *search.Session { return s.search }

// IsMatch reports whether a node is a current search result.
func (s *Session) IsMatch(nodeIndex int) bool {
	return s.search.Results().Contains(nodeIndex)
}

// MatchStatus describes the match counter, e.g. "3/12", "no matches" or
// the regex error.
func (s *Session) MatchStatus() string {
	if err := s.search.Err(); err != nil {
		var appErr *errors.AppError
		if stderrors.As(err, &appErr) {
			return appErr.Message
		}
		return err.Error()
	}
	switch s.search.State() {
	case search.StateFound:
		return fmt.Sprintf("%d/%d", s.search.Cursor()+1, s.search.Results().Len())
	case search.StateEmpty:
		return "no matches"
	default:
		return ""
	}
}

// GoToPath reveals, selects and centers the node named by an accessor path.
func (s *Session) GoToPath(path string) error {
	index, err := navigation.Resolve(s.tree, path)
	if err != nil {
		return err
	}
	if index == s.tree.Root() {
		s.SelectFirst()
		return nil
	}
	s.navigateTo(index)
	return nil
}

func (s *Session) navigateTo(target int) {
	if !navigation.Reveal(s.tree, target) {
		return
	}
	s.refresh()
	if !s.Select(target) {
		return
	}
	if offset, ok := navigation.ScrollOffsetFor(s.rows, target, s.viewportHeight, s.rowHeight); ok {
		s.setScroll(offset)
	}
}

// target returns the node copy and export act on: the selection, or the
// root when the document has no rows (a scalar or empty document).
func (s *Session) target() (int, bool) {
	if s.selected >= 0 {
		return s.selected, true
	}
	if s.tree.Len() > 0 {
		return s.tree.Root(), true
	}
	return 0, false
}

// CopyValue serializes the selected node in the given mode.
func (s *Session) CopyValue(mode formatter.Mode) (string, error) {
	index, ok := s.target()
	if !ok {
		return "", errors.NewOutputError("nothing to copy", errors.ErrNodeNotFound)
	}
	return s.formatter.Format(s.tree, index, mode)
}

// CopyName returns the key of the selected node, or its [i] index.
func (s *Session) CopyName() string {
	row, ok := s.Selected()
	if !ok {
		return ""
	}
	if row.HasKey {
		return row.Key
	}
	return row.Label()
}

// CopyPath returns the accessor path of the selected node.
func (s *Session) CopyPath() string {
	row, ok := s.Selected()
	if !ok {
		return ""
	}
	return row.Path
}

// ExportPath suggests where Export writes the selected node.
func (s *Session) ExportPath() string {
	name := formatter.SuggestFilename(s.CopyPath())
	if s.cfg.Export.Directory == "" {
		return name
	}
	return filepath.Join(s.cfg.Export.Directory, name)
}

// Export writes the selected node to path, or to ExportPath when path is
// empty, and returns the file written.
func (s *Session) Export(path string, mode formatter.Mode) (string, error) {
	if mode == formatter.ModeRaw {
		return "", errors.NewExportError("raw values cannot be exported as JSON", nil)
	}
	content, err := s.CopyValue(mode)
	if err != nil {
		return "", err
	}
	if path == "" {
		path = s.ExportPath()
	}
	if err := formatter.WriteFile(path, content); err != nil {
		return "", err
	}
	s.log.WithField("path", path).Info("exported node")
	return path, nil
}

// Stats summarizes the loaded document.
func (s *Session) Stats() analyzer.Stats {
	return analyzer.NewAnalyzerWithFormats(s.cfg.View.ShowFormats).Analyze(s.tree)
}

// SelectedFormat names the recognized format of the selected scalar.
func (s *Session) SelectedFormat() analyzer.Format {
	if !s.cfg.View.ShowFormats {
		return analyzer.FormatNone
	}
	n, ok := s.tree.Get(s.selected)
	if !ok {
		return analyzer.FormatNone
	}
	return analyzer.DetectFormat(n.Value)
}
