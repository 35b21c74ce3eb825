package flatten

import "github.com/mcncl/unfold/internal/formatter"

// Category tags a row value for presentation only.
type Category int

const (
	CategoryNull Category = iota
	CategoryBool
	CategoryNumber
	CategoryString
	CategoryBracket
	CategoryKey
)

// FlatRow is one visible line of the tree with everything needed to draw
// it already computed. Rows only reference nodes by index.
type FlatRow struct {
	NodeIndex int
	// Prefix holds the tree-line glyphs, e.g. "│  ├─ ".
	Prefix string
	Key    string
	HasKey bool
	// Display is the value text: quoted strings, literals, ":" for an
	// expanded container or a "{...}" / "[...]" preview when collapsed.
	Display    string
	Category   Category
	Expandable bool
	Expanded   bool
	ChildCount int
	// Position is the zero-based row number, usable as a scroll unit.
	Position int
	// Path is the accessor for the node, e.g. users[2].email.
	Path string
}

// Label returns the key, or the "[i]" index segment for array items.
// Control characters in keys are escaped so the label fits on one line.
func (r FlatRow) Label() string {
	if r.HasKey {
		return formatter.EscapeControl(r.Key)
	}
	return lastIndexSegment(r.Path)
}

func lastIndexSegment(path string) string {
	if len(path) == 0 || path[len(path)-1] != ']' {
		return ""
	}
	for i := len(path) - 2; i >= 0; i-- {
		if path[i] == '[' {
			return path[i:]
		}
	}
	return ""
}

// IndexOf returns the row position of a node, or false when the node is
// not currently visible.
func IndexOf(rows []FlatRow, nodeIndex int) (int, bool) {
	for i := range rows {
		if rows[i].NodeIndex == nodeIndex {
			return rows[i].Position, true
		}
	}
	return 0, false
}

// Positions maps node indices to row positions for constant-time lookups.
type Positions map[int]int

// PositionsOf indexes rows by node.
func PositionsOf(rows []FlatRow) Positions {
	p := make(Positions, len(rows))
	for i := range rows {
		p[rows[i].NodeIndex] = rows[i].Position
	}
	return p
}

// Of returns the row position of a node, or false when it is not visible.
func (p Positions) Of(nodeIndex int) (int, bool) {
	position, ok := p[nodeIndex]
	return position, ok
}
