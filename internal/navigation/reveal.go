// Package navigation moves the view to a node: it expands the node's
// ancestors, works out the scroll offset that centers it and resolves
// accessor paths such as users[2].email back to nodes.
package navigation

import (
	"github.com/mcncl/unfold/internal/flatten"
	"github.com/mcncl/unfold/internal/tree"
)

// Reveal expands every ancestor of target so that it shows up in the
// flattened rows. The target's own expanded flag is left alone. It returns
// false when target is not reachable from the root.
func Reveal(t *tree.Tree, target int) bool {
	path := t.PathTo(target)
	if path == nil {
		return false
	}
	for _, ancestor := range path[:len(path)-1] {
		t.SetExpanded(ancestor, true)
	}
	return true
}

// ScrollOffsetFor returns the scroll offset that centers target in the
// viewport. The second result is false when target is not among rows, in
// which case the caller should leave the scroll position as it is.
func ScrollOffsetFor(rows []flatten.FlatRow, target int, viewportHeight, rowHeight float64) (float64, bool) {
	position, ok := flatten.IndexOf(rows, target)
	if !ok {
		return 0, false
	}
	return max(0, float64(position)*rowHeight-viewportHeight/2), true
}
