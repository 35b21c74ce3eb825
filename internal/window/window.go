// Package window computes which flattened rows overlap the viewport.
//
// The arithmetic never looks at the tree, only at row counts and scroll
// geometry, so the per-frame cost does not depend on document size.
package window

import "math"

// Params describes the scroll state. Offsets and heights share one unit
// (pixels in a GUI, terminal lines in the TUI).
type Params struct {
	TotalRows      int
	ScrollOffset   float64
	ViewportHeight float64
	RowHeight      float64
	BufferRows     int
}

// Range is the half-open row interval [Start, End) to materialize.
type Range struct {
	Start int
	End   int
}

// Len returns the number of rows in the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Contains reports whether position falls inside the range.
func (r Range) Contains(position int) bool {
	return position >= r.Start && position < r.End
}

// Compute returns the rows to render:
//
//	first = floor(offset / rowHeight)
//	count = ceil(viewport / rowHeight) + 1
//	start = max(0, first - buffer)
//	end   = min(total, first + count + buffer)
func Compute(p Params) Range {
	if p.TotalRows <= 0 || p.RowHeight <= 0 {
		return Range{}
	}
	offset := math.Max(0, p.ScrollOffset)
	viewport := math.Max(0, p.ViewportHeight)
	buffer := max(0, p.BufferRows)

	first := int(math.Floor(offset / p.RowHeight))
	count := int(math.Ceil(viewport/p.RowHeight)) + 1

	start := max(0, first-buffer)
	end := min(p.TotalRows, first+count+buffer)
	if start > end {
		start = end
	}
	return Range{Start: start, End: end}
}

// Slice returns rows[r.Start:r.End], clamped to the slice bounds.
func Slice[T any](rows []T, r Range) []T {
	start := min(max(0, r.Start), len(rows))
	end := min(max(start, r.End), len(rows))
	return rows[start:end]
}

// MaxOffset is the largest scroll offset that still shows the last row at
// the bottom of the viewport.
func MaxOffset(totalRows int, viewportHeight, rowHeight float64) float64 {
	return math.Max(0, float64(totalRows)*rowHeight-viewportHeight)
}
