// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package geom

import (
	"github.com/mattn/go-runewidth"

	"github.com/framegrace/vcore"
)

// TableHelper computes row and column ranges for a table container.
// Columns operate in one of two modes:
//
//   - fixed: every column shares one uniform width, modeled by a plain Axis.
//   - variable: each column has its own width; positions are a prefix
//     sum over column widths, recomputed whenever any width changes.
//
// A change to column widths in variable mode is layout-only: it moves
// cells but never changes which indices are materialized, so it never
// triggers a cell rebuild.
type TableHelper struct {
	Rows *Axis

	fixed      bool
	fixedCols  *Axis
	colBuffer  vcore.BufferSize
	colWidths  []float64
	colSpacing float64
	colOffsets []float64
	colDirty   bool
}

// NewFixedTableHelper returns a TableHelper whose columns share one
// width. The buffer policy applies to rows and columns alike, the way
// GridHelper buffers both of its axes.
func NewFixedTableHelper(rowCount, colCount int, rowExtent, rowSpacing, colExtent, colSpacing float64, buffer vcore.BufferSize) *TableHelper {
	return &TableHelper{
		Rows:      NewAxis(rowCount, rowExtent, rowSpacing, buffer),
		fixed:     true,
		fixedCols: NewAxis(colCount, colExtent, colSpacing, buffer),
	}
}

// NewVariableTableHelper returns a TableHelper with a per-column width.
// colWidths supplies each column's width up front and SetColumnWidth
// updates one column later; no text is measured here (MeasureColumnWidth
// is the separate runewidth-aware helper for that).
func NewVariableTableHelper(rowCount int, colWidths []float64, rowExtent, rowSpacing, colSpacing float64, buffer vcore.BufferSize) *TableHelper {
	t := &TableHelper{
		Rows:       NewAxis(rowCount, rowExtent, rowSpacing, buffer),
		fixed:      false,
		colBuffer:  buffer,
		colWidths:  append([]float64(nil), colWidths...),
		colSpacing: colSpacing,
		colDirty:   true,
	}
	return t
}

// SetBuffer updates the buffer policy on both axes.
func (t *TableHelper) SetBuffer(b vcore.BufferSize) {
	t.Rows.SetBuffer(b)
	if t.fixed {
		t.fixedCols.SetBuffer(b)
	} else {
		t.colBuffer = b
	}
}

// MeasureColumnWidth returns the display width of a header label using
// runewidth, for callers that auto-size variable columns from content.
func MeasureColumnWidth(label string) float64 {
	return float64(runewidth.StringWidth(label))
}

// SetColumnWidth updates one column's width in variable mode. No-op and
// returns false in fixed mode.
func (t *TableHelper) SetColumnWidth(col int, width float64) bool {
	if t.fixed {
		return false
	}
	if col < 0 || col >= len(t.colWidths) {
		return false
	}
	if t.colWidths[col] == width {
		return false
	}
	t.colWidths[col] = width
	t.colDirty = true
	return true
}

// ColumnCount returns the number of columns.
func (t *TableHelper) ColumnCount() int {
	if t.fixed {
		return t.fixedCols.Count()
	}
	return len(t.colWidths)
}

// ColumnWidth returns the width of column c: the uniform extent in
// fixed mode, the per-column width in variable mode. Out-of-range
// columns report 0.
func (t *TableHelper) ColumnWidth(c vcore.Index) float64 {
	if t.fixed {
		if int(c) < 0 || int(c) >= t.fixedCols.Count() {
			return 0
		}
		return t.fixedCols.CellExtent()
	}
	if int(c) < 0 || int(c) >= len(t.colWidths) {
		return 0
	}
	return t.colWidths[c]
}

// Fixed reports whether this TableHelper is in fixed-column-width mode.
func (t *TableHelper) Fixed() bool { return t.fixed }

// SetColumnCount changes the number of columns in fixed mode, keeping
// the uniform column width. No-op and returns false in variable mode,
// where InsertColumn/RemoveColumn carry the per-column width instead.
func (t *TableHelper) SetColumnCount(n int) bool {
	if !t.fixed {
		return false
	}
	t.fixedCols.SetCount(n)
	return true
}

// InsertColumn inserts one column of the given width at position k in
// variable mode. No-op and returns false in fixed mode, where every
// column already shares SetColumnCount's uniform width.
func (t *TableHelper) InsertColumn(k int, width float64) bool {
	if t.fixed {
		return false
	}
	if k < 0 {
		k = 0
	}
	if k > len(t.colWidths) {
		k = len(t.colWidths)
	}
	t.colWidths = append(t.colWidths, 0)
	copy(t.colWidths[k+1:], t.colWidths[k:])
	t.colWidths[k] = width
	t.colDirty = true
	return true
}

// RemoveColumn removes the column at position k in variable mode.
// No-op and returns false in fixed mode or if k is out of range.
func (t *TableHelper) RemoveColumn(k int) bool {
	if t.fixed {
		return false
	}
	if k < 0 || k >= len(t.colWidths) {
		return false
	}
	t.colWidths = append(t.colWidths[:k], t.colWidths[k+1:]...)
	t.colDirty = true
	return true
}

func (t *TableHelper) ensureOffsets() {
	if !t.colDirty {
		return
	}
	t.colOffsets = make([]float64, len(t.colWidths))
	var pos float64
	for i, w := range t.colWidths {
		t.colOffsets[i] = pos
		pos += w + t.colSpacing
	}
	t.colDirty = false
}

// ColumnPosition returns the content-space x-origin of column c.
func (t *TableHelper) ColumnPosition(c vcore.Index) float64 {
	if t.fixed {
		return t.fixedCols.PositionOf(c)
	}
	t.ensureOffsets()
	if int(c) < 0 || int(c) >= len(t.colOffsets) {
		return 0
	}
	return t.colOffsets[c]
}

// ColumnRange returns the column range intersecting [scrollX, scrollX+viewportW],
// extended by the buffer on each side. In fixed mode this reuses
// Axis.Range; in variable mode it walks the prefix-sum offsets since
// strides are not uniform, then applies the same buffer expansion and
// edge-spill the uniform axis does.
func (t *TableHelper) ColumnRange(scrollX, viewportW float64) vcore.IntegerRange {
	if t.fixed {
		return t.fixedCols.Range(scrollX, viewportW)
	}
	t.ensureOffsets()
	n := len(t.colWidths)
	if n == 0 || viewportW <= 0 {
		return vcore.InvalidRange
	}
	visFirst, visLast := vcore.Index(-1), vcore.Index(-1)
	for i := 0; i < n; i++ {
		start := t.colOffsets[i]
		end := start + t.colWidths[i]
		if end > scrollX && start < scrollX+viewportW {
			if visFirst == -1 {
				visFirst = vcore.Index(i)
			}
			visLast = vcore.Index(i)
		}
	}
	if visFirst == -1 {
		return vcore.InvalidRange
	}
	maxIdx := vcore.Index(n - 1)
	first := visFirst - vcore.Index(t.colBuffer)
	last := visLast + vcore.Index(t.colBuffer)
	if first < 0 {
		last -= first
		first = 0
	}
	if last > maxIdx {
		first -= last - maxIdx
		last = maxIdx
	}
	if first < 0 {
		first = 0
	}
	return vcore.NewRange(first, last)
}

// RowRange returns the row range intersecting [scrollY, scrollY+viewportH].
func (t *TableHelper) RowRange(scrollY, viewportH float64) vcore.IntegerRange {
	return t.Rows.Range(scrollY, viewportH)
}

// Position returns the content-space origin of cell (row, col).
func (t *TableHelper) Position(row, col vcore.Index) (x, y float64) {
	return t.ColumnPosition(col), t.Rows.PositionOf(row)
}
