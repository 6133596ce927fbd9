// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package geom

import "github.com/framegrace/vcore"

// GridHelper computes row/column ranges for a 2-D container laid out in
// a fixed number of columns per row. The last row may be
// ragged: rows.count*columnsPerRow can exceed the item count, and
// GridManager excludes linear indices >= item count from the index set
// it hands the Engine.
type GridHelper struct {
	Rows          *Axis
	Cols          *Axis
	columnsPerRow int
}

// NewGridHelper returns a GridHelper for itemCount items arranged
// columnsPerRow to a row. Row count is derived as ceil(itemCount / columnsPerRow).
func NewGridHelper(itemCount, columnsPerRow int, rowExtent, rowSpacing, colExtent, colSpacing float64, buffer vcore.BufferSize) *GridHelper {
	g := &GridHelper{columnsPerRow: columnsPerRow}
	g.Rows = NewAxis(rowCount(itemCount, columnsPerRow), rowExtent, rowSpacing, buffer)
	g.Cols = NewAxis(columnsPerRow, colExtent, colSpacing, buffer)
	return g
}

func rowCount(itemCount, columnsPerRow int) int {
	if columnsPerRow <= 0 || itemCount <= 0 {
		return 0
	}
	return (itemCount + columnsPerRow - 1) / columnsPerRow
}

// SetItemCount recomputes row count for a new item count, keeping the
// current columns-per-row.
func (g *GridHelper) SetItemCount(itemCount int) {
	g.Rows.SetCount(rowCount(itemCount, g.columnsPerRow))
}

// SetColumnsPerRow changes the row layout. This is a ChangeGeometry
// event; since row count depends on both values, itemCount is passed in
// and the row count is recomputed here.
func (g *GridHelper) SetColumnsPerRow(n int, itemCount int) {
	g.columnsPerRow = n
	g.Cols.SetCount(n)
	g.Rows.SetCount(rowCount(itemCount, n))
}

// ColumnsPerRow returns the configured number of columns per row.
func (g *GridHelper) ColumnsPerRow() int { return g.columnsPerRow }

// LinearIndex maps a (row, col) coordinate to the flat item index.
func (g *GridHelper) LinearIndex(row, col vcore.Index) vcore.Index {
	return row*vcore.Index(g.columnsPerRow) + col
}

// RowColOf maps a flat item index back to its (row, col) coordinate.
func (g *GridHelper) RowColOf(i vcore.Index) (row, col vcore.Index) {
	if g.columnsPerRow <= 0 {
		return 0, 0
	}
	n := vcore.Index(g.columnsPerRow)
	return i / n, i % n
}

// RowRange returns the row range to materialize for a vertical scroll
// position and viewport height.
func (g *GridHelper) RowRange(scrollY, viewportH float64) vcore.IntegerRange {
	return g.Rows.Range(scrollY, viewportH)
}

// ColRange returns the column range to materialize for a horizontal
// scroll position and viewport width, computed independently of the
// row range by the same formula.
func (g *GridHelper) ColRange(scrollX, viewportW float64) vcore.IntegerRange {
	return g.Cols.Range(scrollX, viewportW)
}

// Position returns the content-space origin of a flat item index.
func (g *GridHelper) Position(i vcore.Index) (x, y float64) {
	row, col := g.RowColOf(i)
	return g.Cols.PositionOf(col), g.Rows.PositionOf(row)
}

// MaxScrollY returns the maximum vertical scroll offset for viewportH.
func (g *GridHelper) MaxScrollY(viewportH float64) float64 {
	return g.Rows.MaxScroll(viewportH)
}

// ScrollForIndex returns the vertical scroll offset placing i's row at
// the top of the viewport, clamped to [0, MaxScrollY(viewportH)].
func (g *GridHelper) ScrollForIndex(i vcore.Index, viewportH float64) float64 {
	row, _ := g.RowColOf(i)
	pos := g.Rows.PositionOf(row)
	max := g.Rows.MaxScroll(viewportH)
	if pos > max {
		return max
	}
	if pos < 0 {
		return 0
	}
	return pos
}
