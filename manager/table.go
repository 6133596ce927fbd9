// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package manager

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/framegrace/vcore"
	"github.com/framegrace/vcore/cache"
	"github.com/framegrace/vcore/engine"
	"github.com/framegrace/vcore/geom"
	"github.com/framegrace/vcore/state"
)

// RowCells is the per-row cell set a TableManager tracks: column_index
// -> cell, built and reused by the row's own per-column Engine.
type RowCells[C vcore.Cell] map[vcore.Index]C

// TableManager drives a table container: a row-level Engine over
// rows_range, and, for each surviving row, a column-level Engine over
// columns_range. Rows themselves are cached in a
// parallel row cache so scrolling vertically doesn't discard a row's
// already-built cells.
type TableManager[C vcore.Cell] struct {
	helper   *geom.TableHelper
	rows     *engine.Engine[*rowCell[C]]
	factory  vcore.Factory
	colBound int
	items    RowItems
	log      *slog.Logger

	phase   Phase
	rowsOut map[vcore.Index]RowCells[C]

	scrollY, viewportH float64
	scrollX, viewportW float64

	guard guard
}

// RowItems supplies row items (one per row index) and, for a given row
// item, the column items within it.
type RowItems interface {
	Len() int
	Row(i vcore.Index) any
	Column(row vcore.Index, col vcore.Index) any
}

// rowCell wraps a per-row column Engine as a Cell so the row-level Engine
// can carry it through the ordinary intersection algorithm: moving a row
// means reusing its column Engine's cells wholesale, never rebuilding them.
type rowCell[C vcore.Cell] struct {
	id        vcore.Identity
	colEngine *engine.Engine[C]
	rowIndex  vcore.Index
}

func (r *rowCell[C]) Identity() uuid.UUID { return r.id.Identity() }

func (r *rowCell[C]) UpdateIndex(i vcore.Index) { r.rowIndex = i }

// UpdateItem fires when the row engine rebinds this row to a different
// row item. The column cells still hold the previous row's values, so
// the column engine is invalidated: the next column pass re-runs
// update_index/update_item on every cell instead of carrying them over
// untouched.
func (r *rowCell[C]) UpdateItem(item any) { r.colEngine.Invalidate() }

func (r *rowCell[C]) OnCache()   {}
func (r *rowCell[C]) OnDeCache() {}

func (r *rowCell[C]) Dispose() {
	for _, i := range r.colEngine.Map.Indices() {
		if cell, ok := r.colEngine.Map.Resolve(i); ok {
			cell.Dispose()
		}
	}
	r.colEngine.Cache.Clear()
}

// NewTableManager returns a TableManager over a fixed-width column
// layout. Use NewVariableTableManager for per-column widths.
func NewTableManager[C vcore.Cell](items RowItems, factory vcore.Factory, rowCacheBound, colCacheBound, colCount int, rowExtent, rowSpacing, colExtent, colSpacing float64, buffer vcore.BufferSize, logger *slog.Logger) *TableManager[C] {
	if logger == nil {
		logger = slog.Default()
	}
	helper := geom.NewFixedTableHelper(items.Len(), colCount, rowExtent, rowSpacing, colExtent, colSpacing, buffer)
	m := &TableManager[C]{
		helper:   helper,
		factory:  factory,
		colBound: colCacheBound,
		items:    items,
		log:      logger,
		phase:    Uninitialized,
		rowsOut:  map[vcore.Index]RowCells[C]{},
	}
	m.rows = engine.New[*rowCell[C]](cache.New[*rowCell[C]](rowCacheBound), m.newRowCell)
	return m
}

// NewVariableTableManager returns a TableManager whose columns carry
// independent widths (geom.NewVariableTableHelper), for hosts that size
// columns from content rather than a single uniform width.
func NewVariableTableManager[C vcore.Cell](items RowItems, factory vcore.Factory, rowCacheBound, colCacheBound int, colWidths []float64, rowExtent, rowSpacing, colSpacing float64, buffer vcore.BufferSize, logger *slog.Logger) *TableManager[C] {
	if logger == nil {
		logger = slog.Default()
	}
	helper := geom.NewVariableTableHelper(items.Len(), colWidths, rowExtent, rowSpacing, colSpacing, buffer)
	m := &TableManager[C]{
		helper:   helper,
		factory:  factory,
		colBound: colCacheBound,
		items:    items,
		log:      logger,
		phase:    Uninitialized,
		rowsOut:  map[vcore.Index]RowCells[C]{},
	}
	m.rows = engine.New[*rowCell[C]](cache.New[*rowCell[C]](rowCacheBound), m.newRowCell)
	return m
}

// newRowCell builds one row's column Engine from the Manager's current
// factory and column cache bound, read live rather than captured at
// construction time, so SetFactory takes effect on every subsequently
// built row.
func (m *TableManager[C]) newRowCell(any) (vcore.Cell, error) {
	return &rowCell[C]{id: vcore.NewIdentity(), colEngine: engine.New[C](cache.New[C](m.colBound), m.factory)}, nil
}

func (m *TableManager[C]) Phase() Phase { return m.phase }

// Rows returns the currently materialized rows, keyed by row index, each
// mapping column index to its live cell.
func (m *TableManager[C]) Rows() map[vcore.Index]RowCells[C] { return m.rowsOut }

func (m *TableManager[C]) rowItemsFn() engine.Items {
	return func(i vcore.Index) any { return m.items.Row(i) }
}

// SetViewport notifies the Manager of a viewport size change and
// recomputes the row-level and, for every surviving row, the
// column-level transition.
func (m *TableManager[C]) SetViewport(ctx context.Context, width, height float64) error {
	m.viewportW, m.viewportH = width, height
	return m.apply(ctx, vcore.ChangeGeometry)
}

// apply runs a table transition under the reentrancy guard, coalescing
// bursts of notifications into one pass.
func (m *TableManager[C]) apply(ctx context.Context, kind vcore.ChangeKind) error {
	return m.guard.run(kind, func(k vcore.ChangeKind) error { return m.transition(ctx, k) })
}

// ScrollTo moves both axes to an absolute content-space position. The
// vertical axis clamps to MaxScroll; the horizontal axis only clamps to
// zero, since TableHelper exposes no single MaxScroll in variable mode
// (the column prefix sum has no fixed stride) — callers clamp against
// VirtualMax-ish bounds of their own choosing via ColumnRange feedback.
func (m *TableManager[C]) ScrollTo(ctx context.Context, x, y float64) error {
	maxY := m.helper.Rows.MaxScroll(m.viewportH)
	if y < 0 {
		y = 0
	}
	if y > maxY {
		y = maxY
	}
	if x < 0 {
		x = 0
	}
	m.scrollX, m.scrollY = x, y
	return m.apply(ctx, vcore.ChangePosition)
}

func (m *TableManager[C]) transition(ctx context.Context, kind vcore.ChangeKind) error {
	rowRange := m.helper.RowRange(m.scrollY, m.viewportH)
	m.log.DebugContext(ctx, "vcore table transition", "kind", kind.String(), "rowRange", rowRange)

	var (
		s   state.State[*rowCell[C]]
		err error
	)
	if kind == vcore.ChangeFactory {
		s, err = m.rebuildRows(rowRange)
	} else {
		s, err = m.rows.Transition(m.rowItemsFn(), rowRange)
	}
	if err != nil {
		m.log.WarnContext(ctx, "vcore table row transition failed", "error", err)
		return err
	}
	if bad := validateState(s); bad != nil {
		m.log.WarnContext(ctx, "vcore table row state inconsistency recovered", "error", bad)
		StateInconsistencies++
		m.rows.Invalidate()
		return m.apply(ctx, vcore.ChangeOther)
	}

	colRange := m.helper.ColumnRange(m.scrollX, m.viewportW)
	next := map[vcore.Index]RowCells[C]{}
	for rowIdx, rc := range s.Cells {
		colItems := func(c vcore.Index) any { return m.items.Column(rowIdx, c) }
		if _, err := rc.colEngine.Transition(colItems, colRange); err != nil {
			m.log.WarnContext(ctx, "vcore table column transition failed", "row", rowIdx, "error", err)
			return err
		}
		row := RowCells[C]{}
		for _, ci := range rc.colEngine.Map.Indices() {
			if cell, ok := rc.colEngine.Map.Resolve(ci); ok {
				row[ci] = cell
			}
		}
		next[rowIdx] = row
	}
	m.rowsOut = next

	if rowRange.IsValid() && colRange.IsValid() {
		m.phase = Ready
	} else {
		m.phase = Empty
	}
	return nil
}

// rebuildRows handles a factory swap: every row and all of its column
// cells are built fresh through m.newRowCell (which reads m.factory
// live) before any old cell is touched, so a failing factory leaves the
// published rows completely intact. Only once every build has succeeded
// are the old rows disposed, the row cache cleared, and the replacement
// adopted.
func (m *TableManager[C]) rebuildRows(rowRange vcore.IntegerRange) (state.State[*rowCell[C]], error) {
	colRange := m.helper.ColumnRange(m.scrollX, m.viewportW)
	fresh := state.New[*rowCell[C]]()
	var built []*rowCell[C]
	if rowRange.IsValid() {
		for _, ri := range rowRange.Indices() {
			rowItem := m.items.Row(ri)
			cell, err := m.newRowCell(rowItem)
			if err != nil {
				for _, b := range built {
					b.Dispose()
				}
				return state.State[*rowCell[C]]{}, err
			}
			rc := cell.(*rowCell[C])
			rc.rowIndex = ri
			colItems := func(c vcore.Index) any { return m.items.Column(ri, c) }
			if _, err := rc.colEngine.Transition(colItems, colRange); err != nil {
				rc.Dispose()
				for _, b := range built {
					b.Dispose()
				}
				return state.State[*rowCell[C]]{}, err
			}
			built = append(built, rc)
			fresh.Put(ri, rowItem, rc)
		}
	}

	for _, rc := range stateCellsSnapshot(m.rows) {
		rc.Dispose()
	}
	m.rows.Cache.Clear()
	m.rows.Adopt(fresh, rowRange)
	return fresh.Snapshot(rowRange, true), nil
}

// Position returns the content-space (x, y) origin of cell (row, col).
func (m *TableManager[C]) Position(row, col vcore.Index) (x, y float64) {
	return m.helper.Position(row, col)
}

// RowHeight returns the uniform row extent.
func (m *TableManager[C]) RowHeight() float64 { return m.helper.Rows.CellExtent() }

// ColumnWidth returns the width of column col.
func (m *TableManager[C]) ColumnWidth(col vcore.Index) float64 {
	return m.helper.ColumnWidth(col)
}

// ScrollX returns the current horizontal scroll offset.
func (m *TableManager[C]) ScrollX() float64 { return m.scrollX }

// ScrollY returns the current vertical scroll offset.
func (m *TableManager[C]) ScrollY() float64 { return m.scrollY }

// ViewportW returns the current viewport width.
func (m *TableManager[C]) ViewportW() float64 { return m.viewportW }

// ViewportH returns the current viewport height.
func (m *TableManager[C]) ViewportH() float64 { return m.viewportH }

// MaxScrollY returns the maximum vertical scroll offset for the current
// viewport.
func (m *TableManager[C]) MaxScrollY() float64 { return m.helper.Rows.MaxScroll(m.viewportH) }

// VirtualMaxY returns the total content height across all rows.
func (m *TableManager[C]) VirtualMaxY() float64 { return m.helper.Rows.VirtualMax() }

// CanScrollUp reports whether the vertical scroll can move toward the top.
func (m *TableManager[C]) CanScrollUp() bool { return m.scrollY > 0 }

// CanScrollDown reports whether the vertical scroll can move toward the bottom.
func (m *TableManager[C]) CanScrollDown() bool {
	return m.scrollY < m.helper.Rows.MaxScroll(m.viewportH)
}

// SetColumnWidth resizes one column in variable layout mode. This is
// layout-only: positions move but the materialized cell
// set is unaffected, so no transition runs.
func (m *TableManager[C]) SetColumnWidth(col int, width float64) {
	m.helper.SetColumnWidth(col, width)
}

// SetFactory replaces the cell factory used to build column cells.
// Every live row is
// rebuilt from scratch — disposing its old column cells and building
// fresh ones through the new factory — and the row cache is discarded,
// since cached rows' column cells were built by the old factory.
func (m *TableManager[C]) SetFactory(ctx context.Context, factory vcore.Factory) error {
	m.factory = factory
	return m.apply(ctx, vcore.ChangeFactory)
}

// SetBuffer notifies the Manager of a buffer-size policy change,
// applied to the row and column windows alike. A negative buffer is
// rejected with KindInvalidConfiguration and leaves state untouched.
func (m *TableManager[C]) SetBuffer(ctx context.Context, buffer vcore.BufferSize) error {
	if buffer.Int() < 0 {
		return vcore.NewError("TableManager.SetBuffer", vcore.KindInvalidConfiguration, nil)
	}
	m.helper.SetBuffer(buffer)
	return m.apply(ctx, vcore.ChangeGeometry)
}

// SetItemCount notifies the Manager of a new row count.
func (m *TableManager[C]) SetItemCount(ctx context.Context, n int) error {
	m.helper.Rows.SetCount(n)
	return m.apply(ctx, vcore.ChangeItemsReplaced)
}

// AddColumn inserts one column at position k, propagating into every
// currently materialized row's column Engine via Reindex rather than
// rebuilding the row. In fixed-width mode, where every column shares one width,
// k is ignored and the column is appended; width is ignored there too.
// Off-screen rows held only in the row cache are disposed rather than
// reindexed, since their column Engines would otherwise carry stale
// index bookkeeping the next time they are reused.
func (m *TableManager[C]) AddColumn(ctx context.Context, k vcore.Index, width float64) error {
	if m.helper.Fixed() {
		m.helper.SetColumnCount(m.helper.ColumnCount() + 1)
		k = vcore.Index(m.helper.ColumnCount() - 1)
	} else if !m.helper.InsertColumn(int(k), width) {
		return vcore.NewError("TableManager.AddColumn", vcore.KindInvalidConfiguration, nil)
	}
	remap := engine.ShiftAdded(k, 1)
	for _, rc := range stateCellsSnapshot(m.rows) {
		rowIdx := rc.rowIndex
		rc.colEngine.Reindex(func(c vcore.Index) any { return m.items.Column(rowIdx, c) }, remap)
	}
	m.rows.Cache.Clear()
	return m.apply(ctx, vcore.ChangeGeometry)
}

// RemoveColumn removes the column at position k, propagating into every
// currently materialized row's column Engine the same way AddColumn
// does. In fixed-width mode k is ignored and the last column is removed.
func (m *TableManager[C]) RemoveColumn(ctx context.Context, k vcore.Index) error {
	if m.helper.Fixed() {
		n := m.helper.ColumnCount()
		if n <= 0 {
			return vcore.NewError("TableManager.RemoveColumn", vcore.KindInvalidConfiguration, nil)
		}
		k = vcore.Index(n - 1)
		m.helper.SetColumnCount(n - 1)
	} else if !m.helper.RemoveColumn(int(k)) {
		return vcore.NewError("TableManager.RemoveColumn", vcore.KindInvalidConfiguration, nil)
	}
	remap := engine.ShiftRemoved([]vcore.Index{k})
	for _, rc := range stateCellsSnapshot(m.rows) {
		rowIdx := rc.rowIndex
		rc.colEngine.Reindex(func(c vcore.Index) any { return m.items.Column(rowIdx, c) }, remap)
	}
	m.rows.Cache.Clear()
	return m.apply(ctx, vcore.ChangeGeometry)
}

// Invalidate forces a full rebuild of every currently materialized row
// and column, reusing live cells rather than disposing them.
func (m *TableManager[C]) Invalidate(ctx context.Context) error {
	m.rows.Invalidate()
	for _, rc := range stateCellsSnapshot(m.rows) {
		rc.colEngine.Invalidate()
	}
	return m.apply(ctx, vcore.ChangeOther)
}

func stateCellsSnapshot[C vcore.Cell](e *engine.Engine[*rowCell[C]]) []*rowCell[C] {
	var out []*rowCell[C]
	for _, i := range e.Map.Indices() {
		if cell, ok := e.Map.Resolve(i); ok {
			out = append(out, cell)
		}
	}
	return out
}
