// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package manager

import (
	"context"
	"log/slog"

	"github.com/framegrace/vcore"
	"github.com/framegrace/vcore/cache"
	"github.com/framegrace/vcore/engine"
	"github.com/framegrace/vcore/geom"
	"github.com/framegrace/vcore/state"
)

// GridManager drives a 2-D container laid out columnsPerRow to a row.
// The row window and column window are computed independently, their
// product linearized to a flat index set, and the same
// Engine/intersection machinery as ListManager run over that set; the
// ragged last row (linear index >= item count) is excluded from the set
// outright, so no phantom cell is ever materialized.
type GridManager[C vcore.Cell] struct {
	helper *geom.GridHelper
	eng    *engine.Engine[C]
	items  Items
	log    *slog.Logger

	phase   Phase
	current state.State[C]

	scrollY   float64
	viewportW float64
	viewportH float64

	guard guard
}

// NewGridManager returns a GridManager for itemCount items, columnsPerRow
// to a row, with per-row height rowExtent and per-column width colExtent.
func NewGridManager[C vcore.Cell](items Items, factory vcore.Factory, cacheBound, columnsPerRow int, rowExtent, rowSpacing, colExtent, colSpacing float64, buffer vcore.BufferSize, logger *slog.Logger) *GridManager[C] {
	if logger == nil {
		logger = slog.Default()
	}
	return &GridManager[C]{
		helper: geom.NewGridHelper(items.Len(), columnsPerRow, rowExtent, rowSpacing, colExtent, colSpacing, buffer),
		eng:    engine.New[C](cache.New[C](cacheBound), factory),
		items:  items,
		log:    logger,
		phase:  Uninitialized,
	}
}

func (m *GridManager[C]) State() state.State[C] { return m.current }
func (m *GridManager[C]) Phase() Phase          { return m.phase }

func (m *GridManager[C]) itemsFn() engine.Items {
	return func(i vcore.Index) any { return m.items.At(i) }
}

// linearSet returns the ascending linear indices the current viewport
// materializes — the row window times the column window, with the
// ragged last row's out-of-bounds indices excluded — plus the enclosing
// bounds. The column window is anchored at the left edge: a grid
// scrolls along rows, not columns.
func (m *GridManager[C]) linearSet() ([]vcore.Index, vcore.IntegerRange) {
	rowRange := m.helper.RowRange(m.scrollY, m.viewportH)
	colRange := m.helper.ColRange(0, m.viewportW)
	if !rowRange.IsValid() || !colRange.IsValid() {
		return nil, vcore.InvalidRange
	}
	n := vcore.Index(m.items.Len())
	var indices []vcore.Index
	for _, r := range rowRange.Indices() {
		for _, c := range colRange.Indices() {
			if i := m.helper.LinearIndex(r, c); i < n {
				indices = append(indices, i)
			}
		}
	}
	if len(indices) == 0 {
		return nil, vcore.InvalidRange
	}
	return indices, vcore.NewRange(indices[0], indices[len(indices)-1])
}

func (m *GridManager[C]) runOnce(ctx context.Context, kind vcore.ChangeKind) error {
	indices, bounds := m.linearSet()
	m.log.DebugContext(ctx, "vcore grid transition", "kind", kind.String(), "range", bounds, "cells", len(indices))

	var (
		s   state.State[C]
		err error
	)
	switch kind {
	case vcore.ChangeFactory:
		s, err = m.eng.RebuildSafeIndices(m.itemsFn(), indices, bounds)
	default:
		s, err = m.eng.TransitionIndices(m.itemsFn(), indices, bounds)
	}
	if err != nil {
		m.log.WarnContext(ctx, "vcore grid transition failed", "error", err)
		return err
	}
	if bad := validateStateSet(s, indices); bad != nil {
		m.log.WarnContext(ctx, "vcore grid state inconsistency recovered", "error", bad)
		StateInconsistencies++
		m.eng.Invalidate()
		return m.apply(ctx, vcore.ChangeOther)
	}
	m.current = s
	if bounds.IsValid() {
		m.phase = Ready
	} else {
		m.phase = Empty
	}
	return nil
}

// validateStateSet is validateState for a gapped index set: every cell
// key must be in the set and every set member must have a cell.
func validateStateSet[C vcore.Cell](s state.State[C], indices []vcore.Index) error {
	want := make(map[vcore.Index]struct{}, len(indices))
	for _, i := range indices {
		want[i] = struct{}{}
	}
	for i := range s.Cells {
		if _, ok := want[i]; !ok {
			return vcore.NewError("Manager.validateStateSet", vcore.KindStateInconsistency, nil)
		}
	}
	for i := range want {
		if _, ok := s.Cells[i]; !ok {
			return vcore.NewError("Manager.validateStateSet", vcore.KindStateInconsistency, nil)
		}
	}
	return nil
}

// apply runs kind through runOnce under the reentrancy guard,
// coalescing with any change observed while a transition is already in
// flight.
func (m *GridManager[C]) apply(ctx context.Context, kind vcore.ChangeKind) error {
	return m.guard.run(kind, func(k vcore.ChangeKind) error { return m.runOnce(ctx, k) })
}

// SetItemCount notifies the Manager of a new item count, recomputing row
// count from the (unchanged) columns-per-row.
func (m *GridManager[C]) SetItemCount(ctx context.Context, n int) error {
	m.helper.SetItemCount(n)
	return m.apply(ctx, vcore.ChangeItemsReplaced)
}

// SetColumnsPerRow changes the row layout.
// n <= 0 is rejected with KindInvalidConfiguration and leaves state
// untouched.
func (m *GridManager[C]) SetColumnsPerRow(ctx context.Context, n int) error {
	if n <= 0 {
		return vcore.NewError("GridManager.SetColumnsPerRow", vcore.KindInvalidConfiguration, nil)
	}
	m.helper.SetColumnsPerRow(n, m.items.Len())
	m.eng.Invalidate()
	return m.apply(ctx, vcore.ChangeGeometry)
}

// ApplyPermuted notifies the Manager that items at the same indices
// were reordered: every cell in the current range receives update_item,
// with no cell movement.
func (m *GridManager[C]) ApplyPermuted(ctx context.Context) error {
	if err := m.apply(ctx, vcore.ChangePosition); err != nil {
		return err
	}
	if m.eng.CurrentRange().IsValid() {
		m.eng.ApplyItemUpdates(m.itemsFn(), m.eng.CurrentRange().Indices())
	}
	return nil
}

// ApplySet notifies the Manager that only the items at indices changed:
// only cells at indices within the current range receive update_item.
func (m *GridManager[C]) ApplySet(ctx context.Context, indices []vcore.Index) error {
	if err := m.apply(ctx, vcore.ChangePosition); err != nil {
		return err
	}
	r := m.eng.CurrentRange()
	var inRange []vcore.Index
	for _, i := range indices {
		if r.Contains(i) {
			inRange = append(inRange, i)
		}
	}
	m.eng.ApplyItemUpdates(m.itemsFn(), inRange)
	return nil
}

// ApplyAdded notifies the Manager that count items were inserted at
// linear index k, reusing
// engine.Reindex rather than rebuilding every surviving cell.
func (m *GridManager[C]) ApplyAdded(ctx context.Context, k vcore.Index, count int) error {
	m.helper.SetItemCount(m.items.Len())
	m.eng.Reindex(m.itemsFn(), engine.ShiftAdded(k, count))
	return m.apply(ctx, vcore.ChangeItemsMutated)
}

// ApplyRemoved notifies the Manager that the items at the given linear
// indices were removed, reusing
// engine.Reindex rather than rebuilding every surviving cell.
func (m *GridManager[C]) ApplyRemoved(ctx context.Context, removed []vcore.Index) error {
	m.helper.SetItemCount(m.items.Len())
	m.eng.Reindex(m.itemsFn(), engine.ShiftRemoved(removed))
	return m.apply(ctx, vcore.ChangeItemsMutated)
}

// SetBuffer notifies the Manager of a buffer-size policy change,
// applied to the row and column windows alike. A negative buffer is
// rejected with KindInvalidConfiguration and leaves state untouched.
func (m *GridManager[C]) SetBuffer(ctx context.Context, buffer vcore.BufferSize) error {
	if buffer.Int() < 0 {
		return vcore.NewError("GridManager.SetBuffer", vcore.KindInvalidConfiguration, nil)
	}
	m.helper.Rows.SetBuffer(buffer)
	m.helper.Cols.SetBuffer(buffer)
	return m.apply(ctx, vcore.ChangeGeometry)
}

// SetViewport notifies the Manager of a viewport size change. Width
// drives the column window, height the row window.
func (m *GridManager[C]) SetViewport(ctx context.Context, width, height float64) error {
	m.viewportW, m.viewportH = width, height
	return m.apply(ctx, vcore.ChangeGeometry)
}

// ScrollBy moves the vertical scroll position by delta, clamped.
func (m *GridManager[C]) ScrollBy(ctx context.Context, delta float64) error {
	return m.ScrollTo(ctx, m.scrollY+delta)
}

// ScrollTo moves the vertical scroll position to an absolute offset, clamped.
func (m *GridManager[C]) ScrollTo(ctx context.Context, pos float64) error {
	max := m.helper.MaxScrollY(m.viewportH)
	if pos < 0 {
		pos = 0
	}
	if pos > max {
		pos = max
	}
	m.scrollY = pos
	return m.apply(ctx, vcore.ChangePosition)
}

// ScrollToIndex scrolls so the row containing item index i is at the top
// of the viewport.
func (m *GridManager[C]) ScrollToIndex(ctx context.Context, i vcore.Index) error {
	return m.ScrollTo(ctx, m.helper.ScrollForIndex(i, m.viewportH))
}

// SetFactory replaces the cell factory.
func (m *GridManager[C]) SetFactory(ctx context.Context, factory vcore.Factory) error {
	m.eng.Factory = factory
	return m.apply(ctx, vcore.ChangeFactory)
}

// Position returns the (x, y) content-space offset of index i's cell.
func (m *GridManager[C]) Position(i vcore.Index) (x, y float64) {
	return m.helper.Position(i)
}

// ScrollY returns the current vertical scroll offset.
func (m *GridManager[C]) ScrollY() float64 { return m.scrollY }

// CellSize returns the (width, height) of one grid cell, for hosts
// sizing each cell as they lay it out.
func (m *GridManager[C]) CellSize() (w, h float64) {
	return m.helper.Cols.CellExtent(), m.helper.Rows.CellExtent()
}

// MaxScrollY returns the maximum vertical scroll offset for the current
// viewport.
func (m *GridManager[C]) MaxScrollY() float64 { return m.helper.MaxScrollY(m.viewportH) }

// VirtualMaxY returns the total content height across all rows.
func (m *GridManager[C]) VirtualMaxY() float64 { return m.helper.Rows.VirtualMax() }

// Update broadcasts a forced-refresh signal to the live cells at the
// given linear indices; out-of-range indices are ignored.
func (m *GridManager[C]) Update(indices ...vcore.Index) {
	r := m.eng.CurrentRange()
	var inRange []vcore.Index
	for _, i := range indices {
		if r.Contains(i) {
			inRange = append(inRange, i)
		}
	}
	m.eng.ApplyItemUpdates(m.itemsFn(), inRange)
}

// ViewportH returns the current viewport height.
func (m *GridManager[C]) ViewportH() float64 { return m.viewportH }

// CanScrollUp reports whether the vertical scroll can move toward the top.
func (m *GridManager[C]) CanScrollUp() bool { return m.scrollY > 0 }

// CanScrollDown reports whether the vertical scroll can move toward the bottom.
func (m *GridManager[C]) CanScrollDown() bool {
	return m.scrollY < m.helper.MaxScrollY(m.viewportH)
}

// Invalidate forces a full rebuild of the current range, reusing live
// cells rather than disposing them.
func (m *GridManager[C]) Invalidate(ctx context.Context) error {
	m.eng.Invalidate()
	return m.apply(ctx, vcore.ChangeOther)
}
