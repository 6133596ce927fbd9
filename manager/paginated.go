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

// PaginatedManager drives a page-based container: cellsPerPage fixes
// the visible count, and there is no continuous scroll axis. SetPage
// and ScrollToIndex are the only navigation operations; pixel-based
// scrolling returns KindUnsupportedOperation. Buffer cells past the
// page boundaries stay materialized so an adjacent page turn reuses
// them rather than building.
type PaginatedManager[C vcore.Cell] struct {
	helper *geom.PaginatedHelper
	eng    *engine.Engine[C]
	items  Items
	log    *slog.Logger

	phase   Phase
	current state.State[C]

	guard guard
}

// NewPaginatedManager returns a PaginatedManager over itemCount items,
// cellsPerPage to a page.
func NewPaginatedManager[C vcore.Cell](items Items, factory vcore.Factory, cacheBound, cellsPerPage int, buffer vcore.BufferSize, logger *slog.Logger) *PaginatedManager[C] {
	if logger == nil {
		logger = slog.Default()
	}
	return &PaginatedManager[C]{
		helper: geom.NewPaginatedHelper(items.Len(), cellsPerPage, buffer),
		eng:    engine.New[C](cache.New[C](cacheBound), factory),
		items:  items,
		log:    logger,
		phase:  Uninitialized,
	}
}

func (m *PaginatedManager[C]) State() state.State[C] { return m.current }
func (m *PaginatedManager[C]) Phase() Phase          { return m.phase }
func (m *PaginatedManager[C]) Page() int             { return m.helper.Page() }
func (m *PaginatedManager[C]) PageCount() int        { return m.helper.PageCount() }

// Range returns the currently materialized index range: the current
// page's cells plus the retained buffer cells past each boundary.
func (m *PaginatedManager[C]) Range() vcore.IntegerRange { return m.helper.Range() }

// PageRange returns the strict page window, without the buffer cells.
func (m *PaginatedManager[C]) PageRange() vcore.IntegerRange { return m.helper.PageRange() }

func (m *PaginatedManager[C]) itemsFn() engine.Items {
	return func(i vcore.Index) any { return m.items.At(i) }
}

func (m *PaginatedManager[C]) runOnce(ctx context.Context, kind vcore.ChangeKind) error {
	newRange := m.helper.Range()
	m.log.DebugContext(ctx, "vcore paginated transition", "kind", kind.String(), "range", newRange)

	var (
		s   state.State[C]
		err error
	)
	if kind == vcore.ChangeFactory {
		s, err = m.eng.RebuildSafe(m.itemsFn(), newRange)
	} else {
		s, err = m.eng.Transition(m.itemsFn(), newRange)
	}
	if err != nil {
		m.log.WarnContext(ctx, "vcore paginated transition failed", "error", err)
		return err
	}
	if bad := validateState(s); bad != nil {
		m.log.WarnContext(ctx, "vcore paginated state inconsistency recovered", "error", bad)
		StateInconsistencies++
		m.eng.Invalidate()
		return m.apply(ctx, vcore.ChangeOther)
	}
	m.current = s
	if newRange.IsValid() {
		m.phase = Ready
	} else {
		m.phase = Empty
	}
	return nil
}

// apply runs kind through runOnce under the reentrancy guard.
func (m *PaginatedManager[C]) apply(ctx context.Context, kind vcore.ChangeKind) error {
	return m.guard.run(kind, func(k vcore.ChangeKind) error { return m.runOnce(ctx, k) })
}

// SetPage moves to page n, clamped.
func (m *PaginatedManager[C]) SetPage(ctx context.Context, n int) error {
	m.helper.SetPage(n)
	return m.apply(ctx, vcore.ChangePosition)
}

// ScrollToIndex moves to the page containing item index i.
func (m *PaginatedManager[C]) ScrollToIndex(ctx context.Context, i vcore.Index) error {
	m.helper.ScrollToIndex(i)
	return m.apply(ctx, vcore.ChangePosition)
}

// SetBuffer changes how many cells past each page boundary stay
// materialized. A negative buffer is rejected with
// KindInvalidConfiguration and leaves state untouched.
func (m *PaginatedManager[C]) SetBuffer(ctx context.Context, buffer vcore.BufferSize) error {
	if buffer.Int() < 0 {
		return vcore.NewError("PaginatedManager.SetBuffer", vcore.KindInvalidConfiguration, nil)
	}
	m.helper.SetBuffer(buffer)
	return m.apply(ctx, vcore.ChangeGeometry)
}

// SetCellsPerPage changes the page size, clamping the current page.
// n <= 0 is rejected with KindInvalidConfiguration and leaves state
// untouched.
func (m *PaginatedManager[C]) SetCellsPerPage(ctx context.Context, n int) error {
	if n <= 0 {
		return vcore.NewError("PaginatedManager.SetCellsPerPage", vcore.KindInvalidConfiguration, nil)
	}
	m.helper.SetCellsPerPage(n)
	return m.apply(ctx, vcore.ChangeGeometry)
}

// ApplyPermuted notifies the Manager that items at the same indices were
// reordered: every materialized cell (the page plus its buffer cells)
// receives update_item, with no cell movement.
func (m *PaginatedManager[C]) ApplyPermuted(ctx context.Context) error {
	if err := m.apply(ctx, vcore.ChangePosition); err != nil {
		return err
	}
	if m.eng.CurrentRange().IsValid() {
		m.eng.ApplyItemUpdates(m.itemsFn(), m.eng.CurrentRange().Indices())
	}
	return nil
}

// ApplySet notifies the Manager that only the items at indices changed:
// only materialized cells (the page plus its buffer cells) at those
// indices receive update_item.
func (m *PaginatedManager[C]) ApplySet(ctx context.Context, indices []vcore.Index) error {
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
// index k, reusing engine.Reindex
// rather than rebuilding every surviving cell.
func (m *PaginatedManager[C]) ApplyAdded(ctx context.Context, k vcore.Index, count int) error {
	m.helper.SetItemCount(m.items.Len())
	m.eng.Reindex(m.itemsFn(), engine.ShiftAdded(k, count))
	return m.apply(ctx, vcore.ChangeItemsMutated)
}

// ApplyRemoved notifies the Manager that the items at the given indices
// were removed, reusing
// engine.Reindex rather than rebuilding every surviving cell.
func (m *PaginatedManager[C]) ApplyRemoved(ctx context.Context, removed []vcore.Index) error {
	m.helper.SetItemCount(m.items.Len())
	m.eng.Reindex(m.itemsFn(), engine.ShiftRemoved(removed))
	return m.apply(ctx, vcore.ChangeItemsMutated)
}

// SetItemCount notifies the Manager of a new item count.
func (m *PaginatedManager[C]) SetItemCount(ctx context.Context, n int) error {
	m.helper.SetItemCount(n)
	return m.apply(ctx, vcore.ChangeItemsReplaced)
}

// SetFactory replaces the cell factory.
func (m *PaginatedManager[C]) SetFactory(ctx context.Context, factory vcore.Factory) error {
	m.eng.Factory = factory
	return m.apply(ctx, vcore.ChangeFactory)
}

// Update broadcasts a forced-refresh signal to the live cells at the
// given indices; indices outside the materialized range (the page plus
// its buffer cells) are ignored.
func (m *PaginatedManager[C]) Update(indices ...vcore.Index) {
	r := m.eng.CurrentRange()
	var inRange []vcore.Index
	for _, i := range indices {
		if r.Contains(i) {
			inRange = append(inRange, i)
		}
	}
	m.eng.ApplyItemUpdates(m.itemsFn(), inRange)
}

// ScrollBy always fails: pixel-based scroll has no meaning on a
// paginated container.
func (m *PaginatedManager[C]) ScrollBy(delta float64) error {
	return vcore.NewError("PaginatedManager.ScrollBy", vcore.KindUnsupportedOperation, nil)
}

// Invalidate forces a full rebuild of the current page, reusing live
// cells rather than disposing them.
func (m *PaginatedManager[C]) Invalidate(ctx context.Context) error {
	m.eng.Invalidate()
	return m.apply(ctx, vcore.ChangeOther)
}
