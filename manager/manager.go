// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: manager/manager.go
// Summary: The Manager layer: a state machine that subscribes to
// items/geometry/scroll/factory changes, classifies each
// one, dispatches to the Engine, and exposes the resulting State to
// observers. ListManager is the linear-container variant; Grid/Table/
// Paginated managers in the other files of this package compose the
// same reentrancy and classification machinery over their own Helper.

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

// guard implements the Manager's reentrancy rule: while a
// transition is in flight, further notifications observed on the same
// goroutine (e.g. raised by a cell's UpdateItem side effect) coalesce
// into exactly one follow-up transition, classified as the
// least-specific ChangeKind covering everything seen meanwhile. Every
// per-variant Manager in this package embeds one instead of duplicating
// the coalescing loop.
type guard struct {
	transitioning bool
	hasPending    bool
	pendingKind   vcore.ChangeKind
}

// run drives kind through runOnce under the reentrancy guard, coalescing
// with any change observed while a transition was already in flight.
func (g *guard) run(kind vcore.ChangeKind, runOnce func(vcore.ChangeKind) error) error {
	if g.transitioning {
		if g.hasPending {
			g.pendingKind = vcore.Coalesce(g.pendingKind, kind)
		} else {
			g.pendingKind = kind
			g.hasPending = true
		}
		return nil
	}
	g.transitioning = true
	defer func() { g.transitioning = false }()

	err := runOnce(kind)
	for err == nil && g.hasPending {
		next := g.pendingKind
		g.hasPending = false
		g.pendingKind = vcore.ChangeOther
		err = runOnce(next)
	}
	return err
}

// Phase is one of the Manager's three lifecycle states.
type Phase int

const (
	Uninitialized Phase = iota
	Empty
	Ready
)

func (p Phase) String() string {
	switch p {
	case Uninitialized:
		return "uninitialized"
	case Empty:
		return "empty"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// Items supplies the current item count and item lookup the Manager
// needs on every transition. Hosts typically back this with a slice or
// a lazily-paged data source (e.g. demo/sqlitems).
type Items interface {
	Len() int
	At(i vcore.Index) any
}

// StateInconsistencies counts recovered invariant violations across
// all Managers in the process, for tests and diagnostics. It is
// deliberately package-level, not per-Manager: a host embedding many
// containers wants one number to alert on.
var StateInconsistencies int

// ListManager drives one linear (list) container end to end: it owns the
// geom.LinearHelper, the engine.Engine, and the reentrancy guard, and
// exposes the resulting observable State.
type ListManager[C vcore.Cell] struct {
	helper *geom.LinearHelper
	eng    *engine.Engine[C]
	items  Items
	log    *slog.Logger

	phase   Phase
	current state.State[C]

	scroll   float64
	viewport float64

	guard guard
}

// NewListManager returns a ListManager for the given item factory, cell
// cache bound, initial orientation and per-item extent/spacing. logger
// may be nil, in which case slog.Default() is used; there is no
// package-level logger singleton.
func NewListManager[C vcore.Cell](items Items, factory vcore.Factory, cacheBound int, o vcore.Orientation, cellExtent, spacing float64, buffer vcore.BufferSize, logger *slog.Logger) *ListManager[C] {
	if logger == nil {
		logger = slog.Default()
	}
	m := &ListManager[C]{
		helper: geom.NewLinearHelper(items.Len(), cellExtent, spacing, buffer, o),
		eng:    engine.New[C](cache.New[C](cacheBound), factory),
		items:  items,
		log:    logger,
		phase:  Uninitialized,
	}
	return m
}

// State returns the most recently published State.
func (m *ListManager[C]) State() state.State[C] { return m.current }

// Phase returns the Manager's current lifecycle phase.
func (m *ListManager[C]) Phase() Phase { return m.phase }

func (m *ListManager[C]) itemsFn() engine.Items {
	return func(i vcore.Index) any { return m.items.At(i) }
}

// apply runs one classified change through the Engine, coalescing with
// any change observed while a transition was already in flight, and
// updates phase/current accordingly. Returns the error from a failed
// factory invocation, if any.
func (m *ListManager[C]) apply(ctx context.Context, kind vcore.ChangeKind) error {
	return m.guard.run(kind, func(k vcore.ChangeKind) error { return m.runOnce(ctx, k) })
}

func (m *ListManager[C]) runOnce(ctx context.Context, kind vcore.ChangeKind) error {
	newRange := m.helper.Range(m.scroll, m.viewport)

	m.log.DebugContext(ctx, "vcore transition", "kind", kind.String(), "range", newRange)

	var (
		s   state.State[C]
		err error
	)
	switch kind {
	case vcore.ChangeFactory:
		s, err = m.eng.RebuildSafe(m.itemsFn(), newRange)
	case vcore.ChangeOrientation:
		m.scroll = 0
		newRange = m.helper.Range(m.scroll, m.viewport)
		s, err = m.eng.ReuseAcrossReset(m.itemsFn(), newRange)
	default:
		s, err = m.eng.Transition(m.itemsFn(), newRange)
	}
	if err != nil {
		m.log.WarnContext(ctx, "vcore transition failed", "kind", kind.String(), "error", err)
		return err
	}

	if bad := validateState(s); bad != nil {
		return m.recoverStateInconsistency(ctx, bad)
	}

	m.current = s
	if !newRange.IsValid() {
		m.phase = Empty
	} else {
		m.phase = Ready
	}
	return nil
}

// validateState checks the published-state invariants a release build
// cannot assume held: every cell key lies within Range,
// and Range (when valid) is fully covered. A violation here means a
// bug upstream in the Engine or Helper, not a user error, so it is
// classified KindStateInconsistency rather than surfaced as the cause
// of whatever triggered this transition.
func validateState[C vcore.Cell](s state.State[C]) error {
	for i := range s.Cells {
		if !s.Range.Contains(i) {
			return vcore.NewError("Manager.validateState", vcore.KindStateInconsistency, nil)
		}
	}
	if s.Range.IsValid() {
		for _, i := range s.Range.Indices() {
			if _, ok := s.Cells[i]; !ok {
				return vcore.NewError("Manager.validateState", vcore.KindStateInconsistency, nil)
			}
		}
	}
	return nil
}

// SetItemCount notifies the Manager the underlying item count changed
// (e.g. ItemsReplaced wholesale). Prefer ApplyAdded/ApplyRemoved for
// incremental mutation, which avoid rebuilding the unaffected cells.
func (m *ListManager[C]) SetItemCount(ctx context.Context, n int) error {
	m.helper.Axis.SetCount(n)
	return m.apply(ctx, vcore.ChangeItemsReplaced)
}

// ApplyPermuted notifies the Manager that items at the same indices
// were reordered: every cell in the current range receives update_item,
// with no cell movement.
func (m *ListManager[C]) ApplyPermuted(ctx context.Context) error {
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
// Routed through apply/guard like
// every other mutator, so a transition already in flight coalesces
// with this one instead of racing it.
func (m *ListManager[C]) ApplySet(ctx context.Context, indices []vcore.Index) error {
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

// ApplyAdded notifies the Manager that count items were inserted at k.
func (m *ListManager[C]) ApplyAdded(ctx context.Context, k vcore.Index, count int) error {
	m.helper.Axis.SetCount(m.items.Len())
	m.eng.Reindex(m.itemsFn(), engine.ShiftAdded(k, count))
	return m.apply(ctx, vcore.ChangeItemsMutated)
}

// ApplyRemoved notifies the Manager that the items at the given indices
// were removed.
func (m *ListManager[C]) ApplyRemoved(ctx context.Context, removed []vcore.Index) error {
	m.helper.Axis.SetCount(m.items.Len())
	m.eng.Reindex(m.itemsFn(), engine.ShiftRemoved(removed))
	return m.apply(ctx, vcore.ChangeItemsMutated)
}

// SetViewport notifies the Manager of a viewport/geometry change.
func (m *ListManager[C]) SetViewport(ctx context.Context, extent float64) error {
	m.viewport = extent
	return m.apply(ctx, vcore.ChangeGeometry)
}

// SetCellExtent notifies the Manager of a per-cell size change. A
// negative extent is rejected with KindInvalidConfiguration and leaves
// the state untouched.
func (m *ListManager[C]) SetCellExtent(ctx context.Context, extent float64) error {
	if extent < 0 {
		return vcore.NewError("ListManager.SetCellExtent", vcore.KindInvalidConfiguration, nil)
	}
	m.helper.Axis.SetCellExtent(extent)
	return m.apply(ctx, vcore.ChangeGeometry)
}

// SetSpacing notifies the Manager of an inter-cell spacing change. A
// negative spacing is rejected with KindInvalidConfiguration and leaves
// state untouched.
func (m *ListManager[C]) SetSpacing(ctx context.Context, spacing float64) error {
	if spacing < 0 {
		return vcore.NewError("ListManager.SetSpacing", vcore.KindInvalidConfiguration, nil)
	}
	m.helper.Axis.SetSpacing(spacing)
	return m.apply(ctx, vcore.ChangeGeometry)
}

// SetBuffer notifies the Manager of a buffer-size policy change. A
// negative buffer is rejected with KindInvalidConfiguration and leaves
// state untouched.
func (m *ListManager[C]) SetBuffer(ctx context.Context, buffer vcore.BufferSize) error {
	if buffer.Int() < 0 {
		return vcore.NewError("ListManager.SetBuffer", vcore.KindInvalidConfiguration, nil)
	}
	m.helper.Axis.SetBuffer(buffer)
	return m.apply(ctx, vcore.ChangeGeometry)
}

// SetOrientation notifies the Manager the scroll axis changed.
func (m *ListManager[C]) SetOrientation(ctx context.Context, o vcore.Orientation) error {
	m.helper.Orientation = o
	return m.apply(ctx, vcore.ChangeOrientation)
}

// SetFactory replaces the cell factory. Every live cell is disposed and
// the cache cleared, since cached cells were built by the old factory.
func (m *ListManager[C]) SetFactory(ctx context.Context, factory vcore.Factory) error {
	m.eng.Factory = factory
	return m.apply(ctx, vcore.ChangeFactory)
}

// ScrollBy moves the scroll position by delta, clamped to
// [0, MaxScroll(viewport)].
func (m *ListManager[C]) ScrollBy(ctx context.Context, delta float64) error {
	return m.ScrollTo(ctx, m.scroll+delta)
}

// ScrollTo moves the scroll position to an absolute offset, clamped.
func (m *ListManager[C]) ScrollTo(ctx context.Context, pos float64) error {
	max := m.helper.MaxScroll(m.viewport)
	if pos < 0 {
		pos = 0
	}
	if pos > max {
		pos = max
	}
	m.scroll = pos
	return m.apply(ctx, vcore.ChangePosition)
}

// ScrollToIndex scrolls so index i is at the start of the viewport.
func (m *ListManager[C]) ScrollToIndex(ctx context.Context, i vcore.Index) error {
	return m.ScrollTo(ctx, m.helper.ScrollForIndex(i, m.viewport))
}

// ScrollToIndexCentered scrolls so index i is centered in the viewport.
func (m *ListManager[C]) ScrollToIndexCentered(ctx context.Context, i vcore.Index) error {
	return m.ScrollTo(ctx, m.helper.ScrollForIndexCentered(i, m.viewport))
}

// Orientation returns the axis the container currently scrolls along.
func (m *ListManager[C]) Orientation() vcore.Orientation { return m.helper.Orientation }

// Position returns index i's content-space offset along the scroll axis
// and its cross-axis offset, for hosts drawing cells at their laid-out
// position (e.g. scrollview.ListView).
func (m *ListManager[C]) Position(i vcore.Index) (main, cross float64) {
	return m.helper.Position(i)
}

// Scroll returns the current scroll offset.
func (m *ListManager[C]) Scroll() float64 { return m.scroll }

// Viewport returns the current viewport extent.
func (m *ListManager[C]) Viewport() float64 { return m.viewport }

// MaxScroll returns the maximum scroll offset for the current viewport.
func (m *ListManager[C]) MaxScroll() float64 { return m.helper.MaxScroll(m.viewport) }

// CellExtent returns the per-cell stride along the scroll axis, for
// hosts sizing each cell as they lay it out.
func (m *ListManager[C]) CellExtent() float64 { return m.helper.Axis.CellExtent() }

// VirtualMax returns the total content extent along the scroll axis,
// the scalar a scroll-bar sizes its thumb against.
func (m *ListManager[C]) VirtualMax() float64 { return m.helper.Axis.VirtualMax() }

// Update broadcasts a forced-refresh signal to the live cells at the
// given indices: each re-receives its current item through UpdateItem.
// The cell set and layout are unchanged; out-of-range indices are
// ignored. What a cell does with the refresh is the cell's business.
func (m *ListManager[C]) Update(indices ...vcore.Index) {
	r := m.eng.CurrentRange()
	var inRange []vcore.Index
	for _, i := range indices {
		if r.Contains(i) {
			inRange = append(inRange, i)
		}
	}
	m.eng.ApplyItemUpdates(m.itemsFn(), inRange)
}

// CanScrollUp reports whether the scroll position can move further
// toward the start of the content.
func (m *ListManager[C]) CanScrollUp() bool { return m.scroll > 0 }

// CanScrollDown reports whether the scroll position can move further
// toward the end of the content.
func (m *ListManager[C]) CanScrollDown() bool {
	return m.scroll < m.helper.MaxScroll(m.viewport)
}

// Invalidate forces a full rebuild of the current range, reusing live
// cells rather than disposing them. Unlike SetFactory, neither the
// cache nor any cell is disposed.
func (m *ListManager[C]) Invalidate(ctx context.Context) error {
	m.eng.Invalidate()
	return m.apply(ctx, vcore.ChangeOther)
}

// recoverStateInconsistency logs the violation and rebuilds via
// Invalidate rather than failing the session.
func (m *ListManager[C]) recoverStateInconsistency(ctx context.Context, cause error) error {
	StateInconsistencies++
	m.log.WarnContext(ctx, "vcore state inconsistency recovered", "error", cause)
	return m.Invalidate(ctx)
}
