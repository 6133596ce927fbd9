// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: engine/engine.go
// Summary: The state transition engine: the intersection algorithm
// and the per-ChangeKind dispatch table that decides how to apply it.

package engine

import (
	"sort"

	"github.com/framegrace/vcore"
	"github.com/framegrace/vcore/cache"
	"github.com/framegrace/vcore/state"
)

// Items supplies the current item sequence by index, decoupling the
// Engine from any particular collection type the host application uses.
type Items func(i vcore.Index) any

// Engine drives transitions for one linear (or linearized, for grid/table)
// container. It owns no geometry; callers supply the new range computed
// by a geom Helper and classify the triggering change.
type Engine[C vcore.Cell] struct {
	Map     *state.Map[C]
	Cache   *cache.Cache[C]
	Factory vcore.Factory

	oldRange vcore.IntegerRange
}

// New returns an Engine with an empty Map, starting from InvalidRange.
func New[C vcore.Cell](c *cache.Cache[C], factory vcore.Factory) *Engine[C] {
	return &Engine[C]{Map: state.New[C](), Cache: c, Factory: factory, oldRange: vcore.InvalidRange}
}

// CurrentRange returns the range materialized by the last transition.
func (e *Engine[C]) CurrentRange() vcore.IntegerRange { return e.oldRange }

// Transition applies the intersection algorithm, moving from
// e.oldRange to newRange. Every cell whose index survives stays
// untouched; new indices reuse the cells vacated by indices that left
// the range first, then the cache, then the factory, and only vacated
// cells left over after that move to the cache. Returns the resulting
// snapshot.
//
// A factory error aborts the transition entirely: no cell already
// updated in this call is reverted; the engine stops at the first
// failure and the caller's old observable State (not yet replaced)
// remains current. Use RebuildSafe when strict all-or-nothing
// semantics are required, as on a factory swap.
func (e *Engine[C]) Transition(items Items, newRange vcore.IntegerRange) (state.State[C], error) {
	return e.TransitionIndices(items, newRange.Indices(), newRange)
}

// TransitionIndices is Transition over an arbitrary ascending index
// set rather than a contiguous range — a grid windowing both rows and
// columns materializes exactly such a set (contiguous within a row,
// gapped between rows). bounds is the enclosing [min, max] recorded as
// the resulting State's Range.
func (e *Engine[C]) TransitionIndices(items Items, indices []vcore.Index, bounds vcore.IntegerRange) (state.State[C], error) {
	if !bounds.IsValid() || len(indices) == 0 {
		e.cacheAll()
		e.oldRange = vcore.InvalidRange
		return state.Empty[C](), nil
	}

	want := make(map[vcore.Index]struct{}, len(indices))
	for _, i := range indices {
		want[i] = struct{}{}
	}
	overlap := vcore.Intersect(e.oldRange, bounds)

	// Step 4: L = remaining old cells in ascending index order, i.e. Ro \ I.
	// Carried-over membership is tracked explicitly (not assumed dense over
	// the overlap range) so a prior Reindex (added/removed) that leaves
	// gaps in oldRange is handled correctly.
	oldIdx := e.Map.Indices()
	sort.Slice(oldIdx, func(i, j int) bool { return oldIdx[i] < oldIdx[j] })

	newMap := state.New[C]()
	carried := make(map[vcore.Index]struct{})

	// Step 3: cells still wanted inside the overlap carry over untouched.
	// The overlap gate matters: after Invalidate the old range is the
	// sentinel, so nothing is carried and every live cell re-runs its
	// update calls even where its index happens to coincide.
	for _, i := range oldIdx {
		if _, wanted := want[i]; wanted && overlap.Contains(i) {
			if cell, ok := e.Map.Resolve(i); ok {
				newMap.Put(i, items(i), cell)
				carried[i] = struct{}{}
			}
		}
	}

	var leftover []vcore.Index
	for _, i := range oldIdx {
		if _, ok := carried[i]; !ok {
			leftover = append(leftover, i)
		}
	}

	// N = every wanted index not already carried over.
	var fresh []vcore.Index
	for _, i := range indices {
		if _, ok := carried[i]; !ok {
			fresh = append(fresh, i)
		}
	}

	li := 0
	for _, j := range fresh {
		if li < len(leftover) {
			src := leftover[li]
			li++
			cell, _ := e.Map.Resolve(src)
			cell.UpdateIndex(j)
			item := items(j)
			cell.UpdateItem(item)
			newMap.Put(j, item, cell)
			continue
		}
		cell, fromCache := e.Cache.Take()
		if !fromCache {
			built, err := e.Factory(items(j))
			if err != nil {
				return state.State[C]{}, vcore.NewError("Engine.Transition", vcore.KindFactoryFailure, err)
			}
			c, ok := built.(C)
			if !ok {
				return state.State[C]{}, vcore.NewError("Engine.Transition", vcore.KindFactoryFailure, nil)
			}
			cell = c
			e.Cache.RecordBuild()
		}
		cell.UpdateIndex(j)
		item := items(j)
		cell.UpdateItem(item)
		newMap.Put(j, item, cell)
	}

	// Step 6: residual leftover (old cells with no new index to take) cached.
	for ; li < len(leftover); li++ {
		if cell, ok := e.Map.Resolve(leftover[li]); ok {
			e.Cache.Cache(cell)
		}
	}

	changed := !sameCellSet(e.Map, newMap)
	e.Map = newMap
	e.oldRange = bounds
	return e.Map.Snapshot(bounds, changed), nil
}

// RebuildSafe builds every cell for newRange from scratch via the
// factory, then — only once every build has succeeded — disposes the
// currently live cells, clears the cache, and adopts the new state. A
// factory failure partway through leaves the old state and cache
// completely untouched: nothing is disposed until the replacement is
// known to be complete. Used for ChangeFactory.
func (e *Engine[C]) RebuildSafe(items Items, newRange vcore.IntegerRange) (state.State[C], error) {
	return e.RebuildSafeIndices(items, newRange.Indices(), newRange)
}

// RebuildSafeIndices is RebuildSafe over an arbitrary ascending index
// set, the way TransitionIndices generalizes Transition.
func (e *Engine[C]) RebuildSafeIndices(items Items, indices []vcore.Index, bounds vcore.IntegerRange) (state.State[C], error) {
	if !bounds.IsValid() || len(indices) == 0 {
		e.cacheAll()
		e.Cache.Clear()
		e.oldRange = vcore.InvalidRange
		return state.Empty[C](), nil
	}

	next := state.New[C]()
	for _, j := range indices {
		built, err := e.Factory(items(j))
		if err != nil {
			return state.State[C]{}, vcore.NewError("Engine.RebuildSafe", vcore.KindFactoryFailure, err)
		}
		cell, ok := built.(C)
		if !ok {
			return state.State[C]{}, vcore.NewError("Engine.RebuildSafe", vcore.KindFactoryFailure, nil)
		}
		cell.UpdateIndex(j)
		item := items(j)
		cell.UpdateItem(item)
		next.Put(j, item, cell)
	}

	for _, i := range e.Map.Indices() {
		if cell, ok := e.Map.Resolve(i); ok {
			cell.Dispose()
		}
	}
	e.Cache.Clear()
	e.Map = next
	e.oldRange = bounds
	return e.Map.Snapshot(bounds, true), nil
}

// ReuseAcrossReset forgets which indices are "already in place" without
// disposing or caching any cell, then transitions to newRange reusing
// live cells in ascending order first, falling back to cache and
// factory. Used for ChangeOrientation, where the scroll reset makes
// every old index meaningless but every old cell reusable.
func (e *Engine[C]) ReuseAcrossReset(items Items, newRange vcore.IntegerRange) (state.State[C], error) {
	e.Invalidate()
	return e.Transition(items, newRange)
}

// ApplyItemUpdates calls UpdateItem on every live cell whose index is in
// indices, without moving any cell between State and Cache. Used for
// ItemsMutated{permuted} (every index in range) and ItemsMutated{set}
// (only the changed indices).
func (e *Engine[C]) ApplyItemUpdates(items Items, indices []vcore.Index) {
	for _, i := range indices {
		if cell, ok := e.Map.Resolve(i); ok {
			cell.UpdateItem(items(i))
		}
	}
}

// Reindex rewrites every live cell's bound index through remap before the
// next Transition runs. remap returns (newIndex, keep); keep=false moves
// the cell straight to the cache without calling UpdateIndex. Used to
// apply ItemsMutated{added} and ItemsMutated{removed}
// ahead of the ordinary intersection pass, which otherwise assumes an
// index's meaning is unchanged between old and new range.
func (e *Engine[C]) Reindex(items Items, remap func(old vcore.Index) (vcore.Index, bool)) {
	next := state.New[C]()
	for _, i := range e.Map.Indices() {
		cell, ok := e.Map.Resolve(i)
		if !ok {
			continue
		}
		newIdx, keep := remap(i)
		if !keep {
			e.Cache.Cache(cell)
			continue
		}
		if newIdx != i {
			cell.UpdateIndex(newIdx)
		}
		next.Put(newIdx, items(newIdx), cell)
	}
	e.Map = next
	if lo, hi, ok := boundsOf(next.Indices()); ok {
		e.oldRange = vcore.NewRange(lo, hi)
	} else {
		e.oldRange = vcore.InvalidRange
	}
}

func boundsOf(idx []vcore.Index) (lo, hi vcore.Index, ok bool) {
	if len(idx) == 0 {
		return 0, 0, false
	}
	lo, hi = idx[0], idx[0]
	for _, i := range idx[1:] {
		if i < lo {
			lo = i
		}
		if i > hi {
			hi = i
		}
	}
	return lo, hi, true
}

// ShiftAdded returns the Reindex remap function for inserting m items at
// position k: indices < k are unchanged, indices >= k shift to index+m.
func ShiftAdded(k vcore.Index, m int) func(vcore.Index) (vcore.Index, bool) {
	return func(old vcore.Index) (vcore.Index, bool) {
		if old < k {
			return old, true
		}
		return old + vcore.Index(m), true
	}
}

// ShiftRemoved returns the Reindex remap function for removing the
// indices in removed: an index in removed is dropped (cached); a
// surviving index shifts down by the count of removed indices strictly
// less than it.
func ShiftRemoved(removed []vcore.Index) func(vcore.Index) (vcore.Index, bool) {
	set := make(map[vcore.Index]struct{}, len(removed))
	for _, r := range removed {
		set[r] = struct{}{}
	}
	sorted := append([]vcore.Index(nil), removed...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return func(old vcore.Index) (vcore.Index, bool) {
		if _, dropped := set[old]; dropped {
			return 0, false
		}
		shift := 0
		for _, r := range sorted {
			if r < old {
				shift++
			} else {
				break
			}
		}
		return old - vcore.Index(shift), true
	}
}

// Adopt replaces the Engine's live state wholesale with prebuilt cells
// covering r, with no lifecycle calls on either the old or the new
// cells. The caller owns disposal of whatever was live before. Used by
// composite containers that must assemble a complete replacement state
// out-of-band — a table factory swap builds every new row's column
// cells first, and only adopts once nothing can fail.
func (e *Engine[C]) Adopt(m *state.Map[C], r vcore.IntegerRange) {
	e.Map = m
	e.oldRange = r
}

// Invalidate forces the next Transition to treat every currently live
// cell as available for reuse rather than assuming its index still
// matches the new range. Unlike RebuildSafe, no cell is disposed and
// the cache is left untouched: cells simply lose
// their "already in place" status and go through update_index/update_item
// again even if their index happens not to change.
func (e *Engine[C]) Invalidate() {
	e.oldRange = vcore.InvalidRange
}

func (e *Engine[C]) cacheAll() {
	for _, i := range e.Map.Indices() {
		if cell, ok := e.Map.Resolve(i); ok {
			e.Cache.Cache(cell)
		}
	}
	e.Map.Clear()
}

func sameCellSet[C vcore.Cell](before, after *state.Map[C]) bool {
	beforeIdx := before.Indices()
	afterIdx := after.Indices()
	if len(beforeIdx) != len(afterIdx) {
		return false
	}
	seen := make(map[any]struct{}, len(beforeIdx))
	for _, i := range beforeIdx {
		if cell, ok := before.Resolve(i); ok {
			seen[cell.Identity()] = struct{}{}
		}
	}
	for _, i := range afterIdx {
		cell, ok := after.Resolve(i)
		if !ok {
			return false
		}
		if _, ok := seen[cell.Identity()]; !ok {
			return false
		}
	}
	return true
}
