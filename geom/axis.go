// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: geom/axis.go
// Summary: Single-axis range/extent arithmetic, the building block every
// variant-specific Helper composes (one axis for a linear list, two for
// a grid, a row axis plus a column layout for a table).

package geom

import (
	"math"

	"github.com/framegrace/vcore"
)

// Axis computes, for one scrollable dimension, the virtual extent, the
// maximum scroll, and the materialized index range for a given scroll
// position and viewport extent.
type Axis struct {
	count      int
	cellExtent float64
	spacing    float64
	buffer     vcore.BufferSize

	dirty      bool
	virtualMax float64
}

// NewAxis returns an Axis over count items of cellExtent size, spacing
// apart, with the given buffer policy.
func NewAxis(count int, cellExtent, spacing float64, buffer vcore.BufferSize) *Axis {
	a := &Axis{count: count, cellExtent: cellExtent, spacing: spacing, buffer: buffer}
	a.dirty = true
	return a
}

// SetCount updates the item count along this axis.
func (a *Axis) SetCount(n int) {
	if n == a.count {
		return
	}
	a.count = n
	a.InvalidateVirtualSizes()
}

// Count returns the item count along this axis.
func (a *Axis) Count() int { return a.count }

// SetCellExtent updates the per-item stride component.
func (a *Axis) SetCellExtent(e float64) {
	if e == a.cellExtent {
		return
	}
	a.cellExtent = e
	a.InvalidateVirtualSizes()
}

// CellExtent returns the per-item stride component.
func (a *Axis) CellExtent() float64 { return a.cellExtent }

// SetSpacing updates the gap between adjacent items.
func (a *Axis) SetSpacing(s float64) {
	if s == a.spacing {
		return
	}
	a.spacing = s
	a.InvalidateVirtualSizes()
}

// SetBuffer updates the buffer policy.
func (a *Axis) SetBuffer(b vcore.BufferSize) { a.buffer = b }

// Buffer returns the current buffer policy.
func (a *Axis) Buffer() vcore.BufferSize { return a.buffer }

// InvalidateVirtualSizes marks the cached virtual extent dirty. Called
// automatically by the Set* mutators; exposed so a Helper composing
// several axes can force recomputation after a bulk configuration change.
func (a *Axis) InvalidateVirtualSizes() {
	a.dirty = true
}

// stride is the distance from one item's origin to the next.
func (a *Axis) stride() float64 {
	return a.cellExtent + a.spacing
}

// VirtualMax returns the total content extent along this axis, including
// inter-item spacing but excluding the trailing gap.
func (a *Axis) VirtualMax() float64 {
	if !a.dirty {
		return a.virtualMax
	}
	if a.count <= 0 {
		a.virtualMax = 0
	} else {
		a.virtualMax = float64(a.count)*a.stride() - a.spacing
	}
	a.dirty = false
	return a.virtualMax
}

// MaxScroll returns max(0, virtualMax - viewport).
func (a *Axis) MaxScroll(viewport float64) float64 {
	return math.Max(0, a.VirtualMax()-viewport)
}

// Range returns the inclusive index range whose projection intersects
// [scroll, scroll+viewport], extended by the buffer on each side and
// clamped to [0, count-1]. Returns vcore.InvalidRange when count == 0 or
// viewport <= 0.
func (a *Axis) Range(scroll, viewport float64) vcore.IntegerRange {
	if a.count <= 0 || viewport <= 0 {
		return vcore.InvalidRange
	}
	stride := a.stride()
	if stride <= 0 {
		return vcore.InvalidRange
	}
	maxIdx := vcore.Index(a.count - 1)

	first := vcore.Index(math.Floor(scroll/stride)) - vcore.Index(a.buffer)
	last := vcore.Index(math.Ceil((scroll+viewport)/stride)) - 1 + vcore.Index(a.buffer)

	// Buffer clipped at one edge spills to the other, so the
	// materialized window keeps its full size whenever the collection
	// allows: scrolling away from an edge then never needs a build.
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
	if first > maxIdx {
		first = maxIdx
	}
	return vcore.NewRange(first, last)
}

// PositionOf returns the content-space offset of index i: i*(cellExtent+spacing).
// This is a content-space coordinate, not a screen coordinate; callers
// subtract the current scroll to place it in the viewport.
func (a *Axis) PositionOf(i vcore.Index) float64 {
	return float64(i) * a.stride()
}

// IsInViewport reports whether index i's projection intersects the
// strict (unbuffered) viewport at the given scroll position.
func (a *Axis) IsInViewport(i vcore.Index, scroll, viewport float64) bool {
	pos := a.PositionOf(i)
	return pos+a.cellExtent > scroll && pos < scroll+viewport
}
