// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package geom

import "github.com/framegrace/vcore"

// LinearHelper computes the materialized range and layout position for a
// one-dimensional (list) container scrolling along a single Orientation.
type LinearHelper struct {
	Axis        *Axis
	Orientation vcore.Orientation
}

// NewLinearHelper returns a LinearHelper over count items.
func NewLinearHelper(count int, cellExtent, spacing float64, buffer vcore.BufferSize, o vcore.Orientation) *LinearHelper {
	return &LinearHelper{Axis: NewAxis(count, cellExtent, spacing, buffer), Orientation: o}
}

// Range returns the index range to materialize for the given scroll
// position and viewport extent along Orientation.
func (h *LinearHelper) Range(scroll, viewport float64) vcore.IntegerRange {
	return h.Axis.Range(scroll, viewport)
}

// MaxScroll returns the maximum scroll offset for the given viewport.
func (h *LinearHelper) MaxScroll(viewport float64) float64 {
	return h.Axis.MaxScroll(viewport)
}

// Position returns the content-space origin of index i along Orientation;
// the cross-axis coordinate is always 0 for a pure list.
func (h *LinearHelper) Position(i vcore.Index) (main, cross float64) {
	return h.Axis.PositionOf(i), 0
}

// ScrollForIndex returns the scroll offset that places index i at the
// start of the viewport, clamped to [0, MaxScroll(viewport)].
func (h *LinearHelper) ScrollForIndex(i vcore.Index, viewport float64) float64 {
	pos := h.Axis.PositionOf(i)
	max := h.Axis.MaxScroll(viewport)
	if pos > max {
		return max
	}
	if pos < 0 {
		return 0
	}
	return pos
}

// ScrollForIndexCentered returns the scroll offset that centers index i
// within the viewport, clamped to [0, MaxScroll(viewport)].
func (h *LinearHelper) ScrollForIndexCentered(i vcore.Index, viewport float64) float64 {
	pos := h.Axis.PositionOf(i) - (viewport-h.Axis.cellExtent)/2
	max := h.Axis.MaxScroll(viewport)
	if pos > max {
		return max
	}
	if pos < 0 {
		return 0
	}
	return pos
}
