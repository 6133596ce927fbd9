// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: range.go
// Summary: Index and IntegerRange, the arithmetic primitives every other
// package in vcore is built from.

package vcore

// Index is a non-negative position into an item sequence, or Invalid.
type Index int

// Invalid is the sentinel index: "no such position."
const Invalid Index = -1

// IntegerRange is an inclusive [Min, Max] span of indices. A range with
// Min > Max is never constructed directly; use InvalidRange instead so
// that emptiness has one representation everywhere.
type IntegerRange struct {
	Min, Max Index
}

// InvalidRange is the sentinel empty range.
var InvalidRange = IntegerRange{Min: Invalid, Max: Invalid}

// NewRange builds a range, collapsing any inverted or negative span to
// InvalidRange rather than allowing Min > Max to leak out as a distinct
// empty representation.
func NewRange(min, max Index) IntegerRange {
	if min < 0 || max < 0 || min > max {
		return InvalidRange
	}
	return IntegerRange{Min: min, Max: max}
}

// IsValid reports whether r carries at least one index.
func (r IntegerRange) IsValid() bool {
	return r != InvalidRange && r.Min >= 0 && r.Max >= r.Min
}

// Contains reports whether i falls within r.
func (r IntegerRange) Contains(i Index) bool {
	return r.IsValid() && i >= r.Min && i <= r.Max
}

// Len returns the number of indices covered, 0 for an invalid range.
func (r IntegerRange) Len() int {
	if !r.IsValid() {
		return 0
	}
	return int(r.Max-r.Min) + 1
}

// Diff returns Max - Min.
func (r IntegerRange) Diff() int {
	if !r.IsValid() {
		return 0
	}
	return int(r.Max - r.Min)
}

// Intersect returns the overlap of a and b, or InvalidRange if they do
// not overlap or either is already invalid.
func Intersect(a, b IntegerRange) IntegerRange {
	if !a.IsValid() || !b.IsValid() {
		return InvalidRange
	}
	lo := a.Min
	if b.Min > lo {
		lo = b.Min
	}
	hi := a.Max
	if b.Max < hi {
		hi = b.Max
	}
	return NewRange(lo, hi)
}

// Expand returns r grown by n indices on each side, clamped to
// [0, maxIndex]. A non-positive n or invalid r returns r unchanged.
func (r IntegerRange) Expand(n int, maxIndex Index) IntegerRange {
	if !r.IsValid() || n <= 0 {
		return r
	}
	lo := r.Min - Index(n)
	if lo < 0 {
		lo = 0
	}
	hi := r.Max + Index(n)
	if hi > maxIndex {
		hi = maxIndex
	}
	return NewRange(lo, hi)
}

// Clamp restricts r to [0, maxIndex], returning InvalidRange if the
// result would be empty (maxIndex < 0).
func (r IntegerRange) Clamp(maxIndex Index) IntegerRange {
	if !r.IsValid() || maxIndex < 0 {
		return InvalidRange
	}
	lo, hi := r.Min, r.Max
	if lo < 0 {
		lo = 0
	}
	if hi > maxIndex {
		hi = maxIndex
	}
	return NewRange(lo, hi)
}

// Indices returns every index in r in ascending order. Intended for
// small ranges (viewport-sized); never called over the full item count.
func (r IntegerRange) Indices() []Index {
	if !r.IsValid() {
		return nil
	}
	out := make([]Index, 0, r.Len())
	for i := r.Min; i <= r.Max; i++ {
		out = append(out, i)
	}
	return out
}

// Diff reports the indices present in a but not in b, in ascending
// order — the set-difference `Rₙ \ I` / `Rₒ \ I` used throughout the
// intersection algorithm.
func Diff(a, b IntegerRange) []Index {
	if !a.IsValid() {
		return nil
	}
	out := make([]Index, 0, a.Len())
	for i := a.Min; i <= a.Max; i++ {
		if !b.Contains(i) {
			out = append(out, i)
		}
	}
	return out
}
