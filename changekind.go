// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: changekind.go
// Summary: Classification of what triggered a transition, so the
// engine can pick the cheapest valid strategy.

package vcore

// ChangeKind classifies what triggered a transition, so the engine can
// pick the cheapest valid strategy instead of always rebuilding.
type ChangeKind int

const (
	// ChangeGeometry: viewport or cell-size changed.
	ChangeGeometry ChangeKind = iota
	// ChangePosition: scroll offset changed.
	ChangePosition
	// ChangeItemsReplaced: the entire backing sequence was swapped.
	ChangeItemsReplaced
	// ChangeItemsMutated: a granular add/remove/permute/set event arrived;
	// see Mutation for which.
	ChangeItemsMutated
	// ChangeFactory: the cell factory was replaced.
	ChangeFactory
	// ChangeOrientation: the scroll axis changed; position resets to 0.
	ChangeOrientation
	// ChangeOther: safe fallback, handled exactly like ChangeGeometry.
	ChangeOther
)

// String aids log messages and test failure output.
func (c ChangeKind) String() string {
	switch c {
	case ChangeGeometry:
		return "geometry"
	case ChangePosition:
		return "position"
	case ChangeItemsReplaced:
		return "items-replaced"
	case ChangeItemsMutated:
		return "items-mutated"
	case ChangeFactory:
		return "factory"
	case ChangeOrientation:
		return "orientation"
	case ChangeOther:
		return "other"
	default:
		return "unknown"
	}
}

// MutationKind distinguishes the four granular item-sequence events a
// host can report.
type MutationKind int

const (
	MutationPermuted MutationKind = iota
	MutationAdded
	MutationRemoved
	MutationSet
)

// Mutation carries the detail for ChangeItemsMutated. Only the fields
// relevant to Kind are populated; the zero value of the others is ignored.
type Mutation struct {
	Kind MutationKind

	// MutationPermuted: NewIndexOf[oldIndex] = newIndex, same length as
	// the item count before and after (size is unchanged by a permutation).
	NewIndexOf []Index

	// MutationAdded: m items inserted starting at index At.
	At    Index
	Count int

	// MutationRemoved: the indices removed, in ascending order, relative
	// to the sequence *before* removal.
	Removed []Index

	// MutationSet: the indices whose item value changed in place.
	Set []Index
}

// Changes observed within a single event turn coalesce into one
// transition classified by the least-specific kind that covers all of
// them. Ordering below is from most to least specific; the least
// specific of the two wins.
var changeSpecificity = map[ChangeKind]int{
	ChangePosition:      0,
	ChangeItemsMutated:  1,
	ChangeItemsReplaced: 2,
	ChangeOrientation:   3,
	ChangeGeometry:      4,
	ChangeFactory:       5,
	ChangeOther:         6,
}

// Coalesce returns the least-specific ChangeKind covering both a and b.
func Coalesce(a, b ChangeKind) ChangeKind {
	if a == b {
		return a
	}
	sa, ok := changeSpecificity[a]
	if !ok {
		sa = changeSpecificity[ChangeOther]
	}
	sb, ok := changeSpecificity[b]
	if !ok {
		sb = changeSpecificity[ChangeOther]
	}
	if sa >= sb {
		return a
	}
	return b
}
