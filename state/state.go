// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: state/state.go
// Summary: The state map layer: the authoritative record of which
// cell currently occupies which index, plus the secondary
// item->indices index needed for RemoveByItem and item-identity lookups.

package state

import (
	"sort"

	"github.com/framegrace/vcore"
)

// Map tracks live index->cell bindings and their reverse item->indices
// mapping. It holds no knowledge of geometry or scroll; the Engine is
// the only writer.
type Map[C vcore.Cell] struct {
	byIndex map[vcore.Index]C
	byItem  map[any][]vcore.Index
}

// New returns an empty Map.
func New[C vcore.Cell]() *Map[C] {
	return &Map[C]{
		byIndex: make(map[vcore.Index]C),
		byItem:  make(map[any][]vcore.Index),
	}
}

// Put binds cell to index and item. Callers must Remove any prior
// binding at i under its old item key first; Put does not know the old
// item key and cannot unindex it itself.
func (m *Map[C]) Put(i vcore.Index, item any, cell C) {
	m.byIndex[i] = cell
	m.byItem[item] = append(m.byItem[item], i)
}

// Remove unbinds the cell at index i (if any) under the given item key
// and returns it.
func (m *Map[C]) Remove(i vcore.Index, item any) (cell C, ok bool) {
	cell, ok = m.byIndex[i]
	if !ok {
		return cell, false
	}
	delete(m.byIndex, i)
	m.removeFromItemIndex(item, i)
	return cell, true
}

// RemoveByItem unbinds and returns one cell currently bound to item,
// preferring the lowest index. Duplicate items are legitimate, so only
// one binding is removed per call; the remaining duplicates stay live.
func (m *Map[C]) RemoveByItem(item any) (cell C, ok bool) {
	indices := m.byItem[item]
	if len(indices) == 0 {
		return cell, false
	}
	lowest := indices[0]
	for _, i := range indices[1:] {
		if i < lowest {
			lowest = i
		}
	}
	cell, ok = m.byIndex[lowest]
	if !ok {
		return cell, false
	}
	delete(m.byIndex, lowest)
	m.removeFromItemIndex(item, lowest)
	return cell, true
}

func (m *Map[C]) removeFromItemIndex(item any, i vcore.Index) {
	indices := m.byItem[item]
	for k, v := range indices {
		if v == i {
			indices = append(indices[:k], indices[k+1:]...)
			break
		}
	}
	if len(indices) == 0 {
		delete(m.byItem, item)
	} else {
		m.byItem[item] = indices
	}
}

// Resolve returns the cell bound to index i, if any.
func (m *Map[C]) Resolve(i vcore.Index) (cell C, ok bool) {
	cell, ok = m.byIndex[i]
	return
}

// IndicesOf returns every index currently bound to item.
func (m *Map[C]) IndicesOf(item any) []vcore.Index {
	return append([]vcore.Index(nil), m.byItem[item]...)
}

// Binding pairs a live cell with the item it currently displays.
type Binding[C vcore.Cell] struct {
	Item any
	Cell C
}

// Bindings returns every live (item, cell) pair in ascending index
// order. Duplicate items are enumerated once per binding, so a sequence
// carrying the same item at several indices resolves completely.
func (m *Map[C]) Bindings() []Binding[C] {
	itemOf := make(map[vcore.Index]any, len(m.byIndex))
	for item, indices := range m.byItem {
		for _, i := range indices {
			itemOf[i] = item
		}
	}
	idx := m.Indices()
	sort.Slice(idx, func(a, b int) bool { return idx[a] < idx[b] })
	out := make([]Binding[C], 0, len(idx))
	for _, i := range idx {
		out = append(out, Binding[C]{Item: itemOf[i], Cell: m.byIndex[i]})
	}
	return out
}

// ValuesByIndex returns every live cell in ascending index order, the
// ordering the rendering layer reconciles children in.
func (m *Map[C]) ValuesByIndex() []C {
	idx := m.Indices()
	sort.Slice(idx, func(a, b int) bool { return idx[a] < idx[b] })
	out := make([]C, 0, len(idx))
	for _, i := range idx {
		out = append(out, m.byIndex[i])
	}
	return out
}

// Indices returns every currently bound index, in no particular order.
func (m *Map[C]) Indices() []vcore.Index {
	out := make([]vcore.Index, 0, len(m.byIndex))
	for i := range m.byIndex {
		out = append(out, i)
	}
	return out
}

// Len returns the number of currently bound indices.
func (m *Map[C]) Len() int { return len(m.byIndex) }

// Clear drops every binding without disposing cells; callers are
// responsible for returning live cells to the Cache first.
func (m *Map[C]) Clear() {
	m.byIndex = make(map[vcore.Index]C)
	m.byItem = make(map[any][]vcore.Index)
}

// State is the immutable snapshot exposed to observers: the
// materialized range, the live cells keyed by
// index, and whether the set of cell identities differs from the prior
// snapshot.
type State[C vcore.Cell] struct {
	Range        vcore.IntegerRange
	Cells        map[vcore.Index]C
	CellsChanged bool
}

// Snapshot builds a State from the Map's current bindings for the given
// range and changed flag.
func (m *Map[C]) Snapshot(r vcore.IntegerRange, changed bool) State[C] {
	cells := make(map[vcore.Index]C, len(m.byIndex))
	for i, c := range m.byIndex {
		cells[i] = c
	}
	return State[C]{Range: r, Cells: cells, CellsChanged: changed}
}

// Empty returns the sentinel State for a container with nothing to
// show: zero items, or zero viewport extent.
func Empty[C vcore.Cell]() State[C] {
	return State[C]{Range: vcore.InvalidRange, Cells: map[vcore.Index]C{}}
}
