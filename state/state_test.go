// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package state_test

import (
	"testing"

	"github.com/google/uuid"

	"github.com/framegrace/vcore"
	"github.com/framegrace/vcore/state"
)

type fakeCell struct {
	id    vcore.Identity
	label string
}

func (f *fakeCell) Identity() uuid.UUID { return f.id.Identity() }

func newFakeCell(label string) *fakeCell {
	return &fakeCell{id: vcore.NewIdentity(), label: label}
}

func (f *fakeCell) UpdateIndex(i vcore.Index) {}
func (f *fakeCell) UpdateItem(item any)       {}
func (f *fakeCell) OnCache()                  {}
func (f *fakeCell) OnDeCache()                {}
func (f *fakeCell) Dispose()                  {}

func TestMapPutResolve(t *testing.T) {
	m := state.New[*fakeCell]()
	c := newFakeCell("a")
	m.Put(3, "item-a", c)

	got, ok := m.Resolve(3)
	if !ok || got != c {
		t.Fatal("Resolve(3) should return the cell bound at Put")
	}
}

func TestMapRemove(t *testing.T) {
	m := state.New[*fakeCell]()
	c := newFakeCell("a")
	m.Put(3, "item-a", c)

	got, ok := m.Remove(3, "item-a")
	if !ok || got != c {
		t.Fatal("Remove(3) should return the previously bound cell")
	}
	if _, ok := m.Resolve(3); ok {
		t.Error("Resolve(3) after Remove should report false")
	}
	if len(m.IndicesOf("item-a")) != 0 {
		t.Error("IndicesOf should no longer list the removed index")
	}
}

func TestMapRemoveByItem(t *testing.T) {
	m := state.New[*fakeCell]()
	a, b := newFakeCell("shared"), newFakeCell("shared")
	m.Put(2, "shared", b)
	m.Put(1, "shared", a)

	got, ok := m.RemoveByItem("shared")
	if !ok || got != a {
		t.Fatal("RemoveByItem should take the lowest-index binding first")
	}
	if m.Len() != 1 {
		t.Fatalf("Len() after one RemoveByItem = %d, want 1", m.Len())
	}
	got, ok = m.RemoveByItem("shared")
	if !ok || got != b {
		t.Fatal("second RemoveByItem should return the remaining duplicate")
	}
	if _, ok := m.RemoveByItem("shared"); ok {
		t.Error("RemoveByItem on an exhausted item should report false")
	}
}

func TestMapValuesByIndex(t *testing.T) {
	m := state.New[*fakeCell]()
	a, b, c := newFakeCell("a"), newFakeCell("b"), newFakeCell("c")
	m.Put(7, "b", b)
	m.Put(2, "a", a)
	m.Put(9, "c", c)

	got := m.ValuesByIndex()
	want := []*fakeCell{a, b, c}
	if len(got) != len(want) {
		t.Fatalf("ValuesByIndex returned %d cells, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ValuesByIndex[%d] out of order", i)
		}
	}
}

func TestMapIndicesOfMultipleBindings(t *testing.T) {
	m := state.New[*fakeCell]()
	c := newFakeCell("a")
	m.Put(1, "a", c)
	m.Put(2, "a", c)

	idx := m.IndicesOf("a")
	if len(idx) != 2 {
		t.Fatalf("IndicesOf = %v, want 2 entries", idx)
	}
}

func TestMapClear(t *testing.T) {
	m := state.New[*fakeCell]()
	m.Put(1, "a", newFakeCell("a"))
	m.Clear()
	if m.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", m.Len())
	}
	if len(m.IndicesOf("a")) != 0 {
		t.Error("IndicesOf after Clear should be empty")
	}
}

func TestMapSnapshot(t *testing.T) {
	m := state.New[*fakeCell]()
	c := newFakeCell("a")
	m.Put(3, "a", c)

	snap := m.Snapshot(vcore.NewRange(0, 5), true)
	if !snap.CellsChanged {
		t.Error("Snapshot should carry the changed flag through")
	}
	if snap.Cells[3] != c {
		t.Error("Snapshot should copy current bindings")
	}

	// Mutating the map afterward must not affect a prior snapshot.
	m.Put(4, "b", newFakeCell("b"))
	if _, ok := snap.Cells[4]; ok {
		t.Error("Snapshot should be a point-in-time copy, not a live view")
	}
}

func TestEmptyState(t *testing.T) {
	e := state.Empty[*fakeCell]()
	if e.Range.IsValid() {
		t.Error("Empty().Range should be invalid")
	}
	if len(e.Cells) != 0 {
		t.Error("Empty().Cells should have no entries")
	}
}

func TestMapBindingsEnumeratesDuplicates(t *testing.T) {
	m := state.New[*fakeCell]()
	a, b, c := newFakeCell("x"), newFakeCell("x"), newFakeCell("y")
	m.Put(5, "x", b)
	m.Put(1, "x", a)
	m.Put(3, "y", c)

	got := m.Bindings()
	if len(got) != 3 {
		t.Fatalf("Bindings() returned %d entries, want 3", len(got))
	}
	if got[0].Cell != a || got[0].Item != "x" {
		t.Errorf("Bindings()[0] = {%v %v}, want {x a}", got[0].Item, got[0].Cell)
	}
	if got[1].Cell != c || got[1].Item != "y" {
		t.Errorf("Bindings()[1] = {%v %v}, want {y c}", got[1].Item, got[1].Cell)
	}
	if got[2].Cell != b || got[2].Item != "x" {
		t.Errorf("Bindings()[2] = {%v %v}, want {x b}", got[2].Item, got[2].Cell)
	}
}
