// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: host/widget.go
// Summary: The placement/draw contract the virtualization core renders
// through. Cells are not a widget tree: a view re-places its window of
// cells on every draw, so the surface here is a flat Box the layout
// step drives, not a parent/child hierarchy.

package host

import "github.com/gdamore/tcell/v2"

// Box is the placement half of a widget: something occupying a screen
// rectangle. A virtualizing view re-places each materialized cell at
// its computed position every frame, which is why placement stands
// apart from drawing and focus.
type Box interface {
	SetPosition(x, y int)
	Position() (int, int)
	Resize(w, h int)
	Size() (int, int)
	PlaceAt(x, y, w, h int)
	HitTest(x, y int) bool
}

// Widget is a Box the host can draw and focus: the scroll views in
// scrollview, and the cells they lay out.
type Widget interface {
	Box
	Draw(p *Painter)
	Focusable() bool
	Focus()
	Blur()
	HandleKey(ev *tcell.EventKey) bool
}

// BaseWidget carries the placement and focus bookkeeping every widget
// shares, so a host-supplied cell only implements Draw and the cell
// contract.
type BaseWidget struct {
	Rect      Rect
	focused   bool
	focusable bool
}

func (b *BaseWidget) SetPosition(x, y int) { b.Rect.X, b.Rect.Y = x, y }
func (b *BaseWidget) Position() (int, int) { return b.Rect.X, b.Rect.Y }

func (b *BaseWidget) Resize(w, h int) {
	b.Rect.W, b.Rect.H = max(w, 0), max(h, 0)
}

func (b *BaseWidget) Size() (int, int) { return b.Rect.W, b.Rect.H }

// PlaceAt moves and sizes the widget in one call — the shape a scroll
// view uses when laying a cell out each frame.
func (b *BaseWidget) PlaceAt(x, y, w, h int) {
	b.SetPosition(x, y)
	b.Resize(w, h)
}

func (b *BaseWidget) Focusable() bool     { return b.focusable }
func (b *BaseWidget) SetFocusable(f bool) { b.focusable = f }

func (b *BaseWidget) Focus() {
	if b.focusable {
		b.focused = true
	}
}

func (b *BaseWidget) Blur()           { b.focused = false }
func (b *BaseWidget) IsFocused() bool { return b.focused }

func (b *BaseWidget) HitTest(x, y int) bool { return b.Rect.Contains(x, y) }

// HandleKey ignores every key; views that scroll override it.
func (b *BaseWidget) HandleKey(ev *tcell.EventKey) bool { return false }

// MouseAware widgets consume mouse events the host routes to them.
type MouseAware interface {
	HandleMouse(ev *tcell.EventMouse) bool
}

// InvalidationAware widgets accept a callback to signal that something
// they show changed and a repaint is due. A view fires it off the
// Manager's transitions rather than the host polling every frame.
type InvalidationAware interface {
	SetInvalidator(func(Rect))
}
