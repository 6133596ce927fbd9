// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: scrollview/list.go
// Summary: ListView composes a manager.ListManager with the rendering
// host: a scrollable widget whose visible content is exactly the set of
// cells the Manager currently materializes. Unlike a scroll pane that
// repositions one oversized child, ListView draws a window of many
// small cells; virtualization means there is no single child to move.

package scrollview

import (
	"context"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/vcore"
	"github.com/framegrace/vcore/host"
	"github.com/framegrace/vcore/manager"
)

// ListView renders a one-dimensional virtualized list.
type ListView[C ViewCell] struct {
	host.BaseWidget
	mgr   *manager.ListManager[C]
	style tcell.Style

	showIndicators bool

	inv func(host.Rect)
}

// NewListView returns a ListView over items, built by factory, scrolling
// along o with cellExtent/spacing per item.
func NewListView[C ViewCell](items manager.Items, factory vcore.Factory, cacheBound int, o vcore.Orientation, cellExtent, spacing float64, buffer vcore.BufferSize, style tcell.Style) *ListView[C] {
	v := &ListView[C]{
		mgr:            manager.NewListManager[C](items, factory, cacheBound, o, cellExtent, spacing, buffer, nil),
		style:          style,
		showIndicators: true,
	}
	v.SetFocusable(true)
	return v
}

// Manager returns the underlying Manager, for callers driving item
// mutations (SetItemCount, ApplyAdded, ...) directly.
func (v *ListView[C]) Manager() *manager.ListManager[C] { return v.mgr }

// ShowIndicators enables or disables the edge scroll glyphs.
func (v *ListView[C]) ShowIndicators(show bool) { v.showIndicators = show }

// SetInvalidator sets the callback invoked whenever a Manager transition
// actually changes what's materialized, so the host knows to redraw
// without polling every frame.
func (v *ListView[C]) SetInvalidator(fn func(host.Rect)) { v.inv = fn }

func (v *ListView[C]) invalidate() {
	if v.inv != nil {
		v.inv(v.Rect)
	}
}

// Resize updates the viewport extent along the scroll axis and reruns
// the transition.
func (v *ListView[C]) Resize(w, h int) {
	v.BaseWidget.Resize(w, h)
	v.reflow()
}

func (v *ListView[C]) reflow() {
	extent := float64(v.Rect.H)
	if v.mgr.Orientation() == vcore.Horizontal {
		extent = float64(v.Rect.W)
	}
	v.mgr.SetViewport(context.Background(), extent)
	v.invalidate()
}

// ScrollBy scrolls by delta content units (the units of the cell extent), clamped.
func (v *ListView[C]) ScrollBy(ctx context.Context, delta float64) error {
	err := v.mgr.ScrollBy(ctx, delta)
	v.invalidate()
	return err
}

// ScrollToIndex scrolls so index i is at the start of the viewport.
func (v *ListView[C]) ScrollToIndex(ctx context.Context, i vcore.Index) error {
	err := v.mgr.ScrollToIndex(ctx, i)
	v.invalidate()
	return err
}

// Draw paints every materialized cell at its current layout position,
// then the scroll indicators.
func (v *ListView[C]) Draw(p *host.Painter) {
	rect := v.Rect
	p.Fill(rect, ' ', v.style)

	clipped := p.WithClip(rect)
	s := v.mgr.State()
	scroll := v.mgr.Scroll()
	extent := int(v.mgr.CellExtent())
	horizontal := v.mgr.Orientation() == vcore.Horizontal
	for i, cell := range s.Cells {
		main, cross := v.mgr.Position(i)
		if horizontal {
			cell.PlaceAt(rect.X+int(main-scroll), rect.Y+int(cross), extent, rect.H)
		} else {
			cell.PlaceAt(rect.X+int(cross), rect.Y+int(main-scroll), rect.W, extent)
		}
		cell.Draw(clipped)
	}

	if v.showIndicators {
		drawScrollIndicators(clipped, rect, v.mgr.CanScrollUp(), v.mgr.CanScrollDown(), v.style)
	}
}

// HandleKey scrolls on PgUp/PgDn/Home/End (with Ctrl for Home/End),
// otherwise reports unhandled.
func (v *ListView[C]) HandleKey(ev *tcell.EventKey) bool {
	ctx := context.Background()
	extent := float64(v.Rect.H)
	if v.mgr.Orientation() == vcore.Horizontal {
		extent = float64(v.Rect.W)
	}
	switch ev.Key() {
	case tcell.KeyPgUp:
		v.ScrollBy(ctx, -extent)
		return true
	case tcell.KeyPgDn:
		v.ScrollBy(ctx, extent)
		return true
	case tcell.KeyHome:
		if ev.Modifiers()&tcell.ModCtrl != 0 {
			v.mgr.ScrollTo(ctx, 0)
			v.invalidate()
			return true
		}
	case tcell.KeyEnd:
		if ev.Modifiers()&tcell.ModCtrl != 0 {
			v.mgr.ScrollTo(ctx, v.mgr.MaxScroll())
			v.invalidate()
			return true
		}
	}
	return false
}

// HandleMouse scrolls on the wheel; other events are not routed to
// individual cells since vcore cells are not interactive widgets.
func (v *ListView[C]) HandleMouse(ev *tcell.EventMouse) bool {
	x, y := ev.Position()
	if !v.HitTest(x, y) {
		return false
	}
	switch ev.Buttons() {
	case tcell.WheelUp:
		v.ScrollBy(context.Background(), -3)
		return true
	case tcell.WheelDown:
		v.ScrollBy(context.Background(), 3)
		return true
	}
	return true
}
