// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: scrollview/grid.go
// Summary: GridView composes a manager.GridManager with the rendering
// host, drawing a 2-D arrangement of cells that scrolls vertically.

package scrollview

import (
	"context"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/vcore"
	"github.com/framegrace/vcore/host"
	"github.com/framegrace/vcore/manager"
)

// GridView renders a columnsPerRow-wide virtualized grid.
type GridView[C ViewCell] struct {
	host.BaseWidget
	mgr   *manager.GridManager[C]
	style tcell.Style

	showIndicators bool

	inv func(host.Rect)
}

// NewGridView returns a GridView over items, built by factory, laid out
// columnsPerRow to a row.
func NewGridView[C ViewCell](items manager.Items, factory vcore.Factory, cacheBound, columnsPerRow int, rowExtent, rowSpacing, colExtent, colSpacing float64, buffer vcore.BufferSize, style tcell.Style) *GridView[C] {
	v := &GridView[C]{
		mgr:            manager.NewGridManager[C](items, factory, cacheBound, columnsPerRow, rowExtent, rowSpacing, colExtent, colSpacing, buffer, nil),
		style:          style,
		showIndicators: true,
	}
	v.SetFocusable(true)
	return v
}

// Manager returns the underlying Manager.
func (v *GridView[C]) Manager() *manager.GridManager[C] { return v.mgr }

func (v *GridView[C]) SetInvalidator(fn func(host.Rect)) { v.inv = fn }

func (v *GridView[C]) invalidate() {
	if v.inv != nil {
		v.inv(v.Rect)
	}
}

// Resize updates the viewport size and reruns the transition.
func (v *GridView[C]) Resize(w, h int) {
	v.BaseWidget.Resize(w, h)
	v.mgr.SetViewport(context.Background(), float64(w), float64(h))
	v.invalidate()
}

// Draw paints every materialized cell at its current row/column
// position, then the vertical scroll indicators.
func (v *GridView[C]) Draw(p *host.Painter) {
	rect := v.Rect
	p.Fill(rect, ' ', v.style)

	clipped := p.WithClip(rect)
	s := v.mgr.State()
	scrollY := v.mgr.ScrollY()
	cw, ch := v.mgr.CellSize()
	for i, cell := range s.Cells {
		x, y := v.mgr.Position(i)
		cell.PlaceAt(rect.X+int(x), rect.Y+int(y-scrollY), int(cw), int(ch))
		cell.Draw(clipped)
	}

	if v.showIndicators {
		drawScrollIndicators(clipped, rect, v.mgr.CanScrollUp(), v.mgr.CanScrollDown(), v.style)
	}
}

// HandleKey scrolls on PgUp/PgDn.
func (v *GridView[C]) HandleKey(ev *tcell.EventKey) bool {
	ctx := context.Background()
	switch ev.Key() {
	case tcell.KeyPgUp:
		v.mgr.ScrollBy(ctx, -float64(v.Rect.H))
		v.invalidate()
		return true
	case tcell.KeyPgDn:
		v.mgr.ScrollBy(ctx, float64(v.Rect.H))
		v.invalidate()
		return true
	}
	return false
}

// HandleMouse scrolls on the wheel.
func (v *GridView[C]) HandleMouse(ev *tcell.EventMouse) bool {
	x, y := ev.Position()
	if !v.HitTest(x, y) {
		return false
	}
	switch ev.Buttons() {
	case tcell.WheelUp:
		v.mgr.ScrollBy(context.Background(), -3)
		v.invalidate()
		return true
	case tcell.WheelDown:
		v.mgr.ScrollBy(context.Background(), 3)
		v.invalidate()
		return true
	}
	return true
}
