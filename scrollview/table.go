// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: scrollview/table.go
// Summary: TableView composes a manager.TableManager with the rendering
// host, drawing a 2-D grid of row/column cells that scroll independently.

package scrollview

import (
	"context"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/vcore"
	"github.com/framegrace/vcore/host"
	"github.com/framegrace/vcore/manager"
)

// TableView renders a virtualized table with fixed-width columns.
type TableView[C ViewCell] struct {
	host.BaseWidget
	mgr   *manager.TableManager[C]
	style tcell.Style

	showIndicators bool

	inv func(host.Rect)
}

// NewTableView returns a TableView over rowItems, built by factory.
func NewTableView[C ViewCell](rowItems manager.RowItems, factory vcore.Factory, rowCacheBound, colCacheBound, colCount int, rowExtent, rowSpacing, colExtent, colSpacing float64, buffer vcore.BufferSize, style tcell.Style) *TableView[C] {
	v := &TableView[C]{
		mgr:            manager.NewTableManager[C](rowItems, factory, rowCacheBound, colCacheBound, colCount, rowExtent, rowSpacing, colExtent, colSpacing, buffer, nil),
		style:          style,
		showIndicators: true,
	}
	v.SetFocusable(true)
	return v
}

// Manager returns the underlying Manager.
func (v *TableView[C]) Manager() *manager.TableManager[C] { return v.mgr }

func (v *TableView[C]) SetInvalidator(fn func(host.Rect)) { v.inv = fn }

func (v *TableView[C]) invalidate() {
	if v.inv != nil {
		v.inv(v.Rect)
	}
}

// Resize updates the viewport dimensions and reruns the row/column transition.
func (v *TableView[C]) Resize(w, h int) {
	v.BaseWidget.Resize(w, h)
	v.mgr.SetViewport(context.Background(), float64(w), float64(h))
	v.invalidate()
}

// Draw paints every materialized row's materialized columns at their
// current position, then the vertical scroll indicators.
func (v *TableView[C]) Draw(p *host.Painter) {
	rect := v.Rect
	p.Fill(rect, ' ', v.style)

	clipped := p.WithClip(rect)
	scrollX, scrollY := v.mgr.ScrollX(), v.mgr.ScrollY()
	rowH := int(v.mgr.RowHeight())
	for rowIdx, cols := range v.mgr.Rows() {
		for colIdx, cell := range cols {
			x, y := v.mgr.Position(rowIdx, colIdx)
			cell.PlaceAt(rect.X+int(x-scrollX), rect.Y+int(y-scrollY), int(v.mgr.ColumnWidth(colIdx)), rowH)
			cell.Draw(clipped)
		}
	}

	if v.showIndicators {
		drawScrollIndicators(clipped, rect, v.mgr.CanScrollUp(), v.mgr.CanScrollDown(), v.style)
	}
}

// HandleKey scrolls vertically on PgUp/PgDn.
func (v *TableView[C]) HandleKey(ev *tcell.EventKey) bool {
	ctx := context.Background()
	switch ev.Key() {
	case tcell.KeyPgUp:
		v.mgr.ScrollTo(ctx, v.mgr.ScrollX(), v.mgr.ScrollY()-float64(v.Rect.H))
		v.invalidate()
		return true
	case tcell.KeyPgDn:
		v.mgr.ScrollTo(ctx, v.mgr.ScrollX(), v.mgr.ScrollY()+float64(v.Rect.H))
		v.invalidate()
		return true
	}
	return false
}

// HandleMouse scrolls vertically on the wheel, horizontally with Shift.
func (v *TableView[C]) HandleMouse(ev *tcell.EventMouse) bool {
	x, y := ev.Position()
	if !v.HitTest(x, y) {
		return false
	}
	ctx := context.Background()
	switch ev.Buttons() {
	case tcell.WheelUp:
		if ev.Modifiers()&tcell.ModShift != 0 {
			v.mgr.ScrollTo(ctx, v.mgr.ScrollX()-3, v.mgr.ScrollY())
		} else {
			v.mgr.ScrollTo(ctx, v.mgr.ScrollX(), v.mgr.ScrollY()-3)
		}
		v.invalidate()
		return true
	case tcell.WheelDown:
		if ev.Modifiers()&tcell.ModShift != 0 {
			v.mgr.ScrollTo(ctx, v.mgr.ScrollX()+3, v.mgr.ScrollY())
		} else {
			v.mgr.ScrollTo(ctx, v.mgr.ScrollX(), v.mgr.ScrollY()+3)
		}
		v.invalidate()
		return true
	}
	return true
}
