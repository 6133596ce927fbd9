// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: scrollview/paginated.go
// Summary: PaginatedView composes a manager.PaginatedManager with the
// rendering host. There is no continuous scroll axis: navigation moves
// whole pages, and cells within a page stack vertically by cellExtent.

package scrollview

import (
	"context"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/vcore"
	"github.com/framegrace/vcore/host"
	"github.com/framegrace/vcore/manager"
)

// PaginatedView renders one page of cells at a time, stacked vertically.
type PaginatedView[C ViewCell] struct {
	host.BaseWidget
	mgr        *manager.PaginatedManager[C]
	style      tcell.Style
	cellExtent float64

	inv func(host.Rect)
}

// NewPaginatedView returns a PaginatedView over items, cellsPerPage to a
// page, each cell drawn cellExtent rows tall.
func NewPaginatedView[C ViewCell](items manager.Items, factory vcore.Factory, cacheBound, cellsPerPage int, buffer vcore.BufferSize, cellExtent float64, style tcell.Style) *PaginatedView[C] {
	v := &PaginatedView[C]{
		mgr:        manager.NewPaginatedManager[C](items, factory, cacheBound, cellsPerPage, buffer, nil),
		style:      style,
		cellExtent: cellExtent,
	}
	v.SetFocusable(true)
	return v
}

// Manager returns the underlying Manager.
func (v *PaginatedView[C]) Manager() *manager.PaginatedManager[C] { return v.mgr }

func (v *PaginatedView[C]) SetInvalidator(fn func(host.Rect)) { v.inv = fn }

func (v *PaginatedView[C]) invalidate() {
	if v.inv != nil {
		v.inv(v.Rect)
	}
}

func (v *PaginatedView[C]) Resize(w, h int) {
	v.BaseWidget.Resize(w, h)
	v.invalidate()
}

// Draw paints the current page's cells, stacked top to bottom.
// Positions are anchored to the strict page window: the retained buffer
// cells land above or below it and the viewport clip occludes them.
func (v *PaginatedView[C]) Draw(p *host.Painter) {
	rect := v.Rect
	p.Fill(rect, ' ', v.style)

	clipped := p.WithClip(rect)
	page := v.mgr.PageRange()
	if !page.IsValid() {
		return
	}
	s := v.mgr.State()
	for i, cell := range s.Cells {
		row := int(i - page.Min)
		cell.PlaceAt(rect.X, rect.Y+int(float64(row)*v.cellExtent), rect.W, int(v.cellExtent))
		cell.Draw(clipped)
	}

	drawPageIndicator(clipped, rect, v.mgr.Page(), v.mgr.PageCount(), v.style)
}

// HandleKey pages with PgUp/PgDn.
func (v *PaginatedView[C]) HandleKey(ev *tcell.EventKey) bool {
	ctx := context.Background()
	switch ev.Key() {
	case tcell.KeyPgUp:
		v.mgr.SetPage(ctx, v.mgr.Page()-1)
		v.invalidate()
		return true
	case tcell.KeyPgDn:
		v.mgr.SetPage(ctx, v.mgr.Page()+1)
		v.invalidate()
		return true
	}
	return false
}

// HandleMouse turns pages on the wheel.
func (v *PaginatedView[C]) HandleMouse(ev *tcell.EventMouse) bool {
	x, y := ev.Position()
	if !v.HitTest(x, y) {
		return false
	}
	ctx := context.Background()
	switch ev.Buttons() {
	case tcell.WheelUp:
		v.mgr.SetPage(ctx, v.mgr.Page()-1)
		v.invalidate()
		return true
	case tcell.WheelDown:
		v.mgr.SetPage(ctx, v.mgr.Page()+1)
		v.invalidate()
		return true
	}
	return true
}
