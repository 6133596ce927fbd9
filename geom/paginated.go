// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package geom

import "github.com/framegrace/vcore"

// PaginatedHelper computes the visible item range for a page-based
// container. There is no continuous scroll
// axis: cellsPerPage fixes the number of visible cells per page, and
// ScrollToIndex remaps to the page containing that index. Buffer cells
// past either page boundary are retained deliberately: they sit outside
// the strict page window, occluded by the viewport clip, so turning to
// an adjacent page reuses them instead of building.
type PaginatedHelper struct {
	itemCount    int
	cellsPerPage int
	page         int
	buffer       vcore.BufferSize
}

// NewPaginatedHelper returns a PaginatedHelper over itemCount items,
// cellsPerPage to a page, starting on page 0.
func NewPaginatedHelper(itemCount, cellsPerPage int, buffer vcore.BufferSize) *PaginatedHelper {
	return &PaginatedHelper{itemCount: itemCount, cellsPerPage: cellsPerPage, buffer: buffer}
}

// SetBuffer updates the buffer policy.
func (p *PaginatedHelper) SetBuffer(b vcore.BufferSize) { p.buffer = b }

// Buffer returns the current buffer policy.
func (p *PaginatedHelper) Buffer() vcore.BufferSize { return p.buffer }

// PageCount returns ceil(itemCount / cellsPerPage), or 0 when either
// input is non-positive.
func (p *PaginatedHelper) PageCount() int {
	if p.cellsPerPage <= 0 || p.itemCount <= 0 {
		return 0
	}
	return (p.itemCount + p.cellsPerPage - 1) / p.cellsPerPage
}

// SetItemCount updates the item count, clamping the current page into range.
func (p *PaginatedHelper) SetItemCount(n int) {
	p.itemCount = n
	p.clampPage()
}

// SetCellsPerPage updates the page size, clamping the current page into range.
func (p *PaginatedHelper) SetCellsPerPage(n int) {
	p.cellsPerPage = n
	p.clampPage()
}

func (p *PaginatedHelper) clampPage() {
	pc := p.PageCount()
	if pc == 0 {
		p.page = 0
		return
	}
	if p.page >= pc {
		p.page = pc - 1
	}
	if p.page < 0 {
		p.page = 0
	}
}

// Page returns the current page index.
func (p *PaginatedHelper) Page() int { return p.page }

// SetPage moves to page n, clamped to [0, PageCount()-1]. Returns false
// if n was already out of range and got clamped, true otherwise.
func (p *PaginatedHelper) SetPage(n int) bool {
	pc := p.PageCount()
	if pc == 0 {
		p.page = 0
		return n == 0
	}
	clamped := n
	if clamped < 0 {
		clamped = 0
	}
	if clamped >= pc {
		clamped = pc - 1
	}
	p.page = clamped
	return clamped == n
}

// ScrollToIndex moves to the page containing item index i.
func (p *PaginatedHelper) ScrollToIndex(i vcore.Index) {
	if p.cellsPerPage <= 0 {
		return
	}
	p.SetPage(int(i) / p.cellsPerPage)
}

// PageRange returns the strict page window:
// [page*cellsPerPage, min(itemCount, (page+1)*cellsPerPage) - 1].
func (p *PaginatedHelper) PageRange() vcore.IntegerRange {
	if p.itemCount <= 0 || p.cellsPerPage <= 0 {
		return vcore.InvalidRange
	}
	first := p.page * p.cellsPerPage
	last := first + p.cellsPerPage - 1
	if last > p.itemCount-1 {
		last = p.itemCount - 1
	}
	if first > last {
		return vcore.InvalidRange
	}
	return vcore.NewRange(vcore.Index(first), vcore.Index(last))
}

// Range returns the materialized range: the strict page window extended
// by buffer indices past each page boundary, clamped to the collection.
func (p *PaginatedHelper) Range() vcore.IntegerRange {
	r := p.PageRange()
	if !r.IsValid() {
		return r
	}
	return r.Expand(p.buffer.Int(), vcore.Index(p.itemCount-1))
}

// ScrollBy is a pixel-based scroll operation, which has no meaning on a
// paginated container. Callers should use SetPage or
// ScrollToIndex instead.
func (p *PaginatedHelper) ScrollBy(delta float64) error {
	return vcore.NewError("PaginatedHelper.ScrollBy", vcore.KindUnsupportedOperation, nil)
}
