// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package geom_test

import (
	"errors"
	"testing"

	"github.com/framegrace/vcore"
	"github.com/framegrace/vcore/geom"
)

func TestPaginatedPageCount(t *testing.T) {
	p := geom.NewPaginatedHelper(23, 5, vcore.BufferSize(0))
	if got := p.PageCount(); got != 5 {
		t.Errorf("PageCount() = %d, want 5", got)
	}
}

func TestPaginatedRangePerPage(t *testing.T) {
	p := geom.NewPaginatedHelper(23, 5, vcore.BufferSize(0))
	p.SetPage(4)
	want := vcore.NewRange(20, 22)
	if got := p.Range(); got != want {
		t.Errorf("Range() on last page = %v, want %v", got, want)
	}
}

func TestPaginatedSetPageClampsAndIsIdempotent(t *testing.T) {
	p := geom.NewPaginatedHelper(23, 5, vcore.BufferSize(0))
	if ok := p.SetPage(100); ok {
		t.Error("SetPage(100) should report clamping occurred")
	}
	if got := p.Page(); got != 4 {
		t.Errorf("Page() = %d, want 4 after clamp", got)
	}
	// Setting the same clamped page again is a no-op idempotent call.
	if ok := p.SetPage(4); !ok {
		t.Error("SetPage(4) should report no clamping")
	}
	if got := p.Page(); got != 4 {
		t.Errorf("Page() = %d, want 4", got)
	}
}

func TestPaginatedScrollToIndexRemapsToPage(t *testing.T) {
	p := geom.NewPaginatedHelper(23, 5, vcore.BufferSize(0))
	p.ScrollToIndex(17)
	if got := p.Page(); got != 3 {
		t.Errorf("Page() after ScrollToIndex(17) = %d, want 3", got)
	}
}

func TestPaginatedSetItemCountClampsCurrentPage(t *testing.T) {
	p := geom.NewPaginatedHelper(23, 5, vcore.BufferSize(0))
	p.SetPage(4)
	p.SetItemCount(10)
	if got := p.Page(); got != 1 {
		t.Errorf("Page() after shrinking item count = %d, want 1", got)
	}
}

func TestPaginatedScrollByUnsupported(t *testing.T) {
	p := geom.NewPaginatedHelper(23, 5, vcore.BufferSize(0))
	err := p.ScrollBy(10)
	if !errors.Is(err, vcore.AsSentinel(vcore.KindUnsupportedOperation)) {
		t.Error("ScrollBy should return a KindUnsupportedOperation error")
	}
}

func TestPaginatedRangeEmpty(t *testing.T) {
	p := geom.NewPaginatedHelper(0, 5, vcore.BufferSize(0))
	if r := p.Range(); r.IsValid() {
		t.Errorf("Range() on empty collection = %v, want InvalidRange", r)
	}
}

func TestPaginatedRangeRetainsBufferPastPage(t *testing.T) {
	p := geom.NewPaginatedHelper(50, 5, vcore.BufferStandard)
	p.SetPage(2)
	if got := p.PageRange(); got != vcore.NewRange(10, 14) {
		t.Errorf("PageRange() = %v, want [10,14]", got)
	}
	// Two buffer cells on each side of the page stay materialized.
	if got := p.Range(); got != vcore.NewRange(8, 16) {
		t.Errorf("Range() = %v, want [8,16]", got)
	}

	// The buffer clamps at the collection edges rather than spilling:
	// a page has no scroll position to pull the window away from.
	p.SetPage(0)
	if got := p.Range(); got != vcore.NewRange(0, 6) {
		t.Errorf("Range() on first page = %v, want [0,6]", got)
	}
}
