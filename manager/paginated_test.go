// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package manager_test

import (
	"context"
	"errors"
	"testing"

	"github.com/framegrace/vcore"
	"github.com/framegrace/vcore/manager"
)

func TestPaginatedManagerSetPage(t *testing.T) {
	ctx := context.Background()
	items := newItems(23)
	m := manager.NewPaginatedManager[*testCell](items, newFactory(), 16, 5, vcore.BufferSize(0), nil)

	if err := m.SetPage(ctx, 2); err != nil {
		t.Fatalf("SetPage: %v", err)
	}
	if m.Page() != 2 {
		t.Errorf("Page() = %d, want 2", m.Page())
	}
	if len(m.State().Cells) != 5 {
		t.Errorf("len(Cells) = %d, want 5", len(m.State().Cells))
	}
}

func TestPaginatedManagerLastPageIsShort(t *testing.T) {
	ctx := context.Background()
	items := newItems(23)
	m := manager.NewPaginatedManager[*testCell](items, newFactory(), 16, 5, vcore.BufferSize(0), nil)

	m.SetPage(ctx, 4)
	if len(m.State().Cells) != 3 {
		t.Errorf("len(Cells) on last page = %d, want 3", len(m.State().Cells))
	}
}

func TestPaginatedManagerScrollByUnsupported(t *testing.T) {
	items := newItems(23)
	m := manager.NewPaginatedManager[*testCell](items, newFactory(), 16, 5, vcore.BufferSize(0), nil)
	err := m.ScrollBy(10)
	if !errors.Is(err, vcore.AsSentinel(vcore.KindUnsupportedOperation)) {
		t.Error("ScrollBy should return KindUnsupportedOperation")
	}
}

func TestPaginatedManagerScrollToIndexRemapsPage(t *testing.T) {
	ctx := context.Background()
	items := newItems(23)
	m := manager.NewPaginatedManager[*testCell](items, newFactory(), 16, 5, vcore.BufferSize(0), nil)

	if err := m.ScrollToIndex(ctx, 17); err != nil {
		t.Fatalf("ScrollToIndex: %v", err)
	}
	if m.Page() != 3 {
		t.Errorf("Page() = %d, want 3", m.Page())
	}
}

func TestPaginatedManagerSetCellsPerPageRejectsNonPositive(t *testing.T) {
	ctx := context.Background()
	items := newItems(23)
	m := manager.NewPaginatedManager[*testCell](items, newFactory(), 16, 5, vcore.BufferSize(0), nil)
	m.SetPage(ctx, 1)
	before := m.State()

	if err := m.SetCellsPerPage(ctx, 0); !errors.Is(err, vcore.AsSentinel(vcore.KindInvalidConfiguration)) {
		t.Error("SetCellsPerPage(0) should return KindInvalidConfiguration")
	}
	if len(m.State().Cells) != len(before.Cells) {
		t.Error("state should be unchanged after a rejected SetCellsPerPage")
	}
}

func TestPaginatedManagerApplyRemovedShiftsSurvivingCells(t *testing.T) {
	ctx := context.Background()
	items := newItems(10)
	m := manager.NewPaginatedManager[*testCell](items, newFactory(), 16, 10, vcore.BufferSize(0), nil)
	m.SetPage(ctx, 0)

	original, ok := m.State().Cells[5]
	if !ok {
		t.Fatal("expected index 5 materialized")
	}

	items.vals = append(items.vals[:2], items.vals[3:]...)
	if err := m.ApplyRemoved(ctx, []vcore.Index{2}); err != nil {
		t.Fatalf("ApplyRemoved: %v", err)
	}
	if cell, ok := m.State().Cells[4]; !ok || cell != original {
		t.Error("cell originally at index 5 should now live at shifted index 4")
	}
}

func TestPaginatedManagerRetainsBufferCellsAcrossPageTurn(t *testing.T) {
	ctx := context.Background()
	items := newItems(50)
	builds := 0
	counting := vcore.Factory(func(item any) (vcore.Cell, error) {
		builds++
		return &testCell{id: vcore.NewIdentity()}, nil
	})
	m := manager.NewPaginatedManager[*testCell](items, counting, 16, 5, vcore.BufferStandard, nil)
	if err := m.SetPage(ctx, 2); err != nil {
		t.Fatalf("SetPage: %v", err)
	}
	if m.Range() != (vcore.NewRange(8, 16)) {
		t.Fatalf("Range() = %v, want [8,16]", m.Range())
	}
	if m.PageRange() != (vcore.NewRange(10, 14)) {
		t.Fatalf("PageRange() = %v, want [10,14]", m.PageRange())
	}
	if len(m.State().Cells) != 9 {
		t.Fatalf("len(Cells) = %d, want 9 (page plus buffer)", len(m.State().Cells))
	}

	// Turning to the next page overlaps the retained window [8,16] with
	// [13,21]: only the five newly exposed indices need cells, and those
	// come from the five that scrolled out, not the factory.
	builds = 0
	if err := m.SetPage(ctx, 3); err != nil {
		t.Fatalf("SetPage: %v", err)
	}
	if builds != 0 {
		t.Errorf("builds = %d, want 0 (buffer cells reused)", builds)
	}
}

func TestPaginatedManagerSetBufferRejectsNegative(t *testing.T) {
	ctx := context.Background()
	items := newItems(23)
	m := manager.NewPaginatedManager[*testCell](items, newFactory(), 16, 5, vcore.BufferSize(0), nil)
	m.SetPage(ctx, 1)

	if err := m.SetBuffer(ctx, vcore.BufferSize(-1)); !errors.Is(err, vcore.AsSentinel(vcore.KindInvalidConfiguration)) {
		t.Error("SetBuffer(-1) should return KindInvalidConfiguration")
	}
}
