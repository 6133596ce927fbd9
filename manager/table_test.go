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

type gridRowItems struct {
	rows, cols int
}

func (g *gridRowItems) Len() int                                   { return g.rows }
func (g *gridRowItems) Row(i vcore.Index) any                      { return int(i) }
func (g *gridRowItems) Column(row vcore.Index, col vcore.Index) any { return int(row)*g.cols + int(col) }

func TestTableManagerMaterializesRowsAndColumns(t *testing.T) {
	ctx := context.Background()
	items := &gridRowItems{rows: 50, cols: 10}
	m := manager.NewTableManager[*testCell](items, newFactory(), 16, 16, 10, 20, 0, 8, 0, vcore.BufferSize(0), nil)

	if err := m.SetViewport(ctx, 80, 100); err != nil {
		t.Fatalf("SetViewport: %v", err)
	}
	rows := m.Rows()
	if len(rows) == 0 {
		t.Fatal("expected at least one materialized row")
	}
	for _, cols := range rows {
		if len(cols) == 0 {
			t.Error("expected every materialized row to have materialized columns")
		}
	}
	if m.Phase() != manager.Ready {
		t.Errorf("Phase() = %v, want Ready", m.Phase())
	}
}

func TestTableManagerScrollReusesRows(t *testing.T) {
	ctx := context.Background()
	items := &gridRowItems{rows: 100, cols: 5}
	m := manager.NewTableManager[*testCell](items, newFactory(), 32, 16, 5, 20, 0, 10, 0, vcore.BufferSize(0), nil)
	m.SetViewport(ctx, 50, 100)

	firstRows := m.Rows()
	var sampleRowIdx vcore.Index
	for idx := range firstRows {
		sampleRowIdx = idx
		break
	}

	if err := m.ScrollTo(ctx, 0, 5); err != nil {
		t.Fatalf("ScrollTo: %v", err)
	}
	_ = sampleRowIdx
	if m.Phase() != manager.Ready {
		t.Errorf("Phase() = %v, want Ready after small scroll", m.Phase())
	}
}

func TestTableManagerRowReuseRefreshesColumnItems(t *testing.T) {
	ctx := context.Background()
	items := &gridRowItems{rows: 100, cols: 2}
	m := manager.NewTableManager[*testCell](items, newFactory(), 32, 16, 2, 10, 0, 10, 0, vcore.BufferSize(0), nil)
	m.SetViewport(ctx, 20, 30) // rows [0,2]

	// Jump to a disjoint row window: every row cell is reused at a new
	// row index, and its column cells must pick up the new row's items.
	if err := m.ScrollTo(ctx, 0, 500); err != nil {
		t.Fatalf("ScrollTo: %v", err)
	}
	for rowIdx, cols := range m.Rows() {
		for colIdx, cell := range cols {
			want := int(rowIdx)*items.cols + int(colIdx)
			if cell.item != want {
				t.Errorf("row %d col %d shows item %v, want %d", rowIdx, colIdx, cell.item, want)
			}
		}
	}
}

func TestTableManagerSetColumnWidthIsLayoutOnly(t *testing.T) {
	items := &gridRowItems{rows: 20, cols: 3}
	m := manager.NewTableManager[*testCell](items, newFactory(), 16, 16, 3, 20, 0, 10, 0, vcore.BufferSize(0), nil)
	m.SetColumnWidth(0, 40) // must not panic and requires no transition to apply
}

func TestTableManagerSetFactoryRebuildsRows(t *testing.T) {
	ctx := context.Background()
	items := &gridRowItems{rows: 20, cols: 3}
	m := manager.NewTableManager[*testCell](items, newFactory(), 16, 16, 3, 20, 0, 10, 0, vcore.BufferSize(0), nil)
	if err := m.SetViewport(ctx, 50, 100); err != nil {
		t.Fatalf("SetViewport: %v", err)
	}
	before := m.Rows()
	if len(before) == 0 {
		t.Fatal("expected materialized rows before SetFactory")
	}

	if err := m.SetFactory(ctx, newFactory()); err != nil {
		t.Fatalf("SetFactory: %v", err)
	}
	if m.Phase() != manager.Ready {
		t.Errorf("Phase() = %v, want Ready after SetFactory", m.Phase())
	}
	after := m.Rows()
	if len(after) == 0 {
		t.Fatal("expected materialized rows after SetFactory")
	}
}

func TestTableManagerSetFactoryFailureKeepsOldRows(t *testing.T) {
	ctx := context.Background()
	items := &gridRowItems{rows: 20, cols: 3}
	m := manager.NewTableManager[*testCell](items, newFactory(), 16, 16, 3, 20, 0, 10, 0, vcore.BufferSize(0), nil)
	m.SetViewport(ctx, 50, 100)
	before := m.Rows()

	boom := errors.New("boom")
	failing := vcore.Factory(func(item any) (vcore.Cell, error) { return nil, boom })
	err := m.SetFactory(ctx, failing)
	if err == nil {
		t.Fatal("expected SetFactory to surface the factory error")
	}
	if !errors.Is(err, vcore.AsSentinel(vcore.KindFactoryFailure)) {
		t.Error("error should classify as KindFactoryFailure")
	}
	if len(m.Rows()) != len(before) {
		t.Error("old rows should remain current after a failed SetFactory")
	}
}

func TestTableManagerSetItemCountShrinksRows(t *testing.T) {
	ctx := context.Background()
	items := &gridRowItems{rows: 20, cols: 3}
	m := manager.NewTableManager[*testCell](items, newFactory(), 16, 16, 3, 20, 0, 10, 0, vcore.BufferSize(0), nil)
	m.SetViewport(ctx, 1000, 1000)

	if err := m.SetItemCount(ctx, 5); err != nil {
		t.Fatalf("SetItemCount: %v", err)
	}
	for idx := range m.Rows() {
		if int(idx) >= 5 {
			t.Errorf("row %d should not be materialized after SetItemCount(5)", idx)
		}
	}
}

func TestTableManagerAddColumnPropagatesIntoEveryRow(t *testing.T) {
	ctx := context.Background()
	items := &gridRowItems{rows: 5, cols: 3}
	m := manager.NewVariableTableManager[*testCell](items, newFactory(), 16, 16, []float64{10, 20, 30}, 20, 0, 0, vcore.BufferSize(0), nil)
	if err := m.SetViewport(ctx, 100, 100); err != nil {
		t.Fatalf("SetViewport: %v", err)
	}
	before := m.Rows()
	if len(before) == 0 {
		t.Fatal("expected materialized rows before AddColumn")
	}

	if err := m.AddColumn(ctx, 1, 15); err != nil {
		t.Fatalf("AddColumn: %v", err)
	}
	for idx, cols := range m.Rows() {
		_ = idx
		if len(cols) == 0 {
			t.Error("expected every row to still have materialized columns after AddColumn")
		}
	}
}

func TestTableManagerRemoveColumnPropagatesIntoEveryRow(t *testing.T) {
	ctx := context.Background()
	items := &gridRowItems{rows: 5, cols: 3}
	m := manager.NewVariableTableManager[*testCell](items, newFactory(), 16, 16, []float64{10, 20, 30}, 20, 0, 0, vcore.BufferSize(0), nil)
	if err := m.SetViewport(ctx, 100, 100); err != nil {
		t.Fatalf("SetViewport: %v", err)
	}

	if err := m.RemoveColumn(ctx, 0); err != nil {
		t.Fatalf("RemoveColumn: %v", err)
	}
	if m.Phase() != manager.Ready {
		t.Errorf("Phase() = %v, want Ready after RemoveColumn", m.Phase())
	}
}

func TestTableManagerAddColumnFixedModeAppends(t *testing.T) {
	ctx := context.Background()
	items := &gridRowItems{rows: 5, cols: 3}
	m := manager.NewTableManager[*testCell](items, newFactory(), 16, 16, 3, 20, 0, 10, 0, vcore.BufferSize(0), nil)
	m.SetViewport(ctx, 100, 100)

	if err := m.AddColumn(ctx, 0, 0); err != nil {
		t.Fatalf("AddColumn: %v", err)
	}
	if m.Phase() != manager.Ready {
		t.Errorf("Phase() = %v, want Ready after AddColumn", m.Phase())
	}
}

func TestTableManagerSetBufferWidensWindows(t *testing.T) {
	ctx := context.Background()
	items := &gridRowItems{rows: 100, cols: 20}
	m := manager.NewTableManager[*testCell](items, newFactory(), 32, 32, 20, 10, 0, 10, 0, vcore.BufferSize(0), nil)
	m.SetViewport(ctx, 30, 30) // 3 rows x 3 columns, no buffer

	if got := len(m.Rows()); got != 3 {
		t.Fatalf("materialized rows = %d, want 3", got)
	}
	for _, cols := range m.Rows() {
		if len(cols) != 3 {
			t.Fatalf("materialized columns = %d, want 3", len(cols))
		}
	}

	if err := m.SetBuffer(ctx, vcore.BufferSmall); err != nil {
		t.Fatalf("SetBuffer: %v", err)
	}
	if got := len(m.Rows()); got != 5 {
		t.Errorf("materialized rows after SetBuffer = %d, want 5", got)
	}
	for _, cols := range m.Rows() {
		if len(cols) != 5 {
			t.Errorf("materialized columns after SetBuffer = %d, want 5", len(cols))
		}
	}
	if err := m.SetBuffer(ctx, vcore.BufferSize(-1)); !errors.Is(err, vcore.AsSentinel(vcore.KindInvalidConfiguration)) {
		t.Error("SetBuffer(-1) should return KindInvalidConfiguration")
	}
}
