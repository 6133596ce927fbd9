// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package geom_test

import (
	"testing"

	"github.com/framegrace/vcore"
	"github.com/framegrace/vcore/geom"
)

func TestFixedTableColumnRangeDelegatesToAxis(t *testing.T) {
	tb := geom.NewFixedTableHelper(100, 6, 10, 0, 20, 0, vcore.BufferSize(0))
	r := tb.ColumnRange(0, 60)
	want := vcore.NewRange(0, 2)
	if r != want {
		t.Errorf("ColumnRange(0, 60) = %v, want %v", r, want)
	}
}

func TestVariableTableColumnOffsetsPrefixSum(t *testing.T) {
	tb := geom.NewVariableTableHelper(10, []float64{10, 20, 30}, 10, 0, 2, vcore.BufferSize(0))
	if got := tb.ColumnPosition(0); got != 0 {
		t.Errorf("ColumnPosition(0) = %v, want 0", got)
	}
	if got := tb.ColumnPosition(1); got != 12 {
		t.Errorf("ColumnPosition(1) = %v, want 12", got)
	}
	if got := tb.ColumnPosition(2); got != 34 {
		t.Errorf("ColumnPosition(2) = %v, want 34", got)
	}
}

func TestVariableTableSetColumnWidthInvalidatesOffsets(t *testing.T) {
	tb := geom.NewVariableTableHelper(10, []float64{10, 20, 30}, 10, 0, 0, vcore.BufferSize(0))
	if changed := tb.SetColumnWidth(0, 50); !changed {
		t.Fatal("SetColumnWidth(0, 50) should report a change")
	}
	if got := tb.ColumnPosition(1); got != 50 {
		t.Errorf("ColumnPosition(1) after resize = %v, want 50", got)
	}
	if changed := tb.SetColumnWidth(0, 50); changed {
		t.Error("SetColumnWidth with unchanged width should report no change")
	}
}

func TestVariableTableSetColumnWidthOutOfRange(t *testing.T) {
	tb := geom.NewVariableTableHelper(10, []float64{10, 20}, 10, 0, 0, vcore.BufferSize(0))
	if changed := tb.SetColumnWidth(5, 50); changed {
		t.Error("SetColumnWidth with out-of-range column should report no change")
	}
}

func TestFixedTableSetColumnWidthIsNoOp(t *testing.T) {
	tb := geom.NewFixedTableHelper(10, 3, 10, 0, 20, 0, vcore.BufferSize(0))
	if changed := tb.SetColumnWidth(0, 99); changed {
		t.Error("SetColumnWidth on a fixed table should always report no change")
	}
}

func TestVariableTableColumnRangeWalksOffsets(t *testing.T) {
	tb := geom.NewVariableTableHelper(10, []float64{10, 20, 30, 5}, 10, 0, 0, vcore.BufferSize(0))
	// offsets: 0, 10, 30, 60 (ends at 10, 30, 60, 65)
	r := tb.ColumnRange(15, 20) // window [15, 35)
	want := vcore.NewRange(1, 2)
	if r != want {
		t.Errorf("ColumnRange(15, 20) = %v, want %v", r, want)
	}
}

func TestMeasureColumnWidth(t *testing.T) {
	if got := geom.MeasureColumnWidth("abc"); got != 3 {
		t.Errorf("MeasureColumnWidth(abc) = %v, want 3", got)
	}
}

func TestVariableTableInsertColumnShiftsOffsets(t *testing.T) {
	tb := geom.NewVariableTableHelper(10, []float64{10, 20, 30}, 10, 0, 0, vcore.BufferSize(0))
	if !tb.InsertColumn(1, 99) {
		t.Fatal("InsertColumn should report success in variable mode")
	}
	if got := tb.ColumnCount(); got != 4 {
		t.Errorf("ColumnCount() = %d, want 4", got)
	}
	if got := tb.ColumnPosition(1); got != 10 {
		t.Errorf("ColumnPosition(1) after insert = %v, want 10", got)
	}
	if got := tb.ColumnPosition(2); got != 109 {
		t.Errorf("ColumnPosition(2) after insert = %v, want 109", got)
	}
}

func TestVariableTableRemoveColumn(t *testing.T) {
	tb := geom.NewVariableTableHelper(10, []float64{10, 20, 30}, 10, 0, 0, vcore.BufferSize(0))
	if !tb.RemoveColumn(0) {
		t.Fatal("RemoveColumn should report success in variable mode")
	}
	if got := tb.ColumnCount(); got != 2 {
		t.Errorf("ColumnCount() = %d, want 2", got)
	}
	if got := tb.ColumnPosition(0); got != 0 {
		t.Errorf("ColumnPosition(0) after removing column 0 = %v, want 0", got)
	}
}

func TestFixedTableSetColumnCount(t *testing.T) {
	tb := geom.NewFixedTableHelper(10, 3, 10, 0, 20, 0, vcore.BufferSize(0))
	if !tb.SetColumnCount(5) {
		t.Fatal("SetColumnCount should report success in fixed mode")
	}
	if got := tb.ColumnCount(); got != 5 {
		t.Errorf("ColumnCount() = %d, want 5", got)
	}
}

func TestVariableTableSetColumnCountIsNoOp(t *testing.T) {
	tb := geom.NewVariableTableHelper(10, []float64{10, 20}, 10, 0, 0, vcore.BufferSize(0))
	if tb.SetColumnCount(5) {
		t.Error("SetColumnCount on a variable table should report no change")
	}
}

func TestFixedTableInsertRemoveColumnAreNoOps(t *testing.T) {
	tb := geom.NewFixedTableHelper(10, 3, 10, 0, 20, 0, vcore.BufferSize(0))
	if tb.InsertColumn(0, 50) {
		t.Error("InsertColumn on a fixed table should report no change")
	}
	if tb.RemoveColumn(0) {
		t.Error("RemoveColumn on a fixed table should report no change")
	}
}

func TestFixedTableColumnRangeAppliesBuffer(t *testing.T) {
	tb := geom.NewFixedTableHelper(100, 6, 10, 0, 20, 0, vcore.BufferStandard)
	// Visible columns [0,2]; the clipped leading buffer spills to the
	// trailing side and clamps at the last column.
	r := tb.ColumnRange(0, 60)
	want := vcore.NewRange(0, 5)
	if r != want {
		t.Errorf("ColumnRange(0, 60) = %v, want %v", r, want)
	}
}

func TestVariableTableColumnRangeAppliesBuffer(t *testing.T) {
	tb := geom.NewVariableTableHelper(10, []float64{10, 20, 30, 5}, 10, 0, 0, vcore.BufferSmall)
	// Visible columns [1,2]; one buffer column on each side.
	r := tb.ColumnRange(15, 20)
	want := vcore.NewRange(0, 3)
	if r != want {
		t.Errorf("ColumnRange(15, 20) = %v, want %v", r, want)
	}
}

func TestTableSetBufferWidensColumnRange(t *testing.T) {
	tb := geom.NewVariableTableHelper(10, []float64{10, 10, 10, 10, 10}, 10, 0, 0, vcore.BufferSize(0))
	if r := tb.ColumnRange(20, 10); r != vcore.NewRange(2, 2) {
		t.Fatalf("ColumnRange before SetBuffer = %v, want [2,2]", r)
	}
	tb.SetBuffer(vcore.BufferSmall)
	if r := tb.ColumnRange(20, 10); r != vcore.NewRange(1, 3) {
		t.Errorf("ColumnRange after SetBuffer = %v, want [1,3]", r)
	}
}
