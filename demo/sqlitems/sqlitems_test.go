// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package sqlitems_test

import (
	"path/filepath"
	"testing"

	"github.com/framegrace/vcore"
	"github.com/framegrace/vcore/demo/sqlitems"
)

func TestSeedThenPagedAccess(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "demo.sqlite")
	tbl, err := sqlitems.Open(dsn, "items", []string{"name", "status"}, 10, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer tbl.Close()

	if err := tbl.Seed(25); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if tbl.Len() != 25 {
		t.Fatalf("Len() = %d, want 25", tbl.Len())
	}

	first := tbl.Row(vcore.Index(0)).(sqlitems.Row)
	if first.ID == 0 {
		t.Error("Row(0).ID should be a positive rowid")
	}
	if got := tbl.Column(vcore.Index(0), vcore.Index(0)); got != "name-0" {
		t.Errorf("Column(0, 0) = %v, want name-0", got)
	}

	// Index 24 lies in a different page than index 0 (pageSize=10): this
	// exercises loadPage's page-boundary crossing, not just the cache hit.
	last := tbl.Row(vcore.Index(24)).(sqlitems.Row)
	if last.ID == 0 {
		t.Error("Row(24).ID should be a positive rowid")
	}
	if got := tbl.Column(vcore.Index(24), vcore.Index(1)); got != "status-24" {
		t.Errorf("Column(24, 1) = %v, want status-24", got)
	}
}

func TestColumnOutOfRangeReturnsEmpty(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "demo.sqlite")
	tbl, err := sqlitems.Open(dsn, "items", []string{"name"}, 10, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer tbl.Close()
	if err := tbl.Seed(3); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if got := tbl.Column(vcore.Index(0), vcore.Index(5)); got != "" {
		t.Errorf("Column() with an out-of-range column = %v, want empty string", got)
	}
}
