// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: demo/sqlitems/sqlitems.go
// Summary: A manager.Items / manager.RowItems backing source that reads
// rows lazily from a SQLite table by index/range, via paged
// LIMIT/OFFSET queries cached a page at a time, so a table over
// millions of rows keeps one page resident — the data-source mirror of
// the Manager's own bounded-window discipline.

package sqlitems

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"

	"github.com/framegrace/vcore"
)

// Row is one record of the backing table: an integer id plus a fixed
// column order, enough for the TableView demo's per-column cell factory.
type Row struct {
	ID      int64
	Columns []string
}

// Table is a lazily-paged view over a SQLite table. Len() costs one
// COUNT(*) at construction; At()/Column() fault in whole pages of
// pageSize rows and keep only the most recently touched page, since a
// table view's old/new ranges overlap heavily during scrolling.
type Table struct {
	db       *sql.DB
	table    string
	columns  []string
	pageSize int
	count    int
	log      *slog.Logger

	pageStart int
	page      []Row
}

// Open opens (or creates) a SQLite database at dsn, pragma'd for a
// read-mostly workload, and binds a Table over the given table/columns.
func Open(dsn, table string, columns []string, pageSize int, logger *slog.Logger) (*Table, error) {
	if logger == nil {
		logger = slog.Default()
	}
	full := dsn +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=cache_size(-8000)" +
		"&_pragma=temp_store(MEMORY)"

	db, err := sql.Open("sqlite", full)
	if err != nil {
		return nil, fmt.Errorf("sqlitems: open %s: %w", dsn, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlitems: connect %s: %w", dsn, err)
	}

	t := &Table{db: db, table: table, columns: columns, pageSize: pageSize, log: logger, pageStart: -1}
	if err := t.refreshCount(); err != nil {
		db.Close()
		return nil, err
	}
	return t, nil
}

// Seed creates the table (if absent) and inserts n generated rows, for
// demo purposes when no pre-existing database is supplied.
func (t *Table) Seed(n int) error {
	colDefs := "id INTEGER PRIMARY KEY"
	for _, c := range t.columns {
		colDefs += fmt.Sprintf(", %s TEXT", c)
	}
	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", t.table, colDefs)
	if _, err := t.db.Exec(ddl); err != nil {
		return fmt.Errorf("sqlitems: create table: %w", err)
	}

	placeholders := ""
	for i := range t.columns {
		if i > 0 {
			placeholders += ", "
		}
		placeholders += "?"
	}
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", t.table, joinColumns(t.columns), placeholders)

	tx, err := t.db.Begin()
	if err != nil {
		return fmt.Errorf("sqlitems: seed begin: %w", err)
	}
	stmt, err := tx.Prepare(insert)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("sqlitems: seed prepare: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		vals := make([]any, len(t.columns))
		for c := range t.columns {
			vals[c] = fmt.Sprintf("%s-%d", t.columns[c], i)
		}
		if _, err := stmt.Exec(vals...); err != nil {
			tx.Rollback()
			return fmt.Errorf("sqlitems: seed insert %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlitems: seed commit: %w", err)
	}
	return t.refreshCount()
}

func joinColumns(cols []string) string {
	out := ""
	for i, c := range cols {
		if i > 0 {
			out += ", "
		}
		out += c
	}
	return out
}

func (t *Table) refreshCount() error {
	row := t.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", t.table))
	return row.Scan(&t.count)
}

// Close releases the database handle.
func (t *Table) Close() error { return t.db.Close() }

// Len implements manager.Items/manager.RowItems.
func (t *Table) Len() int { return t.count }

// At implements manager.Items, returning the Row at index i.
func (t *Table) At(i vcore.Index) any {
	return t.rowAt(int(i))
}

// Row implements manager.RowItems, returning the Row at index i.
func (t *Table) Row(i vcore.Index) any {
	return t.rowAt(int(i))
}

// Column implements manager.RowItems, returning one field of the row at
// the given row index.
func (t *Table) Column(row vcore.Index, col vcore.Index) any {
	r := t.rowAt(int(row))
	if int(col) < 0 || int(col) >= len(r.Columns) {
		return ""
	}
	return r.Columns[col]
}

func (t *Table) rowAt(i int) Row {
	if i < 0 || i >= t.count {
		return Row{}
	}
	if t.pageStart < 0 || i < t.pageStart || i >= t.pageStart+len(t.page) {
		t.loadPage(i)
	}
	if idx := i - t.pageStart; idx >= 0 && idx < len(t.page) {
		return t.page[idx]
	}
	return Row{}
}

// loadPage faults in pageSize rows around i with a single LIMIT/OFFSET
// query, replacing whatever page was previously cached.
func (t *Table) loadPage(i int) {
	start := (i / t.pageSize) * t.pageSize
	query := fmt.Sprintf("SELECT id, %s FROM %s ORDER BY id LIMIT ? OFFSET ?", joinColumns(t.columns), t.table)
	rows, err := t.db.Query(query, t.pageSize, start)
	if err != nil {
		t.log.Warn("sqlitems: page query failed", "offset", start, "error", err)
		t.page = nil
		t.pageStart = start
		return
	}
	defer rows.Close()

	var page []Row
	for rows.Next() {
		var id int64
		vals := make([]any, len(t.columns))
		ptrs := make([]any, len(t.columns))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		scanArgs := append([]any{&id}, ptrs...)
		if err := rows.Scan(scanArgs...); err != nil {
			t.log.Warn("sqlitems: row scan failed", "error", err)
			continue
		}
		cols := make([]string, len(vals))
		for i, v := range vals {
			if s, ok := v.(string); ok {
				cols[i] = s
			} else {
				cols[i] = fmt.Sprintf("%v", v)
			}
		}
		page = append(page, Row{ID: id, Columns: cols})
	}
	t.page = page
	t.pageStart = start
}
