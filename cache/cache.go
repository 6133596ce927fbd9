// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cache/cache.go
// Summary: The cell cache layer: a bounded LIFO pool of
// decommissioned cells kept around for reuse, so scrolling back and
// forth across the same range doesn't pay factory cost twice.

package cache

import "github.com/framegrace/vcore"

// Cache holds cells evicted from the live State, LIFO, up to a bound.
// It is generic over the concrete Cell type so a container can keep a
// cache of its own widget type without type-asserting on every Take.
type Cache[C vcore.Cell] struct {
	cells []C
	bound int

	hits   int
	misses int
	builds int
}

// New returns an empty Cache bounded to at most `bound` entries. A
// non-positive bound disables caching: every Cache call discards the
// cell immediately and every Take reports a miss.
func New[C vcore.Cell](bound int) *Cache[C] {
	return &Cache[C]{bound: bound}
}

// Cache offers cells for reuse, calling OnCache on each before storing
// it. On overflow the oldest parked cell is disposed to make room, so
// the most recently retired cells are always the ones available for
// reuse.
func (c *Cache[C]) Cache(cells ...C) {
	for _, cell := range cells {
		cell.OnCache()
		if c.bound <= 0 {
			cell.Dispose()
			continue
		}
		if len(c.cells) >= c.bound {
			oldest := c.cells[0]
			copy(c.cells, c.cells[1:])
			c.cells = c.cells[:len(c.cells)-1]
			oldest.Dispose()
		}
		c.cells = append(c.cells, cell)
	}
}

// Take removes and returns the most recently cached cell, calling
// OnDeCache on it before returning. Reports false when the cache is
// empty, in which case the caller must fall back to Factory.
func (c *Cache[C]) Take() (cell C, ok bool) {
	n := len(c.cells)
	if n == 0 {
		c.misses++
		return cell, false
	}
	cell = c.cells[n-1]
	c.cells = c.cells[:n-1]
	cell.OnDeCache()
	c.hits++
	return cell, true
}

// RecordBuild lets the Engine tell the Cache a cell had to be built from
// the factory, for Stats() accounting only — the Cache neither builds
// cells nor holds a reference to the Factory itself.
func (c *Cache[C]) RecordBuild() {
	c.builds++
}

// Len returns the number of cells currently parked in the cache.
func (c *Cache[C]) Len() int { return len(c.cells) }

// Clear disposes every cached cell and empties the cache. Called on
// ChangeFactory: cells built by the old factory cannot
// be reused once the factory changes.
func (c *Cache[C]) Clear() {
	for _, cell := range c.cells {
		cell.Dispose()
	}
	c.cells = nil
}

// OnFactoryChange is an alias for Clear, named for callers handling a
// factory swap. The Engine's RebuildSafe calls Clear directly.
func (c *Cache[C]) OnFactoryChange() {
	c.Clear()
}

// Stats reports cumulative hit/miss/build counts for diagnostics.
type Stats struct {
	Hits   int
	Misses int
	Builds int
	Parked int
}

// Stats returns the cache's cumulative statistics.
func (c *Cache[C]) Stats() Stats {
	return Stats{Hits: c.hits, Misses: c.misses, Builds: c.builds, Parked: len(c.cells)}
}
