// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cache_test

import (
	"testing"

	"github.com/google/uuid"

	"github.com/framegrace/vcore"
	"github.com/framegrace/vcore/cache"
)

type fakeCell struct {
	id       vcore.Identity
	disposed bool
	cached   bool
}

func (f *fakeCell) Identity() uuid.UUID { return f.id.Identity() }

func newFakeCell() *fakeCell { return &fakeCell{id: vcore.NewIdentity()} }

func (f *fakeCell) UpdateIndex(i vcore.Index) {}
func (f *fakeCell) UpdateItem(item any)       {}
func (f *fakeCell) OnCache()                  { f.cached = true }
func (f *fakeCell) OnDeCache()                { f.cached = false }
func (f *fakeCell) Dispose()                  { f.disposed = true }

func TestCacheTakeEmptyIsMiss(t *testing.T) {
	c := cache.New[*fakeCell](4)
	_, ok := c.Take()
	if ok {
		t.Fatal("Take() on empty cache should report false")
	}
	if c.Stats().Misses != 1 {
		t.Errorf("Stats().Misses = %d, want 1", c.Stats().Misses)
	}
}

func TestCacheRoundTripIsLIFO(t *testing.T) {
	c := cache.New[*fakeCell](4)
	a, b := newFakeCell(), newFakeCell()
	c.Cache(a, b)
	if !a.cached || !b.cached {
		t.Fatal("Cache() should call OnCache on every cell")
	}

	got, ok := c.Take()
	if !ok || got.Identity() != b.Identity() {
		t.Fatal("Take() should return the most recently cached cell first")
	}
	if got.cached {
		t.Error("Take() should call OnDeCache")
	}
}

func TestCacheOverflowDisposesOldest(t *testing.T) {
	c := cache.New[*fakeCell](1)
	a, b := newFakeCell(), newFakeCell()
	c.Cache(a, b)
	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.Len())
	}
	if !a.disposed {
		t.Error("oldest parked cell should be disposed on overflow")
	}
	if b.disposed {
		t.Error("most recently retired cell should be retained")
	}

	got, ok := c.Take()
	if !ok || got.Identity() != b.Identity() {
		t.Fatal("Take() after overflow should return the newest cell")
	}
}

func TestCacheClearDisposesAll(t *testing.T) {
	c := cache.New[*fakeCell](4)
	a, b := newFakeCell(), newFakeCell()
	c.Cache(a, b)
	c.Clear()
	if !a.disposed || !b.disposed {
		t.Error("Clear() should dispose every parked cell")
	}
	if c.Len() != 0 {
		t.Errorf("Len() after Clear() = %d, want 0", c.Len())
	}
}

func TestCacheNonPositiveBoundDisablesCaching(t *testing.T) {
	c := cache.New[*fakeCell](0)
	a := newFakeCell()
	c.Cache(a)
	if !a.disposed {
		t.Error("cell offered to a zero-bound cache should be disposed")
	}
	if _, ok := c.Take(); ok {
		t.Error("Take() on a zero-bound cache should always miss")
	}
}

func TestCacheStatsHitsAndBuilds(t *testing.T) {
	c := cache.New[*fakeCell](4)
	a := newFakeCell()
	c.Cache(a)
	c.Take()
	c.RecordBuild()
	stats := c.Stats()
	if stats.Hits != 1 {
		t.Errorf("Stats().Hits = %d, want 1", stats.Hits)
	}
	if stats.Builds != 1 {
		t.Errorf("Stats().Builds = %d, want 1", stats.Builds)
	}
}
