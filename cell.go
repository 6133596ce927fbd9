// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cell.go
// Summary: The cell contract and the factory that builds
// cells from items.

package vcore

import "github.com/google/uuid"

// Cell is an owned node that displays one item at one index. Concrete
// cells are supplied by the host application; vcore
// only ever calls the methods below.
//
// Implementations must treat UpdateItem as idempotent when the new item
// equals the current one, and must never fail from UpdateIndex/UpdateItem
// — a failure there is fatal to the state.
type Cell interface {
	// UpdateIndex informs the cell of its new logical index.
	UpdateIndex(i Index)
	// UpdateItem informs the cell of its new displayed item.
	UpdateItem(item any)
	// OnCache is called when the cell is moved to the cache: it must
	// detach visuals and release transient resources.
	OnCache()
	// OnDeCache is called when the cell is retrieved from the cache for reuse.
	OnDeCache()
	// Dispose is called when the cell is permanently discarded.
	Dispose()
	// Identity returns a stable per-instance identifier, used only for
	// the cells_changed set-equality check and
	// for diagnostic logging — never for business logic.
	Identity() uuid.UUID
}

// Factory builds a Cell for a freshly-assigned item. It is called at
// most once per created cell and must be pure with respect
// to its argument, though it may capture container-level context (a
// theme, a parent widget, a database handle).
type Factory func(item any) (Cell, error)

// Identity is an embeddable helper giving a struct a stable Cell
// Identity() without each concrete cell type writing its own uuid
// plumbing, the same way host.BaseWidget supplies shared bookkeeping
// fields to every concrete widget.
type Identity struct {
	id uuid.UUID
}

// NewIdentity returns an Identity bound to a fresh random UUID.
func NewIdentity() Identity {
	return Identity{id: uuid.New()}
}

// Identity returns the stamped UUID.
func (b Identity) Identity() uuid.UUID {
	return b.id
}
