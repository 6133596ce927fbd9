// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package vcore is a virtualization core for very large, potentially
// multi-dimensional item collections — linear lists, 2-D grids, and
// multi-column tables — rendered inside a bounded viewport.
//
// It materializes only the cells needed to cover the visible window
// plus a small buffer, and reuses cell instances across scrolls and
// data mutations so that per-frame work and memory stay bounded
// regardless of total item count.
//
// The engine is organized as five cooperating layers, leaves first:
//
//   - geom:    pure range/geometry arithmetic (the per-shape helpers)
//   - cache:   bounded pool of retired cells
//   - state:   the indexed live-cell snapshot
//   - engine:  the state transition algorithm
//   - manager: the observable state machine hosts drive
//
// This root package holds only the data model shared by all of them:
// Index, IntegerRange, the Cell contract, ChangeKind classification, and
// the error taxonomy.
package vcore
