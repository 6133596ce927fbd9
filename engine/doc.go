// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package engine implements the state transition engine: the
// intersection algorithm that turns an old State plus a new range into
// a new State, reusing cells in preference to caching or building them,
// and the per-ChangeKind operations (RebuildSafe, Reindex,
// ApplyItemUpdates) the Manager dispatches to.
package engine
