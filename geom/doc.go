// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package geom holds the per-shape layout helpers: pure,
// side-effect-free range and geometry arithmetic shared by every
// container variant. It owns no cells and no scroll position of its
// own — callers pass scroll/viewport in on every call — except for the
// small amount of cached derived state (virtual extents) that
// InvalidateVirtualSizes explicitly dirties.
package geom
