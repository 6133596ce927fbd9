// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: scrollview/view.go
// Summary: The widget-layer contract composing the virtualization core
// with the rendering host. Every concrete view in this package owns a
// Manager and draws exactly the cells it currently materializes.

package scrollview

import (
	"github.com/framegrace/vcore"
	"github.com/framegrace/vcore/host"
)

// ViewCell is a Cell a scrollview widget can draw: it must be both a
// vcore.Cell (so Engine/Manager can own its lifecycle) and a host.Widget
// (so a view can position and draw it).
type ViewCell interface {
	vcore.Cell
	host.Widget
}
