// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: scrollview/indicators.go
// Summary: Edge indicators shared by the views in this package: arrow
// glyphs while content extends past the window, and a page counter for
// the paginated view. Driven by a Manager's scroll/page state; there is
// no scroll bar here, that chrome belongs to the host.

package scrollview

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/vcore/host"
)

const (
	glyphUp   = '▲'
	glyphDown = '▼'
)

// drawScrollIndicators paints an up arrow in the view's top-right cell
// while content extends above the window, and a down arrow in its
// bottom-right cell while content extends below.
func drawScrollIndicators(p *host.Painter, rect host.Rect, canUp, canDown bool, style tcell.Style) {
	if rect.Empty() {
		return
	}
	x := rect.X + rect.W - 1
	if canUp {
		p.SetCell(x, rect.Y, glyphUp, style)
	}
	if canDown {
		p.SetCell(x, rect.Y+rect.H-1, glyphDown, style)
	}
}

// drawPageIndicator paints a 1-based "page/pages" counter right-aligned
// on the view's bottom row, the paginated counterpart of the scroll
// arrows. Nothing is drawn for an empty collection.
func drawPageIndicator(p *host.Painter, rect host.Rect, page, pages int, style tcell.Style) {
	if rect.Empty() || pages <= 0 {
		return
	}
	label := fmt.Sprintf("%d/%d", page+1, pages)
	p.DrawText(rect.X+rect.W-len(label), rect.Y+rect.H-1, label, style)
}
