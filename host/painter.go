// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: host/painter.go
// Summary: A clipped drawing surface over a [][]Glyph framebuffer.

package host

import "github.com/gdamore/tcell/v2"

// Glyph is a single screen cell: one rune with a style.
type Glyph struct {
	Ch    rune
	Style tcell.Style
}

// Painter draws into a shared framebuffer, clipped to a rectangle.
type Painter struct {
	buf  [][]Glyph
	clip Rect
}

// NewPainter returns a painter over buf, clipped to clip.
func NewPainter(buf [][]Glyph, clip Rect) *Painter {
	return &Painter{buf: buf, clip: clip}
}

// WithClip returns a new painter over the same framebuffer, further
// clipped to the intersection of the current clip and r.
func (p *Painter) WithClip(r Rect) *Painter {
	return &Painter{buf: p.buf, clip: p.clip.Intersect(r)}
}

// SetCell writes a single glyph, silently dropping writes outside the clip.
func (p *Painter) SetCell(x, y int, ch rune, style tcell.Style) {
	if !p.clip.Contains(x, y) {
		return
	}
	if y < 0 || y >= len(p.buf) || x < 0 || x >= len(p.buf[y]) {
		return
	}
	p.buf[y][x] = Glyph{Ch: ch, Style: style}
}

// Fill paints every cell of r (clipped) with ch/style.
func (p *Painter) Fill(r Rect, ch rune, style tcell.Style) {
	r = r.Intersect(p.clip)
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			p.SetCell(x, y, ch, style)
		}
	}
}

// DrawText paints s left-to-right starting at (x, y), stopping at the clip
// boundary. Each rune occupies one cell; callers needing display-width
// aware layout (wide runes, combining marks) should pre-measure with
// go-runewidth before choosing x.
func (p *Painter) DrawText(x, y int, s string, style tcell.Style) {
	col := x
	for _, r := range s {
		p.SetCell(col, y, r, style)
		col++
	}
}
