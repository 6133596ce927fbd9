// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/vcore-demo/cells.go
// Summary: textCell is the trivial Cell the table demo builds its
// per-column cells from: one left-aligned, padded string. Rendering of
// individual cell contents is a host concern, not vcore's; this is that
// toolkit's simplest possible member.

package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"

	"github.com/framegrace/vcore"
	"github.com/framegrace/vcore/host"
)

type textCell struct {
	host.BaseWidget
	id   vcore.Identity
	text string
}

func (c *textCell) Identity() uuid.UUID { return c.id.Identity() }

func newTextCellFrom(item any) *textCell {
	c := &textCell{id: vcore.NewIdentity()}
	c.UpdateItem(item)
	return c
}

func (c *textCell) UpdateIndex(vcore.Index) {}

func (c *textCell) UpdateItem(item any) {
	if s, ok := item.(string); ok {
		c.text = s
		return
	}
	c.text = fmt.Sprintf("%v", item)
}

func (c *textCell) OnCache()   {}
func (c *textCell) OnDeCache() {}
func (c *textCell) Dispose()   {}

func (c *textCell) Draw(p *host.Painter) {
	rect := c.Rect
	p.Fill(rect, ' ', tcell.StyleDefault)
	p.DrawText(rect.X, rect.Y, c.text, tcell.StyleDefault)
}
