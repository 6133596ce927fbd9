// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: demo/codeitems/codeitems.go
// Summary: An Items source for the ListView demo that walks a source
// tree and renders one syntax-highlighted preview line per file,
// exercising a "browse a very large file collection" scenario.
// Language detection runs extension-first over a short content sample,
// with go-enry's content classifier as the fallback.

package codeitems

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/gdamore/tcell/v2"
	enry "github.com/go-enry/go-enry/v2"
	"github.com/google/uuid"
	"github.com/mattn/go-runewidth"

	"github.com/framegrace/vcore"
	"github.com/framegrace/vcore/host"
)

// File describes one file discovered under a root directory.
type File struct {
	Path    string // absolute path
	RelPath string // path relative to the walked root, for display
}

// Tree is a manager.Items backing source listing every
// regular file under root, sorted for a stable scroll order.
type Tree struct {
	root  string
	files []File
}

// Walk discovers every regular file under root, skipping dot-directories
// (".git", ".cache", ...) the way a source browser would.
func Walk(root string) (*Tree, error) {
	var files []File
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() != "." && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		files = append(files, File{Path: path, RelPath: rel})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("codeitems: walk %s: %w", root, err)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return &Tree{root: root, files: files}, nil
}

// Len implements manager.Items.
func (t *Tree) Len() int { return len(t.files) }

// At implements manager.Items, returning the File at index i.
func (t *Tree) At(i vcore.Index) any { return t.files[i] }

// sample reads up to n lines from a file for language detection and preview.
func sample(path string, n int) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() && len(lines) < n {
		lines = append(lines, sc.Text())
	}
	return lines
}

// detectLexer identifies the file's language via go-enry (extension
// first, content classifier as fallback) and resolves the matching
// Chroma lexer.
func detectLexer(f File, lines []string) chroma.Lexer {
	content := []byte(strings.Join(lines, "\n"))
	lang := enry.GetLanguage(f.RelPath, content)
	if lang != "" {
		if lx := lexers.Get(strings.ToLower(lang)); lx != nil {
			return lx
		}
	}
	if lx := lexers.Match(f.RelPath); lx != nil {
		return lx
	}
	return lexers.Fallback
}

// PreviewCell renders one file's path and a syntax-highlighted first
// line of content. It satisfies scrollview.ViewCell (vcore.Cell +
// host.Widget).
type PreviewCell struct {
	host.BaseWidget
	id vcore.Identity

	style *chroma.Style
	file  File
	line  string
	lexer chroma.Lexer
}

// Identity implements vcore.Cell.
func (c *PreviewCell) Identity() uuid.UUID { return c.id.Identity() }

// NewPreviewCellFactory returns a vcore.Factory building PreviewCells
// styled with the named Chroma style (an empty or unknown name selects
// "catppuccin-mocha").
func NewPreviewCellFactory(styleName string) vcore.Factory {
	style := styles.Registry[styleName]
	if style == nil {
		style = styles.Registry["catppuccin-mocha"]
	}
	if style == nil {
		style = styles.Fallback
	}
	return func(item any) (vcore.Cell, error) {
		c := &PreviewCell{id: vcore.NewIdentity(), style: style}
		c.UpdateItem(item)
		return c, nil
	}
}

func (c *PreviewCell) UpdateIndex(vcore.Index) {}

// UpdateItem re-samples the file and re-detects its language. Idempotent
// when the file path is unchanged, per the Cell contract.
func (c *PreviewCell) UpdateItem(item any) {
	f := item.(File)
	if f.Path == c.file.Path {
		return
	}
	c.file = f
	lines := sample(f.Path, 8)
	c.lexer = detectLexer(f, lines)
	c.line = ""
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			c.line = l
			break
		}
	}
}

func (c *PreviewCell) OnCache()   {}
func (c *PreviewCell) OnDeCache() {}
func (c *PreviewCell) Dispose()   {}

// Draw paints the relative path, then the sampled line tokenized and
// colored by Chroma, truncated/padded to the cell's width.
func (c *PreviewCell) Draw(p *host.Painter) {
	rect := c.Rect
	base := tcell.StyleDefault
	p.Fill(rect, ' ', base)
	p.DrawText(rect.X, rect.Y, c.file.RelPath, base.Bold(true))

	pathWidth := runewidth.StringWidth(c.file.RelPath)
	x := rect.X + pathWidth + 2
	if x >= rect.X+rect.W || c.line == "" {
		return
	}

	tokens, err := chroma.Tokenise(chroma.Coalesce(c.lexer), nil, c.line)
	if err != nil {
		p.DrawText(x, rect.Y, c.line, base)
		return
	}
	for _, tok := range tokens {
		if tok.Type == chroma.EOFType {
			break
		}
		entry := c.style.Get(tok.Type)
		style := chromaCellStyle(entry)
		for _, r := range tok.Value {
			if r == '\n' {
				continue
			}
			if x >= rect.X+rect.W {
				return
			}
			p.SetCell(x, rect.Y, r, style)
			x++
		}
	}
}

func chromaCellStyle(e chroma.StyleEntry) tcell.Style {
	s := tcell.StyleDefault
	if e.Colour.IsSet() {
		s = s.Foreground(tcell.NewRGBColor(int32(e.Colour.Red()), int32(e.Colour.Green()), int32(e.Colour.Blue())))
	}
	if e.Bold == chroma.Yes {
		s = s.Bold(true)
	}
	if e.Italic == chroma.Yes {
		s = s.Italic(true)
	}
	return s
}
