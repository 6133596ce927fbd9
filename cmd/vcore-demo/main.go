// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/vcore-demo/main.go
// Summary: Entry point for the vcore-demo binary: a cobra command tree
// wiring demo/codeitems, demo/sqlitems, demo/config, demo/broadcast and
// scrollview into runnable terminal demos, one subcommand per container
// shape, wired to a tcell screen and an event loop.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/framegrace/vcore"
	"github.com/framegrace/vcore/demo/broadcast"
	"github.com/framegrace/vcore/demo/codeitems"
	"github.com/framegrace/vcore/demo/config"
	"github.com/framegrace/vcore/demo/sqlitems"
	"github.com/framegrace/vcore/host"
	"github.com/framegrace/vcore/manager"
	"github.com/framegrace/vcore/scrollview"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var serveAddr string

	root := &cobra.Command{
		Use:   "vcore-demo",
		Short: "Demonstrates the vcore virtualization core over large collections",
	}
	root.PersistentFlags().SetNormalizeFunc(func(fs *pflag.FlagSet, name string) pflag.NormalizedName {
		if name == "cfg" {
			name = "config"
		}
		return pflag.NormalizedName(name)
	})
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML Configuration file (demo/config)")
	root.PersistentFlags().StringVar(&serveAddr, "serve", "", "if set, also serve a websocket state feed at this address (e.g. :8089)")

	root.AddCommand(newListCmd(&configPath, &serveAddr))
	root.AddCommand(newGridCmd(&configPath, &serveAddr))
	root.AddCommand(newTableCmd(&configPath, &serveAddr))
	root.AddCommand(newPaginatedCmd(&configPath, &serveAddr))
	return root
}

func loadConfig(path string) config.Configuration {
	if path == "" {
		return config.Default()
	}
	cfg, err := config.Load(path)
	if err != nil {
		slog.Warn("vcore-demo: config load failed, using defaults", "error", err)
		return config.Default()
	}
	return cfg
}

// startBroadcast starts a websocket state-feed server on addr, if set,
// and returns the Hub to publish Frames to (or nil).
func startBroadcast(addr string, logger *slog.Logger) *broadcast.Hub {
	if addr == "" {
		return nil
	}
	hub := broadcast.NewHub(logger)
	mux := http.NewServeMux()
	mux.HandleFunc("/state", hub.ServeHTTP)
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Warn("vcore-demo: broadcast server stopped", "error", err)
		}
	}()
	return hub
}

// terminalSize returns the real terminal's column/row count via
// golang.org/x/term, falling back to a reasonable default outside a tty.
func terminalSize() (int, int) {
	cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || cols <= 0 || rows <= 0 {
		return 80, 24
	}
	return cols, rows
}

// watchBuffer starts a demo/config.Watcher over path (a no-op if path is
// empty) and re-applies the live BufferSize to mgr whenever the file
// changes on disk, exercising the Manager's live-reconfiguration path
// end-to-end instead of only reading Configuration once at startup.
// The Manager is single-threaded, so the watcher goroutine never calls
// it directly: each reload is posted through post and runs on the event
// loop. The returned func stops the watcher; it is always safe to call.
func watchBuffer[C vcore.Cell](path string, mgr *manager.ListManager[C], post func(func()), logger *slog.Logger) func() {
	if path == "" {
		return func() {}
	}
	w, err := config.NewWatcher(path, logger)
	if err != nil {
		logger.Warn("vcore-demo: config watch disabled", "error", err)
		return func() {}
	}
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		w.Run(ctx, func(cfg config.Configuration) {
			post(func() {
				if err := mgr.SetBuffer(ctx, cfg.Buffer()); err != nil {
					logger.Warn("vcore-demo: live config reload failed", "error", err)
				}
			})
		})
	}()
	return cancel
}

func newListCmd(configPath, serveAddr *string) *cobra.Command {
	var root string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Browse a source tree as a virtualized, syntax-highlighted list",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(*configPath)
			if root == "" {
				root = cfg.SourceRoot
			}
			tree, err := codeitems.Walk(root)
			if err != nil {
				return err
			}
			logger := slog.Default()
			hub := startBroadcast(*serveAddr, logger)

			view := scrollview.NewListView[*codeitems.PreviewCell](
				tree,
				codeitems.NewPreviewCellFactory(cfg.StyleName),
				cfg.CacheCapacity,
				vcore.Vertical,
				1, 0,
				cfg.Buffer(),
				tcell.StyleDefault,
			)
			publish := func() {
				if hub != nil {
					broadcast.PublishState(hub, view.Manager().State())
				}
			}
			return runDemo(view, publish, func(post func(func())) func() {
				return watchBuffer(*configPath, view.Manager(), post, logger)
			})
		},
	}
	cmd.Flags().StringVar(&root, "root", "", "source tree to browse (defaults to config's source_root)")
	return cmd
}

func newGridCmd(configPath, serveAddr *string) *cobra.Command {
	var root string
	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Browse a source tree as a virtualized grid of file previews",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(*configPath)
			if root == "" {
				root = cfg.SourceRoot
			}
			tree, err := codeitems.Walk(root)
			if err != nil {
				return err
			}
			logger := slog.Default()
			hub := startBroadcast(*serveAddr, logger)

			view := scrollview.NewGridView[*codeitems.PreviewCell](
				tree,
				codeitems.NewPreviewCellFactory(cfg.StyleName),
				cfg.CacheCapacity,
				cfg.ColumnsPerRow,
				1, 0, 40, 2,
				cfg.Buffer(),
				tcell.StyleDefault,
			)
			publish := func() {
				if hub != nil {
					broadcast.PublishState(hub, view.Manager().State())
				}
			}
			return runDemo(view, publish, nil)
		},
	}
	cmd.Flags().StringVar(&root, "root", "", "source tree to browse (defaults to config's source_root)")
	return cmd
}

func newTableCmd(configPath, serveAddr *string) *cobra.Command {
	var dsn string
	var seed int
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Browse a SQLite-backed table as a virtualized grid of rows/columns",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(*configPath)
			logger := slog.Default()
			cols := []string{"name", "status", "note"}
			tbl, err := sqlitems.Open(dsn, "items", cols, 200, logger)
			if err != nil {
				return err
			}
			defer tbl.Close()
			if seed > 0 && tbl.Len() == 0 {
				if err := tbl.Seed(seed); err != nil {
					return err
				}
			}

			factory := func(item any) (vcore.Cell, error) {
				return newTextCellFrom(item), nil
			}
			hub := startBroadcast(*serveAddr, logger)

			view := scrollview.NewTableView[*textCell](
				tbl,
				factory,
				cfg.CacheCapacity, cfg.CacheCapacity, len(cols),
				1, 0, 16, 1,
				cfg.Buffer(),
				tcell.StyleDefault,
			)
			publish := func() {
				if hub != nil {
					hub.Publish(tableFrame(view.Manager()))
				}
			}
			return runDemo(view, publish, nil)
		},
	}
	cmd.Flags().StringVar(&dsn, "dsn", "vcore-demo.sqlite", "SQLite database file")
	cmd.Flags().IntVar(&seed, "seed", 0, "seed N demo rows if the table is empty")
	return cmd
}

// tableFrame builds a broadcast.Frame from a TableManager, which (unlike
// the other Managers) exposes materialized rows rather than a single
// state.State, since each row owns its own column-level State.
func tableFrame(m *manager.TableManager[*textCell]) broadcast.Frame {
	f := broadcast.Frame{RangeMin: -1, RangeMax: -1}
	for idx, cols := range m.Rows() {
		i := int(idx)
		if f.RangeMin == -1 || i < f.RangeMin {
			f.RangeMin = i
		}
		if i > f.RangeMax {
			f.RangeMax = i
		}
		f.Count += len(cols)
	}
	return f
}

func newPaginatedCmd(configPath, serveAddr *string) *cobra.Command {
	var root string
	cmd := &cobra.Command{
		Use:   "paginated",
		Short: "Browse a source tree one page at a time",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(*configPath)
			if root == "" {
				root = cfg.SourceRoot
			}
			tree, err := codeitems.Walk(root)
			if err != nil {
				return err
			}
			logger := slog.Default()
			hub := startBroadcast(*serveAddr, logger)

			view := scrollview.NewPaginatedView[*codeitems.PreviewCell](
				tree,
				codeitems.NewPreviewCellFactory(cfg.StyleName),
				cfg.CacheCapacity,
				cfg.CellsPerPage,
				cfg.Buffer(),
				1,
				tcell.StyleDefault,
			)
			if err := view.Manager().SetPage(context.Background(), 0); err != nil {
				return err
			}
			publish := func() {
				if hub != nil {
					broadcast.PublishState(hub, view.Manager().State())
				}
			}
			return runDemo(view, publish, nil)
		},
	}
	cmd.Flags().StringVar(&root, "root", "", "source tree to browse (defaults to config's source_root)")
	return cmd
}

// runDemo drives the standard screen init/draw/event loop shared by every
// subcommand. There is exactly one widget here — the virtualized
// container itself — so redraw is driven directly off it: the view
// calls its invalidator whenever a Manager transition actually changes
// what's materialized (host.InvalidationAware), and runDemo repaints
// only then rather than polling a dirty-rect list every frame.
//
// publish is called once per frame after rendering, so a running
// --serve hub stays in lockstep with what is actually on screen; it is
// a no-op when no broadcast.Hub was started.
//
// setup, if non-nil, runs once the screen exists. It receives a post
// function that schedules a closure onto the event loop (via
// tcell.EventInterrupt), the only way a background goroutine may touch
// a Manager, and returns a cleanup func run on exit.
func runDemo(widget host.Widget, publish func(), setup func(post func(func())) func()) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("vcore-demo: init screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("vcore-demo: screen init: %w", err)
	}
	defer screen.Fini()
	screen.Clear()
	screen.EnableMouse(tcell.MouseMotionEvents)
	defer screen.DisableMouse()

	if setup != nil {
		post := func(f func()) {
			screen.PostEvent(tcell.NewEventInterrupt(f))
		}
		cleanup := setup(post)
		if cleanup != nil {
			defer cleanup()
		}
	}

	w, h := terminalSize()
	widget.SetPosition(0, 0)
	widget.Resize(w, h)
	widget.Focus()

	needsRedraw := true
	if iv, ok := widget.(host.InvalidationAware); ok {
		iv.SetInvalidator(func(host.Rect) { needsRedraw = true })
	}

	var buf [][]host.Glyph
	ensureBuf := func() {
		ww, wh := widget.Size()
		if len(buf) == wh && (wh == 0 || len(buf[0]) == ww) {
			return
		}
		buf = make([][]host.Glyph, wh)
		for y := range buf {
			buf[y] = make([]host.Glyph, ww)
		}
	}

	draw := func() {
		ensureBuf()
		ww, wh := widget.Size()
		p := host.NewPainter(buf, host.Rect{X: 0, Y: 0, W: ww, H: wh})
		widget.Draw(p)
		screen.Clear()
		for y := range buf {
			for x := range buf[y] {
				g := buf[y][x]
				screen.SetContent(x, y, g.Ch, nil, g.Style)
			}
		}
		screen.Show()
		publish()
		needsRedraw = false
	}
	draw()

	for {
		ev := screen.PollEvent()
		switch tev := ev.(type) {
		case *tcell.EventResize:
			w, h := tev.Size()
			widget.Resize(w, h)
			buf = nil
			needsRedraw = true
		case *tcell.EventKey:
			if tev.Key() == tcell.KeyCtrlC || tev.Key() == tcell.KeyEscape {
				return nil
			}
			widget.HandleKey(tev)
		case *tcell.EventMouse:
			if mw, ok := widget.(host.MouseAware); ok {
				mw.HandleMouse(tev)
			}
		case *tcell.EventInterrupt:
			if f, ok := tev.Data().(func()); ok {
				f()
				needsRedraw = true
			}
		}
		if needsRedraw {
			draw()
		}
	}
}
