// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: demo/config/config.go
// Summary: The demo host's Configuration bag, loaded from YAML and
// hot-reloaded with fsnotify, the way a long-running TUI host
// would pick up layout tweaks without a restart. YAML struct tags and
// marshal/unmarshal error wrapping follow niceyeti-tabular's
// reinforcement.learning config loader; the watch loop is this
// package's own, since nothing in the pack reloads YAML at runtime.

package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/framegrace/vcore"
)

// Configuration is the demo host's full option bag: every knob a
// host can set on a container without touching code.
type Configuration struct {
	BufferSize    string  `yaml:"buffer_size"`
	CacheCapacity int     `yaml:"cache_capacity"`
	CellExtent    float64 `yaml:"cell_extent"`
	Spacing       float64 `yaml:"spacing"`
	ColumnsPerRow int     `yaml:"columns_per_row"`
	CellsPerPage  int     `yaml:"cells_per_page"`
	ColumnLayout  string  `yaml:"column_layout"` // "fixed" or "variable"
	StyleName     string  `yaml:"style_name"`
	SourceRoot    string  `yaml:"source_root"`
}

// Buffer parses BufferSize into a vcore.BufferSize, defaulting to
// BufferStandard on an empty or unrecognized value.
func (c Configuration) Buffer() vcore.BufferSize {
	switch c.BufferSize {
	case "small":
		return vcore.BufferSmall
	case "big":
		return vcore.BufferBig
	default:
		return vcore.BufferStandard
	}
}

// Default returns the Configuration a fresh demo host starts with absent
// a config file.
func Default() Configuration {
	return Configuration{
		BufferSize:    "standard",
		CacheCapacity: 64,
		CellExtent:    1,
		Spacing:       0,
		ColumnsPerRow: 4,
		CellsPerPage:  50,
		ColumnLayout:  "fixed",
		StyleName:     "catppuccin-mocha",
		SourceRoot:    ".",
	}
}

// Load reads and parses a Configuration from path, falling back to
// Default for any unset field left at its zero value.
func Load(path string) (Configuration, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return c, nil
}

// Save marshals cfg back to path, for a demo "save current layout" command.
func Save(path string, cfg Configuration) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Watcher reloads a Configuration from disk whenever the file changes and
// hands each successfully parsed revision to a callback — the host is
// expected to translate the delta into the corresponding Manager calls
// (SetBuffer, SetSpacing, SetColumnsPerRow, ...).
type Watcher struct {
	path string
	log  *slog.Logger
	fsw  *fsnotify.Watcher

	mu      sync.Mutex
	current Configuration
}

// NewWatcher opens an fsnotify watch on path's containing directory
// (fsnotify watches directories, not bare files, to survive editors that
// replace-on-save rather than write-in-place) and loads the initial
// Configuration.
func NewWatcher(path string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: new watcher: %w", err)
	}
	dir := parentDir(path)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("config: watch %s: %w", dir, err)
	}
	return &Watcher{path: path, log: logger, fsw: fsw, current: cfg}, nil
}

func parentDir(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return "."
}

// Current returns the most recently loaded Configuration.
func (w *Watcher) Current() Configuration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Run blocks, invoking onChange with each successfully reloaded
// Configuration until ctx is cancelled. Parse errors are logged and
// skipped rather than propagated, so one bad save doesn't kill the
// watch loop.
func (w *Watcher) Run(ctx context.Context, onChange func(Configuration)) error {
	defer w.fsw.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if ev.Name != w.path || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			cfg, err := Load(w.path)
			if err != nil {
				w.log.WarnContext(ctx, "config: reload failed", "error", err)
				continue
			}
			w.mu.Lock()
			w.current = cfg
			w.mu.Unlock()
			onChange(cfg)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.WarnContext(ctx, "config: watch error", "error", err)
		}
	}
}
