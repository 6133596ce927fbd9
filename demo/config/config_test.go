// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package config_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/framegrace/vcore"
	"github.com/framegrace/vcore/demo/config"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("Load() on a missing file should return an error")
	}
	if cfg.CacheCapacity != config.Default().CacheCapacity {
		t.Errorf("Load() on error should still return Default(), got %+v", cfg)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	cfg := config.Default()
	cfg.ColumnsPerRow = 7
	cfg.StyleName = "dracula"

	if err := config.Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.ColumnsPerRow != 7 || got.StyleName != "dracula" {
		t.Errorf("Load() = %+v, want ColumnsPerRow=7 StyleName=dracula", got)
	}
}

func TestBufferMapsKnownNames(t *testing.T) {
	cases := map[string]vcore.BufferSize{
		"small":     vcore.BufferSmall,
		"standard":  vcore.BufferStandard,
		"big":       vcore.BufferBig,
		"":          vcore.BufferStandard,
		"gibberish": vcore.BufferStandard,
	}
	for name, want := range cases {
		cfg := config.Configuration{BufferSize: name}
		if got := cfg.Buffer(); got != want {
			t.Errorf("Configuration{BufferSize: %q}.Buffer() = %v, want %v", name, got, want)
		}
	}
}

func TestWatcherPicksUpRewrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	cfg := config.Default()
	if err := config.Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	w, err := config.NewWatcher(path, nil)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if w.Current().ColumnsPerRow != cfg.ColumnsPerRow {
		t.Fatalf("Current() = %+v, want the saved Configuration", w.Current())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	changed := make(chan config.Configuration, 1)
	go func() {
		w.Run(ctx, func(c config.Configuration) {
			select {
			case changed <- c:
			default:
			}
		})
	}()

	cfg.ColumnsPerRow = 9
	if err := config.Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	select {
	case got := <-changed:
		if got.ColumnsPerRow != 9 {
			t.Errorf("reloaded Configuration.ColumnsPerRow = %d, want 9", got.ColumnsPerRow)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Watcher did not observe the rewrite in time")
	}
}
