package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/edward-ap/folio/internal/config"
	"github.com/edward-ap/folio/internal/marquee"
	"github.com/edward-ap/folio/internal/snapshot"
)

func resetFlags(t *testing.T) {
	t.Helper()
	logger = zap.NewNop()
	t.Cleanup(func() {
		configPath, itemsPath, itemsURL, snapOut = "", "", "", "folio.png"
		noWatch = false
		snapFrames, snapOffset, snapFPS = 0, 0, 60
		snapWidth, snapHeight = snapshot.DefaultWidth, snapshot.DefaultHeight
	})
}

func TestLoadConfigAppliesItemsFlag(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	configPath = filepath.Join(dir, "config.json")
	itemsPath = filepath.Join(dir, "logos.yaml")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if got := cfg.ResolvedItemsPath(); got != itemsPath {
		t.Fatalf("ResolvedItemsPath = %q, want %q", got, itemsPath)
	}
	items, err := loadItems(cfg)
	if err != nil {
		t.Fatalf("loadItems: %v", err)
	}
	if len(items) != len(config.DefaultItems()) {
		t.Fatalf("missing manifest should yield defaults, got %d items", len(items))
	}
}

func TestSnapshotCommandWritesPNG(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	manifest := filepath.Join(dir, "items.yaml")
	if err := config.SaveItems(manifest, []marquee.Item{{Text: "Go"}, {Text: "Zig"}}); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "shots", "loop.png")

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{"snapshot",
		"--config", filepath.Join(dir, "config.json"),
		"--items", manifest,
		"--out", out, "--width", "240", "--height", "30", "--offset", "12"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if !strings.Contains(stdout.String(), out) {
		t.Errorf("stdout %q does not name %s", stdout.String(), out)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 240 || b.Dy() != 30 {
		t.Fatalf("bounds = %v, want 240x30", b)
	}
}

func TestSnapshotFrames(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	configPath = filepath.Join(dir, "config.json")
	itemsPath = filepath.Join(dir, "items.yaml")
	snapOut = filepath.Join(dir, "frames")
	snapFrames, snapFPS, snapWidth, snapHeight = 4, 30, 100, 20

	var stdout bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&stdout)
	if err := runSnapshot(cmd, nil); err != nil {
		t.Fatalf("runSnapshot: %v", err)
	}
	entries, err := os.ReadDir(snapOut)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 4 {
		t.Fatalf("got %d files, want 4", len(entries))
	}
	if !strings.HasPrefix(stdout.String(), "4 frames") {
		t.Errorf("unexpected output %q", stdout.String())
	}
}
