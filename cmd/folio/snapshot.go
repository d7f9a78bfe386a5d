package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/edward-ap/folio/internal/snapshot"
)

var (
	snapOut    string
	snapWidth  int
	snapHeight int
	snapOffset float64
	snapFrames int
	snapFPS    float64
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Render the loop to PNG",
	Long: `Renders the track at --offset into --out. With --frames N the loop is
integrated from rest at --fps and N numbered PNGs are written into the
directory --out instead.`,
	Args: cobra.NoArgs,
	RunE: runSnapshot,
}

func init() {
	f := snapshotCmd.Flags()
	f.StringVarP(&snapOut, "out", "o", "folio.png", "output file, or directory with --frames")
	f.IntVar(&snapWidth, "width", snapshot.DefaultWidth, "canvas width in px")
	f.IntVar(&snapHeight, "height", snapshot.DefaultHeight, "canvas height in px")
	f.Float64Var(&snapOffset, "offset", 0, "scroll offset in px")
	f.IntVar(&snapFrames, "frames", 0, "render an animated sequence of this many frames")
	f.Float64Var(&snapFPS, "fps", 60, "frame rate used with --frames")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	items, err := loadItems(cfg)
	if err != nil {
		return err
	}
	r := snapshot.New(items, cfg.MarqueeConfig(), snapshot.Options{Width: snapWidth, Height: snapHeight})

	if snapFrames > 0 {
		paths, err := r.WriteFrames(snapOut, snapFrames, snapFPS)
		if err != nil {
			return err
		}
		logger.Info("frames written", zap.String("dir", snapOut), zap.Int("count", len(paths)))
		fmt.Fprintf(cmd.OutOrStdout(), "%d frames in %s\n", len(paths), snapOut)
		return nil
	}

	if dir := filepath.Dir(snapOut); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(snapOut)
	if err != nil {
		return err
	}
	if err := r.WritePNG(f, snapOffset); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", snapOut, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), snapOut)
	return nil
}
