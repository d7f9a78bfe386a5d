package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/edward-ap/folio/internal/term"
)

var termCmd = &cobra.Command{
	Use:   "term",
	Short: "Run the loop in the terminal",
	Long:  "Draws the loop on the middle row. p pauses, r reverses, q/Esc/Ctrl-C quit; hovering the row holds it.",
	Args:  cobra.NoArgs,
	RunE:  runTerm,
}

func runTerm(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	items, err := loadItems(cfg)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, os.Interrupt)
	defer stop()
	err = term.New(screen, items, cfg.MarqueeConfig(), logger.Named("term")).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
