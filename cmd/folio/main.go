// Command folio runs the looping project showcase: the desktop window, the
// contact relay endpoint, a terminal rendition and PNG snapshots.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/edward-ap/folio/internal/config"
	"github.com/edward-ap/folio/internal/marquee"
)

var (
	// Global flags
	verbose    bool
	configPath string
	itemsPath  string

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Infinite logo loop showcase with a contact relay",
	Long: `folio shows a looping strip of projects or logos that eases to a
stop on hover and wraps seamlessly at any window width.

Run without arguments to open the desktop window.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: runShow,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	pf.StringVar(&configPath, "config", "", "config file (default: user config dir)")
	pf.StringVar(&itemsPath, "items", "", "YAML items manifest (default: items.yaml next to the config)")

	rootCmd.AddCommand(showCmd, serveCmd, termCmd, snapshotCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

// loadConfig reads --config or the default location and applies --items.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if itemsPath != "" {
		cfg.ItemsPath = itemsPath
	}
	return cfg, nil
}

func loadItems(cfg *config.Config) ([]marquee.Item, error) {
	path := cfg.ResolvedItemsPath()
	items, err := config.LoadItems(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("items loaded", zap.String("path", path), zap.Int("count", len(items)))
	return items, nil
}
