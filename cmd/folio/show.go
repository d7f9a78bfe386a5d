package main

import (
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/theme"
	"github.com/spf13/cobra"

	"github.com/edward-ap/folio/internal/config"
	"github.com/edward-ap/folio/internal/showcase"
)

var (
	noWatch  bool
	itemsURL string
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Open the desktop showcase window",
	Args:  cobra.NoArgs,
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not reload the items manifest on change")
	showCmd.Flags().StringVar(&itemsURL, "items-url", "", "poll a remote items manifest instead of the local file")
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if itemsURL != "" {
		cfg.ItemsURL = itemsURL
	}
	items, err := loadItems(cfg)
	if err != nil {
		return err
	}

	fa := app.NewWithID(config.AppID)
	fa.Settings().SetTheme(theme.DarkTheme())
	a, err := showcase.New(fa, showcase.Options{
		Config: cfg,
		Items:  items,
		Watch:  !noWatch,
		Log:    logger.Named("showcase"),
	})
	if err != nil {
		return err
	}
	a.Run()
	return nil
}
