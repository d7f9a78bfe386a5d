package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/edward-ap/folio/internal/config"
	"github.com/edward-ap/folio/internal/contact"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the contact relay endpoint",
	Long: `Serves POST /api/contact (and the legacy Netlify function path) and
relays each message by SMTP to the account named by EMAIL, authenticating
with EMAIL_PASS.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	addr := listenAddr
	if addr == "" {
		addr = cfg.ListenAddr
	}

	account, password, ok := config.SMTPCredentials()
	if !ok {
		logger.Warn("relay credentials missing; every send will fail",
			zap.String("account_env", config.EnvEmail), zap.String("password_env", config.EnvEmailPass))
	}
	mailer := contact.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, account, password)
	h := contact.NewHandler(mailer, logger.Named("contact"))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err = contact.NewServer(addr, h, logger.Named("server")).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
