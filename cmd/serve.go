/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"issuetracker/internal/bootstrap"
	"issuetracker/internal/bootstrap/logging"
	"issuetracker/internal/errs"
	"issuetracker/internal/transport/httpapi"
	"issuetracker/internal/usecase/issues"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the issue REST API",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svc *issues.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		migrate, _ := cmd.Flags().GetBool("migrate")
		if migrate {
			if err := app.InitSchema(ctx); err != nil {
				return errs.Wrap(err, "initialize schema")
			}
		}

		addr, _ := cmd.Flags().GetString("addr")
		addr = strings.TrimSpace(addr)
		if addr == "" {
			addr = app.Config.HTTP.Addr
		}

		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		handler := httpapi.NewRouter(svc, app.Store, logging.Logger(ctx))
		return httpapi.Serve(ctx, httpapi.ServerConfig{
			Addr:              addr,
			ReadHeaderTimeout: app.Config.HTTP.ReadHeaderTimeout,
			ShutdownTimeout:   app.Config.HTTP.ShutdownTimeout,
		}, handler)
	}),
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Listen address (overrides http.addr)")
	serveCmd.Flags().Bool("migrate", true, "Create the issue schema before serving")
}
