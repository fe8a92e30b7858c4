package bootstrap

import (
	"context"
	"errors"
	"log/slog"

	"issuetracker/internal/bootstrap/config"
	"issuetracker/internal/bootstrap/logging"
	"issuetracker/internal/errs"
	"issuetracker/internal/ports"
)

type App struct {
	Config config.Config
	Store  ports.IssueStore
}

func (a *App) InitSchema(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.app"))
	logging.Info(logCtx, "start schema migration", slog.String("database_driver", a.Config.Database.Driver))

	if err := a.Store.MigrateSchema(ctx); err != nil {
		return errs.Wrap(err, "migrate schema")
	}

	logging.Info(logCtx, "schema migration completed")
	return nil
}
