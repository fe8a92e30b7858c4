package bootstrap

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"issuetracker/internal/bootstrap/config"
	"issuetracker/internal/bootstrap/database"
	"issuetracker/internal/bootstrap/logging"
	"issuetracker/internal/errs"
	"issuetracker/internal/infrastructure/messaging"
	mongorepo "issuetracker/internal/infrastructure/persistence/mongo/repository"
	sqliterepo "issuetracker/internal/infrastructure/persistence/sqlite/repository"
	"issuetracker/internal/ports"
	"issuetracker/internal/usecase/issues"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideStore),
	fx.Provide(
		func(store ports.IssueStore) ports.IssueRepository { return store },
		func(store ports.IssueStore) ports.HealthChecker { return store },
	),
	fx.Provide(providePublisher),
	fx.Provide(provideService),
	fx.Provide(provideApp),
)

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx"))
	return config.Load(ctx, p.ConfigFile)
}

func provideStore(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (ports.IssueStore, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	switch cfg.Database.Driver {
	case config.DriverMongo:
		client, err := database.OpenMongo(logCtx, cfg.Database)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(stopCtx context.Context) error {
				return client.Disconnect(stopCtx)
			},
		})
		coll := client.Database(cfg.Database.Name).Collection(cfg.Database.Collection)
		return mongorepo.NewIssueRepository(coll), nil
	default:
		db, err := database.OpenSQLite(logCtx, cfg.Database)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				return database.CloseSQLite(db)
			},
		})
		return sqliterepo.NewIssueRepository(db), nil
	}
}

func providePublisher(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (ports.EventPublisher, error) {
	if !cfg.Events.Enabled() {
		return messaging.NopPublisher{}, nil
	}

	conn, err := messaging.ConnectNATS(cfg.Events.NATSURL, cfg.App.Name, cfg.Events.ConnectTimeout)
	if err != nil {
		return nil, errs.Wrap(err, "connect event broker")
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return conn.Drain()
		},
	})

	logging.Info(
		logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx")),
		"issue events enabled",
		slog.String("nats_url", config.RedactDSN(cfg.Events.NATSURL)),
		slog.String("subject_prefix", cfg.Events.SubjectPrefix),
	)
	return messaging.NewNATSPublisher(conn, cfg.Events.SubjectPrefix), nil
}

func provideService(repo ports.IssueRepository, events ports.EventPublisher, cfg config.Config) *issues.Service {
	return issues.NewService(repo, events, issues.WithProjectScopedWrites(cfg.HTTP.ScopeWritesToProject))
}

func provideApp(cfg config.Config, store ports.IssueStore) *App {
	return &App{
		Config: cfg,
		Store:  store,
	}
}
