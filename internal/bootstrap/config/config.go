package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"issuetracker/internal/bootstrap/logging"
	"issuetracker/internal/errs"
)

const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"

	defaultSQLiteDSN = ".data/issues.sqlite"
	defaultMongoURI  = "mongodb://localhost:27017"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Database DatabaseConfig `mapstructure:"database"`
	Events   EventsConfig   `mapstructure:"events"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type HTTPConfig struct {
	Addr                 string        `mapstructure:"addr"`
	ReadHeaderTimeout    time.Duration `mapstructure:"read_header_timeout"`
	ShutdownTimeout      time.Duration `mapstructure:"shutdown_timeout"`
	ScopeWritesToProject bool          `mapstructure:"scope_writes_to_project"`
}

type DatabaseConfig struct {
	Driver         string        `mapstructure:"driver"`
	DSN            string        `mapstructure:"dsn"`
	Name           string        `mapstructure:"name"`
	Collection     string        `mapstructure:"collection"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// EventsConfig leaves publishing disabled while NATSURL is empty.
type EventsConfig struct {
	NATSURL        string        `mapstructure:"nats_url"`
	SubjectPrefix  string        `mapstructure:"subject_prefix"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

func Load(ctx context.Context, configFile string) (Config, error) {
	if ctx == nil {
		return Config{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Config{}, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.config"))

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("ISSUES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("database.mongo_uri", "MONGO_URI"); err != nil {
		return Config{}, errs.Wrap(err, "bind MONGO_URI")
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			// Keep default and env-backed config when no file is provided.
			logging.Debug(logCtx, "config file not found, fallback to defaults and env")
		} else {
			return Config{}, errs.Wrap(err, "read config")
		}
	} else {
		logging.Info(logCtx, "using config file", slog.String("path", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errs.Wrap(err, "unmarshal config")
	}

	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	if cfg.Database.Driver == "sqlite3" {
		cfg.Database.Driver = DriverSQLite
	}
	if strings.TrimSpace(cfg.Database.DSN) == "" {
		cfg.Database.DSN = defaultDSN(cfg.Database.Driver, v.GetString("database.mongo_uri"))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	logging.Info(
		logCtx,
		"config loaded",
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
		slog.String("database_driver", cfg.Database.Driver),
		slog.Bool("events_enabled", cfg.Events.Enabled()),
	)

	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.HTTP.Addr) == "" {
		return errors.New("http.addr is required")
	}
	switch c.Database.Driver {
	case DriverSQLite:
	case DriverMongo:
		if strings.TrimSpace(c.Database.Name) == "" {
			return errors.New("database.name is required for the mongo driver")
		}
		if strings.TrimSpace(c.Database.Collection) == "" {
			return errors.New("database.collection is required for the mongo driver")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		return errors.New("database.dsn is required")
	}
	return nil
}

func (e EventsConfig) Enabled() bool {
	return strings.TrimSpace(e.NATSURL) != ""
}

func defaultDSN(driver string, mongoURI string) string {
	if driver != DriverMongo {
		return defaultSQLiteDSN
	}
	if uri := strings.TrimSpace(mongoURI); uri != "" {
		return uri
	}
	return defaultMongoURI
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "issuetracker")
	v.SetDefault("app.env", "local")

	v.SetDefault("http.addr", ":3000")
	v.SetDefault("http.read_header_timeout", 5*time.Second)
	v.SetDefault("http.shutdown_timeout", 10*time.Second)
	v.SetDefault("http.scope_writes_to_project", false)

	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.name", "issuetracker")
	v.SetDefault("database.collection", "issues")
	v.SetDefault("database.connect_timeout", 10*time.Second)

	v.SetDefault("events.nats_url", "")
	v.SetDefault("events.subject_prefix", "issues")
	v.SetDefault("events.connect_timeout", 5*time.Second)
}
