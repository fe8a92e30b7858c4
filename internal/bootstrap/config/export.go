package config

import (
	"net/url"
	"strings"
)

// Document is the effective configuration as nested plain values, keyed like
// the config file. Durations render as strings and DSN passwords are masked.
func (c Config) Document() map[string]any {
	return map[string]any{
		"app": map[string]any{
			"name": c.App.Name,
			"env":  c.App.Env,
		},
		"http": map[string]any{
			"addr":                    c.HTTP.Addr,
			"read_header_timeout":     c.HTTP.ReadHeaderTimeout.String(),
			"shutdown_timeout":        c.HTTP.ShutdownTimeout.String(),
			"scope_writes_to_project": c.HTTP.ScopeWritesToProject,
		},
		"database": map[string]any{
			"driver":          c.Database.Driver,
			"dsn":             RedactDSN(c.Database.DSN),
			"name":            c.Database.Name,
			"collection":      c.Database.Collection,
			"connect_timeout": c.Database.ConnectTimeout.String(),
		},
		"events": map[string]any{
			"nats_url":        RedactDSN(c.Events.NATSURL),
			"subject_prefix":  c.Events.SubjectPrefix,
			"connect_timeout": c.Events.ConnectTimeout.String(),
		},
	}
}

// RedactDSN masks the password of URL-shaped connection strings. File paths
// are returned unchanged.
func RedactDSN(dsn string) string {
	if !strings.Contains(dsn, "://") {
		return dsn
	}
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	return u.Redacted()
}
