package postgres

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds PostgreSQL connection settings. ConnString wins when set;
// otherwise a DSN is assembled from the individual fields.
type Config struct {
	ConnString     string
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MaxConns       int32
	MinConns       int32
	ConnectRetries int
	PingTimeout    time.Duration
}

// DSN returns the connection string for cfg.
func (cfg *Config) DSN() string {
	if cfg.ConnString != "" {
		return cfg.ConnString
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Path:   "/" + cfg.DBName,
	}
	switch {
	case cfg.User != "" && cfg.Password != "":
		u.User = url.UserPassword(cfg.User, cfg.Password)
	case cfg.User != "":
		u.User = url.User(cfg.User)
	}
	if cfg.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {cfg.SSLMode}}.Encode()
	}
	return u.String()
}
