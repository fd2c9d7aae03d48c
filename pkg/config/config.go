package config

import (
	"encoding/json"
	"time"
)

// Config represents the complete configuration of the Orca orchestrator.
type Config struct {
	Server     ServerConfig     `koanf:"server"     validate:"required"`
	Store      StoreConfig      `koanf:"store"      validate:"required"`
	Database   DatabaseConfig   `koanf:"database"`
	Agent      AgentConfig      `koanf:"agent"      validate:"required"`
	History    HistoryConfig    `koanf:"history"    validate:"required"`
	Cache      CacheConfig      `koanf:"cache"`
	Monitoring MonitoringConfig `koanf:"monitoring"`
	Log        LogConfig        `koanf:"log"`
}

// ServerConfig controls how the MCP tool surface is exposed.
type ServerConfig struct {
	Transport       string        `koanf:"transport"        validate:"oneof=stdio http" env:"ORCA_TRANSPORT"`
	Host            string        `koanf:"host"             validate:"required"         env:"ORCA_HOST"`
	Port            int           `koanf:"port"             validate:"min=1,max=65535"  env:"ORCA_PORT"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"min=0"            env:"ORCA_SHUTDOWN_TIMEOUT"`
}

// StoreConfig selects the record store driver.
type StoreConfig struct {
	Driver   string `koanf:"driver"    validate:"oneof=postgres memory" env:"ORCA_STORE_DRIVER"`
	SeedFile string `koanf:"seed_file"                                  env:"ORCA_STORE_SEED_FILE"`
}

// DatabaseConfig contains Postgres connection configuration.
type DatabaseConfig struct {
	ConnString     SensitiveString `koanf:"conn_string"     env:"DB_CONN_STRING"     sensitive:"true"`
	Host           string          `koanf:"host"            env:"DB_HOST"`
	Port           string          `koanf:"port"            env:"DB_PORT"`
	User           string          `koanf:"user"            env:"DB_USER"`
	Password       SensitiveString `koanf:"password"        env:"DB_PASSWORD"        sensitive:"true"`
	Name           string          `koanf:"name"            env:"DB_NAME"`
	SSLMode        string          `koanf:"ssl_mode"        env:"DB_SSL_MODE"`
	MaxConns       int32           `koanf:"max_conns"       env:"DB_MAX_CONNS"       validate:"min=0"`
	MinConns       int32           `koanf:"min_conns"       env:"DB_MIN_CONNS"       validate:"min=0"`
	ConnectRetries int             `koanf:"connect_retries" env:"DB_CONNECT_RETRIES" validate:"min=0"`
	AutoMigrate    bool            `koanf:"auto_migrate"    env:"DB_AUTO_MIGRATE"`
}

// AgentConfig configures outbound calls to agent endpoints.
type AgentConfig struct {
	PrepareTimeout time.Duration `koanf:"prepare_timeout" validate:"min=1ms"     env:"ORCA_AGENT_PREPARE_TIMEOUT"`
	UserAgent      string        `koanf:"user_agent"                             env:"ORCA_AGENT_USER_AGENT"`
}

type HistoryConfig struct {
	DefaultLimit int `koanf:"default_limit" validate:"min=1" env:"ORCA_HISTORY_DEFAULT_LIMIT"`
	MaxLimit     int `koanf:"max_limit"     validate:"min=1" env:"ORCA_HISTORY_MAX_LIMIT"`
}

// CacheConfig configures the read-through agent cache.
type CacheConfig struct {
	Driver   string          `koanf:"driver"    validate:"oneof=none lru redis" env:"ORCA_CACHE_DRIVER"`
	TTL      time.Duration   `koanf:"ttl"       validate:"min=0"                env:"ORCA_CACHE_TTL"`
	Size     int             `koanf:"size"      validate:"min=1"                env:"ORCA_CACHE_SIZE"`
	RedisURL SensitiveString `koanf:"redis_url"                                 env:"ORCA_CACHE_REDIS_URL" sensitive:"true"`
	Prefix   string          `koanf:"prefix"                                    env:"ORCA_CACHE_PREFIX"`
}

type MonitoringConfig struct {
	Enabled bool   `koanf:"enabled" env:"ORCA_MONITORING_ENABLED"`
	Path    string `koanf:"path"    env:"ORCA_MONITORING_PATH"    validate:"startswith=/"`
}

type LogConfig struct {
	Level  string `koanf:"level"  validate:"oneof=debug info warn error disabled" env:"ORCA_LOG_LEVEL"`
	JSON   bool   `koanf:"json"                                                   env:"ORCA_LOG_JSON"`
	Source bool   `koanf:"source"                                                 env:"ORCA_LOG_SOURCE"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Transport:       "stdio",
			Host:            "0.0.0.0",
			Port:            5005,
			ShutdownTimeout: 10 * time.Second,
		},
		Store: StoreConfig{
			Driver: "postgres",
		},
		Database: DatabaseConfig{
			Host:           "localhost",
			Port:           "5432",
			User:           "postgres",
			Name:           "orca",
			SSLMode:        "disable",
			MaxConns:       10,
			MinConns:       1,
			ConnectRetries: 5,
		},
		Agent: AgentConfig{
			PrepareTimeout: 30 * time.Second,
			UserAgent:      "orca-orchestrator",
		},
		History: HistoryConfig{
			DefaultLimit: 10,
			MaxLimit:     100,
		},
		Cache: CacheConfig{
			Driver: "none",
			TTL:    time.Minute,
			Size:   512,
			Prefix: "orca:agent:",
		},
		Monitoring: MonitoringConfig{
			Path: "/metrics",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// SensitiveString hides its value when printed or serialized.
type SensitiveString string

const redacted = "********"

func (s SensitiveString) String() string {
	if s == "" {
		return ""
	}
	return redacted
}

// Value returns the underlying secret.
func (s SensitiveString) Value() string {
	return string(s)
}

func (s SensitiveString) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}
