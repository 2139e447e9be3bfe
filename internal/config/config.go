// Package config loads the process-wide configuration from FNS_* environment
// variables and an optional YAML file. Configuration is read once at startup
// and threaded explicitly into each engine; nothing reads ambient globals.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/netglean/fnslog/internal/store"
)

// Database selects and parameterizes the backing store.
type Database struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	Path     string `mapstructure:"path"`
	SSLMode  string `mapstructure:"sslmode"`
}

// Logging configures the zap tee logger: everything to the console, the
// error-and-up stream to an optional file, and an optional Sentry hook.
type Logging struct {
	File         string `mapstructure:"file"`
	SentryDSN    string `mapstructure:"sentry_dsn"`
	EnableSentry bool   `mapstructure:"enable_sentry"`
}

// Config is the full process configuration.
type Config struct {
	RetentionDays   int      `mapstructure:"days_to_keep_logs"`
	DefaultTimezone string   `mapstructure:"default_timezone"`
	HTTPAddr        string   `mapstructure:"http_addr"`
	Database        Database `mapstructure:"db"`
	Logging         Logging  `mapstructure:"log"`
}

// Load reads configuration with env overrides (prefix FNS, e.g.
// FNS_DAYS_TO_KEEP_LOGS, FNS_DB_PASSWORD, FNS_HTTP_ADDR). A non-empty path
// names a YAML config file whose values sit between the defaults and the
// environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FNS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("days_to_keep_logs", 30)
	v.SetDefault("default_timezone", "UTC")
	v.SetDefault("http_addr", ":5000")
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.host", "127.0.0.1")
	v.SetDefault("db.port", 0)
	v.SetDefault("db.user", "rsyslog")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "Syslog")
	v.SetDefault("db.path", "fns_logs.db")
	v.SetDefault("db.sslmode", "")
	v.SetDefault("log.file", "")
	v.SetDefault("log.sentry_dsn", "")
	v.SetDefault("log.enable_sentry", false)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// Validate rejects configurations the engines would misbehave under.
func (c *Config) Validate() error {
	if c.RetentionDays < 1 {
		return fmt.Errorf("days_to_keep_logs must be at least 1 (got %d)", c.RetentionDays)
	}
	driver := strings.ToLower(strings.TrimSpace(c.Database.Driver))
	switch driver {
	case "sqlite", "sqlite3":
		if c.Database.Path == "" {
			return fmt.Errorf("db.path is required for the sqlite driver")
		}
	case "mysql", "postgres", "postgresql":
		if c.Database.Password == "" {
			return fmt.Errorf("db.password is required for the %s driver "+
				"(set FNS_DB_PASSWORD)", driver)
		}
	default:
		return fmt.Errorf("unsupported db.driver %q", c.Database.Driver)
	}
	return nil
}

// StoreParams translates the database section for store.Open.
func (c *Config) StoreParams() store.Params {
	return store.Params{
		Driver:   c.Database.Driver,
		Host:     c.Database.Host,
		Port:     c.Database.Port,
		User:     c.Database.User,
		Password: c.Database.Password,
		Database: c.Database.Name,
		Path:     c.Database.Path,
		SSLMode:  c.Database.SSLMode,
	}
}
