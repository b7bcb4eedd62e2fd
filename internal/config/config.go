// Package config defines the server configuration and its validation.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Config is the root configuration. Fields are populated from defaults, a
// TOML file, BAZAR_* environment variables and finally command-line flags.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
	Auth     AuthConfig     `toml:"auth"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr              string   `toml:"addr"`
	ReadHeaderTimeout duration `toml:"read_header_timeout"`
	ReadTimeout       duration `toml:"read_timeout"`
	WriteTimeout      duration `toml:"write_timeout"`
	IdleTimeout       duration `toml:"idle_timeout"`
	ShutdownTimeout   duration `toml:"shutdown_timeout"`
}

// DatabaseConfig holds the SQLite database location.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	// Path, if set, receives a copy of every log line.
	Path  string `toml:"path"`
	Level string `toml:"level"`
}

// AuthConfig controls accounts and tokens.
type AuthConfig struct {
	// EmailDomain restricts signups to addresses in this domain. Empty allows any.
	EmailDomain string   `toml:"email_domain"`
	TokenTTL    duration `toml:"token_ttl"`
}

// duration wraps time.Duration so it can be written as "30s" in TOML.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: duration{10 * time.Second},
			ReadTimeout:       duration{30 * time.Second},
			WriteTimeout:      duration{60 * time.Second},
			IdleTimeout:       duration{120 * time.Second},
			ShutdownTimeout:   duration{5 * time.Second},
		},
		Database: DatabaseConfig{Path: "bazar.sqlite3"},
		Log:      LogConfig{Level: "info"},
		Auth:     AuthConfig{TokenTTL: duration{7 * 24 * time.Hour}},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Addr == "" {
		errs = append(errs, "server.addr is required")
	}
	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Server.ShutdownTimeout.Duration <= 0 {
		errs = append(errs, "server.shutdown_timeout must be positive")
	}
	if c.Auth.TokenTTL.Duration <= 0 {
		errs = append(errs, "auth.token_ttl must be positive")
	}
	if strings.HasPrefix(c.Auth.EmailDomain, "@") {
		errs = append(errs, "auth.email_domain must not start with @")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// SlogLevel parses Level into a slog.Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("log.level %q is not one of debug, info, warn, error", l.Level)
}
