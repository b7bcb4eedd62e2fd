package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load builds a Config from the defaults, the TOML file at path (skipped if
// path is empty or the file does not exist), a .env file in the working
// directory if present, and BAZAR_* environment variables. The result is not
// validated; call Validate after applying flags.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyEnvOverrides overwrites fields whose BAZAR_* variable is set.
func applyEnvOverrides(cfg *Config) error {
	setStr(&cfg.Server.Addr, "BAZAR_SERVER_ADDR")

	setStr(&cfg.Database.Path, "BAZAR_DATABASE_PATH")

	setStr(&cfg.Log.Path, "BAZAR_LOG_PATH")
	setStr(&cfg.Log.Level, "BAZAR_LOG_LEVEL")

	setStr(&cfg.Auth.EmailDomain, "BAZAR_AUTH_EMAIL_DOMAIN")

	return errors.Join(
		setDuration(&cfg.Server.ShutdownTimeout, "BAZAR_SERVER_SHUTDOWN_TIMEOUT"),
		setDuration(&cfg.Auth.TokenTTL, "BAZAR_AUTH_TOKEN_TTL"),
	)
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: invalid duration %q", key, v)
	}
	dst.Duration = d
	return nil
}
