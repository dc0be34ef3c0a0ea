// Package config loads runtime settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/samdwyer/bitacora/internal/combat"
	"github.com/samdwyer/bitacora/internal/profile"
	"github.com/samdwyer/bitacora/internal/profile/sqlite"
)

// Profile storage backends.
const (
	BackendDir    = "dir"
	BackendSQLite = "sqlite"
)

// Config holds every runtime setting.
type Config struct {
	ProfileBackend string `env:"BITACORA_PROFILE_BACKEND" envDefault:"dir"`
	ProfileDir     string `env:"BITACORA_PROFILE_DIR" envDefault:"perfiles"`
	SQLitePath     string `env:"BITACORA_SQLITE_PATH" envDefault:"bitacora.db"`

	PlayerPAMax     int `env:"BITACORA_PLAYER_PA_MAX" envDefault:"8"`
	EnemyVitMax     int `env:"BITACORA_ENEMY_VIT_MAX" envDefault:"100"`
	EnemyPAMax      int `env:"BITACORA_ENEMY_PA_MAX" envDefault:"8"`
	EnemyActionCost int `env:"BITACORA_ENEMY_ACTION_COST" envDefault:"1"`
	IndirectPercent int `env:"BITACORA_INDIRECT_PERCENT" envDefault:"10"`
	IndirectActions int `env:"BITACORA_INDIRECT_ACTIONS" envDefault:"3"`

	LogFile   string `env:"BITACORA_LOG_FILE" envDefault:"bitacora.log"`
	LogFormat string `env:"BITACORA_LOG_FORMAT" envDefault:"text"`
	LogLevel  string `env:"BITACORA_LOG_LEVEL" envDefault:"info"`

	Telemetry bool `env:"BITACORA_TELEMETRY" envDefault:"false"`
}

// Load reads files (default ".env") into the environment without overriding
// variables already set, then parses the environment. Missing .env files
// are not an error.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return Parse()
}

// Parse reads the configuration from environment variables only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values env cannot check by type.
func (c Config) Validate() error {
	switch c.ProfileBackend {
	case BackendDir, BackendSQLite:
	default:
		return fmt.Errorf("BITACORA_PROFILE_BACKEND: unknown backend %q", c.ProfileBackend)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("BITACORA_LOG_FORMAT: unknown format %q", c.LogFormat)
	}
	if c.PlayerPAMax <= 0 {
		return fmt.Errorf("BITACORA_PLAYER_PA_MAX must be positive, got %d", c.PlayerPAMax)
	}
	return nil
}

// SessionOptions returns the numeric defaults for a combat session.
func (c Config) SessionOptions() combat.Options {
	return combat.Options{
		PlayerPAMax:     c.PlayerPAMax,
		EnemyVitMax:     c.EnemyVitMax,
		EnemyPAMax:      c.EnemyPAMax,
		EnemyActionCost: c.EnemyActionCost,
		IndirectPercent: c.IndirectPercent,
		IndirectActions: c.IndirectActions,
	}
}

// Logger opens the log file and returns a structured logger writing to it,
// plus a close function. The terminal belongs to the UI, so logs never go
// to stderr while it runs. An empty LogFile discards logs.
func (c Config) Logger() (*slog.Logger, func() error, error) {
	var (
		w       io.Writer = io.Discard
		closeFn           = func() error { return nil }
	)
	if c.LogFile != "" {
		if dir := filepath.Dir(c.LogFile); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("create log directory: %w", err)
			}
		}
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, closeFn = f, f.Close
	}

	opts := &slog.HandlerOptions{Level: c.level()}
	var handler slog.Handler
	if strings.EqualFold(c.LogFormat, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler), closeFn, nil
}

func (c Config) level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// OpenStore opens the configured profile store and returns it with a close
// function.
func (c Config) OpenStore(logger *slog.Logger) (profile.Store, func() error, error) {
	switch c.ProfileBackend {
	case BackendSQLite:
		store, err := sqlite.Open(c.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		store, err := profile.NewDirStore(c.ProfileDir, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, func() error { return nil }, nil
	}
}
