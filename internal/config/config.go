package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/toil/internal/toil"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. TOIL_DATABASE_PATH.
const EnvPrefix = "TOIL"

// Config holds the complete application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Timezone string         `mapstructure:"timezone"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Server   ServerConfig   `mapstructure:"server"`
	Clock    ClockConfig    `mapstructure:"clock"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig defines logging behavior
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig defines the HTTP API listener and its guards.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	APIKey          string        `mapstructure:"api_key"`
	RateLimit       int           `mapstructure:"rate_limit"`
	RateLimitWindow time.Duration `mapstructure:"rate_limit_window"`
	CORSOrigin      string        `mapstructure:"cors_origin"`
	Production      bool          `mapstructure:"production"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type ClockConfig struct {
	OpenSessionLookback time.Duration `mapstructure:"open_session_lookback"`
}

// Load reads .env, then the optional config file, then TOIL_* environment
// variables. An empty configPath skips the file.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.path", DefaultDatabasePath())
	v.SetDefault("timezone", toil.DefaultZone)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("server.addr", ":3001")
	v.SetDefault("server.api_key", "")
	v.SetDefault("server.rate_limit", 100)
	v.SetDefault("server.rate_limit_window", time.Minute)
	v.SetDefault("server.cors_origin", "*")
	v.SetDefault("server.production", false)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("clock.open_session_lookback", 8*time.Hour)
}

// DefaultDatabasePath is ~/.toil/toil.db, or ./toil.db when the home
// directory cannot be determined.
func DefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "toil.db"
	}
	return filepath.Join(home, ".toil", "toil.db")
}

func validate(cfg *Config) error {
	if cfg.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return fmt.Errorf("unknown timezone %q: %w", cfg.Timezone, err)
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level: %q", cfg.Logging.Level)
	}
	switch cfg.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid logging format: %q", cfg.Logging.Format)
	}

	if cfg.Server.Addr == "" {
		return fmt.Errorf("server address is required")
	}
	if cfg.Server.RateLimit <= 0 {
		return fmt.Errorf("rate limit must be positive: %d", cfg.Server.RateLimit)
	}
	if cfg.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("rate limit window must be positive: %s", cfg.Server.RateLimitWindow)
	}
	if cfg.Clock.OpenSessionLookback <= 0 {
		return fmt.Errorf("open session lookback must be positive: %s", cfg.Clock.OpenSessionLookback)
	}
	return nil
}
