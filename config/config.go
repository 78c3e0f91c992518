package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goliatone/go-volunteers/cache"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "VOLUNTEERS_"

// DatabaseConfig selects the SQL driver and connection.
type DatabaseConfig struct {
	Driver          string        `yaml:"driver" validate:"required,oneof=sqlite3 sqlite postgres pgx"`
	DSN             string        `yaml:"dsn" validate:"required"`
	MaxOpenConns    int           `yaml:"max_open_conns" validate:"min=0"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" validate:"min=0"`
	AutoMigrate     bool          `yaml:"auto_migrate"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

// SearchConfig tunes proximity search.
type SearchConfig struct {
	RadiusPushdown  bool    `yaml:"radius_pushdown"`
	DefaultRadiusKm float64 `yaml:"default_radius_km" validate:"gt=0"`
}

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Cache    cache.Config   `yaml:"cache"`
	Log      LogConfig      `yaml:"log"`
	Search   SearchConfig   `yaml:"search"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Default returns a configuration backed by a local SQLite file and the
// in-memory cache.
func Default() Config {
	return Config{
		Database: DatabaseConfig{
			Driver:       "sqlite3",
			DSN:          "file:volunteers.db?cache=shared&_foreign_keys=on",
			MaxOpenConns: 10,
			AutoMigrate:  true,
		},
		Cache: cache.DefaultConfig(),
		Log: LogConfig{
			Level: "info",
		},
		Search: SearchConfig{
			DefaultRadiusKm: 50,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path and the environment, in that order, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := mergeFile(&cfg, path); err != nil {
			return nil, err
		}
	}
	applyEnv(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromPath loads and validates the configuration from a specific path
// without consulting the environment.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := mergeFile(&cfg, path); err != nil {
		return nil, err
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate validates the configuration struct and the cache settings.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if err := cfg.Cache.Validate(); err != nil {
		return fmt.Errorf("invalid cache config: %w", err)
	}
	return nil
}

func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Database.Driver = getEnv("DB_DRIVER", cfg.Database.Driver)
	cfg.Database.DSN = getEnv("DB_DSN", cfg.Database.DSN)
	cfg.Database.MaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", cfg.Database.MaxOpenConns)
	cfg.Database.AutoMigrate = getEnvBool("DB_AUTO_MIGRATE", cfg.Database.AutoMigrate)

	cfg.Cache.Backend = getEnv("CACHE_BACKEND", cfg.Cache.Backend)
	cfg.Cache.Namespace = getEnv("CACHE_NAMESPACE", cfg.Cache.Namespace)
	cfg.Cache.TTL = getEnvDuration("CACHE_TTL", cfg.Cache.TTL)
	cfg.Cache.Redis.Addr = getEnv("REDIS_ADDR", cfg.Cache.Redis.Addr)
	cfg.Cache.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Cache.Redis.Password)
	cfg.Cache.Redis.DB = getEnvInt("REDIS_DB", cfg.Cache.Redis.DB)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Development = getEnvBool("LOG_DEVELOPMENT", cfg.Log.Development)

	cfg.Search.RadiusPushdown = getEnvBool("SEARCH_RADIUS_PUSHDOWN", cfg.Search.RadiusPushdown)
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(EnvPrefix + key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(EnvPrefix + key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(EnvPrefix + key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(EnvPrefix + key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
