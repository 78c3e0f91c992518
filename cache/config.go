package cache

import (
	"context"
	"time"

	"github.com/goliatone/go-volunteers/internal/cacheinfra"
	"go.uber.org/zap"
)

// Backend kinds accepted by Config.Backend.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Config exposes cache configuration options for consumers of the cache package.
type Config struct {
	Backend            string        `yaml:"backend" validate:"omitempty,oneof=memory redis none"`
	Namespace          string        `yaml:"namespace"`
	Capacity           int           `yaml:"capacity"`
	NumShards          int           `yaml:"num_shards"`
	TTL                time.Duration `yaml:"ttl"`
	EvictionPercentage int           `yaml:"eviction_percentage"`
	EvictionInterval   time.Duration `yaml:"eviction_interval"`
	Redis              RedisConfig   `yaml:"redis"`
}

// RedisConfig holds the connection settings for the redis backend.
type RedisConfig struct {
	Addr         string        `yaml:"addr"`
	Password     string        `yaml:"password"`
	DB           int           `yaml:"db"`
	PoolSize     int           `yaml:"pool_size"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	internal := cacheinfra.DefaultConfig()
	redis := cacheinfra.DefaultRedisConfig()
	return Config{
		Backend:            BackendMemory,
		Namespace:          internal.Namespace,
		Capacity:           internal.Capacity,
		NumShards:          internal.NumShards,
		TTL:                internal.TTL,
		EvictionPercentage: internal.EvictionPercentage,
		EvictionInterval:   internal.EvictionInterval,
		Redis: RedisConfig{
			Addr:         redis.Addr,
			Password:     redis.Password,
			DB:           redis.DB,
			PoolSize:     redis.PoolSize,
			DialTimeout:  redis.DialTimeout,
			ReadTimeout:  redis.ReadTimeout,
			WriteTimeout: redis.WriteTimeout,
		},
	}
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendNone:
		return nil
	case BackendMemory, "":
		return c.toInternal().Validate()
	case BackendRedis:
		if err := c.toInternal().Validate(); err != nil {
			return err
		}
		return c.toInternalRedis().Validate()
	default:
		return &cacheinfra.ConfigError{Field: "Backend", Message: "must be one of memory, redis, none"}
	}
}

// NewCacheService constructs the cache service described by cfg. The none
// backend yields a disabled service.
func NewCacheService(ctx context.Context, cfg Config, logger *zap.Logger) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var backend Backend
	switch cfg.Backend {
	case BackendNone:
		logger.Info("cache disabled")
		return Disabled(), nil
	case BackendRedis:
		rb, err := cacheinfra.NewRedisBackend(ctx, cfg.toInternal(), cfg.toInternalRedis())
		if err != nil {
			return nil, err
		}
		backend = rb
	default:
		mb, err := cacheinfra.NewMemoryBackend(cfg.toInternal())
		if err != nil {
			return nil, err
		}
		backend = mb
	}

	logger.Info("cache ready",
		zap.String("backend", cfg.backendName()),
		zap.String("namespace", cfg.Namespace),
		zap.Duration("ttl", cfg.TTL),
	)
	return NewService(backend, cfg.TTL, logger)
}

func (c Config) backendName() string {
	if c.Backend == "" {
		return BackendMemory
	}
	return c.Backend
}

func (c Config) toInternal() cacheinfra.Config {
	return cacheinfra.Config{
		Namespace:          c.Namespace,
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		TTL:                c.TTL,
		EvictionPercentage: c.EvictionPercentage,
		EvictionInterval:   c.EvictionInterval,
	}
}

func (c Config) toInternalRedis() cacheinfra.RedisConfig {
	return cacheinfra.RedisConfig{
		Addr:         c.Redis.Addr,
		Password:     c.Redis.Password,
		DB:           c.Redis.DB,
		PoolSize:     c.Redis.PoolSize,
		DialTimeout:  c.Redis.DialTimeout,
		ReadTimeout:  c.Redis.ReadTimeout,
		WriteTimeout: c.Redis.WriteTimeout,
	}
}
