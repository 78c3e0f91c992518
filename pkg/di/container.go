package di

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-volunteers/cache"
	"github.com/goliatone/go-volunteers/config"
	"github.com/goliatone/go-volunteers/repositorycache"
	"github.com/goliatone/go-volunteers/skills"
	"github.com/goliatone/go-volunteers/store"
	"github.com/goliatone/go-volunteers/volunteer"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Container provides dependency injection for the volunteer directory.
// It owns the database handle and the cache service, and exposes the
// volunteer manager and skill catalog built on top of them.
type Container struct {
	config        config.Config
	logger        *zap.Logger
	db            *bun.DB
	cacheService  *cache.Service
	keySerializer cache.KeySerializer
	volunteers    *volunteer.Manager
	catalog       *skills.Catalog
}

// Option customizes a Container before its services are built.
type Option func(*options)

type options struct {
	clock volunteer.Clock
}

// WithClock replaces the wall clock used for record timestamps.
func WithClock(clock volunteer.Clock) Option {
	return func(o *options) { o.clock = clock }
}

// NewContainer opens the database, applies the schema when configured to
// and wires every service. A nil logger discards output.
func NewContainer(ctx context.Context, cfg config.Config, logger *zap.Logger, opts ...Option) (*Container, error) {
	if err := config.Validate(&cfg); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	o := options{clock: volunteer.SystemClock{}}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := store.Open(ctx, store.Options{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}

	c := &Container{config: cfg, logger: logger, db: db}
	if err := c.build(ctx, o); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

// NewContainerWithDefaults creates a container using config.Default.
func NewContainerWithDefaults(ctx context.Context, logger *zap.Logger) (*Container, error) {
	return NewContainer(ctx, config.Default(), logger)
}

func (c *Container) build(ctx context.Context, o options) error {
	if c.config.Database.AutoMigrate {
		if err := c.Migrate(ctx); err != nil {
			return err
		}
	}

	cacheService, err := cache.NewCacheService(ctx, c.config.Cache, c.logger.Named("cache"))
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	c.cacheService = cacheService
	c.keySerializer = cache.NewKeySerializer(c.config.Cache.Namespace)

	volunteerStore, err := store.NewVolunteerStore(store.VolunteerStoreConfig{DB: c.db})
	if err != nil {
		return err
	}
	c.volunteers, err = volunteer.NewManager(volunteer.ManagerConfig{
		Store:          volunteerStore,
		Cache:          c.cacheService,
		Keys:           c.keySerializer,
		Clock:          o.clock,
		Logger:         c.logger,
		RadiusPushdown: c.config.Search.RadiusPushdown,
	})
	if err != nil {
		return err
	}

	skillStore, err := store.NewSkillStore(store.SkillStoreConfig{DB: c.db})
	if err != nil {
		return err
	}
	cached := repositorycache.New(
		skillStore,
		c.cacheService,
		cache.NewKeySerializer(c.config.Cache.Namespace+":skills"),
		c.logger.Named("skills.cache"),
	)
	c.catalog, err = skills.NewCatalog(skills.CatalogConfig{
		Store:  cached,
		Clock:  o.clock,
		Logger: c.logger,
	})
	return err
}

// Migrate applies the schema to the container's database.
func (c *Container) Migrate(ctx context.Context) error {
	if err := store.Migrate(ctx, c.db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Config returns a copy of the configuration used by this container.
func (c *Container) Config() config.Config {
	return c.config
}

// Logger returns the root logger.
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// DB returns the shared database handle.
func (c *Container) DB() *bun.DB {
	return c.db
}

// CacheService returns the singleton cache service instance.
func (c *Container) CacheService() *cache.Service {
	return c.cacheService
}

// KeySerializer returns the key serializer of the volunteer namespace.
func (c *Container) KeySerializer() cache.KeySerializer {
	return c.keySerializer
}

// Volunteers returns the volunteer record manager.
func (c *Container) Volunteers() *volunteer.Manager {
	return c.volunteers
}

// Skills returns the skill catalog.
func (c *Container) Skills() *skills.Catalog {
	return c.catalog
}

// Close releases the cache backend and the database.
func (c *Container) Close() error {
	var errs []error
	if c.cacheService != nil {
		errs = append(errs, c.cacheService.Close())
	}
	if c.db != nil {
		errs = append(errs, c.db.Close())
	}
	return errors.Join(errs...)
}
