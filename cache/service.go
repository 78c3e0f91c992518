package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

// Backend stores encoded cache entries. Implementations must be safe for
// concurrent use and must only touch keys inside their own namespace when
// DeleteAll is called.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeleteAll(ctx context.Context) error
}

// FetchFn loads a value from the source of truth.
type FetchFn[T any] func(ctx context.Context) (T, error)

// FillToken records the generation of a key at the moment a fetch started.
// A fill carrying an outdated token is dropped.
type FillToken struct {
	epoch      uint64
	generation uint64
}

// CacheService is the read-through, write-invalidate contract used by the
// volunteer manager and the repository decorators.
type CacheService interface {
	// Lookup returns the encoded entry for key, if present.
	Lookup(ctx context.Context, key string) ([]byte, bool)
	// Begin snapshots the generation of key before a fetch.
	Begin(key string) FillToken
	// Fill stores value under key unless key was evicted since Begin.
	Fill(ctx context.Context, key string, token FillToken, value []byte) bool
	// Evict removes keys and invalidates fills in flight for them.
	Evict(ctx context.Context, keys ...string) error
	// EvictAll clears the namespace and invalidates every fill in flight.
	EvictAll(ctx context.Context) error
}

// GetOrFetch returns the cached value for key or calls fetch and fills the
// cache with its result. Fetch errors are returned as is and never cached.
// A nil service always fetches.
func GetOrFetch[T any](ctx context.Context, service CacheService, key string, fetch FetchFn[T]) (T, error) {
	if service == nil {
		return fetch(ctx)
	}

	if raw, ok := service.Lookup(ctx, key); ok {
		var value T
		if err := msgpack.Unmarshal(raw, &value); err == nil {
			return value, nil
		}
		_ = service.Evict(ctx, key)
	}

	token := service.Begin(key)
	value, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if raw, err := msgpack.Marshal(value); err == nil {
		service.Fill(ctx, key, token, raw)
	}
	return value, nil
}

// Service is the default CacheService. Each key carries a generation
// counter that eviction bumps; the namespace carries an epoch that EvictAll
// bumps. A fill only lands when both still match the token taken before the
// fetch, so a read that raced a write can never repopulate stale data.
type Service struct {
	backend Backend
	ttl     time.Duration
	logger  *zap.Logger

	mu          sync.RWMutex
	epoch       uint64
	generations *xsync.MapOf[string, uint64]
}

var _ CacheService = (*Service)(nil)

// ErrNoBackend is returned when a Service is built without a backend.
var ErrNoBackend = errors.New("cache: backend required")

// NewService wraps backend with generation guarded fills.
func NewService(backend Backend, ttl time.Duration, logger *zap.Logger) (*Service, error) {
	if backend == nil {
		return nil, ErrNoBackend
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		backend:     backend,
		ttl:         ttl,
		logger:      logger,
		generations: xsync.NewMapOf[string, uint64](),
	}, nil
}

// Disabled returns a service that never stores anything. Every read falls
// through to the fetch function.
func Disabled() *Service {
	return &Service{logger: zap.NewNop(), generations: xsync.NewMapOf[string, uint64]()}
}

// Enabled reports whether the service has a backend.
func (s *Service) Enabled() bool {
	return s != nil && s.backend != nil
}

// Lookup implements CacheService. Backend errors degrade to a miss.
func (s *Service) Lookup(ctx context.Context, key string) ([]byte, bool) {
	if !s.Enabled() {
		return nil, false
	}
	raw, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		s.logger.Warn("cache lookup failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if ok {
		s.logger.Debug("cache hit", zap.String("key", key))
	}
	return raw, ok
}

// Begin implements CacheService.
func (s *Service) Begin(key string) FillToken {
	if !s.Enabled() {
		return FillToken{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	generation, _ := s.generations.Load(key)
	return FillToken{epoch: s.epoch, generation: generation}
}

// Fill implements CacheService. It reports whether the value was stored.
func (s *Service) Fill(ctx context.Context, key string, token FillToken, value []byte) bool {
	if !s.Enabled() {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.epoch != token.epoch {
		s.logger.Debug("cache fill dropped after namespace clear", zap.String("key", key))
		return false
	}

	stored := false
	s.generations.Compute(key, func(current uint64, _ bool) (uint64, bool) {
		if current != token.generation {
			return current, false
		}
		if err := s.backend.Set(ctx, key, value, s.ttl); err != nil {
			s.logger.Warn("cache fill failed", zap.String("key", key), zap.Error(err))
			return current, false
		}
		stored = true
		return current, false
	})
	if !stored {
		s.logger.Debug("cache fill skipped", zap.String("key", key))
	}
	return stored
}

// Put stores value under key unconditionally and invalidates fills in
// flight for it.
func (s *Service) Put(ctx context.Context, key string, value any) error {
	if !s.Enabled() {
		return nil
	}
	raw, err := msgpack.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var setErr error
	s.generations.Compute(key, func(current uint64, _ bool) (uint64, bool) {
		setErr = s.backend.Set(ctx, key, raw, s.ttl)
		return current + 1, false
	})
	return setErr
}

// Evict implements CacheService.
func (s *Service) Evict(ctx context.Context, keys ...string) error {
	if !s.Enabled() {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var errs []error
	for _, key := range keys {
		s.generations.Compute(key, func(current uint64, _ bool) (uint64, bool) {
			if err := s.backend.Delete(ctx, key); err != nil {
				errs = append(errs, err)
			}
			return current + 1, false
		})
	}
	return errors.Join(errs...)
}

// Close releases the backend when it holds external resources.
func (s *Service) Close() error {
	if !s.Enabled() {
		return nil
	}
	if closer, ok := s.backend.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

// EvictAll implements CacheService.
func (s *Service) EvictAll(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.generations = xsync.NewMapOf[string, uint64]()
	return s.backend.DeleteAll(ctx)
}
