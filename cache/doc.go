// Package cache provides the read-through, write-invalidate cache used in
// front of the volunteer store.
//
// # Overview
//
// Service wraps a Backend (sturdyc in memory, or redis) and adds fill
// guards. Every key has a generation counter. Evict bumps it, EvictAll
// bumps a namespace wide epoch. GetOrFetch snapshots both before calling
// the fetch function and only stores the result when neither moved, so a
// read racing a write never leaves a stale entry behind.
//
//	keys := cache.NewKeySerializer("volunteers")
//	view, err := cache.GetOrFetch(ctx, svc, keys.SerializeKey("id", id), func(ctx context.Context) (View, error) {
//		return store.FindByID(ctx, id)
//	})
//
// Errors returned by the fetch function are never cached. Values are stored
// msgpack encoded, so a cached value is never shared with the caller.
//
// # Backends
//
// NewCacheService picks a backend from Config.Backend: "memory" (default),
// "redis" or "none". The none backend yields a disabled Service where every
// read fetches and every eviction is a no-op.
//
// # Keys
//
// KeySerializer prefixes keys with the configured namespace so EvictAll can
// clear exactly the keys this package owns. Arguments longer than 64 bytes,
// or containing the separator, are replaced by their xxhash digest.
package cache
