// Package repositorycache provides a cached decorator for the skill catalog store.
//
// # Overview
//
// CachedSkillStore wraps any skills.Store and intercepts the catalog reads
// to serve them from a cache.CacheService, delegating every write directly
// to the wrapped store.
//
// # Basic Usage
//
//	base, _ := store.NewSkillStore(store.SkillStoreConfig{DB: db})
//	keys := cache.NewKeySerializer("volunteers:skills")
//
//	cached := repositorycache.New(base, cacheService, keys, logger)
//	catalog, _ := skills.NewCatalog(skills.CatalogConfig{Store: cached})
//
// # Cached vs Pass-through Operations
//
// ## Cached Operations
//
//   - FindSkillByName (keyed by the case-insensitive name)
//   - ListActiveSkills, ListCategories
//   - SearchSkills (keyed by the lower-cased term)
//
// ## Pass-through Operations
//
//   - CreateSkill, UpdateSkill
//   - VolunteerExists and every assignment query
//
// Assignments change with every volunteer edit and are read rarely, so
// they are always served by the base store.
//
// # Caching Behavior
//
// Reads follow cache.GetOrFetch:
//
//  1. Check cache for the serialized key
//  2. If cache hit, decode and return the cached result
//  3. If cache miss, call the base store
//  4. Store the result unless the key was invalidated meanwhile
//  5. Return result to caller
//
// Errors, including skills.ErrSkillNotFound, are never cached.
//
// # Invalidation
//
// Every key read through the decorator is recorded in a key registry.
// Writes invalidate by prefix:
//
//   - CreateSkill drops every ListActiveSkills, ListCategories and
//     SearchSkills key
//   - UpdateSkill additionally drops the FindSkillByName key of the skill
//
// The registry is local to the process. With a shared redis backend other
// processes see updates once their entries expire.
package repositorycache
