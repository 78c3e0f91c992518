package repositorycache

import (
	"context"
	"strings"
	"sync"

	"github.com/goliatone/go-volunteers/cache"
	"github.com/goliatone/go-volunteers/skills"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Interface assertion to ensure CachedSkillStore implements skills.Store
var _ skills.Store = (*CachedSkillStore)(nil)

// Key kinds. Invalidation matches on these as prefixes.
const (
	kindFindSkillByName  = "FindSkillByName"
	kindListActiveSkills = "ListActiveSkills"
	kindListCategories   = "ListCategories"
	kindSearchSkills     = "SearchSkills"
)

// CachedSkillStore decorates a skills.Store with read-through caching of
// skill entities. Assignment queries pass through uncached.
type CachedSkillStore struct {
	base          skills.Store
	cache         cache.CacheService
	keySerializer cache.KeySerializer
	keyRegistry   *sync.Map // Track active cache keys for invalidation
	logger        *zap.Logger
}

// New creates a CachedSkillStore that wraps base. A nil logger is replaced
// by a no-op logger.
func New(base skills.Store, cacheService cache.CacheService, keySerializer cache.KeySerializer, logger *zap.Logger) *CachedSkillStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedSkillStore{
		base:          base,
		cache:         cacheService,
		keySerializer: keySerializer,
		keyRegistry:   &sync.Map{},
		logger:        logger,
	}
}

// FindSkillByName retrieves a skill by name, with caching. Misses are not
// cached.
func (c *CachedSkillStore) FindSkillByName(ctx context.Context, name string) (*skills.Skill, error) {
	key := c.keySerializer.SerializeKey(kindFindSkillByName, skills.NameKey(name))
	c.trackKey(key)
	skill, err := cache.GetOrFetch(ctx, c.cache, key, func(ctx context.Context) (*skills.Skill, error) {
		return c.base.FindSkillByName(ctx, name)
	})
	if err != nil {
		return nil, err
	}
	return normalizeSkill(skill), nil
}

// ListActiveSkills retrieves the active catalog, with caching.
func (c *CachedSkillStore) ListActiveSkills(ctx context.Context) ([]*skills.Skill, error) {
	key := c.keySerializer.SerializeKey(kindListActiveSkills)
	c.trackKey(key)
	list, err := cache.GetOrFetch(ctx, c.cache, key, func(ctx context.Context) ([]*skills.Skill, error) {
		return c.base.ListActiveSkills(ctx)
	})
	if err != nil {
		return nil, err
	}
	return normalizeSkills(list), nil
}

// ListCategories retrieves the distinct categories, with caching.
func (c *CachedSkillStore) ListCategories(ctx context.Context) ([]string, error) {
	key := c.keySerializer.SerializeKey(kindListCategories)
	c.trackKey(key)
	categories, err := cache.GetOrFetch(ctx, c.cache, key, func(ctx context.Context) ([]string, error) {
		return c.base.ListCategories(ctx)
	})
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

// SearchSkills retrieves skills matching term, with caching.
func (c *CachedSkillStore) SearchSkills(ctx context.Context, term string) ([]*skills.Skill, error) {
	key := c.keySerializer.SerializeKey(kindSearchSkills, strings.ToLower(strings.TrimSpace(term)))
	c.trackKey(key)
	list, err := cache.GetOrFetch(ctx, c.cache, key, func(ctx context.Context) ([]*skills.Skill, error) {
		return c.base.SearchSkills(ctx, term)
	})
	if err != nil {
		return nil, err
	}
	return normalizeSkills(list), nil
}

// CreateSkill creates a skill. Write operations pass through to the base store.
func (c *CachedSkillStore) CreateSkill(ctx context.Context, skill *skills.Skill) (*skills.Skill, error) {
	result, err := c.base.CreateSkill(ctx, skill)
	if err == nil {
		c.invalidateAfterCreate(ctx)
	}
	return result, err
}

// UpdateSkill updates a skill.
func (c *CachedSkillStore) UpdateSkill(ctx context.Context, skill *skills.Skill) (*skills.Skill, error) {
	result, err := c.base.UpdateSkill(ctx, skill)
	if err == nil {
		c.invalidateAfterUpdate(ctx, result)
	}
	return result, err
}

// VolunteerExists passes through to the base store.
func (c *CachedSkillStore) VolunteerExists(ctx context.Context, volunteerID int64) (bool, error) {
	return c.base.VolunteerExists(ctx, volunteerID)
}

// UpsertAssignment passes through to the base store.
func (c *CachedSkillStore) UpsertAssignment(ctx context.Context, a *skills.Assignment) (*skills.Assignment, error) {
	return c.base.UpsertAssignment(ctx, a)
}

// ListAssignments passes through to the base store.
func (c *CachedSkillStore) ListAssignments(ctx context.Context, volunteerID int64) ([]*skills.Assignment, error) {
	return c.base.ListAssignments(ctx, volunteerID)
}

// FindHolders passes through to the base store.
func (c *CachedSkillStore) FindHolders(ctx context.Context, skillID uuid.UUID, minLevel skills.Proficiency) ([]int64, error) {
	return c.base.FindHolders(ctx, skillID, minLevel)
}

// trackKey registers a cache key in the key registry for later invalidation
func (c *CachedSkillStore) trackKey(key string) {
	c.keyRegistry.Store(key, struct{}{})
}

// invalidateByPrefix evicts all tracked keys that start with the given
// kind prefix. Keys stay registered: a read racing the eviction may fill
// the key again and must remain reachable by the next invalidation.
func (c *CachedSkillStore) invalidateByPrefix(ctx context.Context, kind string, args ...any) {
	prefix := c.keySerializer.SerializeKey(kind, args...)
	var keysToDelete []string
	c.keyRegistry.Range(func(k, _ any) bool {
		if key, ok := k.(string); ok && strings.HasPrefix(key, prefix) {
			keysToDelete = append(keysToDelete, key)
		}
		return true
	})
	if len(keysToDelete) == 0 || c.cache == nil {
		return
	}

	if err := c.cache.Evict(ctx, keysToDelete...); err != nil {
		c.logger.Warn("skill cache invalidation failed", zap.String("prefix", prefix), zap.Error(err))
	}
}

// invalidateAfterCreate invalidates collection caches after create operations
func (c *CachedSkillStore) invalidateAfterCreate(ctx context.Context) {
	c.invalidateByPrefix(ctx, kindListActiveSkills)
	c.invalidateByPrefix(ctx, kindListCategories)
	c.invalidateByPrefix(ctx, kindSearchSkills)
}

// invalidateAfterUpdate drops the entity cache for the skill and every
// collection cache.
func (c *CachedSkillStore) invalidateAfterUpdate(ctx context.Context, skill *skills.Skill) {
	if skill != nil {
		c.invalidateByPrefix(ctx, kindFindSkillByName, skills.NameKey(skill.Name))
	}
	c.invalidateAfterCreate(ctx)
}

func normalizeSkill(s *skills.Skill) *skills.Skill {
	if s == nil {
		return nil
	}
	s.CreatedAt = s.CreatedAt.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s
}

func normalizeSkills(list []*skills.Skill) []*skills.Skill {
	if list == nil {
		return []*skills.Skill{}
	}
	for _, s := range list {
		normalizeSkill(s)
	}
	return list
}
