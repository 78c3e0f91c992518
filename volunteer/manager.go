package volunteer

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-volunteers/cache"
	"github.com/goliatone/go-volunteers/document"
	"go.uber.org/zap"
)

// DefaultNamespace prefixes the cache keys owned by the manager.
const DefaultNamespace = "volunteers"

// ManagerConfig wires a Manager.
type ManagerConfig struct {
	Store Store
	// Cache is optional; nil disables caching.
	Cache cache.CacheService
	// Keys builds cache keys. Defaults to the "volunteers" namespace.
	Keys   cache.KeySerializer
	Clock  Clock
	Logger *zap.Logger
	// RadiusPushdown delegates the coarse radius filter of FindNearby to
	// the store instead of scanning the cached active list.
	RadiusPushdown bool
}

// Manager owns the lifecycle of volunteer records.
type Manager struct {
	store    Store
	cache    cache.CacheService
	keys     cache.KeySerializer
	clock    Clock
	logger   *zap.Logger
	pushdown bool
}

// NewManager validates cfg and builds a Manager.
func NewManager(cfg ManagerConfig) (*Manager, error) {
	if cfg.Store == nil {
		return nil, errors.New("volunteer: store required")
	}
	keys := cfg.Keys
	if keys == nil {
		keys = cache.NewKeySerializer(DefaultNamespace)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:    cfg.Store,
		cache:    cfg.Cache,
		keys:     keys,
		clock:    clock,
		logger:   logger.Named("volunteer"),
		pushdown: cfg.RadiusPushdown,
	}, nil
}

// Create registers a new active volunteer.
func (m *Manager) Create(ctx context.Context, c Candidate) (*View, error) {
	if err := c.Validate(); err != nil {
		return nil, invalidArgumentError(err)
	}
	email := strings.TrimSpace(c.Email)

	exists, err := m.store.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, storeFailure(err, "exists")
	}
	if exists {
		return nil, duplicateEmailError(email)
	}

	now := m.clock.Now()
	rec := &Record{
		Name:            strings.TrimSpace(c.Name),
		Email:           email,
		PhoneNumber:     strings.TrimSpace(c.PhoneNumber),
		Location:        strings.TrimSpace(c.Location),
		Skills:          document.NewSet(c.Skills...),
		Interests:       document.NewSet(c.Interests...),
		Availability:    c.Availability.Clone(),
		DrivesApplied:   document.List{},
		DrivesCompleted: document.List{},
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if c.Coordinates != nil {
		coords := *c.Coordinates
		rec.Coordinates = &coords
	}

	saved, err := m.store.Save(ctx, rec)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, duplicateEmailError(email)
		}
		return nil, storeFailure(err, "save")
	}

	m.evictAll(ctx)
	m.logger.Info("volunteer created", zap.Int64("id", saved.ID))

	view := Project(saved)
	return &view, nil
}

// GetByID returns the volunteer with the given identifier.
func (m *Manager) GetByID(ctx context.Context, id int64) (*View, error) {
	view, err := cache.GetOrFetch(ctx, m.cache, m.idKey(id), func(ctx context.Context) (View, error) {
		rec, err := m.store.FindByID(ctx, id)
		if err != nil {
			return View{}, m.lookupError(err, "volunteer %d not found", id)
		}
		return Project(rec), nil
	})
	if err != nil {
		return nil, err
	}
	view = view.normalize()
	return &view, nil
}

// GetByEmail returns the volunteer registered with the exact email.
func (m *Manager) GetByEmail(ctx context.Context, email string) (*View, error) {
	view, err := cache.GetOrFetch(ctx, m.cache, m.emailKey(email), func(ctx context.Context) (View, error) {
		rec, err := m.store.FindByEmail(ctx, email)
		if err != nil {
			return View{}, m.lookupError(err, "volunteer with email %q not found", email)
		}
		return Project(rec), nil
	})
	if err != nil {
		return nil, err
	}
	view = view.normalize()
	return &view, nil
}

// ListActive returns every active volunteer ordered by identifier.
func (m *Manager) ListActive(ctx context.Context) ([]View, error) {
	views, err := cache.GetOrFetch(ctx, m.cache, m.activeKey(), func(ctx context.Context) ([]View, error) {
		recs, err := m.store.FindActive(ctx)
		if err != nil {
			return nil, storeFailure(err, "find active")
		}
		return projectAll(recs), nil
	})
	if err != nil {
		return nil, err
	}
	return normalizeViews(views), nil
}

// List returns one page of volunteers ordered by identifier. Pages are
// zero based.
func (m *Manager) List(ctx context.Context, filter ActiveFilter, page, pageSize int) (*Page, error) {
	if err := validatePaging(page, pageSize); err != nil {
		return nil, invalidArgumentError(err)
	}
	recs, total, err := m.store.FindPage(ctx, filter, page*pageSize, pageSize)
	if err != nil {
		return nil, storeFailure(err, "find page")
	}
	return &Page{
		Items:      projectAll(recs),
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

// SearchByName matches volunteers whose name contains term, ignoring case.
// A blank term matches nothing.
func (m *Manager) SearchByName(ctx context.Context, term string) ([]View, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []View{}, nil
	}
	recs, err := m.store.FindByNameContaining(ctx, term)
	if err != nil {
		return nil, storeFailure(err, "search by name")
	}
	return projectAll(recs), nil
}

// FindNearby returns active volunteers within radiusKm of the origin,
// closest first. Ties are broken by identifier. The boundary is inclusive.
func (m *Manager) FindNearby(ctx context.Context, lat, lon, radiusKm float64) ([]Nearby, error) {
	if err := validateSearch(lat, lon, radiusKm); err != nil {
		return nil, invalidArgumentError(err)
	}

	var candidates []View
	if m.pushdown {
		recs, err := m.store.FindWithinRadius(ctx, lat, lon, radiusKm)
		if err != nil {
			return nil, storeFailure(err, "find within radius")
		}
		candidates = projectAll(recs)
	} else {
		active, err := m.ListActive(ctx)
		if err != nil {
			return nil, err
		}
		candidates = active
	}

	out := make([]Nearby, 0)
	for _, v := range candidates {
		if !v.IsActive || !v.HasCoordinates() {
			continue
		}
		d := Haversine(lat, lon, *v.Latitude, *v.Longitude)
		if d <= radiusKm {
			out = append(out, Nearby{View: v, DistanceKm: d})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DistanceKm != out[j].DistanceKm {
			return out[i].DistanceKm < out[j].DistanceKm
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// FindAvailable returns the active volunteers whose availability window
// contains at, ordered by identifier. Weekly windows are evaluated in at's
// location.
func (m *Manager) FindAvailable(ctx context.Context, at time.Time) ([]View, error) {
	views, err := m.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]View, 0, len(views))
	for _, v := range views {
		if v.AvailableAt(at) {
			out = append(out, v)
		}
	}
	return out, nil
}

// Update merges patch into the stored record and bumps its update time.
func (m *Manager) Update(ctx context.Context, id int64, patch Patch) (*View, error) {
	if err := patch.validate(); err != nil {
		return nil, invalidArgumentError(err)
	}
	saved, err := m.mutate(ctx, id, func(rec *Record) error {
		patch.apply(rec)
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.evictRecord(ctx, saved)
	m.logger.Debug("volunteer updated", zap.Int64("id", id))

	view := Project(saved)
	return &view, nil
}

// RecordDrive appends driveID to the applied or completed drive list.
// Completing a drive removes it from the applied list.
func (m *Manager) RecordDrive(ctx context.Context, id int64, driveID string, status DriveStatus) (*View, error) {
	driveID = strings.TrimSpace(driveID)
	if driveID == "" {
		return nil, invalidArgumentError(errors.New("drive id required"))
	}
	saved, err := m.mutate(ctx, id, func(rec *Record) error {
		switch status {
		case DriveCompleted:
			rec.DrivesApplied = rec.DrivesApplied.Without(driveID)
			if !rec.DrivesCompleted.Contains(driveID) {
				rec.DrivesCompleted = rec.DrivesCompleted.Append(driveID)
			}
		default:
			if !rec.DrivesApplied.Contains(driveID) && !rec.DrivesCompleted.Contains(driveID) {
				rec.DrivesApplied = rec.DrivesApplied.Append(driveID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	m.evictRecord(ctx, saved)

	view := Project(saved)
	return &view, nil
}

// Delete removes the volunteer permanently. Use Update with IsActive to
// deactivate a volunteer instead.
func (m *Manager) Delete(ctx context.Context, id int64) error {
	rec, err := m.store.FindByID(ctx, id)
	if err != nil {
		return m.lookupError(err, "volunteer %d not found", id)
	}
	if err := m.store.Delete(ctx, id); err != nil {
		return m.lookupError(err, "volunteer %d not found", id)
	}
	m.evictRecord(ctx, rec)
	m.logger.Info("volunteer deleted", zap.Int64("id", id))
	return nil
}

// GetDrivesCompleted returns the identifiers of drives the volunteer completed.
func (m *Manager) GetDrivesCompleted(ctx context.Context, id int64) ([]string, error) {
	return m.drives(ctx, m.completedKey(id), id, func(r *Record) document.List { return r.DrivesCompleted })
}

// GetDrivesScheduled returns the identifiers of drives the volunteer applied to.
func (m *Manager) GetDrivesScheduled(ctx context.Context, id int64) ([]string, error) {
	return m.drives(ctx, m.scheduledKey(id), id, func(r *Record) document.List { return r.DrivesApplied })
}

// CountActive returns the number of active volunteers.
func (m *Manager) CountActive(ctx context.Context) (int, error) {
	n, err := m.store.CountActive(ctx)
	if err != nil {
		return 0, storeFailure(err, "count active")
	}
	return n, nil
}

func (m *Manager) drives(ctx context.Context, key string, id int64, pick func(*Record) document.List) ([]string, error) {
	ids, err := cache.GetOrFetch(ctx, m.cache, key, func(ctx context.Context) ([]string, error) {
		rec, err := m.store.FindByID(ctx, id)
		if err != nil {
			return nil, m.lookupError(err, "volunteer %d not found", id)
		}
		return pick(rec).Strings(), nil
	})
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// mutate applies fn to the stored record inside a store transaction and
// bumps its update time, never earlier than its creation time.
func (m *Manager) mutate(ctx context.Context, id int64, fn func(*Record) error) (*Record, error) {
	var email string
	saved, err := m.store.Mutate(ctx, id, func(rec *Record) error {
		email = rec.Email
		if err := fn(rec); err != nil {
			return err
		}
		now := m.clock.Now()
		if now.Before(rec.CreatedAt) {
			now = rec.CreatedAt
		}
		rec.UpdatedAt = now
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNoRecord):
			return nil, notFoundError("volunteer %d not found", id)
		case errors.Is(err, ErrEmailTaken):
			return nil, duplicateEmailError(email)
		}
		return nil, storeFailure(err, "save")
	}
	return saved, nil
}

func (m *Manager) lookupError(err error, format string, args ...any) error {
	if errors.Is(err, ErrNoRecord) {
		return notFoundError(format, args...)
	}
	return storeFailure(err, "lookup")
}

// evictRecord drops every key that may hold a view of rec. The store write
// has already committed, so eviction failures are logged, not returned.
func (m *Manager) evictRecord(ctx context.Context, rec *Record) {
	if m.cache == nil {
		return
	}
	keys := []string{
		m.idKey(rec.ID),
		m.emailKey(rec.Email),
		m.activeKey(),
		m.completedKey(rec.ID),
		m.scheduledKey(rec.ID),
	}
	if err := m.cache.Evict(ctx, keys...); err != nil {
		m.logger.Error("cache eviction failed", zap.Int64("id", rec.ID), zap.Error(err))
	}
}

func (m *Manager) evictAll(ctx context.Context) {
	if m.cache == nil {
		return
	}
	if err := m.cache.EvictAll(ctx); err != nil {
		m.logger.Error("cache namespace clear failed", zap.Error(err))
	}
}

func (m *Manager) idKey(id int64) string { return m.keys.SerializeKey("id", id) }
func (m *Manager) emailKey(email string) string { return m.keys.SerializeKey("email", email) }
func (m *Manager) activeKey() string { return m.keys.SerializeKey("active-list") }
func (m *Manager) completedKey(id int64) string { return m.keys.SerializeKey("completed", id) }
func (m *Manager) scheduledKey(id int64) string { return m.keys.SerializeKey("scheduled", id) }

func projectAll(recs []*Record) []View {
	out := make([]View, 0, len(recs))
	for _, r := range recs {
		out = append(out, Project(r))
	}
	return out
}
