package store

import (
	"context"
	"errors"
	"math"
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-volunteers/document"
	"github.com/goliatone/go-volunteers/volunteer"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// radiusSlack widens SQL side radius filters so rounding never drops a
// point the exact in-process check would keep.
const radiusSlack = 1e-6

// VolunteerStoreConfig wires the bun backed volunteer store.
type VolunteerStoreConfig struct {
	DB *bun.DB
}

// VolunteerStore implements volunteer.Store.
type VolunteerStore struct {
	db *bun.DB
}

var _ volunteer.Store = (*VolunteerStore)(nil)

// NewVolunteerStore constructs the store.
func NewVolunteerStore(cfg VolunteerStoreConfig) (*VolunteerStore, error) {
	if cfg.DB == nil {
		return nil, errors.New("store: db required")
	}
	return &VolunteerStore{db: cfg.DB}, nil
}

// FindByID implements volunteer.Store.
func (s *VolunteerStore) FindByID(ctx context.Context, id int64) (*volunteer.Record, error) {
	return s.findOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("v.id = ?", id)
	})
}

// FindByEmail implements volunteer.Store. Matching is exact.
func (s *VolunteerStore) FindByEmail(ctx context.Context, email string) (*volunteer.Record, error) {
	return s.findOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("v.email = ?", email)
	})
}

// ExistsByEmail implements volunteer.Store.
func (s *VolunteerStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.db.NewSelect().
		Model((*volunteerModel)(nil)).
		Where("v.email = ?", email).
		Exists(ctx)
}

// Save implements volunteer.Store.
func (s *VolunteerStore) Save(ctx context.Context, r *volunteer.Record) (*volunteer.Record, error) {
	m := fromRecord(r)
	if m.ID == 0 {
		if _, err := s.db.NewInsert().Model(m).Exec(ctx); err != nil {
			return nil, s.mapWriteError(err)
		}
		return toRecord(m), nil
	}

	if err := s.update(ctx, s.db, m); err != nil {
		return nil, err
	}
	return toRecord(m), nil
}

// Mutate implements volunteer.Store. PostgreSQL locks the row for the
// duration of the transaction; SQLite runs on a single connection, so
// transactions never interleave.
func (s *VolunteerStore) Mutate(ctx context.Context, id int64, fn func(*volunteer.Record) error) (*volunteer.Record, error) {
	var out *volunteer.Record
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		m := new(volunteerModel)
		q := tx.NewSelect().Model(m).Where("v.id = ?", id).Limit(1)
		if s.db.Dialect().Name() == dialect.PG {
			q = q.For("UPDATE")
		}
		if err := q.Scan(ctx); err != nil {
			if isNoRows(err) {
				return volunteer.ErrNoRecord
			}
			return err
		}

		rec := toRecord(m)
		if err := fn(rec); err != nil {
			return err
		}
		rec.ID = id

		updated := fromRecord(rec)
		if err := s.update(ctx, tx, updated); err != nil {
			return err
		}
		out = toRecord(updated)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *VolunteerStore) update(ctx context.Context, db bun.IDB, m *volunteerModel) error {
	res, err := db.NewUpdate().
		Model(m).
		ExcludeColumn("created_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return s.mapWriteError(err)
	}
	if err := repository.SQLExpectedCount(res, 1); err != nil {
		if repository.IsSQLExpectedCountViolation(err) {
			return volunteer.ErrNoRecord
		}
		return err
	}
	return nil
}

// Delete implements volunteer.Store. Skill assignments go with the record.
func (s *VolunteerStore) Delete(ctx context.Context, id int64) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*assignmentModel)(nil)).
			Where("volunteer_id = ?", id).
			Exec(ctx); err != nil {
			return err
		}
		res, err := tx.NewDelete().
			Model((*volunteerModel)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return err
		}
		if err := repository.SQLExpectedCount(res, 1); err != nil {
			if repository.IsSQLExpectedCountViolation(err) {
				return volunteer.ErrNoRecord
			}
			return err
		}
		return nil
	})
}

// FindActive implements volunteer.Store.
func (s *VolunteerStore) FindActive(ctx context.Context) ([]*volunteer.Record, error) {
	var rows []*volunteerModel
	err := s.db.NewSelect().
		Model(&rows).
		Where("v.is_active = ?", true).
		Order("v.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return toRecords(rows), nil
}

// FindPage implements volunteer.Store.
func (s *VolunteerStore) FindPage(ctx context.Context, filter volunteer.ActiveFilter, offset, limit int) ([]*volunteer.Record, int, error) {
	var rows []*volunteerModel
	q := s.db.NewSelect().
		Model(&rows).
		Order("v.id ASC").
		Offset(offset).
		Limit(limit)
	switch filter {
	case volunteer.OnlyActive:
		q = q.Where("v.is_active = ?", true)
	case volunteer.OnlyInactive:
		q = q.Where("v.is_active = ?", false)
	}
	total, err := q.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, err
	}
	return toRecords(rows), total, nil
}

// FindByNameContaining implements volunteer.Store.
func (s *VolunteerStore) FindByNameContaining(ctx context.Context, term string) ([]*volunteer.Record, error) {
	var rows []*volunteerModel
	err := s.db.NewSelect().
		Model(&rows).
		Where(s.lower("v.name")+" LIKE ? ESCAPE '\\'", containsPattern(term)).
		Order("v.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return toRecords(rows), nil
}

// FindWithinRadius implements volunteer.Store. PostgreSQL evaluates the
// haversine distance in SQL. Other dialects only apply a latitude band,
// which every point within the radius satisfies.
func (s *VolunteerStore) FindWithinRadius(ctx context.Context, lat, lon, radiusKm float64) ([]*volunteer.Record, error) {
	var rows []*volunteerModel
	q := s.db.NewSelect().
		Model(&rows).
		Where("v.is_active = ?", true).
		Where("v.latitude IS NOT NULL").
		Where("v.longitude IS NOT NULL").
		Order("v.id ASC")

	limit := radiusKm*(1+radiusSlack) + radiusSlack
	if s.db.Dialect().Name() == dialect.PG {
		q = q.Where(`2 * ? * ASIN(LEAST(1, SQRT(
			POWER(SIN(RADIANS(v.latitude - ?) / 2), 2) +
			COS(RADIANS(?)) * COS(RADIANS(v.latitude)) * POWER(SIN(RADIANS(v.longitude - ?) / 2), 2)
		))) <= ?`, volunteer.EarthRadiusKm, lat, lat, lon, limit)
	} else {
		band := limit / volunteer.EarthRadiusKm * 180 / math.Pi
		q = q.Where("v.latitude BETWEEN ? AND ?", lat-band, lat+band)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return toRecords(rows), nil
}

// CountActive implements volunteer.Store.
func (s *VolunteerStore) CountActive(ctx context.Context) (int, error) {
	return s.db.NewSelect().
		Model((*volunteerModel)(nil)).
		Where("v.is_active = ?", true).
		Count(ctx)
}

func (s *VolunteerStore) findOne(ctx context.Context, where func(*bun.SelectQuery) *bun.SelectQuery) (*volunteer.Record, error) {
	m := new(volunteerModel)
	if err := where(s.db.NewSelect().Model(m)).Limit(1).Scan(ctx); err != nil {
		if isNoRows(err) {
			return nil, volunteer.ErrNoRecord
		}
		return nil, err
	}
	return toRecord(m), nil
}

// lower returns a case folding expression for column that agrees with
// strings.ToLower on every dialect.
func (s *VolunteerStore) lower(column string) string {
	if s.db.Dialect().Name() == dialect.PG {
		return "LOWER(" + column + ")"
	}
	return "go_lower(" + column + ")"
}

func (s *VolunteerStore) mapWriteError(err error) error {
	if isUniqueViolation(s.db, err) {
		return volunteer.ErrEmailTaken
	}
	return err
}

func containsPattern(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(strings.ToLower(term)) + "%"
}

func fromRecord(r *volunteer.Record) *volunteerModel {
	m := &volunteerModel{
		ID:              r.ID,
		Name:            r.Name,
		Email:           r.Email,
		PhoneNumber:     r.PhoneNumber,
		Location:        r.Location,
		Skills:          document.EncodeSet(r.Skills),
		Interests:       document.EncodeSet(r.Interests),
		Availability:    document.EncodeAvailability(r.Availability),
		DrivesApplied:   document.EncodeList(r.DrivesApplied),
		DrivesCompleted: document.EncodeList(r.DrivesCompleted),
		IsActive:        r.IsActive,
		CreatedAt:       r.CreatedAt.UTC(),
		UpdatedAt:       r.UpdatedAt.UTC(),
	}
	if r.Coordinates != nil {
		lat, lon := r.Coordinates.Latitude, r.Coordinates.Longitude
		m.Latitude, m.Longitude = &lat, &lon
	}
	return m
}

func toRecord(m *volunteerModel) *volunteer.Record {
	r := &volunteer.Record{
		ID:              m.ID,
		Name:            m.Name,
		Email:           m.Email,
		PhoneNumber:     m.PhoneNumber,
		Location:        m.Location,
		Skills:          document.DecodeSet(m.Skills),
		Interests:       document.DecodeSet(m.Interests),
		Availability:    document.DecodeAvailability(m.Availability),
		DrivesApplied:   document.DecodeList(m.DrivesApplied),
		DrivesCompleted: document.DecodeList(m.DrivesCompleted),
		IsActive:        m.IsActive,
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
	if m.Latitude != nil && m.Longitude != nil {
		r.Coordinates = &volunteer.Coordinates{Latitude: *m.Latitude, Longitude: *m.Longitude}
	}
	return r
}

func toRecords(rows []*volunteerModel) []*volunteer.Record {
	out := make([]*volunteer.Record, 0, len(rows))
	for _, m := range rows {
		out = append(out, toRecord(m))
	}
	return out
}
