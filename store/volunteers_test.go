package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-volunteers/document"
	"github.com/goliatone/go-volunteers/pkg/testsupport"
	"github.com/goliatone/go-volunteers/store"
	"github.com/goliatone/go-volunteers/volunteer"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newRecord(name, email string, coords *volunteer.Coordinates) *volunteer.Record {
	return &volunteer.Record{
		Name:            name,
		Email:           email,
		Coordinates:     coords,
		Skills:          document.NewSet("first aid"),
		Interests:       document.Set{},
		DrivesApplied:   document.List{},
		DrivesCompleted: document.List{},
		IsActive:        true,
		CreatedAt:       epoch,
		UpdatedAt:       epoch,
	}
}

func TestNewVolunteerStoreRequiresDB(t *testing.T) {
	_, err := store.NewVolunteerStore(store.VolunteerStoreConfig{})
	require.Error(t, err)
}

func TestVolunteerStoreSaveAndFind(t *testing.T) {
	ctx := context.Background()
	s, _ := testsupport.NewVolunteerStore(t)

	rec := newRecord("Alice", "alice@example.org", &volunteer.Coordinates{Latitude: 40, Longitude: -75})
	rec.PhoneNumber = "555-0101"
	rec.Availability = document.Weekly(9*60, 17*60, time.Monday)
	rec.DrivesApplied = document.List{"drive-1"}

	saved, err := s.Save(ctx, rec)
	require.NoError(t, err)
	require.NotZero(t, saved.ID)

	byID, err := s.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	require.Equal(t, "Alice", byID.Name)
	require.Equal(t, "555-0101", byID.PhoneNumber)
	require.Equal(t, &volunteer.Coordinates{Latitude: 40, Longitude: -75}, byID.Coordinates)
	require.True(t, byID.Skills.Equal(document.NewSet("first aid")))
	require.Equal(t, document.List{"drive-1"}, byID.DrivesApplied)
	require.True(t, byID.Availability.Equal(rec.Availability))
	require.True(t, byID.CreatedAt.Equal(epoch))
	require.Equal(t, time.UTC, byID.CreatedAt.Location())

	byEmail, err := s.FindByEmail(ctx, "alice@example.org")
	require.NoError(t, err)
	require.Equal(t, saved.ID, byEmail.ID)

	exists, err := s.ExistsByEmail(ctx, "alice@example.org")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = s.ExistsByEmail(ctx, "ALICE@example.org")
	require.NoError(t, err)
	require.False(t, exists, "email matching is exact")

	_, err = s.FindByID(ctx, saved.ID+100)
	require.ErrorIs(t, err, volunteer.ErrNoRecord)
}

func TestVolunteerStoreUpdate(t *testing.T) {
	ctx := context.Background()
	s, _ := testsupport.NewVolunteerStore(t)

	saved, err := s.Save(ctx, newRecord("Alice", "alice@example.org", nil))
	require.NoError(t, err)

	saved.Name = "Alice B."
	saved.Coordinates = &volunteer.Coordinates{Latitude: 1, Longitude: 2}
	saved.IsActive = false
	saved.UpdatedAt = epoch.Add(time.Hour)
	_, err = s.Save(ctx, saved)
	require.NoError(t, err)

	got, err := s.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	require.Equal(t, "Alice B.", got.Name)
	require.False(t, got.IsActive)
	require.NotNil(t, got.Coordinates)
	require.True(t, got.UpdatedAt.Equal(epoch.Add(time.Hour)))
	require.True(t, got.CreatedAt.Equal(epoch))

	missing := newRecord("Ghost", "ghost@example.org", nil)
	missing.ID = 999
	_, err = s.Save(ctx, missing)
	require.ErrorIs(t, err, volunteer.ErrNoRecord)
}

func TestVolunteerStoreMutate(t *testing.T) {
	ctx := context.Background()
	s, _ := testsupport.NewVolunteerStore(t)

	saved, err := s.Save(ctx, newRecord("Alice", "alice@example.org", nil))
	require.NoError(t, err)

	out, err := s.Mutate(ctx, saved.ID, func(r *volunteer.Record) error {
		r.ID = 0
		r.DrivesApplied = r.DrivesApplied.Append("drive-1")
		r.UpdatedAt = epoch.Add(time.Hour)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, saved.ID, out.ID)
	require.Equal(t, document.List{"drive-1"}, out.DrivesApplied)

	got, err := s.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	require.Equal(t, document.List{"drive-1"}, got.DrivesApplied)
	require.True(t, got.UpdatedAt.Equal(epoch.Add(time.Hour)))
	require.True(t, got.CreatedAt.Equal(epoch))

	_, err = s.Mutate(ctx, 999, func(*volunteer.Record) error { return nil })
	require.ErrorIs(t, err, volunteer.ErrNoRecord)
}

func TestVolunteerStoreMutateRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s, _ := testsupport.NewVolunteerStore(t)

	saved, err := s.Save(ctx, newRecord("Alice", "alice@example.org", nil))
	require.NoError(t, err)

	errStop := errors.New("stop")
	_, err = s.Mutate(ctx, saved.ID, func(r *volunteer.Record) error {
		r.Name = "Changed"
		return errStop
	})
	require.ErrorIs(t, err, errStop)

	got, err := s.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	require.Equal(t, "Alice", got.Name)
}

func TestVolunteerStoreUniqueEmail(t *testing.T) {
	ctx := context.Background()
	s, _ := testsupport.NewVolunteerStore(t)

	_, err := s.Save(ctx, newRecord("Alice", "alice@example.org", nil))
	require.NoError(t, err)

	_, err = s.Save(ctx, newRecord("Other Alice", "alice@example.org", nil))
	require.ErrorIs(t, err, volunteer.ErrEmailTaken)
}

func TestVolunteerStoreNullDocumentsStayUnset(t *testing.T) {
	ctx := context.Background()
	s, _ := testsupport.NewVolunteerStore(t)

	rec := newRecord("Alice", "alice@example.org", nil)
	rec.Skills = nil
	rec.Interests = nil
	saved, err := s.Save(ctx, rec)
	require.NoError(t, err)

	got, err := s.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Skills)
	require.Empty(t, got.Skills)
	require.Nil(t, got.Availability)
	require.Nil(t, got.Coordinates)
}

func TestVolunteerStoreCorruptDocumentsReadBackEmpty(t *testing.T) {
	ctx := context.Background()
	s, db := testsupport.NewVolunteerStore(t)

	saved, err := s.Save(ctx, newRecord("Alice", "alice@example.org", nil))
	require.NoError(t, err)

	_, err = db.ExecContext(ctx,
		"UPDATE volunteers SET skills = ?, interests = ?, availability = ?, drives_completed = ? WHERE id = ?",
		`["first aid",`, `{"not":"an array"}`, `garbage`, `[{"id":1}]`, saved.ID,
	)
	require.NoError(t, err)

	got, err := s.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	require.Equal(t, document.Set{}, got.Skills)
	require.Equal(t, document.Set{}, got.Interests)
	require.Nil(t, got.Availability)
	require.Equal(t, document.List{}, got.DrivesCompleted)
	require.Equal(t, "Alice", got.Name)
}

func TestVolunteerStoreFindPage(t *testing.T) {
	ctx := context.Background()
	s, _ := testsupport.NewVolunteerStore(t)

	for i, email := range []string{"a@x.org", "b@x.org", "c@x.org", "d@x.org", "e@x.org"} {
		rec := newRecord("V", email, nil)
		rec.IsActive = i%2 == 0
		_, err := s.Save(ctx, rec)
		require.NoError(t, err)
	}

	page, total, err := s.FindPage(ctx, volunteer.AnyStatus, 2, 2)
	require.NoError(t, err)
	require.Equal(t, 5, total)
	require.Len(t, page, 2)
	require.Equal(t, "c@x.org", page[0].Email)
	require.Equal(t, "d@x.org", page[1].Email)

	active, total, err := s.FindPage(ctx, volunteer.OnlyActive, 0, 10)
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Len(t, active, 3)

	inactive, total, err := s.FindPage(ctx, volunteer.OnlyInactive, 0, 10)
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, inactive, 2)

	count, err := s.CountActive(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, count)

	list, err := s.FindActive(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Less(t, list[0].ID, list[1].ID)
}

func TestVolunteerStoreFindByNameContaining(t *testing.T) {
	ctx := context.Background()
	s, _ := testsupport.NewVolunteerStore(t)

	for _, r := range []*volunteer.Record{
		newRecord("Maria Lopez", "maria@x.org", nil),
		newRecord("MARIO Rossi", "mario@x.org", nil),
		newRecord("100% Ann", "ann@x.org", nil),
		newRecord("snake_case", "snake@x.org", nil),
		newRecord("ÉLODIE Durand", "elodie@x.org", nil),
	} {
		_, err := s.Save(ctx, r)
		require.NoError(t, err)
	}

	got, err := s.FindByNameContaining(ctx, "mari")
	require.NoError(t, err)
	require.Len(t, got, 2)

	got, err = s.FindByNameContaining(ctx, "%")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "100% Ann", got[0].Name)

	got, err = s.FindByNameContaining(ctx, "e_c")
	require.NoError(t, err)
	require.Len(t, got, 1)

	for _, term := range []string{"ÉLODIE", "élodie", "Élodie", "durand"} {
		got, err = s.FindByNameContaining(ctx, term)
		require.NoError(t, err, term)
		require.Len(t, got, 1, term)
		require.Equal(t, "ÉLODIE Durand", got[0].Name)
	}

	got, err = s.FindByNameContaining(ctx, "elodie")
	require.NoError(t, err)
	require.Empty(t, got)

	got, err = s.FindByNameContaining(ctx, "nobody")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestVolunteerStoreFindWithinRadius(t *testing.T) {
	ctx := context.Background()
	s, _ := testsupport.NewVolunteerStore(t)

	near := newRecord("Near", "near@x.org", &volunteer.Coordinates{Latitude: 40, Longitude: -75})
	far := newRecord("Far", "far@x.org", &volunteer.Coordinates{Latitude: 41, Longitude: -75})
	none := newRecord("Nowhere", "none@x.org", nil)
	inactive := newRecord("Inactive", "inactive@x.org", &volunteer.Coordinates{Latitude: 40, Longitude: -75})
	inactive.IsActive = false
	for _, r := range []*volunteer.Record{near, far, none, inactive} {
		_, err := s.Save(ctx, r)
		require.NoError(t, err)
	}

	got, err := s.FindWithinRadius(ctx, 40, -75, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "near@x.org", got[0].Email)

	got, err = s.FindWithinRadius(ctx, 40, -75, 200)
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestVolunteerStoreDelete(t *testing.T) {
	ctx := context.Background()
	s, db := testsupport.NewVolunteerStore(t)

	saved, err := s.Save(ctx, newRecord("Alice", "alice@example.org", nil))
	require.NoError(t, err)

	_, err = db.ExecContext(ctx,
		"INSERT INTO volunteer_skills (volunteer_id, skill_id, proficiency, certified, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		saved.ID, "00000000-0000-0000-0000-000000000001", 3, false, epoch, epoch,
	)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, saved.ID))

	_, err = s.FindByID(ctx, saved.ID)
	require.ErrorIs(t, err, volunteer.ErrNoRecord)

	count, err := db.NewSelect().Table("volunteer_skills").Where("volunteer_id = ?", saved.ID).Count(ctx)
	require.NoError(t, err)
	require.Zero(t, count)

	require.ErrorIs(t, s.Delete(ctx, saved.ID), volunteer.ErrNoRecord)
}
