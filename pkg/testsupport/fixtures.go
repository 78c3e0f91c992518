package testsupport

import (
	"context"
	_ "embed"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-volunteers/document"
	"github.com/goliatone/go-volunteers/store"
	"github.com/goliatone/go-volunteers/volunteer"
	"github.com/uptrace/bun"
)

//go:embed testdata/volunteers.json
var volunteersFixture []byte

// LoadFixture loads test data from a fixture file.
// The path is relative to the test package directory.
func LoadFixture(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to load fixture from %s: %v", path, err)
	}

	return data
}

// LoadFixtureJSON loads JSON test data from a fixture file and unmarshals it.
// The path is relative to the test package directory.
func LoadFixtureJSON(t *testing.T, path string, dest any) {
	t.Helper()

	data := LoadFixture(t, path)
	if err := json.Unmarshal(data, dest); err != nil {
		t.Fatalf("failed to unmarshal JSON fixture from %s: %v", path, err)
	}
}

// TempFile creates a temporary file with the given content for testing.
// The file is removed when the test finishes.
func TempFile(t *testing.T, pattern string, content []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), pattern)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

// FixturePath constructs a path to a fixture file relative to the testdata directory.
func FixturePath(filename string) string {
	return filepath.Join("testdata", filename)
}

// NewSQLiteDB opens a private in-memory SQLite database with the schema
// applied. It is closed when the test finishes.
func NewSQLiteDB(t *testing.T) *bun.DB {
	t.Helper()

	ctx := context.Background()
	db, err := store.Open(ctx, store.Options{
		Driver: store.DriverSQLite,
		DSN:    ":memory:",
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(ctx, db); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return db
}

// NewVolunteerStore returns a store backed by a fresh database.
func NewVolunteerStore(t *testing.T) (*store.VolunteerStore, *bun.DB) {
	t.Helper()

	db := NewSQLiteDB(t)
	s, err := store.NewVolunteerStore(store.VolunteerStoreConfig{DB: db})
	if err != nil {
		t.Fatalf("failed to create volunteer store: %v", err)
	}
	return s, db
}

type candidateFixture struct {
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	PhoneNumber  string          `json:"phone_number"`
	Location     string          `json:"location"`
	Latitude     *float64        `json:"latitude"`
	Longitude    *float64        `json:"longitude"`
	Skills       []string        `json:"skills"`
	Interests    []string        `json:"interests"`
	Availability json.RawMessage `json:"availability"`
}

// ParseCandidates decodes a JSON array of volunteer fixtures.
func ParseCandidates(data []byte) ([]volunteer.Candidate, error) {
	var fixtures []candidateFixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return nil, err
	}

	out := make([]volunteer.Candidate, 0, len(fixtures))
	for _, f := range fixtures {
		c := volunteer.Candidate{
			Name:        f.Name,
			Email:       f.Email,
			PhoneNumber: f.PhoneNumber,
			Location:    f.Location,
			Skills:      f.Skills,
			Interests:   f.Interests,
		}
		if f.Latitude != nil && f.Longitude != nil {
			c.Coordinates = &volunteer.Coordinates{Latitude: *f.Latitude, Longitude: *f.Longitude}
		}
		if len(f.Availability) > 0 {
			raw := string(f.Availability)
			c.Availability = document.DecodeAvailability(&raw)
		}
		out = append(out, c)
	}
	return out, nil
}

// Candidates returns the bundled volunteer fixtures.
func Candidates(t *testing.T) []volunteer.Candidate {
	t.Helper()

	out, err := ParseCandidates(volunteersFixture)
	if err != nil {
		t.Fatalf("failed to parse volunteer fixtures: %v", err)
	}
	return out
}

// SeedVolunteers creates every bundled fixture through m and returns the
// created views keyed by email.
func SeedVolunteers(t *testing.T, m *volunteer.Manager) map[string]*volunteer.View {
	t.Helper()

	out := make(map[string]*volunteer.View)
	for _, c := range Candidates(t) {
		view, err := m.Create(context.Background(), c)
		if err != nil {
			t.Fatalf("failed to seed %s: %v", c.Email, err)
		}
		out[view.Email] = view
	}
	return out
}
