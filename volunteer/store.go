package volunteer

import (
	"context"
	"errors"
)

// Store errors. Implementations return these so the manager can classify
// failures without knowing the driver.
var (
	ErrNoRecord   = errors.New("volunteer: no record")
	ErrEmailTaken = errors.New("volunteer: email taken")
)

// Store persists volunteer records.
type Store interface {
	FindByID(ctx context.Context, id int64) (*Record, error)
	FindByEmail(ctx context.Context, email string) (*Record, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Save inserts r when r.ID is zero and updates it otherwise. It returns
	// the stored record with the assigned ID.
	Save(ctx context.Context, r *Record) (*Record, error)
	// Mutate loads the record with id, passes it to fn and writes the result
	// back, all in one transaction. Concurrent Mutate calls for the same id
	// never lose each other's changes. An error from fn aborts the write and
	// is returned unchanged.
	Mutate(ctx context.Context, id int64, fn func(*Record) error) (*Record, error)
	Delete(ctx context.Context, id int64) error
	// FindActive returns every active record ordered by ID.
	FindActive(ctx context.Context) ([]*Record, error)
	// FindPage returns records matching filter ordered by ID, plus the total
	// number of matching records.
	FindPage(ctx context.Context, filter ActiveFilter, offset, limit int) ([]*Record, int, error)
	// FindByNameContaining matches name case-insensitively, across statuses,
	// ordered by ID.
	FindByNameContaining(ctx context.Context, term string) ([]*Record, error)
	// FindWithinRadius returns active records whose coordinates may lie
	// within radiusKm of the origin. The result may include false positives.
	FindWithinRadius(ctx context.Context, lat, lon, radiusKm float64) ([]*Record, error)
	CountActive(ctx context.Context) (int, error)
}
