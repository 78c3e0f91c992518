package store

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// Migrate creates the tables and indexes used by this package. It is safe
// to run repeatedly.
func Migrate(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*volunteerModel)(nil),
		(*skillModel)(nil),
		(*assignmentModel)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("store: create table: %w", err)
		}
	}

	indexes := []struct {
		model   any
		name    string
		columns []string
	}{
		{(*volunteerModel)(nil), "idx_volunteers_is_active", []string{"is_active"}},
		{(*volunteerModel)(nil), "idx_volunteers_lat_lon", []string{"latitude", "longitude"}},
		{(*skillModel)(nil), "idx_skills_category", []string{"category"}},
		{(*assignmentModel)(nil), "idx_volunteer_skills_skill", []string{"skill_id", "proficiency"}},
	}
	for _, idx := range indexes {
		_, err := db.NewCreateIndex().
			Model(idx.model).
			Index(idx.name).
			Column(idx.columns...).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("store: create index %s: %w", idx.name, err)
		}
	}
	return nil
}
