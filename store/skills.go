package store

import (
	"context"
	"errors"
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-volunteers/skills"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SkillStoreConfig wires the bun backed skill store.
type SkillStoreConfig struct {
	DB *bun.DB
}

// SkillStore implements skills.Store.
type SkillStore struct {
	db     *bun.DB
	skills repository.Repository[*skillModel]
}

var _ skills.Store = (*SkillStore)(nil)

// NewSkillStore constructs the store.
func NewSkillStore(cfg SkillStoreConfig) (*SkillStore, error) {
	if cfg.DB == nil {
		return nil, errors.New("store: db required")
	}
	repo := repository.NewRepository(cfg.DB, repository.ModelHandlers[*skillModel]{
		NewRecord: func() *skillModel { return &skillModel{} },
		GetID: func(rec *skillModel) uuid.UUID {
			if rec == nil {
				return uuid.Nil
			}
			return rec.ID
		},
		SetID: func(rec *skillModel, id uuid.UUID) {
			if rec != nil {
				rec.ID = id
			}
		},
	})
	return &SkillStore{db: cfg.DB, skills: repo}, nil
}

// CreateSkill implements skills.Store.
func (s *SkillStore) CreateSkill(ctx context.Context, skill *skills.Skill) (*skills.Skill, error) {
	rec := fromSkill(skill)
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	created, err := s.skills.Create(ctx, rec)
	if err != nil {
		if isUniqueViolation(s.db, err) {
			return nil, skills.ErrDuplicateSkill
		}
		return nil, err
	}
	return toSkill(created), nil
}

// UpdateSkill implements skills.Store. Every column except created_at is
// written, so false and empty values persist.
func (s *SkillStore) UpdateSkill(ctx context.Context, skill *skills.Skill) (*skills.Skill, error) {
	rec := fromSkill(skill)
	res, err := s.db.NewUpdate().
		Model(rec).
		ExcludeColumn("created_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(s.db, err) {
			return nil, skills.ErrDuplicateSkill
		}
		return nil, err
	}
	if err := repository.SQLExpectedCount(res, 1); err != nil {
		if repository.IsSQLExpectedCountViolation(err) {
			return nil, skills.ErrSkillNotFound
		}
		return nil, err
	}
	return s.findSkill(ctx, repository.SelectBy("id", "=", rec.ID.String()))
}

// FindSkillByName implements skills.Store.
func (s *SkillStore) FindSkillByName(ctx context.Context, name string) (*skills.Skill, error) {
	return s.findSkill(ctx, repository.SelectBy("name_key", "=", skills.NameKey(name)))
}

func (s *SkillStore) findSkill(ctx context.Context, criteria ...repository.SelectCriteria) (*skills.Skill, error) {
	rec, err := s.skills.Get(ctx, criteria...)
	if err != nil {
		if isNoRows(err) {
			return nil, skills.ErrSkillNotFound
		}
		return nil, err
	}
	return toSkill(rec), nil
}

// ListActiveSkills implements skills.Store.
func (s *SkillStore) ListActiveSkills(ctx context.Context) ([]*skills.Skill, error) {
	rows, _, err := s.skills.List(ctx, activeSkills, orderByNameKey)
	if err != nil {
		return nil, err
	}
	return toSkills(rows), nil
}

// ListCategories implements skills.Store.
func (s *SkillStore) ListCategories(ctx context.Context) ([]string, error) {
	categories := make([]string, 0)
	err := s.db.NewSelect().
		Model((*skillModel)(nil)).
		ColumnExpr("DISTINCT s.category").
		Where("s.is_active = ?", true).
		Where("s.category IS NOT NULL").
		OrderExpr("s.category ASC").
		Scan(ctx, &categories)
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// SearchSkills implements skills.Store.
func (s *SkillStore) SearchSkills(ctx context.Context, term string) ([]*skills.Skill, error) {
	pattern := containsPattern(strings.TrimSpace(term))
	rows, _, err := s.skills.List(ctx, activeSkills, orderByNameKey,
		func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("s.name_key LIKE ? ESCAPE '\\'", pattern)
		},
	)
	if err != nil {
		return nil, err
	}
	return toSkills(rows), nil
}

// VolunteerExists implements skills.Store.
func (s *SkillStore) VolunteerExists(ctx context.Context, volunteerID int64) (bool, error) {
	return s.db.NewSelect().
		Model((*volunteerModel)(nil)).
		Where("v.id = ?", volunteerID).
		Exists(ctx)
}

// UpsertAssignment implements skills.Store. The original creation time of
// an existing assignment is preserved.
func (s *SkillStore) UpsertAssignment(ctx context.Context, a *skills.Assignment) (*skills.Assignment, error) {
	rec := &assignmentModel{
		VolunteerID:     a.VolunteerID,
		SkillID:         a.SkillID,
		Proficiency:     int(a.Proficiency),
		ExperienceYears: a.ExperienceYears,
		Certified:       a.Certified,
		CreatedAt:       a.CreatedAt.UTC(),
		UpdatedAt:       a.UpdatedAt.UTC(),
	}
	_, err := s.db.NewInsert().
		Model(rec).
		On("CONFLICT (volunteer_id, skill_id) DO UPDATE").
		Set("proficiency = EXCLUDED.proficiency").
		Set("experience_years = EXCLUDED.experience_years").
		Set("certified = EXCLUDED.certified").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	stored := new(assignmentModel)
	err = s.db.NewSelect().
		Model(stored).
		Relation("Skill").
		Where("vs.volunteer_id = ?", a.VolunteerID).
		Where("vs.skill_id = ?", a.SkillID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return toAssignment(stored), nil
}

// ListAssignments implements skills.Store.
func (s *SkillStore) ListAssignments(ctx context.Context, volunteerID int64) ([]*skills.Assignment, error) {
	var rows []*assignmentModel
	err := s.db.NewSelect().
		Model(&rows).
		Relation("Skill").
		Where("vs.volunteer_id = ?", volunteerID).
		OrderExpr("skill.name_key ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*skills.Assignment, 0, len(rows))
	for _, row := range rows {
		out = append(out, toAssignment(row))
	}
	return out, nil
}

// FindHolders implements skills.Store.
func (s *SkillStore) FindHolders(ctx context.Context, skillID uuid.UUID, minLevel skills.Proficiency) ([]int64, error) {
	ids := make([]int64, 0)
	err := s.db.NewSelect().
		Model((*assignmentModel)(nil)).
		ColumnExpr("vs.volunteer_id").
		Join("JOIN volunteers AS v ON v.id = vs.volunteer_id").
		Where("vs.skill_id = ?", skillID).
		Where("vs.proficiency >= ?", int(minLevel)).
		Where("v.is_active = ?", true).
		OrderExpr("vs.volunteer_id ASC").
		Scan(ctx, &ids)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func activeSkills(q *bun.SelectQuery) *bun.SelectQuery {
	return q.Where("s.is_active = ?", true)
}

func orderByNameKey(q *bun.SelectQuery) *bun.SelectQuery {
	return q.OrderExpr("s.name_key ASC")
}

func fromSkill(skill *skills.Skill) *skillModel {
	return &skillModel{
		ID:          skill.ID,
		Name:        skill.Name,
		NameKey:     skills.NameKey(skill.Name),
		Description: skill.Description,
		Category:    skill.Category,
		IsActive:    skill.IsActive,
		CreatedAt:   skill.CreatedAt.UTC(),
		UpdatedAt:   skill.UpdatedAt.UTC(),
	}
}

func toSkill(rec *skillModel) *skills.Skill {
	if rec == nil {
		return nil
	}
	return &skills.Skill{
		ID:          rec.ID,
		Name:        rec.Name,
		Description: rec.Description,
		Category:    rec.Category,
		IsActive:    rec.IsActive,
		CreatedAt:   rec.CreatedAt.UTC(),
		UpdatedAt:   rec.UpdatedAt.UTC(),
	}
}

func toSkills(rows []*skillModel) []*skills.Skill {
	out := make([]*skills.Skill, 0, len(rows))
	for _, rec := range rows {
		out = append(out, toSkill(rec))
	}
	return out
}

func toAssignment(rec *assignmentModel) *skills.Assignment {
	a := &skills.Assignment{
		VolunteerID:     rec.VolunteerID,
		SkillID:         rec.SkillID,
		Proficiency:     skills.Proficiency(rec.Proficiency),
		ExperienceYears: rec.ExperienceYears,
		Certified:       rec.Certified,
		CreatedAt:       rec.CreatedAt.UTC(),
		UpdatedAt:       rec.UpdatedAt.UTC(),
	}
	if rec.Skill != nil {
		a.SkillName = rec.Skill.Name
	}
	return a
}
