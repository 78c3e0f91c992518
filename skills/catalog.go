package skills

import (
	"context"
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-volunteers/volunteer"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Input limits.
const (
	MaxNameLength        = 100
	MaxDescriptionLength = 500
	MaxCategoryLength    = 50
)

// CatalogConfig wires a Catalog.
type CatalogConfig struct {
	Store  Store
	Clock  volunteer.Clock
	Logger *zap.Logger
}

// Catalog manages skills and volunteer assignments.
type Catalog struct {
	store  Store
	clock  volunteer.Clock
	logger *zap.Logger
}

// NewCatalog validates cfg and builds a Catalog.
func NewCatalog(cfg CatalogConfig) (*Catalog, error) {
	if cfg.Store == nil {
		return nil, errors.New("skills: store required")
	}
	clock := cfg.Clock
	if clock == nil {
		clock = volunteer.SystemClock{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Catalog{store: cfg.Store, clock: clock, logger: logger.Named("skills")}, nil
}

// Validate checks the skill fields.
func (in SkillInput) Validate() error {
	return validation.Errors{
		"name":        validation.Validate(strings.TrimSpace(in.Name), validation.Required, validation.Length(1, MaxNameLength)),
		"description": validation.Validate(in.Description, validation.Length(0, MaxDescriptionLength)),
		"category":    validation.Validate(strings.TrimSpace(in.Category), validation.Length(0, MaxCategoryLength)),
	}.Filter()
}

// Validate checks the assignment fields.
func (in AssignmentInput) Validate() error {
	errs := validation.Errors{
		"volunteer_id": validation.Validate(in.VolunteerID, validation.Required, validation.Min(int64(1))),
		"skill":        validation.Validate(strings.TrimSpace(in.Skill), validation.Required),
		"proficiency":  validation.Validate(int(in.Proficiency), validation.Required, validation.Min(int(Beginner)), validation.Max(int(Expert))),
	}
	if in.ExperienceYears != nil {
		errs["experience_years"] = validation.Validate(*in.ExperienceYears, validation.Min(0))
	}
	return errs.Filter()
}

// CreateSkill adds an active skill to the catalog.
func (c *Catalog) CreateSkill(ctx context.Context, in SkillInput) (*Skill, error) {
	if err := in.Validate(); err != nil {
		return nil, invalidInput(err)
	}
	name := strings.TrimSpace(in.Name)

	if _, err := c.store.FindSkillByName(ctx, name); err == nil {
		return nil, duplicateSkill(name)
	} else if !errors.Is(err, ErrSkillNotFound) {
		return nil, storeFailure(err, "find skill")
	}

	now := c.clock.Now()
	created, err := c.store.CreateSkill(ctx, &Skill{
		ID:          uuid.New(),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateSkill) {
			return nil, duplicateSkill(name)
		}
		return nil, storeFailure(err, "create skill")
	}
	c.logger.Info("skill created", zap.String("name", created.Name))
	return created, nil
}

// GetSkill returns the skill with the given name, ignoring case.
func (c *Catalog) GetSkill(ctx context.Context, name string) (*Skill, error) {
	skill, err := c.store.FindSkillByName(ctx, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, ErrSkillNotFound) {
			return nil, skillNotFound(name)
		}
		return nil, storeFailure(err, "find skill")
	}
	return skill, nil
}

// ListSkills returns the active skills ordered by name.
func (c *Catalog) ListSkills(ctx context.Context) ([]*Skill, error) {
	out, err := c.store.ListActiveSkills(ctx)
	if err != nil {
		return nil, storeFailure(err, "list skills")
	}
	return out, nil
}

// Categories returns the distinct categories of active skills.
func (c *Catalog) Categories(ctx context.Context) ([]string, error) {
	out, err := c.store.ListCategories(ctx)
	if err != nil {
		return nil, storeFailure(err, "list categories")
	}
	return out, nil
}

// SearchSkills matches active skills whose name contains term. A blank
// term matches nothing.
func (c *Catalog) SearchSkills(ctx context.Context, term string) ([]*Skill, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []*Skill{}, nil
	}
	out, err := c.store.SearchSkills(ctx, term)
	if err != nil {
		return nil, storeFailure(err, "search skills")
	}
	return out, nil
}

// DeactivateSkill hides a skill from listings and new assignments.
// Existing assignments are kept.
func (c *Catalog) DeactivateSkill(ctx context.Context, name string) (*Skill, error) {
	skill, err := c.GetSkill(ctx, name)
	if err != nil {
		return nil, err
	}
	if !skill.IsActive {
		return skill, nil
	}
	skill.IsActive = false
	skill.UpdatedAt = c.clock.Now()
	updated, err := c.store.UpdateSkill(ctx, skill)
	if err != nil {
		if errors.Is(err, ErrSkillNotFound) {
			return nil, skillNotFound(name)
		}
		return nil, storeFailure(err, "update skill")
	}
	c.logger.Info("skill deactivated", zap.String("name", updated.Name))
	return updated, nil
}

// AssignSkill records the volunteer's proficiency in a skill. Assigning the
// same skill again replaces the previous rating.
func (c *Catalog) AssignSkill(ctx context.Context, in AssignmentInput) (*Assignment, error) {
	if err := in.Validate(); err != nil {
		return nil, invalidInput(err)
	}
	skill, err := c.GetSkill(ctx, in.Skill)
	if err != nil {
		return nil, err
	}
	if !skill.IsActive {
		return nil, invalidInput(errors.New("skill is inactive"))
	}

	exists, err := c.store.VolunteerExists(ctx, in.VolunteerID)
	if err != nil {
		return nil, storeFailure(err, "find volunteer")
	}
	if !exists {
		return nil, volunteerNotFound(in.VolunteerID)
	}

	now := c.clock.Now()
	var years *int
	if in.ExperienceYears != nil {
		y := *in.ExperienceYears
		years = &y
	}
	saved, err := c.store.UpsertAssignment(ctx, &Assignment{
		VolunteerID:     in.VolunteerID,
		SkillID:         skill.ID,
		SkillName:       skill.Name,
		Proficiency:     in.Proficiency,
		ExperienceYears: years,
		Certified:       in.Certified,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return nil, storeFailure(err, "assign skill")
	}
	c.logger.Debug("skill assigned",
		zap.Int64("volunteer_id", in.VolunteerID),
		zap.String("skill", skill.Name),
		zap.Stringer("proficiency", in.Proficiency),
	)
	return saved, nil
}

// VolunteerSkills lists the assignments of a volunteer ordered by skill name.
func (c *Catalog) VolunteerSkills(ctx context.Context, volunteerID int64) ([]*Assignment, error) {
	out, err := c.store.ListAssignments(ctx, volunteerID)
	if err != nil {
		return nil, storeFailure(err, "list assignments")
	}
	return out, nil
}

// VolunteersWithSkill returns the ids of active volunteers holding the
// skill at minLevel or above. A zero minLevel matches every level.
func (c *Catalog) VolunteersWithSkill(ctx context.Context, name string, minLevel Proficiency) ([]int64, error) {
	if minLevel != 0 && !minLevel.Valid() {
		return nil, invalidInput(errors.New("proficiency out of range"))
	}
	if minLevel == 0 {
		minLevel = Beginner
	}
	skill, err := c.GetSkill(ctx, name)
	if err != nil {
		return nil, err
	}
	ids, err := c.store.FindHolders(ctx, skill.ID, minLevel)
	if err != nil {
		return nil, storeFailure(err, "find holders")
	}
	return ids, nil
}
