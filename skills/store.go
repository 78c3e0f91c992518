package skills

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrSkillNotFound is returned by a Store when no skill matches.
	ErrSkillNotFound = errors.New("skills: skill not found")
	// ErrDuplicateSkill is returned by a Store when a skill name is taken.
	ErrDuplicateSkill = errors.New("skills: skill name taken")
)

// Store persists the catalog and the assignments.
type Store interface {
	CreateSkill(ctx context.Context, skill *Skill) (*Skill, error)
	UpdateSkill(ctx context.Context, skill *Skill) (*Skill, error)
	// FindSkillByName matches the name ignoring case.
	FindSkillByName(ctx context.Context, name string) (*Skill, error)
	ListActiveSkills(ctx context.Context) ([]*Skill, error)
	ListCategories(ctx context.Context) ([]string, error)
	SearchSkills(ctx context.Context, term string) ([]*Skill, error)

	VolunteerExists(ctx context.Context, volunteerID int64) (bool, error)
	UpsertAssignment(ctx context.Context, a *Assignment) (*Assignment, error)
	ListAssignments(ctx context.Context, volunteerID int64) ([]*Assignment, error)
	// FindHolders returns the ids of active volunteers holding the skill at
	// minLevel or above, ordered by id.
	FindHolders(ctx context.Context, skillID uuid.UUID, minLevel Proficiency) ([]int64, error)
}
