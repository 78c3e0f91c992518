package skills

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Skill is a catalog entry.
type Skill struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Proficiency rates how well a volunteer masters a skill.
type Proficiency int

const (
	Beginner Proficiency = iota + 1
	Novice
	Intermediate
	Advanced
	Expert
)

var proficiencyNames = map[Proficiency]string{
	Beginner:     "beginner",
	Novice:       "novice",
	Intermediate: "intermediate",
	Advanced:     "advanced",
	Expert:       "expert",
}

// Valid reports whether p is one of the defined levels.
func (p Proficiency) Valid() bool {
	return p >= Beginner && p <= Expert
}

func (p Proficiency) String() string {
	if name, ok := proficiencyNames[p]; ok {
		return name
	}
	return "proficiency(" + strconv.Itoa(int(p)) + ")"
}

// ParseProficiency accepts a level name in any case or its number 1..5.
func ParseProficiency(value string) (Proficiency, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if n, err := strconv.Atoi(value); err == nil {
		if p := Proficiency(n); p.Valid() {
			return p, nil
		}
		return 0, fmt.Errorf("skills: proficiency %d out of range 1..5", n)
	}
	for p, name := range proficiencyNames {
		if name == value {
			return p, nil
		}
	}
	return 0, fmt.Errorf("skills: unknown proficiency %q", value)
}

// MarshalText implements encoding.TextMarshaler.
func (p Proficiency) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("skills: invalid proficiency %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Proficiency) UnmarshalText(text []byte) error {
	parsed, err := ParseProficiency(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Assignment links a volunteer to a skill.
type Assignment struct {
	VolunteerID     int64       `json:"volunteer_id"`
	SkillID         uuid.UUID   `json:"skill_id"`
	SkillName       string      `json:"skill_name,omitempty"`
	Proficiency     Proficiency `json:"proficiency"`
	ExperienceYears *int        `json:"experience_years,omitempty"`
	Certified       bool        `json:"certified"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// SkillInput carries the fields accepted when creating a skill.
type SkillInput struct {
	Name        string
	Description string
	Category    string
}

// AssignmentInput carries the fields accepted when assigning a skill.
type AssignmentInput struct {
	VolunteerID     int64
	Skill           string
	Proficiency     Proficiency
	ExperienceYears *int
	Certified       bool
}

// NameKey is the case-insensitive identity of a skill name.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
