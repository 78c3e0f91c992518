package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type volunteerModel struct {
	bun.BaseModel `bun:"table:volunteers,alias:v"`

	ID              int64     `bun:"id,pk,autoincrement"`
	Name            string    `bun:"name,notnull"`
	Email           string    `bun:"email,notnull,unique"`
	PhoneNumber     string    `bun:"phone_number,nullzero"`
	Location        string    `bun:"location,nullzero"`
	Latitude        *float64  `bun:"latitude"`
	Longitude       *float64  `bun:"longitude"`
	Skills          *string   `bun:"skills,type:text"`
	Interests       *string   `bun:"interests,type:text"`
	Availability    *string   `bun:"availability,type:text"`
	DrivesApplied   *string   `bun:"drives_applied,type:text"`
	DrivesCompleted *string   `bun:"drives_completed,type:text"`
	IsActive        bool      `bun:"is_active,notnull"`
	CreatedAt       time.Time `bun:"created_at,notnull"`
	UpdatedAt       time.Time `bun:"updated_at,notnull"`
}

type skillModel struct {
	bun.BaseModel `bun:"table:skills,alias:s"`

	ID          uuid.UUID `bun:"id,pk,type:uuid"`
	Name        string    `bun:"name,notnull"`
	NameKey     string    `bun:"name_key,notnull,unique"`
	Description string    `bun:"description,nullzero"`
	Category    string    `bun:"category,nullzero"`
	IsActive    bool      `bun:"is_active,notnull"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
	UpdatedAt   time.Time `bun:"updated_at,notnull"`
}

type assignmentModel struct {
	bun.BaseModel `bun:"table:volunteer_skills,alias:vs"`

	VolunteerID     int64     `bun:"volunteer_id,pk"`
	SkillID         uuid.UUID `bun:"skill_id,pk,type:uuid"`
	Proficiency     int       `bun:"proficiency,notnull"`
	ExperienceYears *int      `bun:"experience_years"`
	Certified       bool      `bun:"certified,notnull"`
	CreatedAt       time.Time `bun:"created_at,notnull"`
	UpdatedAt       time.Time `bun:"updated_at,notnull"`

	Skill *skillModel `bun:"rel:belongs-to,join:skill_id=id"`
}
