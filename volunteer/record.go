package volunteer

import (
	"time"

	"github.com/goliatone/go-volunteers/document"
)

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Record is the stored shape of a volunteer.
type Record struct {
	ID              int64
	Name            string
	Email           string
	PhoneNumber     string
	Location        string
	Coordinates     *Coordinates
	Skills          document.Set
	Interests       document.Set
	Availability    *document.Availability
	DrivesApplied   document.List
	DrivesCompleted document.List
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Clone returns a deep copy of r.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := *r
	if r.Coordinates != nil {
		c := *r.Coordinates
		out.Coordinates = &c
	}
	out.Skills = cloneSet(r.Skills)
	out.Interests = cloneSet(r.Interests)
	out.Availability = r.Availability.Clone()
	out.DrivesApplied = cloneList(r.DrivesApplied)
	out.DrivesCompleted = cloneList(r.DrivesCompleted)
	return &out
}

// Candidate carries the fields of a volunteer to be created.
type Candidate struct {
	Name         string
	Email        string
	PhoneNumber  string
	Location     string
	Coordinates  *Coordinates
	Skills       []string
	Interests    []string
	Availability *document.Availability
}

// ActiveFilter narrows paged listings by status.
type ActiveFilter int

const (
	// AnyStatus lists active and inactive records.
	AnyStatus ActiveFilter = iota
	// OnlyActive lists active records.
	OnlyActive
	// OnlyInactive lists inactive records.
	OnlyInactive
)

// ParseActiveFilter maps "", "all", "true"/"active" and "false"/"inactive".
func ParseActiveFilter(s string) (ActiveFilter, bool) {
	switch s {
	case "", "all", "any":
		return AnyStatus, true
	case "true", "active":
		return OnlyActive, true
	case "false", "inactive":
		return OnlyInactive, true
	default:
		return AnyStatus, false
	}
}

func (f ActiveFilter) String() string {
	switch f {
	case OnlyActive:
		return "active"
	case OnlyInactive:
		return "inactive"
	default:
		return "all"
	}
}

// DriveStatus selects the drive list RecordDrive appends to.
type DriveStatus int

const (
	// DriveApplied marks a drive the volunteer signed up for.
	DriveApplied DriveStatus = iota
	// DriveCompleted marks a drive the volunteer finished.
	DriveCompleted
)

func cloneSet(s document.Set) document.Set {
	if s == nil {
		return nil
	}
	return append(document.Set{}, s...)
}

func cloneList(l document.List) document.List {
	if l == nil {
		return nil
	}
	return append(document.List{}, l...)
}
