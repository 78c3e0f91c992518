package volunteer

import (
	"strings"
	"time"

	"github.com/goliatone/go-volunteers/document"
)

// View is the read-only projection handed to callers. Document attributes
// are exposed as plain values; encoded text never leaves the store.
type View struct {
	ID              int64             `json:"id"`
	Name            string            `json:"name"`
	Email           string            `json:"email"`
	PhoneNumber     string            `json:"phone_number,omitempty"`
	Location        string            `json:"location,omitempty"`
	Latitude        *float64          `json:"latitude,omitempty"`
	Longitude       *float64          `json:"longitude,omitempty"`
	Skills          []string          `json:"skills"`
	Interests       []string          `json:"interests"`
	Availability    *AvailabilityView `json:"availability,omitempty"`
	DrivesApplied   []string          `json:"drives_applied"`
	DrivesCompleted []string          `json:"drives_completed"`
	IsActive        bool              `json:"is_active"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// AvailabilityView renders an availability descriptor. Weekly windows fill
// Days, Start and End; date ranges fill From and Until.
type AvailabilityView struct {
	Kind  string     `json:"kind"`
	Days  []string   `json:"days,omitempty"`
	Start string     `json:"start,omitempty"`
	End   string     `json:"end,omitempty"`
	From  *time.Time `json:"from,omitempty"`
	Until *time.Time `json:"until,omitempty"`
}

// Availability kinds reported by AvailabilityView.Kind.
const (
	AvailabilityWeekly = "weekly"
	AvailabilityRange  = "range"
)

// Nearby pairs a projection with its distance from the search origin.
type Nearby struct {
	View
	DistanceKm float64 `json:"distance_km"`
}

// Page is one page of a paged listing.
type Page struct {
	Items      []View `json:"items"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	Total      int    `json:"total"`
	TotalPages int    `json:"total_pages"`
}

// Project builds the caller facing view of r.
func Project(r *Record) View {
	v := View{
		ID:              r.ID,
		Name:            r.Name,
		Email:           r.Email,
		PhoneNumber:     r.PhoneNumber,
		Location:        r.Location,
		Skills:          r.Skills.Strings(),
		Interests:       r.Interests.Strings(),
		Availability:    projectAvailability(r.Availability),
		DrivesApplied:   r.DrivesApplied.Strings(),
		DrivesCompleted: r.DrivesCompleted.Strings(),
		IsActive:        r.IsActive,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	if r.Coordinates != nil {
		lat, lon := r.Coordinates.Latitude, r.Coordinates.Longitude
		v.Latitude, v.Longitude = &lat, &lon
	}
	return v.normalize()
}

// AvailableAt reports whether the volunteer's availability window contains
// t. Volunteers without availability are never available.
func (v View) AvailableAt(t time.Time) bool {
	return v.Availability.descriptor().AvailableAt(t)
}

// HasCoordinates reports whether both latitude and longitude are known.
func (v View) HasCoordinates() bool {
	return v.Latitude != nil && v.Longitude != nil
}

// normalize restores the invariants a cache round trip may lose: non-nil
// collections and UTC timestamps.
func (v View) normalize() View {
	if v.Skills == nil {
		v.Skills = []string{}
	}
	if v.Interests == nil {
		v.Interests = []string{}
	}
	if v.DrivesApplied == nil {
		v.DrivesApplied = []string{}
	}
	if v.DrivesCompleted == nil {
		v.DrivesCompleted = []string{}
	}
	v.CreatedAt = v.CreatedAt.UTC()
	v.UpdatedAt = v.UpdatedAt.UTC()
	if a := v.Availability; a != nil {
		if a.From != nil {
			from := a.From.UTC()
			a.From = &from
		}
		if a.Until != nil {
			until := a.Until.UTC()
			a.Until = &until
		}
	}
	return v
}

func normalizeViews(views []View) []View {
	out := make([]View, len(views))
	for i, v := range views {
		out[i] = v.normalize()
	}
	return out
}

func projectAvailability(a *document.Availability) *AvailabilityView {
	if a == nil || a.Validate() != nil {
		return nil
	}
	if a.Weekly != nil {
		days := make([]string, 0, len(a.Weekly.Days))
		for _, d := range a.Weekly.Days {
			days = append(days, strings.ToLower(d.String()))
		}
		return &AvailabilityView{
			Kind:  AvailabilityWeekly,
			Days:  days,
			Start: a.Weekly.Start.String(),
			End:   a.Weekly.End.String(),
		}
	}
	from, until := a.Range.Start.UTC(), a.Range.End.UTC()
	return &AvailabilityView{Kind: AvailabilityRange, From: &from, Until: &until}
}

func (a *AvailabilityView) descriptor() *document.Availability {
	if a == nil {
		return nil
	}
	switch a.Kind {
	case AvailabilityWeekly:
		start, err := document.ParseTimeOfDay(a.Start)
		if err != nil {
			return nil
		}
		end, err := document.ParseTimeOfDay(a.End)
		if err != nil {
			return nil
		}
		days := make([]time.Weekday, 0, len(a.Days))
		for _, name := range a.Days {
			d, ok := document.ParseWeekday(name)
			if !ok {
				return nil
			}
			days = append(days, d)
		}
		return document.Weekly(start, end, days...)
	case AvailabilityRange:
		if a.From == nil || a.Until == nil {
			return nil
		}
		return document.Between(*a.From, *a.Until)
	}
	return nil
}
