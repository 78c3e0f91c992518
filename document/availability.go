package document

import (
	"fmt"
	"strings"
	"time"
)

// MinutesPerDay is the exclusive upper bound of a TimeOfDay, except for the
// end of a window where 24:00 is allowed.
const MinutesPerDay = 24 * 60

// TimeOfDay is a wall clock time expressed in minutes after midnight.
type TimeOfDay int

// ParseTimeOfDay parses "HH:MM". "24:00" is accepted as the end of the day.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var h, m int
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("document: invalid time of day %q", s)
	}
	if h < 0 || m < 0 || m > 59 || h > 24 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("document: time of day %q out of range", s)
	}
	return TimeOfDay(h*60 + m), nil
}

// TimeOfDayOf extracts the time of day of t in its own location.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

// String renders the value as "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// MarshalText implements encoding.TextMarshaler.
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TimeOfDay) UnmarshalText(b []byte) error {
	v, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// WeeklyWindow is a recurring availability window on a set of weekdays.
type WeeklyWindow struct {
	Days  []time.Weekday
	Start TimeOfDay
	End   TimeOfDay
}

// DateRange is a one-off availability window between two instants.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Availability describes when a volunteer can help. Exactly one of Weekly
// or Range is set on a valid descriptor.
type Availability struct {
	Weekly *WeeklyWindow
	Range  *DateRange
}

// Weekly builds a recurring availability descriptor.
func Weekly(start, end TimeOfDay, days ...time.Weekday) *Availability {
	return &Availability{Weekly: &WeeklyWindow{Days: uniqueDays(days), Start: start, End: end}}
}

// Between builds a one-off availability descriptor.
func Between(start, end time.Time) *Availability {
	return &Availability{Range: &DateRange{Start: start.UTC(), End: end.UTC()}}
}

// Validate reports whether the descriptor is well formed.
func (a *Availability) Validate() error {
	if a == nil {
		return nil
	}
	switch {
	case a.Weekly != nil && a.Range != nil:
		return fmt.Errorf("document: availability cannot be both weekly and a date range")
	case a.Weekly == nil && a.Range == nil:
		return fmt.Errorf("document: availability must be weekly or a date range")
	case a.Weekly != nil:
		w := a.Weekly
		if len(w.Days) == 0 {
			return fmt.Errorf("document: weekly availability needs at least one day")
		}
		for _, d := range w.Days {
			if d < time.Sunday || d > time.Saturday {
				return fmt.Errorf("document: invalid weekday %d", d)
			}
		}
		if w.Start < 0 || w.End > MinutesPerDay || w.Start >= w.End {
			return fmt.Errorf("document: weekly window %s-%s is empty or out of range", w.Start, w.End)
		}
	default:
		if !a.Range.End.After(a.Range.Start) {
			return fmt.Errorf("document: date range must end after it starts")
		}
	}
	return nil
}

// AvailableAt reports whether t falls strictly inside the descriptor's
// window. Weekly windows are evaluated in t's location.
func (a *Availability) AvailableAt(t time.Time) bool {
	if a == nil || a.Validate() != nil {
		return false
	}
	if a.Weekly != nil {
		if !containsDay(a.Weekly.Days, t.Weekday()) {
			return false
		}
		tod := TimeOfDayOf(t)
		return tod > a.Weekly.Start && tod < a.Weekly.End
	}
	return t.After(a.Range.Start) && t.Before(a.Range.End)
}

// Equal reports whether two descriptors describe the same window.
func (a *Availability) Equal(other *Availability) bool {
	if a == nil || other == nil {
		return a == nil && other == nil
	}
	if (a.Weekly == nil) != (other.Weekly == nil) || (a.Range == nil) != (other.Range == nil) {
		return false
	}
	if a.Weekly != nil {
		x, y := a.Weekly, other.Weekly
		if x.Start != y.Start || x.End != y.End || len(x.Days) != len(y.Days) {
			return false
		}
		for _, d := range x.Days {
			if !containsDay(y.Days, d) {
				return false
			}
		}
	}
	if a.Range != nil {
		return a.Range.Start.Equal(other.Range.Start) && a.Range.End.Equal(other.Range.End)
	}
	return true
}

// Clone returns a deep copy.
func (a *Availability) Clone() *Availability {
	if a == nil {
		return nil
	}
	out := &Availability{}
	if a.Weekly != nil {
		w := *a.Weekly
		w.Days = append([]time.Weekday(nil), a.Weekly.Days...)
		out.Weekly = &w
	}
	if a.Range != nil {
		r := *a.Range
		out.Range = &r
	}
	return out
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sun":       time.Sunday,
	"mon":       time.Monday,
	"tue":       time.Tuesday,
	"wed":       time.Wednesday,
	"thu":       time.Thursday,
	"fri":       time.Friday,
	"sat":       time.Saturday,
}

// ParseWeekday accepts full or three letter English day names in any case.
func ParseWeekday(s string) (time.Weekday, bool) {
	d, ok := weekdayNames[strings.ToLower(strings.TrimSpace(s))]
	return d, ok
}

func containsDay(days []time.Weekday, d time.Weekday) bool {
	for _, v := range days {
		if v == d {
			return true
		}
	}
	return false
}

func uniqueDays(days []time.Weekday) []time.Weekday {
	out := make([]time.Weekday, 0, len(days))
	for _, d := range days {
		if !containsDay(out, d) {
			out = append(out, d)
		}
	}
	return out
}
