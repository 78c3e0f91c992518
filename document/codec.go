package document

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// EmptyCollection is the encoded form of an explicitly empty set or list.
const EmptyCollection = "[]"

// EncodeSet renders s as a JSON array. A nil set encodes to nil.
func EncodeSet(s Set) *string {
	if s == nil {
		return nil
	}
	return marshal(s.Strings())
}

// DecodeSet parses a JSON array of strings. Nil, blank or malformed input
// yields an empty set.
func DecodeSet(text *string) Set {
	var values []string
	if !unmarshal(text, &values) {
		return Set{}
	}
	return NewSet(values...)
}

// EncodeList renders l as a JSON array. A nil list encodes to nil.
func EncodeList(l List) *string {
	if l == nil {
		return nil
	}
	return marshal(l.Strings())
}

// DecodeList parses a JSON array of identifiers. Numeric identifiers are
// accepted and rendered in decimal. Nil, blank or malformed input yields an
// empty list.
func DecodeList(text *string) List {
	var values []any
	if !unmarshal(text, &values) {
		return List{}
	}
	out := make(List, 0, len(values))
	for _, v := range values {
		switch x := v.(type) {
		case string:
			out = append(out, x)
		case float64:
			out = append(out, strconv.FormatFloat(x, 'f', -1, 64))
		default:
			return List{}
		}
	}
	return out
}

type availabilityDoc struct {
	Weekly *weeklyDoc `json:"weekly,omitempty"`
	Range  *rangeDoc  `json:"range,omitempty"`

	// Legacy shape: {"weekdays":["monday"],"weekends":true}
	Weekdays []string `json:"weekdays,omitempty"`
	Weekends *bool    `json:"weekends,omitempty"`
}

type weeklyDoc struct {
	Days  []string  `json:"days"`
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

type rangeDoc struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// EncodeAvailability renders a as JSON. Nil or invalid descriptors encode
// to nil.
func EncodeAvailability(a *Availability) *string {
	if a == nil || a.Validate() != nil {
		return nil
	}
	var doc availabilityDoc
	if a.Weekly != nil {
		days := make([]string, 0, len(a.Weekly.Days))
		for _, d := range a.Weekly.Days {
			days = append(days, strings.ToLower(d.String()))
		}
		doc.Weekly = &weeklyDoc{Days: days, Start: a.Weekly.Start, End: a.Weekly.End}
	} else {
		doc.Range = &rangeDoc{Start: a.Range.Start.UTC(), End: a.Range.End.UTC()}
	}
	return marshal(doc)
}

// DecodeAvailability parses an availability document. Nil, blank,
// malformed or ambiguous input yields nil.
func DecodeAvailability(text *string) *Availability {
	var doc availabilityDoc
	if !unmarshal(text, &doc) {
		return nil
	}

	var out *Availability
	switch {
	case doc.Weekly != nil && doc.Range != nil:
		return nil
	case doc.Weekly != nil:
		days := make([]time.Weekday, 0, len(doc.Weekly.Days))
		for _, name := range doc.Weekly.Days {
			if d, ok := ParseWeekday(name); ok {
				days = append(days, d)
			}
		}
		out = Weekly(doc.Weekly.Start, doc.Weekly.End, days...)
	case doc.Range != nil:
		out = Between(doc.Range.Start, doc.Range.End)
	case doc.Weekdays != nil || doc.Weekends != nil:
		out = fromLegacy(doc.Weekdays, doc.Weekends != nil && *doc.Weekends)
	default:
		return nil
	}

	if out.Validate() != nil {
		return nil
	}
	return out
}

func fromLegacy(weekdays []string, weekends bool) *Availability {
	days := make([]time.Weekday, 0, len(weekdays)+2)
	for _, name := range weekdays {
		if d, ok := ParseWeekday(name); ok {
			days = append(days, d)
		}
	}
	if weekends {
		days = append(days, time.Saturday, time.Sunday)
	}
	return Weekly(0, MinutesPerDay, days...)
}

func marshal(v any) *string {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	s := string(b)
	return &s
}

func unmarshal(text *string, v any) bool {
	if text == nil || strings.TrimSpace(*text) == "" {
		return false
	}
	return json.Unmarshal([]byte(*text), v) == nil
}
