package volunteer

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-volunteers/document"
)

type fieldState uint8

const (
	fieldUnset fieldState = iota
	fieldSet
	fieldClear
)

// Field is a tri-state patch value: unset (the zero value) leaves the
// attribute alone, Set replaces it and Clear resets it to its empty form.
type Field[T any] struct {
	state fieldState
	value T
}

// Set returns a Field that replaces the attribute with v.
func Set[T any](v T) Field[T] {
	return Field[T]{state: fieldSet, value: v}
}

// Clear returns a Field that resets the attribute.
func Clear[T any]() Field[T] {
	return Field[T]{state: fieldClear}
}

// IsSet reports whether the field carries a replacement value.
func (f Field[T]) IsSet() bool { return f.state == fieldSet }

// IsClear reports whether the field resets the attribute.
func (f Field[T]) IsClear() bool { return f.state == fieldClear }

// IsUnset reports whether the field leaves the attribute alone.
func (f Field[T]) IsUnset() bool { return f.state == fieldUnset }

// Value returns the replacement value. It is the zero value unless IsSet.
func (f Field[T]) Value() T { return f.value }

// Patch is a partial update. Email is absent: it is the
// record's alternate key and cannot change after creation.
type Patch struct {
	Name         Field[string]
	PhoneNumber  Field[string]
	Location     Field[string]
	Coordinates  Field[Coordinates]
	Skills       Field[[]string]
	Interests    Field[[]string]
	Availability Field[*document.Availability]
	IsActive     Field[bool]
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Name.IsUnset() && p.PhoneNumber.IsUnset() && p.Location.IsUnset() &&
		p.Coordinates.IsUnset() && p.Skills.IsUnset() && p.Interests.IsUnset() &&
		p.Availability.IsUnset() && p.IsActive.IsUnset()
}

func (p Patch) validate() error {
	errs := validation.Errors{}
	if p.Name.IsClear() {
		errs["name"] = errors.New("cannot be cleared")
	}
	if p.Name.IsSet() {
		errs["name"] = validation.Validate(strings.TrimSpace(p.Name.Value()), validation.Required, validation.Length(1, MaxNameLength))
	}
	if p.IsActive.IsClear() {
		errs["is_active"] = errors.New("cannot be cleared")
	}
	if p.Coordinates.IsSet() {
		c := p.Coordinates.Value()
		errs["coordinates"] = validateCoordinates(c.Latitude, c.Longitude)
	}
	if p.Availability.IsSet() {
		errs["availability"] = p.Availability.Value().Validate()
	}
	return errs.Filter()
}

// apply merges p into r. Callers validate first.
func (p Patch) apply(r *Record) {
	mergeString(&r.Name, p.Name)
	mergeString(&r.PhoneNumber, p.PhoneNumber)
	mergeString(&r.Location, p.Location)

	switch {
	case p.Coordinates.IsSet():
		c := p.Coordinates.Value()
		r.Coordinates = &c
	case p.Coordinates.IsClear():
		r.Coordinates = nil
	}

	mergeSet(&r.Skills, p.Skills)
	mergeSet(&r.Interests, p.Interests)

	switch {
	case p.Availability.IsSet():
		r.Availability = p.Availability.Value().Clone()
	case p.Availability.IsClear():
		r.Availability = nil
	}

	if p.IsActive.IsSet() {
		r.IsActive = p.IsActive.Value()
	}
}

func mergeString(dst *string, f Field[string]) {
	switch {
	case f.IsSet():
		*dst = strings.TrimSpace(f.Value())
	case f.IsClear():
		*dst = ""
	}
}

func mergeSet(dst *document.Set, f Field[[]string]) {
	switch {
	case f.IsSet():
		*dst = document.NewSet(f.Value()...)
	case f.IsClear():
		*dst = document.Set{}
	}
}
