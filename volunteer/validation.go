package volunteer

import (
	"errors"
	"math"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Input limits.
const (
	MaxNameLength  = 100
	MaxEmailLength = 255
	MaxPageSize    = 100
)

var finite = validation.By(func(value any) error {
	if f, ok := value.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return errors.New("must be a finite number")
	}
	return nil
})

// Validate checks the candidate fields the manager depends on.
func (c Candidate) Validate() error {
	name := strings.TrimSpace(c.Name)
	email := strings.TrimSpace(c.Email)
	err := validation.Errors{
		"name":  validation.Validate(name, validation.Required, validation.Length(1, MaxNameLength)),
		"email": validation.Validate(email, validation.Required, validation.Length(3, MaxEmailLength), is.EmailFormat),
	}
	if c.Coordinates != nil {
		err["coordinates"] = validateCoordinates(c.Coordinates.Latitude, c.Coordinates.Longitude)
	}
	if c.Availability != nil {
		err["availability"] = c.Availability.Validate()
	}
	return err.Filter()
}

func validateCoordinates(lat, lon float64) error {
	return validation.Errors{
		"latitude":  validation.Validate(lat, finite, validation.Min(-90.0), validation.Max(90.0)),
		"longitude": validation.Validate(lon, finite, validation.Min(-180.0), validation.Max(180.0)),
	}.Filter()
}

func validateSearch(lat, lon, radiusKm float64) error {
	errs := validation.Errors{
		"radius": validation.Validate(radiusKm, finite, validation.Min(0.0)),
	}
	if err := validateCoordinates(lat, lon); err != nil {
		errs["origin"] = err
	}
	return errs.Filter()
}

// MaxPage is the largest page index List accepts, so the offset
// page*pageSize always fits in an int.
const MaxPage = math.MaxInt / MaxPageSize

func validatePaging(page, pageSize int) error {
	return validation.Errors{
		"page":      validation.Validate(page, validation.Min(0), validation.Max(MaxPage)),
		"page_size": validation.Validate(pageSize, validation.Required, validation.Min(1), validation.Max(MaxPageSize)),
	}.Filter()
}
