package planner

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"holiday-planner/internal/models"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// NewPlan holds the fields a user submits to create a plan. Amounts are in
// the base currency.
type NewPlan struct {
	Name              string      `validate:"required"`
	StartDate         models.Date `validate:"-"`
	EndDate           models.Date `validate:"-"`
	TravelCost        float64     `validate:"gte=0"`
	AccommodationCost float64     `validate:"gte=0"`
	ExperiencesCost   float64     `validate:"gte=0"`
	MiscCost          float64     `validate:"gte=0"`
}

// Validate trims the name and checks every field, returning a
// *models.ValidationError that lists all problems found.
func (in *NewPlan) Validate() error {
	in.Name = strings.TrimSpace(in.Name)

	var problems []string
	if err := validate.Struct(in); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return err
		}
		for _, fe := range ve {
			if v, ok := fe.Value().(float64); ok && !isFinite(v) {
				continue
			}
			problems = append(problems, fieldError(fe))
		}
	}

	finite := true
	for _, c := range []struct {
		field string
		v     float64
	}{
		{"travel_cost", in.TravelCost},
		{"accommodation_cost", in.AccommodationCost},
		{"experiences_cost", in.ExperiencesCost},
		{"misc_cost", in.MiscCost},
	} {
		if !isFinite(c.v) {
			finite = false
			problems = append(problems, c.field+" must be a finite number")
		}
	}
	if finite && !isFinite(in.total()) {
		problems = append(problems, "total cost is too large")
	}

	switch {
	case in.StartDate.IsZero() || in.EndDate.IsZero():
		problems = append(problems, "start_date and end_date are required")
	case in.StartDate.After(in.EndDate):
		problems = append(problems, fmt.Sprintf("end_date %s is before start_date %s", in.EndDate, in.StartDate))
	}

	if len(problems) > 0 {
		return &models.ValidationError{Problems: problems}
	}
	return nil
}

func (in *NewPlan) total() float64 {
	return in.TravelCost + in.AccommodationCost + in.ExperiencesCost + in.MiscCost
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

var fieldNames = map[string]string{
	"Name":              "name",
	"TravelCost":        "travel_cost",
	"AccommodationCost": "accommodation_cost",
	"ExperiencesCost":   "experiences_cost",
	"MiscCost":          "misc_cost",
}

func fieldError(fe validator.FieldError) string {
	field, ok := fieldNames[fe.Field()]
	if !ok {
		field = strings.ToLower(fe.Field())
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "gte":
		return fmt.Sprintf("%s must not be negative", field)
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
