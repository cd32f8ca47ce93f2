package views

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"autotrip/models"

	"github.com/go-playground/validator/v10"
)

// Interests is the fixed tag list offered by the intake form.
var Interests = []string{
	"Culture & History",
	"Food & Dining",
	"Nature & Outdoor",
	"Nightlife",
	"Shopping",
	"Adventure",
	"Relaxation",
	"Art & Museums",
}

// IntakeForm holds the raw trip-details form. Numbers stay strings until
// validation so an empty field reads as missing rather than zero.
type IntakeForm struct {
	Origin      string     `form:"starting_location" json:"starting_location" validate:"required"`
	Destination string     `form:"location" json:"location" validate:"required"`
	StartDate   string     `form:"start_date" json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string     `form:"end_date" json:"end_date" validate:"required,datetime=2006-01-02,notbefore=StartDate"`
	Budget      FieldValue `form:"budget" json:"budget" validate:"required,numeric,atleast=100"`
	Travelers   FieldValue `form:"travelers" json:"travelers" validate:"required,whole,atleast=1"`
	Interests   []string   `form:"interests" json:"interests"`
}

// FieldValue is a numeric form field kept as text. From JSON it accepts
// either a string or a bare number.
type FieldValue string

func (v *FieldValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = FieldValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected a number, got %s", data)
	}
	*v = FieldValue(n.String())
	return nil
}

// FieldErrors maps a form field name to its message.
type FieldErrors map[string]string

var fieldMessages = map[string]string{
	"starting_location.required": "Starting location is required",
	"location.required":          "Destination is required",
	"start_date.required":        "Start date is required",
	"start_date.datetime":        "Start date must be a valid date",
	"end_date.required":          "End date is required",
	"end_date.datetime":          "End date must be a valid date",
	"end_date.notbefore":         "End date must be on or after the start date",
	"budget.required":            "Budget is required",
	"budget.numeric":             "Budget must be a number",
	"budget.atleast":             "Minimum budget is $100",
	"travelers.required":         "Number of travelers is required",
	"travelers.whole":            "Number of travelers must be a whole number",
	"travelers.atleast":          "At least 1 traveler required",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// atleast=N parses the field as a finite number and compares it with N.
	mustRegister(v, "atleast", func(fl validator.FieldLevel) bool {
		min, err := strconv.ParseFloat(fl.Param(), 64)
		if err != nil {
			return false
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(fl.Field().String()), 64)
		if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
			return false
		}
		return n >= min
	})

	// whole accepts a plain base-10 integer that fits an int.
	mustRegister(v, "whole", func(fl validator.FieldLevel) bool {
		_, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
		return err == nil
	})

	// notbefore=Field rejects a date earlier than the named sibling date.
	mustRegister(v, "notbefore", func(fl validator.FieldLevel) bool {
		other := fl.Parent().FieldByName(fl.Param())
		if !other.IsValid() {
			return false
		}
		start, err := time.Parse(models.DateLayout, other.String())
		if err != nil {
			// reported on the other field
			return true
		}
		end, err := time.Parse(models.DateLayout, fl.Field().String())
		return err == nil && !end.Before(start)
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// Toggle adds tag when absent and removes it when present. Selection order
// is kept and tags outside Interests are ignored.
func (f *IntakeForm) Toggle(tag string) {
	if !contains(Interests, tag) {
		return
	}
	for i, t := range f.Interests {
		if t == tag {
			f.Interests = append(f.Interests[:i:i], f.Interests[i+1:]...)
			return
		}
	}
	f.Interests = append(f.Interests, tag)
}

// Selected reports whether tag is toggled on.
func (f IntakeForm) Selected(tag string) bool {
	return contains(f.Interests, tag)
}

// Submit validates the form. On success it emits the trip request with
// the toggled interests merged in; on failure it emits nothing.
func (f IntakeForm) Submit() (models.TripRequest, FieldErrors) {
	f.Origin = strings.TrimSpace(f.Origin)
	f.Destination = strings.TrimSpace(f.Destination)
	f.Budget = FieldValue(strings.TrimSpace(string(f.Budget)))
	f.Travelers = FieldValue(strings.TrimSpace(string(f.Travelers)))

	if err := validate.Struct(f); err != nil {
		errs := FieldErrors{}
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			errs["form"] = err.Error()
			return models.TripRequest{}, errs
		}
		for _, fe := range verrs {
			if _, seen := errs[fe.Field()]; seen {
				continue
			}
			msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]
			if !ok {
				msg = fe.Error()
			}
			errs[fe.Field()] = msg
		}
		return models.TripRequest{}, errs
	}

	budget, _ := strconv.ParseFloat(string(f.Budget), 64)
	travelers, _ := strconv.Atoi(string(f.Travelers))

	interests := make([]string, 0, len(f.Interests))
	for _, t := range f.Interests {
		if contains(Interests, t) && !contains(interests, t) {
			interests = append(interests, t)
		}
	}

	return models.TripRequest{
		Origin:      f.Origin,
		Destination: f.Destination,
		StartDate:   f.StartDate,
		EndDate:     f.EndDate,
		Budget:      budget,
		Travelers:   travelers,
		Interests:   interests,
	}, nil
}

// FormFromRequest refills the form from an emitted request.
func FormFromRequest(r models.TripRequest) IntakeForm {
	return IntakeForm{
		Origin:      r.Origin,
		Destination: r.Destination,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		Budget:      FieldValue(strconv.FormatFloat(r.Budget, 'f', -1, 64)),
		Travelers:   FieldValue(strconv.Itoa(r.Travelers)),
		Interests:   append([]string(nil), r.Interests...),
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
