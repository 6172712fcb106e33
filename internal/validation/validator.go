// Package validation checks form input with go-playground/validator and turns
// failures into per-field messages that can be shown next to form inputs.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

// Error is returned when input fails validation. Fields maps the form field
// name to a human-readable message.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator wraps go-playground/validator with form-aware error messages.
type Validator struct {
	v *validator.Validate
}

// New creates a validator with the date and notbefore rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report errors under the form field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("date", isDate)
	_ = v.RegisterValidation("notbefore", notBefore)

	return &Validator{v: v}
}

// Validate validates a struct and returns *Error on failure.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fields := make(map[string]string, len(validationErrs))
	for _, e := range validationErrs {
		fields[e.Field()] = friendlyMessage(e)
	}
	return &Error{Fields: fields}
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "required_without":
		return "is required when " + fieldLabel(e.Param()) + " is empty"
	case "date":
		return "must be a date (YYYY-MM-DD)"
	case "notbefore":
		return "must not be before " + fieldLabel(e.Param())
	case "url":
		return "must be a valid URL"
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "latitude":
		return "must be a latitude"
	case "longitude":
		return "must be a longitude"
	default:
		return "is invalid"
	}
}

// fieldLabel turns a Go field name such as FlightNumber into "flight number".
func fieldLabel(name string) string {
	var b strings.Builder
	for i, r := range name {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

func isDate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

// notBefore compares two YYYY-MM-DD strings; it passes when either side is
// empty so optional date ranges stay optional.
func notBefore(fl validator.FieldLevel) bool {
	current := fl.Field().String()
	other := reflect.Indirect(fl.Parent()).FieldByName(fl.Param())
	if current == "" || !other.IsValid() || other.Kind() != reflect.String || other.String() == "" {
		return true
	}
	return current >= other.String()
}
