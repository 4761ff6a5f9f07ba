// Package validation checks and normalizes registration payloads. It is
// read-only: aside from uniqueness lookups against the identity store it has
// no side effects, and every violated rule is reported in one pass rather
// than stopping at the first.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NonFieldErrors is the pseudo-field for errors that belong to the payload
// as a whole rather than a single field.
const NonFieldErrors = "non_field_errors"

// FieldError is one violated rule on one field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors is the ordered error report for a payload. It is an error so
// services can return it past their boundary without a separate channel.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether the report already contains an error for field.
func (e FieldErrors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

func (e *FieldErrors) add(field, message string) {
	*e = append(*e, FieldError{Field: field, Message: message})
}

// newValidator builds the tag validator with json-tag field names, so error
// reports use the wire names the client sent.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// tagErrors converts validator output into field errors, keeping the
// field-declaration order the validator walks in.
func tagErrors(err error) FieldErrors {
	var out FieldErrors
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out.add(NonFieldErrors, "invalid payload")
		return out
	}
	for _, ve := range verrs {
		field := ve.Field()
		// Dived slice elements report as "field[i]"; the report carries
		// the field itself.
		if i := strings.IndexByte(field, '['); i >= 0 {
			field = field[:i]
		}
		if !out.Has(field) {
			out.add(field, messageFor(ve))
		}
	}
	return out
}

func messageFor(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "oneof":
		return "Select a valid choice."
	case "min":
		if ve.Kind() == reflect.Slice {
			return "This list may not be empty."
		}
		return fmt.Sprintf("Must be at least %s characters.", ve.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters.", ve.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s.", ve.Param())
	case "gte":
		return fmt.Sprintf("Must be at least %s.", ve.Param())
	case "datetime":
		return "Enter a valid date (YYYY-MM-DD)."
	default:
		return "Invalid value."
	}
}

// Enumerations shared by registration tags and the profile-update path.
var (
	employmentStatuses = map[string]bool{
		"employed": true, "self_employed": true, "unemployed": true,
		"student": true, "retired": true,
	}
	maritalStatuses = map[string]bool{
		"single": true, "married": true, "widowed": true,
		"separated": true, "divorced": true,
	}
	regions = map[string]bool{
		"ncr": true, "car": true, "region1": true, "region2": true,
		"region3": true, "region4a": true, "region4b": true, "region5": true,
		"region6": true, "region7": true, "region8": true, "region9": true,
		"region10": true, "region11": true, "region12": true,
		"region13": true, "barmm": true,
	}
	loanProducts = map[string]bool{
		"personal_loan": true, "salary_loan": true, "business_loan": true,
		"emergency_loan": true, "educational_loan": true, "home_loan": true,
		"vehicle_loan": true, "microfinance_loan": true,
	}
)

// ValidEmploymentStatus reports whether s is a recognized employment status.
func ValidEmploymentStatus(s string) bool { return employmentStatuses[s] }

// ValidMaritalStatus reports whether s is a recognized marital status.
func ValidMaritalStatus(s string) bool { return maritalStatuses[s] }

// ValidRegion reports whether s is a recognized region code.
func ValidRegion(s string) bool { return regions[s] }

// ValidLoanProduct reports whether s is a recognized loan-product code.
func ValidLoanProduct(s string) bool { return loanProducts[s] }

// NormalizeEmail trims and lower-cases an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// optional converts a trimmed string to a nullable column value.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
