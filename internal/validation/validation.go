// Package validation holds the business rules checked before any request
// leaves the gateway. Every rule is evaluated; violations are collected, never
// short-circuited.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rezonia/mydata-gateway/internal/model"
)

// Result is the outcome of a validation run. Warnings never block a request.
type Result struct {
	Violations []string `json:"violations,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
}

// Valid reports whether no violation was found
func (r Result) Valid() bool {
	return len(r.Violations) == 0
}

// Err returns a *model.ValidationError carrying every violation, or nil
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	return model.NewValidationError(r.Violations)
}

func (r *Result) violate(format string, args ...any) {
	r.Violations = append(r.Violations, fmt.Sprintf(format, args...))
}

func (r *Result) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	// Report fields by their wire names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"json", "form"} {
			name, _, _ := strings.Cut(fld.Tag.Get(key), ",")
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
}

// structViolations runs the struct tags of v and renders each failure.
// requiredFormat receives the field name.
func structViolations(v any, requiredFormat string) []string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}

	out := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			out = append(out, fmt.Sprintf(requiredFormat, fe.Field()))
		case "number":
			out = append(out, fmt.Sprintf("%s must be a number", fe.Field()))
		default:
			out = append(out, fmt.Sprintf("%s failed the %q rule", fe.Field(), fe.Tag()))
		}
	}
	return out
}

// RequestClientsQuery is the raw query string of a RequestClients call
type RequestClientsQuery struct {
	DclID             string `form:"dclId" validate:"required,number"`
	MaxDclID          string `form:"maxDclId" validate:"omitempty,number"`
	EntityVatNumber   string `form:"entityVatNumber"`
	ContinuationToken string `form:"continuationToken"`
}

// ValidateRequestClients checks the query and converts it into call parameters
func ValidateRequestClients(q RequestClientsQuery) (model.RequestClientsParams, Result) {
	var res Result
	res.Violations = structViolations(q, "%s query parameter is required")

	params := model.RequestClientsParams{
		EntityVatNumber:   q.EntityVatNumber,
		ContinuationToken: q.ContinuationToken,
	}
	if !res.Valid() {
		return params, res
	}

	id, err := strconv.ParseInt(q.DclID, 10, 64)
	if err != nil {
		res.violate("dclId must be a number")
	}
	params.DclID = id

	if q.MaxDclID != "" {
		maxID, err := strconv.ParseInt(q.MaxDclID, 10, 64)
		if err != nil {
			res.violate("maxDclId must be a number")
		} else {
			params.MaxDclID = &maxID
		}
	}
	return params, res
}

// ValidateDclIDParam checks a DCL identifier taken from the URL path
func ValidateDclIDParam(raw string) (int64, Result) {
	var res Result
	if err := validate.Var(raw, "required"); err != nil {
		res.violate("dclId URL parameter is required")
		return 0, res
	}
	if err := validate.Var(raw, "number"); err != nil {
		res.violate("dclId must be a number")
		return 0, res
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		res.violate("dclId must be a number")
	}
	return id, res
}

// ValidateBillingBook checks a billing book creation request
func ValidateBillingBook(req *model.CreateBillingBookRequest) Result {
	return Result{Violations: structViolations(req, "%s is required")}
}
