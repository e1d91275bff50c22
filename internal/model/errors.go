package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies every error that can reach the HTTP boundary
type ErrorKind int

const (
	KindUnexpected ErrorKind = iota
	KindValidation
	KindTaxAuthority
	KindProvider
	KindMalformedResponse
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindTaxAuthority:
		return "tax_authority"
	case KindProvider:
		return "provider"
	case KindMalformedResponse:
		return "malformed_response"
	default:
		return "unexpected"
	}
}

var (
	// ErrBillingBookNotFound is returned when no billing book covers an invoice type code
	ErrBillingBookNotFound = errors.New("billing book not found")

	// ErrMissingCredentials is returned when the invoicing provider login has neither
	// an email nor a user id configured
	ErrMissingCredentials = errors.New("wrapp authentication requires either WRAPP_EMAIL or WRAPP_USER_ID")
)

// ValidationError carries every business-rule violation found in a request
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Details, "; "))
}

// NewValidationError creates a validation error from a list of violations
func NewValidationError(details []string) *ValidationError {
	return &ValidationError{Details: details}
}

// APIError represents a failed call to one of the upstream APIs.
// StatusCode is zero when no HTTP response was received.
type APIError struct {
	Kind       ErrorKind
	Op         string
	StatusCode int
	Body       string
	Cause      error
}

func (e *APIError) Error() string {
	upstream := "AADE"
	if e.Kind == KindProvider {
		upstream = "Wrapp"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s API error (%s): %v", upstream, e.Op, e.Cause)
	}
	return fmt.Sprintf("%s API error (%s): status %d", upstream, e.Op, e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the upstream status when it is a client or server error,
// otherwise 502 Bad Gateway
func (e *APIError) HTTPStatus() int {
	if e.StatusCode >= 400 && e.StatusCode < 600 {
		return e.StatusCode
	}
	return 502
}

// NewTaxAuthorityError creates an error for a failed tax-authority call
func NewTaxAuthorityError(op string, status int, body string, cause error) *APIError {
	return &APIError{Kind: KindTaxAuthority, Op: op, StatusCode: status, Body: body, Cause: cause}
}

// NewProviderError creates an error for a failed invoicing-provider call
func NewProviderError(op string, status int, body string, cause error) *APIError {
	return &APIError{Kind: KindProvider, Op: op, StatusCode: status, Body: body, Cause: cause}
}

// MalformedResponseError is returned when an upstream answered with a body
// that is not parseable as the expected document
type MalformedResponseError struct {
	Doc   string
	Cause error
}

func (e *MalformedResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed %s response: %v", e.Doc, e.Cause)
	}
	return fmt.Sprintf("malformed %s response", e.Doc)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}

// NewMalformedResponseError creates a new malformed response error
func NewMalformedResponseError(doc string, cause error) *MalformedResponseError {
	return &MalformedResponseError{Doc: doc, Cause: cause}
}

// KindOf reports the kind of err. Malformed responses take precedence over the
// API error that may wrap them.
func KindOf(err error) ErrorKind {
	var (
		validationErr *ValidationError
		malformedErr  *MalformedResponseError
		apiErr        *APIError
	)
	switch {
	case err == nil:
		return KindUnexpected
	case errors.As(err, &validationErr):
		return KindValidation
	case errors.As(err, &malformedErr):
		return KindMalformedResponse
	case errors.As(err, &apiErr):
		return apiErr.Kind
	default:
		return KindUnexpected
	}
}
