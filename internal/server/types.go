package server

import "encoding/json"

// HealthResponse is the response for the health endpoint
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// IndexResponse lists the available endpoints
type IndexResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// ValidationErrorResponse is returned when a request fails validation
type ValidationErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details"`
}

// TaxAuthorityErrorResponse wraps a failed DCL call. AADEResponse holds the
// upstream body as received.
type TaxAuthorityErrorResponse struct {
	Error        string `json:"error"`
	Message      string `json:"message"`
	AADEResponse any    `json:"aadeResponse,omitempty"`
}

// ProviderErrorResponse wraps a failed invoicing provider call
type ProviderErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	WrappResponse any    `json:"wrappResponse,omitempty"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// upstreamBody returns a JSON body as raw JSON and anything else as a string
func upstreamBody(body string) any {
	if body == "" {
		return nil
	}
	if json.Valid([]byte(body)) {
		return json.RawMessage(body)
	}
	return body
}
