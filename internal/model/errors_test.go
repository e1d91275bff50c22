package model_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rezonia/mydata-gateway/internal/model"
)

func TestKindOf(t *testing.T) {
	malformed := model.NewMalformedResponseError("submit", errors.New("EOF"))

	tests := []struct {
		name string
		err  error
		want model.ErrorKind
	}{
		{"validation", model.NewValidationError([]string{"branch is required"}), model.KindValidation},
		{"tax authority", model.NewTaxAuthorityError("SendClient", 400, "<x/>", nil), model.KindTaxAuthority},
		{"provider", model.NewProviderError("CreateInvoice", 422, "{}", nil), model.KindProvider},
		{"malformed", malformed, model.KindMalformedResponse},
		{"malformed wrapped in api error", model.NewTaxAuthorityError("SendClient", 200, "oops", malformed), model.KindMalformedResponse},
		{"wrapped validation", fmt.Errorf("create: %w", model.NewValidationError(nil)), model.KindValidation},
		{"plain", errors.New("boom"), model.KindUnexpected},
		{"nil", nil, model.KindUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, model.KindOf(tt.err))
		})
	}
}

func TestAPIError_HTTPStatus(t *testing.T) {
	tests := []struct {
		status int
		want   int
	}{
		{400, 400},
		{404, 404},
		{500, 500},
		{599, 599},
		{0, 502},
		{302, 502},
		{600, 502},
	}

	for _, tt := range tests {
		err := model.NewTaxAuthorityError("SendClient", tt.status, "", nil)
		assert.Equal(t, tt.want, err.HTTPStatus(), "status %d", tt.status)
	}
}

func TestAPIError_Message(t *testing.T) {
	err := model.NewProviderError("login", 0, "", model.ErrMissingCredentials)
	assert.Contains(t, err.Error(), "Wrapp API error (login)")
	assert.ErrorIs(t, err, model.ErrMissingCredentials)

	err = model.NewTaxAuthorityError("CancelClient", 404, "not found", nil)
	assert.Equal(t, "AADE API error (CancelClient): status 404", err.Error())
}

func TestValidationError_Message(t *testing.T) {
	err := model.NewValidationError([]string{"a is required", "b is required"})
	assert.Equal(t, "validation failed: a is required; b is required", err.Error())
	assert.Equal(t, "validation failed", model.NewValidationError(nil).Error())
}
