package server

import (
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/rezonia/mydata-gateway/internal/model"
)

// writeError maps an error to its HTTP status and response body
func (s *Server) writeError(c *gin.Context, err error) {
	var (
		validationErr *model.ValidationError
		apiErr        *model.APIError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{
			Error:   "Validation Error",
			Details: validationErr.Details,
		})

	case errors.Is(err, model.ErrBillingBookNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "Not Found",
			Message: err.Error(),
		})

	case errors.As(err, &apiErr):
		status := apiErr.HTTPStatus()
		log.Warn().
			Str("request_id", c.GetString(RequestIDKey)).
			Str("kind", apiErr.Kind.String()).
			Str("op", apiErr.Op).
			Int("upstream_status", apiErr.StatusCode).
			Err(err).
			Msg("upstream call failed")

		if apiErr.Kind == model.KindProvider {
			c.JSON(status, ProviderErrorResponse{
				Error:         "Wrapp API Error",
				Message:       err.Error(),
				WrappResponse: upstreamBody(apiErr.Body),
			})
			return
		}
		c.JSON(status, TaxAuthorityErrorResponse{
			Error:        "AADE API Error",
			Message:      err.Error(),
			AADEResponse: upstreamBody(apiErr.Body),
		})

	default:
		log.Error().
			Str("request_id", c.GetString(RequestIDKey)).
			Str("path", c.FullPath()).
			Err(err).
			Msg("unexpected error")

		hub := sentrygin.GetHubFromContext(c)
		if hub == nil {
			hub = sentry.CurrentHub()
		}
		hub.CaptureException(err)

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Internal Server Error",
			Message: internalMessage(s.config.Production, err.Error()),
		})
	}
}

func internalMessage(production bool, message string) string {
	if production {
		return "An unexpected error occurred"
	}
	return message
}
