package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/hiring-pipeline/internal/extraction"
	"github.com/jonathan/hiring-pipeline/internal/lifecycle"
	"github.com/jonathan/hiring-pipeline/internal/llm"
	"github.com/jonathan/hiring-pipeline/internal/pipeline"
)

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var notFound *pipeline.NotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound
	}
	var precondition *pipeline.PreconditionError
	if errors.As(err, &precondition) {
		return http.StatusBadRequest
	}
	var transition *lifecycle.IllegalTransitionError
	if errors.As(err, &transition) {
		return http.StatusBadRequest
	}
	var extractErr *extraction.ExtractionError
	if errors.As(err, &extractErr) {
		return http.StatusUnprocessableEntity
	}
	var unavailable *llm.UnavailableError
	if errors.As(err, &unavailable) {
		switch unavailable.Kind {
		case llm.KindRateLimit:
			return http.StatusTooManyRequests
		case llm.KindQuota:
			return http.StatusPaymentRequired
		default:
			return http.StatusServiceUnavailable
		}
	}
	return http.StatusInternalServerError
}
