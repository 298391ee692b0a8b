package server

import (
	"context"
	"errors"
	"net/http"

	chirender "github.com/go-chi/render"
	"github.com/leapstack-labs/gdpplot/internal/render"
	"github.com/leapstack-labs/gdpplot/pkg/core"
)

// APIError is the JSON body of every failed API request.
type APIError struct {
	StatusCode int    `json:"status_code"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// Render implements chirender.Renderer.
func (e *APIError) Render(_ http.ResponseWriter, r *http.Request) error {
	chirender.Status(r, e.StatusCode)
	return nil
}

// FieldError describes one rejected query parameter.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func newAPIError(status int, code, msg string) *APIError {
	return &APIError{StatusCode: status, ErrorCode: code, Message: msg}
}

// badRequest reports an unusable query parameter.
func badRequest(msg string, details ...FieldError) *APIError {
	e := newAPIError(http.StatusBadRequest, "INVALID_PARAMETER", msg)
	if len(details) > 0 {
		e.Details = details
	}
	return e
}

// errorFor maps a build error onto an API error by kind.
func errorFor(err error) *APIError {
	var unknownSink *render.UnknownSinkError
	switch {
	case errors.Is(err, core.ErrSourceUnavailable):
		return newAPIError(http.StatusServiceUnavailable, "SOURCE_UNAVAILABLE", err.Error())
	case errors.Is(err, core.ErrSchema):
		return newAPIError(http.StatusUnprocessableEntity, "SCHEMA_ERROR", err.Error())
	case errors.Is(err, core.ErrMalformedValue):
		return newAPIError(http.StatusUnprocessableEntity, "MALFORMED_VALUE", err.Error())
	case errors.As(err, &unknownSink):
		return newAPIError(http.StatusNotFound, "UNKNOWN_SINK", err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return newAPIError(http.StatusServiceUnavailable, "CANCELLED", "request cancelled")
	default:
		return newAPIError(http.StatusInternalServerError, "INTERNAL", "internal server error")
	}
}

// writeError renders err as JSON, mapping plain errors through errorFor.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		apiErr = errorFor(err)
	}
	_ = chirender.Render(w, r, apiErr)
}
