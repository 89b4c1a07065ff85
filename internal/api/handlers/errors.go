package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Jidetireni/adyc-membership/internal/repository"
	svc "github.com/Jidetireni/adyc-membership/internal/services"
)

// statusFor maps service errors onto HTTP. Anything unrecognised is a 500.
func statusFor(err error) (int, string) {
	var apiErr *svc.APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Status, apiErr.Message
	case errors.Is(err, svc.ErrNotFound):
		return http.StatusNotFound, svc.ErrNotFound.Error()
	case errors.Is(err, svc.ErrPostNotFound):
		return http.StatusNotFound, svc.ErrPostNotFound.Error()
	case errors.Is(err, repository.ErrInvalidCursor):
		return http.StatusBadRequest, "invalid pagination cursor"
	case errors.Is(err, svc.ErrAlreadyGenerated):
		return http.StatusConflict, "this member's ID card has already been generated"
	case errors.Is(err, svc.ErrUpstreamUnavailable):
		return http.StatusBadGateway, svc.ErrUpstreamUnavailable.Error()
	default:
		return http.StatusInternalServerError, "the server encountered a problem and could not process your request"
	}
}

func (h *Handlers) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status, message := statusFor(err)

	body := map[string]any{
		"message": message,
		"status":  status,
	}
	var apiErr *svc.APIError
	if errors.As(err, &apiErr) && apiErr.Errors != nil {
		body["errors"] = apiErr.Errors
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
	} else {
		h.logger.Debug().Err(err).Str("path", r.URL.Path).Int("status", status).Msg("request rejected")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error().Err(err).Msg("failed to write error response")
	}
}

func (h *Handlers) unauthorizedError(w http.ResponseWriter, r *http.Request) {
	h.errorResponse(w, r, &svc.APIError{
		Status:  http.StatusUnauthorized,
		Message: "authentication required",
	})
}
