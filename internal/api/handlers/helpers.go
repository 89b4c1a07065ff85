package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Jidetireni/adyc-membership/internal/constants"
	"github.com/Jidetireni/adyc-membership/internal/dto"
	svc "github.com/Jidetireni/adyc-membership/internal/services"
	"github.com/Jidetireni/adyc-membership/internal/services/users"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type envelope map[string]any

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data any, headers http.Header) {
	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]any{
		"data":   data,
		"status": status,
	}); err != nil {
		h.logger.Error().Err(err).Msg("failed to write response")
	}
}

func (h *Handlers) getPaginationParams(r *http.Request) dto.QueryOptions {
	// Default to 20, clamp to [1,100]
	q := dto.QueryOptions{Limit: 20}

	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil && n > 0 {
			q.Limit = uint32(min(n, 100))
		}
	}

	if v := r.URL.Query().Get("cursor"); v != "" {
		q.Cursor = &v
	}

	return q
}

func (h *Handlers) getActivityFilters(r *http.Request) (dto.ActivityLogFilters, error) {
	filters := dto.ActivityLogFilters{}

	if v := r.URL.Query().Get("action"); v != "" {
		if !constants.IsValidActivityAction(v) {
			return filters, &svc.APIError{
				Status:  http.StatusBadRequest,
				Message: "unknown activity action " + strconv.Quote(v),
			}
		}
		filters.Action = &v
	}
	if v := r.URL.Query().Get("actor_email"); v != "" {
		filters.ActorEmail = &v
	}

	return filters, nil
}

func postIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "postID"))
	if err != nil {
		return uuid.Nil, svc.ErrPostNotFound
	}
	return id, nil
}

func principalEmail(r *http.Request) (string, bool) {
	user, ok := users.FromContext(r.Context())
	if !ok {
		return "", false
	}
	return user.Email, true
}
