package handlers

import "net/http"

func (h *Handlers) ListActivityLogs(w http.ResponseWriter, r *http.Request) {
	filters, err := h.getActivityFilters(r)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	logs, err := h.activity.List(r.Context(), filters, h.getPaginationParams(r))
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, logs, nil)
}
