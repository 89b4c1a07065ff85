package handlers

import "net/http"

func (h *Handlers) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	resp := envelope{
		"status": "available",
		"system_info": map[string]string{
			"environment": h.config.Server.Env,
			"version":     "1.0.0",
		},
	}

	h.writeJSON(w, http.StatusOK, resp, nil)
}
