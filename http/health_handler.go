package http

import (
	"net/http"

	"loan-predictor/service"
)

type healthStatus struct {
	Status       string `json:"status"`
	ModelsLoaded bool   `json:"models_loaded"`
}

type HealthHandler struct {
	service *service.PredictionService
}

func NewHealthHandler(service *service.PredictionService) *HealthHandler {
	return &HealthHandler{service: service}
}

// Health reports 503 while the model bundle is absent so orchestrators can
// tell a degraded instance from a healthy one.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}

	if !h.service.Ready() {
		writeJSON(w, http.StatusServiceUnavailable, healthStatus{Status: "degraded"})
		return
	}
	writeJSON(w, http.StatusOK, healthStatus{Status: "ok", ModelsLoaded: true})
}
