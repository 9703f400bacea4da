package server

import (
	"net/http"

	"weatherfetcher/internal/service"
)

// WeatherHandler is the thin controller over the retrieval use case. All
// outcomes come from the pipeline; the handler only serializes them.
type WeatherHandler struct {
	svc *service.Service
}

// NewWeatherHandler creates a WeatherHandler.
func NewWeatherHandler(svc *service.Service) *WeatherHandler {
	return &WeatherHandler{svc: svc}
}

// Get serves GET /api/v1/weather?city=<name>.
func (h *WeatherHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.GetWeather(r.Context(), r.URL.Query().Get("city"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, rec)
}

// Healthz serves the liveness probe.
func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
