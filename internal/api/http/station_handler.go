package http

import (
	"net/http"
	"strconv"

	"powerloop-backend/internal/service"
)

// StationHandler serves the public station directory.
type StationHandler struct {
	stationSvc service.StationService
}

func NewStationHandler(stationSvc service.StationService) *StationHandler {
	return &StationHandler{stationSvc: stationSvc}
}

func (h *StationHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("lat") != "" || q.Get("lng") != "" {
		h.nearby(w, r)
		return
	}

	stations, err := h.stationSvc.ListStations(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"stations": stations,
		"count":    len(stations),
	})
}

func (h *StationHandler) nearby(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(q.Get("lng"), 64)
	if latErr != nil || lngErr != nil {
		writeError(w, http.StatusBadRequest, "lat and lng must both be valid coordinates")
		return
	}

	radiusKm := 2.0
	if raw := q.Get("radius_km"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 {
			radiusKm = v
		}
	}

	stations, err := h.stationSvc.NearbyStations(r.Context(), lat, lng, radiusKm)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"stations": stations,
		"count":    len(stations),
	})
}

func (h *StationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid station id")
		return
	}

	station, err := h.stationSvc.GetStation(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, station)
}
