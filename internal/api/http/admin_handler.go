package http

import (
	"crypto/subtle"
	"net/http"

	"powerloop-backend/internal/service"

	"github.com/gorilla/mux"
)

// AdminHandler serves the back-office listing endpoints. Access is gated by a
// static key from config rather than user tokens.
type AdminHandler struct {
	adminSvc service.AdminService
}

func NewAdminHandler(adminSvc service.AdminService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc}
}

// AdminKeyMiddleware checks the X-Admin-Key header against the configured
// key. An empty configured key disables the admin surface entirely.
func AdminKeyMiddleware(key string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				writeError(w, http.StatusNotFound, "Not found")
				return
			}
			provided := r.Header.Get("X-Admin-Key")
			if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
				writeError(w, http.StatusUnauthorized, "Invalid admin key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (h *AdminHandler) ListActiveRentals(w http.ResponseWriter, r *http.Request) {
	rentals, err := h.adminSvc.ListActiveRentals(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rentals": rentals,
		"count":   len(rentals),
	})
}

func (h *AdminHandler) ListStations(w http.ResponseWriter, r *http.Request) {
	stations, err := h.adminSvc.ListStations(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"stations": stations,
		"count":    len(stations),
	})
}
