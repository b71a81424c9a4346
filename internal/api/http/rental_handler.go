package http

import (
	"net/http"

	"powerloop-backend/internal/pricing"
	"powerloop-backend/internal/service"
)

// RentalHandler serves the rental lifecycle for the authenticated user.
type RentalHandler struct {
	rentalSvc service.RentalService
}

func NewRentalHandler(rentalSvc service.RentalService) *RentalHandler {
	return &RentalHandler{rentalSvc: rentalSvc}
}

type startRentalRequest struct {
	StationID       int32  `json:"station_id"`
	PowerBankSerial string `json:"powerbank_serial"`
}

func (h *RentalHandler) Start(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req startRentalRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.StationID < 1 {
		writeError(w, http.StatusBadRequest, "station_id is required")
		return
	}

	rental, err := h.rentalSvc.StartRental(r.Context(), claims.UserID, req.StationID, req.PowerBankSerial)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rental)
}

type estimateResponse struct {
	RentalID      int32  `json:"rental_id"`
	ElapsedHours  int32  `json:"elapsed_hours"`
	TotalCents    int32  `json:"total_cents"`
	TotalDisplay  string `json:"total_display"`
	MaxReachedCap bool   `json:"max_reached_cap"`
}

func (h *RentalHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rental id")
		return
	}

	rental, err := h.rentalSvc.GetRental(r.Context(), claims.UserID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	fees, err := h.rentalSvc.GetEstimate(r.Context(), claims.UserID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, estimateResponse{
		RentalID:      id,
		ElapsedHours:  fees.ElapsedHours,
		TotalCents:    fees.TotalCents,
		TotalDisplay:  pricing.FormatCurrency(fees.TotalCents),
		MaxReachedCap: fees.TotalCents >= rental.MaxPreAuthCents,
	})
}

type returnRentalRequest struct {
	StationID int32 `json:"station_id"`
}

func (h *RentalHandler) Return(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rental id")
		return
	}

	var req returnRentalRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.StationID < 1 {
		writeError(w, http.StatusBadRequest, "station_id is required")
		return
	}

	rental, err := h.rentalSvc.ReturnRental(r.Context(), claims.UserID, id, req.StationID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rental id")
		return
	}

	rental, err := h.rentalSvc.GetRental(r.Context(), claims.UserID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	page := queryInt32(r, "page", 1)
	pageSize := queryInt32(r, "page_size", 20)
	status := r.URL.Query().Get("status")

	rentals, total, err := h.rentalSvc.ListRentals(r.Context(), claims.UserID, status, page, pageSize)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rentals": rentals,
		"total":   total,
		"page":    page,
	})
}
