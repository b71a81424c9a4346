package http

import (
	"net/http"

	"powerloop-backend/internal/service"
)

// StoreHandler serves the accessory storefront: product catalog and orders.
type StoreHandler struct {
	orderSvc service.OrderService
}

func NewStoreHandler(orderSvc service.OrderService) *StoreHandler {
	return &StoreHandler{orderSvc: orderSvc}
}

func (h *StoreHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.orderSvc.ListProducts(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"products": products,
		"count":    len(products),
	})
}

type checkoutRequest struct {
	Items []service.CheckoutItem `json:"items"`
}

func (h *StoreHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req checkoutRequest
	if !decodeBody(w, r, &req) {
		return
	}

	order, err := h.orderSvc.Checkout(r.Context(), claims.UserID, req.Items)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *StoreHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid order id")
		return
	}

	order, err := h.orderSvc.GetOrder(r.Context(), claims.UserID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *StoreHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	page := queryInt32(r, "page", 1)
	pageSize := queryInt32(r, "page_size", 20)

	orders, total, err := h.orderSvc.ListOrders(r.Context(), claims.UserID, page, pageSize)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"orders": orders,
		"total":  total,
		"page":   page,
	})
}
