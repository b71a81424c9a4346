package http

import (
	"net/http"

	"powerloop-backend/internal/security"
	"powerloop-backend/internal/service"

	"github.com/gorilla/mux"
)

// Services bundles everything the router needs.
type Services struct {
	Auth    service.AuthService
	Rentals service.RentalService
	Station service.StationService
	Plans   service.PlanService
	Orders  service.OrderService
	Admin   service.AdminService
	Tokens  security.TokenManager

	// AdminKey gates the back-office routes; empty disables them.
	AdminKey string
}

// NewRouter builds the full API route table under /api/v1.
func NewRouter(s Services) *mux.Router {
	router := mux.NewRouter()
	router.Use(LoggingMiddleware)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()

	authHandler := NewAuthHandler(s.Auth)
	api.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/auth/refresh", authHandler.Refresh).Methods("POST")
	api.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST")

	stationHandler := NewStationHandler(s.Station)
	api.HandleFunc("/stations", stationHandler.List).Methods("GET")
	api.HandleFunc("/stations/{id:[0-9]+}", stationHandler.Get).Methods("GET")

	planHandler := NewPlanHandler(s.Plans)
	api.HandleFunc("/plans", planHandler.List).Methods("GET")

	storeHandler := NewStoreHandler(s.Orders)
	api.HandleFunc("/products", storeHandler.ListProducts).Methods("GET")

	// Everything below needs a valid access token.
	protected := api.NewRoute().Subrouter()
	protected.Use(AuthMiddleware(s.Tokens))

	protected.HandleFunc("/plans/{id:[0-9]+}/subscribe", planHandler.Subscribe).Methods("POST")

	rentalHandler := NewRentalHandler(s.Rentals)
	protected.HandleFunc("/rentals", rentalHandler.Start).Methods("POST")
	protected.HandleFunc("/rentals", rentalHandler.List).Methods("GET")
	protected.HandleFunc("/rentals/{id:[0-9]+}", rentalHandler.Get).Methods("GET")
	protected.HandleFunc("/rentals/{id:[0-9]+}/estimate", rentalHandler.Estimate).Methods("GET")
	protected.HandleFunc("/rentals/{id:[0-9]+}/return", rentalHandler.Return).Methods("POST")

	protected.HandleFunc("/orders", storeHandler.Checkout).Methods("POST")
	protected.HandleFunc("/orders", storeHandler.ListOrders).Methods("GET")
	protected.HandleFunc("/orders/{id:[0-9]+}", storeHandler.GetOrder).Methods("GET")

	// Back-office listing surface, gated by a static key.
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(AdminKeyMiddleware(s.AdminKey))

	adminHandler := NewAdminHandler(s.Admin)
	admin.HandleFunc("/rentals", adminHandler.ListActiveRentals).Methods("GET")
	admin.HandleFunc("/stations", adminHandler.ListStations).Methods("GET")

	return router
}
