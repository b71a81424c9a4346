package service

import (
	"context"

	"powerloop-backend/internal/domain"
	"powerloop-backend/internal/pricing"
)

type AuthService interface {
	// Signup registers a new account and returns the user with tokens.
	Signup(ctx context.Context, name, email, phone, password string) (*domain.User, string, string, error)
	// Login authenticates credentials. deviceKey identifies the client for
	// attempt throttling; a locked device is refused before credentials are
	// checked.
	Login(ctx context.Context, deviceKey, email, password string) (string, string, error)
	RefreshToken(ctx context.Context, refresh string) (string, string, error)
	Logout(ctx context.Context, refresh string) error
}

type RentalService interface {
	StartRental(ctx context.Context, userID, stationID int32, powerBankSerial string) (*domain.Rental, error)
	// GetEstimate returns the live, still-accruing fee for an active rental.
	GetEstimate(ctx context.Context, userID, rentalID int32) (pricing.FeeResult, error)
	ReturnRental(ctx context.Context, userID, rentalID, returnStationID int32) (*domain.Rental, error)
	GetRental(ctx context.Context, userID, rentalID int32) (*domain.Rental, error)
	ListRentals(ctx context.Context, userID int32, status string, page, pageSize int32) ([]domain.Rental, int32, error)
}

type StationService interface {
	ListStations(ctx context.Context) ([]domain.Station, error)
	GetStation(ctx context.Context, id int32) (*domain.Station, error)
	NearbyStations(ctx context.Context, lat, lng, radiusKm float64) ([]domain.Station, error)
}

type PlanService interface {
	ListPlans(ctx context.Context) ([]domain.Plan, error)
	Subscribe(ctx context.Context, userID, planID int32) (*domain.User, error)
}

type OrderService interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	Checkout(ctx context.Context, userID int32, items []CheckoutItem) (*domain.Order, error)
	GetOrder(ctx context.Context, userID, orderID int32) (*domain.Order, error)
	ListOrders(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Order, int32, error)
}

// CheckoutItem is one line of a store checkout request.
type CheckoutItem struct {
	ProductID int32 `json:"product_id"`
	Quantity  int32 `json:"quantity"`
}

// AdminService is the back-office listing surface.
type AdminService interface {
	ListActiveRentals(ctx context.Context) ([]domain.Rental, error)
	ListStations(ctx context.Context) ([]domain.Station, error)
}

type EmailService interface {
	SendRentalReceipt(ctx context.Context, email, name string, rental *domain.Rental) error
	SendOrderConfirmation(ctx context.Context, email, name string, order *domain.Order) error
	SendOpsSummary(ctx context.Context, email, subject, body string) error
}
