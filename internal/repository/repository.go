package repository

import (
	"context"
	"errors"

	"powerloop-backend/internal/domain"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type PlanRepository interface {
	List(ctx context.Context) ([]domain.Plan, error)
	GetByID(ctx context.Context, id int32) (*domain.Plan, error)
}

type StationRepository interface {
	List(ctx context.Context) ([]domain.Station, error)
	GetByID(ctx context.Context, id int32) (*domain.Station, error)
	Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]domain.Station, error)
	AdjustAvailableSlots(ctx context.Context, id int32, delta int32) error
}

type RentalRepository interface {
	Create(ctx context.Context, rental *domain.Rental) error
	GetByID(ctx context.Context, id int32) (*domain.Rental, error)
	GetActiveByUser(ctx context.Context, userID int32) (*domain.Rental, error)
	Update(ctx context.Context, rental *domain.Rental) error
	ListByUser(ctx context.Context, userID int32, status string, page, pageSize int32) ([]domain.Rental, int32, error)
	ListActive(ctx context.Context) ([]domain.Rental, error)
}

type ProductRepository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id int32) (*domain.Product, error)
	AdjustStock(ctx context.Context, id int32, delta int32) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id int32) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Order, int32, error)
}
