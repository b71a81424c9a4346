package postgres

import (
	"database/sql"

	"powerloop-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.PlanRepository
	repository.StationRepository
	repository.RentalRepository
	repository.ProductRepository
	repository.OrderRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                db,
		UserRepository:    NewUserRepository(db),
		PlanRepository:    NewPlanRepository(db),
		StationRepository: NewStationRepository(db),
		RentalRepository:  NewRentalRepository(db),
		ProductRepository: NewProductRepository(db),
		OrderRepository:   NewOrderRepository(db),
	}
}
