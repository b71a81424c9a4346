package service

import (
	"context"

	"powerloop-backend/internal/domain"
	"powerloop-backend/internal/repository"
)

type adminService struct {
	rentalRepo  repository.RentalRepository
	stationRepo repository.StationRepository
}

func NewAdminService(rentalRepo repository.RentalRepository, stationRepo repository.StationRepository) AdminService {
	return &adminService{
		rentalRepo:  rentalRepo,
		stationRepo: stationRepo,
	}
}

func (s *adminService) ListActiveRentals(ctx context.Context) ([]domain.Rental, error) {
	return s.rentalRepo.ListActive(ctx)
}

func (s *adminService) ListStations(ctx context.Context) ([]domain.Station, error) {
	return s.stationRepo.List(ctx)
}
