package service

import (
	"context"

	"powerloop-backend/internal/domain"
	"powerloop-backend/internal/repository"
)

type stationService struct {
	stationRepo repository.StationRepository
}

func NewStationService(stationRepo repository.StationRepository) StationService {
	return &stationService{stationRepo: stationRepo}
}

func (s *stationService) ListStations(ctx context.Context) ([]domain.Station, error) {
	return s.stationRepo.List(ctx)
}

func (s *stationService) GetStation(ctx context.Context, id int32) (*domain.Station, error) {
	return s.stationRepo.GetByID(ctx, id)
}

func (s *stationService) NearbyStations(ctx context.Context, lat, lng, radiusKm float64) ([]domain.Station, error) {
	if radiusKm <= 0 || radiusKm > 50 {
		radiusKm = 5
	}
	return s.stationRepo.Nearby(ctx, lat, lng, radiusKm)
}
