package service

import (
	"context"
	"errors"
	"time"

	"powerloop-backend/internal/domain"
	"powerloop-backend/internal/logger"
	"powerloop-backend/internal/payment"
	"powerloop-backend/internal/pricing"
	"powerloop-backend/internal/repository"

	"github.com/google/uuid"
)

type rentalService struct {
	rentalRepo  repository.RentalRepository
	stationRepo repository.StationRepository
	planRepo    repository.PlanRepository
	userRepo    repository.UserRepository
	payments    payment.Provider
	emailSvc    EmailService
	currency    string
	now         func() time.Time
}

func NewRentalService(
	rentalRepo repository.RentalRepository,
	stationRepo repository.StationRepository,
	planRepo repository.PlanRepository,
	userRepo repository.UserRepository,
	payments payment.Provider,
	emailSvc EmailService,
	currency string,
) RentalService {
	return &rentalService{
		rentalRepo:  rentalRepo,
		stationRepo: stationRepo,
		planRepo:    planRepo,
		userRepo:    userRepo,
		payments:    payments,
		emailSvc:    emailSvc,
		currency:    currency,
		now:         time.Now,
	}
}

func (s *rentalService) StartRental(ctx context.Context, userID, stationID int32, powerBankSerial string) (*domain.Rental, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.PlanID == nil {
		return nil, ErrPlanRequired
	}

	plan, err := s.planRepo.GetByID(ctx, *user.PlanID)
	if err != nil {
		return nil, err
	}

	if _, err := s.rentalRepo.GetActiveByUser(ctx, userID); err == nil {
		return nil, ErrRentalInProgress
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	station, err := s.stationRepo.GetByID(ctx, stationID)
	if err != nil {
		return nil, err
	}
	if station.Status != domain.StationStatusOnline {
		return nil, ErrStationUnavailable
	}
	if station.AvailableSlots <= 0 {
		return nil, ErrNoFreeSlot
	}

	// Hold the full plan ceiling up front; settlement can only go down from
	// here, never up.
	ref, err := s.payments.Authorize(ctx, plan.MaxPreAuthCents, s.currency, uuid.NewString())
	if err != nil {
		return nil, err
	}

	rental := &domain.Rental{
		UserID:          userID,
		StationID:       stationID,
		PlanID:          plan.ID,
		PowerBankSerial: powerBankSerial,
		StartTime:       s.now(),
		HourlyRateCents: plan.HourlyRateCents,
		MaxPreAuthCents: plan.MaxPreAuthCents,
		PreAuthRef:      ref,
		Status:          domain.RentalStatusActive,
	}

	if err := s.rentalRepo.Create(ctx, rental); err != nil {
		// The hold must not outlive a failed rental.
		if relErr := s.payments.Release(ctx, ref); relErr != nil {
			logger.Error("Failed to release hold after rental create failure", "ref", ref, "error", relErr)
		}
		return nil, err
	}

	if err := s.stationRepo.AdjustAvailableSlots(ctx, stationID, -1); err != nil {
		logger.Error("Failed to decrement station slots", "station_id", stationID, "error", err)
	}

	logger.Info("Rental started", "rental_id", rental.ID, "user_id", userID, "station_id", stationID,
		"max_preauth", pricing.FormatCurrency(plan.MaxPreAuthCents))
	return rental, nil
}

func (s *rentalService) GetEstimate(ctx context.Context, userID, rentalID int32) (pricing.FeeResult, error) {
	rental, err := s.getOwned(ctx, userID, rentalID)
	if err != nil {
		return pricing.FeeResult{}, err
	}
	if rental.Status != domain.RentalStatusActive {
		return pricing.FeeResult{}, ErrRentalNotActive
	}
	return pricing.CalculateRentalFeesAt(rental.StartTime, s.now(), rental.HourlyRateCents, rental.MaxPreAuthCents), nil
}

func (s *rentalService) ReturnRental(ctx context.Context, userID, rentalID, returnStationID int32) (*domain.Rental, error) {
	rental, err := s.getOwned(ctx, userID, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.Status != domain.RentalStatusActive {
		return nil, ErrRentalNotActive
	}

	if _, err := s.stationRepo.GetByID(ctx, returnStationID); err != nil {
		return nil, err
	}

	end := s.now()
	fees := pricing.CalculateRentalFeesAt(rental.StartTime, end, rental.HourlyRateCents, rental.MaxPreAuthCents)

	if fees.TotalCents > 0 {
		if err := s.payments.Capture(ctx, rental.PreAuthRef, fees.TotalCents); err != nil {
			return nil, err
		}
	} else {
		if err := s.payments.Release(ctx, rental.PreAuthRef); err != nil {
			return nil, err
		}
	}

	rental.EndTime = &end
	rental.ReturnStationID = &returnStationID
	rental.FinalAmountCents = fees.TotalCents
	rental.Status = domain.RentalStatusCompleted

	if err := s.rentalRepo.Update(ctx, rental); err != nil {
		return nil, err
	}

	if err := s.stationRepo.AdjustAvailableSlots(ctx, returnStationID, 1); err != nil {
		logger.Error("Failed to increment station slots", "station_id", returnStationID, "error", err)
	}

	// Receipt mail is best effort.
	if user, uerr := s.userRepo.GetByID(ctx, userID); uerr == nil {
		if merr := s.emailSvc.SendRentalReceipt(ctx, user.Email, user.Name, rental); merr != nil {
			logger.Warn("Failed to send rental receipt", "rental_id", rental.ID, "error", merr)
		}
	}

	logger.Info("Rental completed", "rental_id", rental.ID, "elapsed_hours", fees.ElapsedHours,
		"amount", pricing.FormatCurrency(fees.TotalCents))
	return rental, nil
}

func (s *rentalService) GetRental(ctx context.Context, userID, rentalID int32) (*domain.Rental, error) {
	return s.getOwned(ctx, userID, rentalID)
}

func (s *rentalService) ListRentals(ctx context.Context, userID int32, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.rentalRepo.ListByUser(ctx, userID, status, page, pageSize)
}

func (s *rentalService) getOwned(ctx context.Context, userID, rentalID int32) (*domain.Rental, error) {
	rental, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRentalNotFound
		}
		return nil, err
	}
	if rental.UserID != userID {
		return nil, ErrForbidden
	}
	return rental, nil
}
