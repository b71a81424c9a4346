package service

import (
	"context"
	"errors"

	"powerloop-backend/internal/domain"
	"powerloop-backend/internal/logger"
	"powerloop-backend/internal/repository"
)

var ErrPlanNotAvailable = errors.New("plan is not available")

type planService struct {
	planRepo repository.PlanRepository
	userRepo repository.UserRepository
}

func NewPlanService(planRepo repository.PlanRepository, userRepo repository.UserRepository) PlanService {
	return &planService{planRepo: planRepo, userRepo: userRepo}
}

func (s *planService) ListPlans(ctx context.Context) ([]domain.Plan, error) {
	return s.planRepo.List(ctx)
}

func (s *planService) Subscribe(ctx context.Context, userID, planID int32) (*domain.User, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if !plan.Active {
		return nil, ErrPlanNotAvailable
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.PlanID = &plan.ID
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	logger.Info("User subscribed to plan", "user_id", userID, "plan_id", planID, "tier", plan.Tier)
	return user, nil
}
