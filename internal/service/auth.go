package service

import (
	"context"
	"errors"

	"powerloop-backend/internal/domain"
	"powerloop-backend/internal/logger"
	"powerloop-backend/internal/repository"
	"powerloop-backend/internal/security"
	"powerloop-backend/internal/throttle"

	"golang.org/x/crypto/bcrypt"
)

type authService struct {
	userRepo repository.UserRepository
	tokens   security.TokenManager
	guard    *throttle.Guard
}

func NewAuthService(userRepo repository.UserRepository, tokens security.TokenManager, guard *throttle.Guard) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		guard:    guard,
	}
}

func (s *authService) Signup(ctx context.Context, name, email, phone, password string) (*domain.User, string, string, error) {
	if existing, err := s.userRepo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, "", "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", err
	}

	user := &domain.User{
		Email:        email,
		PhoneNumber:  phone,
		PasswordHash: string(hash),
		Name:         name,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", "", err
	}

	access, refresh, err := s.generateTokens(user)
	return user, access, refresh, err
}

func (s *authService) Login(ctx context.Context, deviceKey, email, password string) (string, string, error) {
	// Throttle check comes first: a locked device is refused without touching
	// the credential path at all.
	if d := s.guard.Check(deviceKey); !d.Allowed {
		logger.Warn("Login refused by throttle", "device", deviceKey, "retry_after_minutes", d.RemainingMinutes)
		return "", "", &TooManyAttemptsError{RetryAfterMinutes: d.RemainingMinutes}
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		s.guard.RecordFailure(deviceKey)
		return "", "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.guard.RecordFailure(deviceKey)
		return "", "", ErrInvalidCredentials
	}

	s.guard.RecordSuccess(deviceKey)
	return s.generateTokens(user)
}

func (s *authService) RefreshToken(ctx context.Context, refresh string) (string, string, error) {
	claims, err := s.tokens.ValidateToken(refresh)
	if err != nil || claims.Type != security.TokenTypeRefresh {
		return "", "", ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", "", ErrInvalidToken
		}
		return "", "", err
	}

	return s.generateTokens(user)
}

func (s *authService) Logout(ctx context.Context, refresh string) error {
	// Tokens are stateless; a real deployment would blacklist the refresh
	// token here.
	return nil
}

func (s *authService) generateTokens(user *domain.User) (string, string, error) {
	access, err := s.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return "", "", err
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}
