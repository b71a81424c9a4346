package service

import (
	"context"
	"testing"
	"time"

	"powerloop-backend/internal/domain"
	"powerloop-backend/internal/repository"
	"powerloop-backend/internal/security"
	"powerloop-backend/internal/throttle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newAuthFixture(t *testing.T) (*MockUserRepo, *throttle.Guard, AuthService) {
	t.Helper()
	userRepo := new(MockUserRepo)
	guard := throttle.NewGuard(throttle.NewMemoryStore(), 5, 5*time.Minute)
	tokens := security.NewTokenManager(testSecret, time.Hour, 7*24*time.Hour)
	return userRepo, guard, NewAuthService(userRepo, tokens, guard)
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("Success returns tokens", func(t *testing.T) {
		userRepo, _, svc := newAuthFixture(t)
		user := &domain.User{ID: 1, Email: "anna@example.ch", PasswordHash: hashPassword(t, "hunter22")}
		userRepo.On("GetByEmail", ctx, "anna@example.ch").Return(user, nil)

		access, refresh, err := svc.Login(ctx, "dev-1", "anna@example.ch", "hunter22")
		assert.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
	})

	t.Run("Wrong password", func(t *testing.T) {
		userRepo, _, svc := newAuthFixture(t)
		user := &domain.User{ID: 1, Email: "anna@example.ch", PasswordHash: hashPassword(t, "hunter22")}
		userRepo.On("GetByEmail", ctx, "anna@example.ch").Return(user, nil)

		_, _, err := svc.Login(ctx, "dev-1", "anna@example.ch", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Unknown email", func(t *testing.T) {
		userRepo, _, svc := newAuthFixture(t)
		userRepo.On("GetByEmail", ctx, "ghost@example.ch").Return(nil, repository.ErrNotFound)

		_, _, err := svc.Login(ctx, "dev-1", "ghost@example.ch", "whatever")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_LoginThrottle(t *testing.T) {
	ctx := context.Background()

	t.Run("Five failures lock the device", func(t *testing.T) {
		userRepo, _, svc := newAuthFixture(t)
		user := &domain.User{ID: 1, Email: "anna@example.ch", PasswordHash: hashPassword(t, "hunter22")}
		userRepo.On("GetByEmail", ctx, "anna@example.ch").Return(user, nil)

		for i := 0; i < 5; i++ {
			_, _, err := svc.Login(ctx, "dev-1", "anna@example.ch", "wrong")
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		}

		// The sixth attempt is refused before credentials are checked, with
		// the remaining lockout in whole minutes.
		_, _, err := svc.Login(ctx, "dev-1", "anna@example.ch", "hunter22")
		var tooMany *TooManyAttemptsError
		require.ErrorAs(t, err, &tooMany)
		assert.Equal(t, 5, tooMany.RetryAfterMinutes)
		userRepo.AssertNumberOfCalls(t, "GetByEmail", 5)
	})

	t.Run("Locked device does not block other devices", func(t *testing.T) {
		userRepo, guard, svc := newAuthFixture(t)
		user := &domain.User{ID: 1, Email: "anna@example.ch", PasswordHash: hashPassword(t, "hunter22")}
		userRepo.On("GetByEmail", ctx, "anna@example.ch").Return(user, nil)

		for i := 0; i < 5; i++ {
			guard.RecordFailure("dev-1")
		}

		_, _, err := svc.Login(ctx, "dev-2", "anna@example.ch", "hunter22")
		assert.NoError(t, err)
	})

	t.Run("Success resets the counter", func(t *testing.T) {
		userRepo, guard, svc := newAuthFixture(t)
		user := &domain.User{ID: 1, Email: "anna@example.ch", PasswordHash: hashPassword(t, "hunter22")}
		userRepo.On("GetByEmail", ctx, "anna@example.ch").Return(user, nil)

		for i := 0; i < 4; i++ {
			_, _, _ = svc.Login(ctx, "dev-1", "anna@example.ch", "wrong")
		}
		_, _, err := svc.Login(ctx, "dev-1", "anna@example.ch", "hunter22")
		require.NoError(t, err)

		// Four fresh failures stay below the threshold again.
		for i := 0; i < 4; i++ {
			_, _, err := svc.Login(ctx, "dev-1", "anna@example.ch", "wrong")
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		}
		assert.True(t, guard.Check("dev-1").Allowed)
	})
}

func TestAuthService_Signup(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		userRepo, _, svc := newAuthFixture(t)
		userRepo.On("GetByEmail", ctx, "neu@example.ch").Return(nil, repository.ErrNotFound)
		userRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.User).ID = 7
		}).Return(nil)

		user, access, refresh, err := svc.Signup(ctx, "Neu", "neu@example.ch", "+41791234567", "s3cret!!")
		require.NoError(t, err)
		assert.Equal(t, int32(7), user.ID)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		assert.NotEqual(t, "s3cret!!", user.PasswordHash)
	})

	t.Run("Duplicate email", func(t *testing.T) {
		userRepo, _, svc := newAuthFixture(t)
		userRepo.On("GetByEmail", ctx, "anna@example.ch").Return(&domain.User{ID: 1}, nil)

		_, _, _, err := svc.Signup(ctx, "Anna", "anna@example.ch", "", "s3cret!!")
		assert.ErrorIs(t, err, ErrEmailTaken)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctx := context.Background()
	userRepo, _, svc := newAuthFixture(t)
	tokens := security.NewTokenManager(testSecret, time.Hour, 7*24*time.Hour)

	user := &domain.User{ID: 1, Email: "anna@example.ch"}
	userRepo.On("GetByID", ctx, int32(1)).Return(user, nil)

	refresh, err := tokens.GenerateRefreshToken(1, "anna@example.ch")
	require.NoError(t, err)

	access, newRefresh, err := svc.RefreshToken(ctx, refresh)
	assert.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, newRefresh)

	// An access token must not pass as a refresh token.
	accessTok, err := tokens.GenerateAccessToken(1, "anna@example.ch")
	require.NoError(t, err)
	_, _, err = svc.RefreshToken(ctx, accessTok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
