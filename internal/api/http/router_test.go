package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"powerloop-backend/internal/domain"
	"powerloop-backend/internal/pricing"
	"powerloop-backend/internal/security"
	"powerloop-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthService struct {
	loginFn  func(ctx context.Context, deviceKey, email, password string) (string, string, error)
	signupFn func(ctx context.Context, name, email, phone, password string) (*domain.User, string, string, error)
}

func (s *stubAuthService) Signup(ctx context.Context, name, email, phone, password string) (*domain.User, string, string, error) {
	return s.signupFn(ctx, name, email, phone, password)
}
func (s *stubAuthService) Login(ctx context.Context, deviceKey, email, password string) (string, string, error) {
	return s.loginFn(ctx, deviceKey, email, password)
}
func (s *stubAuthService) RefreshToken(ctx context.Context, refresh string) (string, string, error) {
	return "", "", service.ErrInvalidToken
}
func (s *stubAuthService) Logout(ctx context.Context, refresh string) error { return nil }

type stubRentalService struct {
	startFn    func(ctx context.Context, userID, stationID int32, serial string) (*domain.Rental, error)
	estimateFn func(ctx context.Context, userID, rentalID int32) (pricing.FeeResult, error)
	returnFn   func(ctx context.Context, userID, rentalID, stationID int32) (*domain.Rental, error)
	getFn      func(ctx context.Context, userID, rentalID int32) (*domain.Rental, error)
}

func (s *stubRentalService) StartRental(ctx context.Context, userID, stationID int32, serial string) (*domain.Rental, error) {
	return s.startFn(ctx, userID, stationID, serial)
}
func (s *stubRentalService) GetEstimate(ctx context.Context, userID, rentalID int32) (pricing.FeeResult, error) {
	return s.estimateFn(ctx, userID, rentalID)
}
func (s *stubRentalService) ReturnRental(ctx context.Context, userID, rentalID, stationID int32) (*domain.Rental, error) {
	return s.returnFn(ctx, userID, rentalID, stationID)
}
func (s *stubRentalService) GetRental(ctx context.Context, userID, rentalID int32) (*domain.Rental, error) {
	return s.getFn(ctx, userID, rentalID)
}
func (s *stubRentalService) ListRentals(ctx context.Context, userID int32, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	return nil, 0, nil
}

type stubAdminService struct{}

func (s *stubAdminService) ListActiveRentals(ctx context.Context) ([]domain.Rental, error) {
	return []domain.Rental{{ID: 1, Status: domain.RentalStatusActive}}, nil
}
func (s *stubAdminService) ListStations(ctx context.Context) ([]domain.Station, error) {
	return nil, nil
}

func newTestRouter(t *testing.T, auth service.AuthService, rentals service.RentalService) (http.Handler, security.TokenManager) {
	t.Helper()
	tokens := security.NewTokenManager("0123456789abcdef0123456789abcdef", time.Hour, 24*time.Hour)
	router := NewRouter(Services{
		Auth:     auth,
		Rentals:  rentals,
		Admin:    &stubAdminService{},
		Tokens:   tokens,
		AdminKey: "test-admin-key",
	})
	return router, tokens
}

func postJSON(t *testing.T, handler http.Handler, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestLoginEndpoint(t *testing.T) {
	t.Run("Success returns token pair", func(t *testing.T) {
		auth := &stubAuthService{
			loginFn: func(ctx context.Context, deviceKey, email, password string) (string, string, error) {
				assert.NotEmpty(t, deviceKey)
				return "acc", "ref", nil
			},
		}
		router, _ := newTestRouter(t, auth, &stubRentalService{})

		rec := postJSON(t, router, "/api/v1/auth/login", "", loginRequest{Email: "anna@example.ch", Password: "pw"})
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp tokenResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "acc", resp.AccessToken)
		assert.Equal(t, "ref", resp.RefreshToken)
	})

	t.Run("Locked device maps to 429 with Retry-After", func(t *testing.T) {
		auth := &stubAuthService{
			loginFn: func(ctx context.Context, deviceKey, email, password string) (string, string, error) {
				return "", "", &service.TooManyAttemptsError{RetryAfterMinutes: 3}
			},
		}
		router, _ := newTestRouter(t, auth, &stubRentalService{})

		rec := postJSON(t, router, "/api/v1/auth/login", "", loginRequest{Email: "anna@example.ch", Password: "pw"})
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "180", rec.Header().Get("Retry-After"))
	})

	t.Run("Bad credentials map to 401", func(t *testing.T) {
		auth := &stubAuthService{
			loginFn: func(ctx context.Context, deviceKey, email, password string) (string, string, error) {
				return "", "", service.ErrInvalidCredentials
			},
		}
		router, _ := newTestRouter(t, auth, &stubRentalService{})

		rec := postJSON(t, router, "/api/v1/auth/login", "", loginRequest{Email: "anna@example.ch", Password: "pw"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("X-Device-ID drives the throttle key", func(t *testing.T) {
		var seenKey string
		auth := &stubAuthService{
			loginFn: func(ctx context.Context, deviceKey, email, password string) (string, string, error) {
				seenKey = deviceKey
				return "acc", "ref", nil
			},
		}
		router, _ := newTestRouter(t, auth, &stubRentalService{})

		raw, _ := json.Marshal(loginRequest{Email: "anna@example.ch", Password: "pw"})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(raw))
		req.Header.Set("X-Device-ID", "dev-42")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "dev-42", seenKey)
	})
}

func TestRentalEndpoints(t *testing.T) {
	startTime := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	t.Run("Start requires a token", func(t *testing.T) {
		router, _ := newTestRouter(t, &stubAuthService{}, &stubRentalService{})

		rec := postJSON(t, router, "/api/v1/rentals", "", startRentalRequest{StationID: 1})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Start forwards the authenticated user", func(t *testing.T) {
		rentals := &stubRentalService{
			startFn: func(ctx context.Context, userID, stationID int32, serial string) (*domain.Rental, error) {
				assert.Equal(t, int32(7), userID)
				assert.Equal(t, int32(3), stationID)
				return &domain.Rental{ID: 11, UserID: userID, StationID: stationID, StartTime: startTime, Status: domain.RentalStatusActive}, nil
			},
		}
		router, tokens := newTestRouter(t, &stubAuthService{}, rentals)
		token, err := tokens.GenerateAccessToken(7, "anna@example.ch")
		require.NoError(t, err)

		rec := postJSON(t, router, "/api/v1/rentals", token, startRentalRequest{StationID: 3, PowerBankSerial: "PB-1042"})
		assert.Equal(t, http.StatusCreated, rec.Code)

		var rental domain.Rental
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rental))
		assert.Equal(t, int32(11), rental.ID)
	})

	t.Run("Refresh token is rejected on protected routes", func(t *testing.T) {
		router, tokens := newTestRouter(t, &stubAuthService{}, &stubRentalService{})
		refresh, err := tokens.GenerateRefreshToken(7, "anna@example.ch")
		require.NoError(t, err)

		rec := postJSON(t, router, "/api/v1/rentals", refresh, startRentalRequest{StationID: 3})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Estimate formats the running total", func(t *testing.T) {
		rentals := &stubRentalService{
			getFn: func(ctx context.Context, userID, rentalID int32) (*domain.Rental, error) {
				return &domain.Rental{ID: rentalID, UserID: userID, MaxPreAuthCents: 1000, Status: domain.RentalStatusActive}, nil
			},
			estimateFn: func(ctx context.Context, userID, rentalID int32) (pricing.FeeResult, error) {
				return pricing.FeeResult{ElapsedHours: 2, TotalCents: 400}, nil
			},
		}
		router, tokens := newTestRouter(t, &stubAuthService{}, rentals)
		token, err := tokens.GenerateAccessToken(7, "anna@example.ch")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/rentals/11/estimate", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp estimateResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int32(2), resp.ElapsedHours)
		assert.Equal(t, "4.00 CHF", resp.TotalDisplay)
		assert.False(t, resp.MaxReachedCap)
	})

	t.Run("Admin routes require the configured key", func(t *testing.T) {
		router, _ := newTestRouter(t, &stubAuthService{}, &stubRentalService{})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/rentals", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		req.Header.Set("X-Admin-Key", "test-admin-key")
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Return maps a finished rental to 409", func(t *testing.T) {
		rentals := &stubRentalService{
			returnFn: func(ctx context.Context, userID, rentalID, stationID int32) (*domain.Rental, error) {
				return nil, service.ErrRentalNotActive
			},
		}
		router, tokens := newTestRouter(t, &stubAuthService{}, rentals)
		token, err := tokens.GenerateAccessToken(7, "anna@example.ch")
		require.NoError(t, err)

		rec := postJSON(t, router, "/api/v1/rentals/11/return", token, returnRentalRequest{StationID: 5})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}
