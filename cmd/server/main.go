package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "powerloop-backend/internal/api/http"
	"powerloop-backend/internal/config"
	"powerloop-backend/internal/logger"
	"powerloop-backend/internal/payment"
	"powerloop-backend/internal/repository/postgres"
	"powerloop-backend/internal/security"
	"powerloop-backend/internal/service"
	"powerloop-backend/internal/throttle"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting PowerLoop Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Minute,
	)

	// Login throttle backed by the database so lockouts survive restarts
	guard := throttle.NewGuard(
		postgres.NewThrottleStore(db),
		cfg.Throttle.MaxAttempts,
		time.Duration(cfg.Throttle.LockoutMinutes)*time.Minute,
	)

	// Initialize Payment Provider
	var paymentProvider payment.Provider
	if cfg.Payment.Mock {
		logger.Info("Using mock payment provider")
		paymentProvider = payment.NewMockProvider()
	} else {
		paymentProvider = payment.NewHTTPProvider(
			cfg.Payment.BaseURL,
			cfg.Payment.APIKey,
			time.Duration(cfg.Payment.TimeoutSeconds)*time.Second,
		)
	}

	// Initialize Email Service
	emailSvc := service.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.User,
		cfg.SMTP.Password,
		cfg.SMTP.From,
	)

	// Initialize Services
	authSvc := service.NewAuthService(store.UserRepository, tokenManager, guard)
	rentalSvc := service.NewRentalService(
		store.RentalRepository,
		store.StationRepository,
		store.PlanRepository,
		store.UserRepository,
		paymentProvider,
		emailSvc,
		cfg.Pricing.Currency,
	)
	stationSvc := service.NewStationService(store.StationRepository)
	planSvc := service.NewPlanService(store.PlanRepository, store.UserRepository)
	adminSvc := service.NewAdminService(store.RentalRepository, store.StationRepository)
	orderSvc := service.NewOrderService(
		store.OrderRepository,
		store.ProductRepository,
		store.UserRepository,
		paymentProvider,
		emailSvc,
		cfg.Pricing.Currency,
	)

	// Set up HTTP server
	router := httpapi.NewRouter(httpapi.Services{
		Auth:    authSvc,
		Rentals: rentalSvc,
		Station: stationSvc,
		Plans:   planSvc,
		Orders:  orderSvc,
		Admin:   adminSvc,
		Tokens:  tokenManager,

		AdminKey: cfg.Server.AdminAPIKey,
	})

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}
