package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"powerloop-backend/internal/config"
	"powerloop-backend/internal/jobs"
	"powerloop-backend/internal/logger"
	"powerloop-backend/internal/payment"
	"powerloop-backend/internal/repository/postgres"
	"powerloop-backend/internal/scheduler"
	"powerloop-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'settle-capped-rentals', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting PowerLoop Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
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
	throttleStore := postgres.NewThrottleStore(db)

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

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(db, store, throttleStore, paymentProvider, emailSvc, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "settle-capped-rentals":
		jobRunner.SettleCappedRentals()
	case "purge-expired-lockouts":
		jobRunner.PurgeExpiredLockouts()
	case "send-daily-revenue-summary":
		jobRunner.SendDailyRevenueSummary()
	case "all":
		jobRunner.RunAll()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - settle-capped-rentals\n")
		fmt.Printf("  - purge-expired-lockouts\n")
		fmt.Printf("  - send-daily-revenue-summary\n")
		fmt.Printf("  - all\n")
		os.Exit(1)
	}
}
