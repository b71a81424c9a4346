package jobs

import (
	"database/sql"

	"powerloop-backend/internal/config"
	"powerloop-backend/internal/logger"
	"powerloop-backend/internal/payment"
	"powerloop-backend/internal/repository/postgres"
	"powerloop-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	db            *sql.DB
	store         *postgres.Store
	throttleStore *postgres.ThrottleStore
	payments      payment.Provider
	emailSvc      service.EmailService
	config        *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(
	db *sql.DB,
	store *postgres.Store,
	throttleStore *postgres.ThrottleStore,
	payments payment.Provider,
	emailSvc service.EmailService,
	cfg *config.Config,
) *JobRunner {
	return &JobRunner{
		db:            db,
		store:         store,
		throttleStore: throttleStore,
		payments:      payments,
		emailSvc:      emailSvc,
		config:        cfg,
	}
}

// Config exposes the configuration for schedule registration
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAll runs every job once (for manual execution from the cronjob binary)
func (jr *JobRunner) RunAll() {
	jr.SettleCappedRentals()
	jr.PurgeExpiredLockouts()
	jr.SendDailyRevenueSummary()
}
