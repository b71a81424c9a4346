package jobs

import (
	"time"

	"powerloop-backend/internal/logger"
)

// PurgeExpiredLockouts reclaims throttle rows for devices that never came
// back after a lockout. Live lockouts clear themselves lazily on the next
// login check, so a generous cutoff is safe.
func (jr *JobRunner) PurgeExpiredLockouts() {
	jr.runWithRecovery("PurgeExpiredLockouts", func() {
		purged, err := jr.throttleStore.Purge(24 * time.Hour)
		if err != nil {
			logger.Error("Failed to purge throttle state", "error", err)
			return
		}
		logger.Info("Purged stale throttle rows", "count", purged)
	})
}
