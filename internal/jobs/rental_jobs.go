package jobs

import (
	"context"
	"time"

	"powerloop-backend/internal/domain"
	"powerloop-backend/internal/logger"
	"powerloop-backend/internal/pricing"
)

// SettleCappedRentals closes rentals whose accrued fee has reached the
// pre-authorized ceiling. The hold is captured in full and the powerbank is
// written off; keeping the hold open any longer gains nothing since the fee
// can no longer grow.
func (jr *JobRunner) SettleCappedRentals() {
	jr.runWithRecovery("SettleCappedRentals", func() {
		ctx := context.Background()
		now := time.Now()

		rentals, err := jr.store.ListActive(ctx)
		if err != nil {
			logger.Error("Failed to list active rentals", "error", err)
			return
		}

		settled := 0
		for i := range rentals {
			rental := &rentals[i]
			fees := pricing.CalculateRentalFeesAt(rental.StartTime, now, rental.HourlyRateCents, rental.MaxPreAuthCents)
			if fees.TotalCents < rental.MaxPreAuthCents {
				continue
			}

			if err := jr.payments.Capture(ctx, rental.PreAuthRef, fees.TotalCents); err != nil {
				logger.Error("Failed to capture capped rental", "rental_id", rental.ID, "error", err)
				continue
			}

			end := now
			rental.EndTime = &end
			rental.FinalAmountCents = fees.TotalCents
			rental.Status = domain.RentalStatusCompleted
			if err := jr.store.RentalRepository.Update(ctx, rental); err != nil {
				logger.Error("Failed to close capped rental", "rental_id", rental.ID, "error", err)
				continue
			}

			settled++
			logger.Info("Settled capped rental", "rental_id", rental.ID, "user_id", rental.UserID,
				"amount", pricing.FormatCurrency(fees.TotalCents))
		}

		logger.Info("Capped rental settlement finished", "checked", len(rentals), "settled", settled)
	})
}
