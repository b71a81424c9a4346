package pricing

import (
	"fmt"
	"time"
)

// Currency label appended by FormatCurrency. All amounts are CHF cents.
const currencyLabel = "CHF"

// FeeResult is the outcome of a rental fee calculation.
type FeeResult struct {
	ElapsedHours int32 `json:"elapsed_hours"`
	TotalCents   int32 `json:"total_cents"`
}

// CalculateRentalFees computes the billable amount for a rental. If end is nil
// the current wall-clock time is used, which yields a live, still-accruing
// estimate for an active rental.
func CalculateRentalFees(start time.Time, end *time.Time, hourlyRateCents, maxPreAuthCents int32) FeeResult {
	compare := time.Now()
	if end != nil {
		compare = *end
	}
	return CalculateRentalFeesAt(start, compare, hourlyRateCents, maxPreAuthCents)
}

// CalculateRentalFeesAt computes the billable amount for the elapsed time
// between start and compare.
//
// Elapsed time converts to hours rounding UP: any partial hour counts as a
// full hour, since rentals bill in whole-hour increments. The total is capped
// at maxPreAuthCents so the customer is never charged more than the amount
// they pre-authorized, no matter how long the rental runs.
//
// A start after compare clamps to zero elapsed time and zero amount. The
// caller is responsible for validating that maxPreAuthCents is positive.
func CalculateRentalFeesAt(start, compare time.Time, hourlyRateCents, maxPreAuthCents int32) FeeResult {
	elapsed := compare.Sub(start)
	if elapsed < 0 {
		elapsed = 0
	}

	hours := int32(elapsed / time.Hour)
	if elapsed%time.Hour > 0 {
		hours++
	}

	total := hourlyRateCents * hours
	if total > maxPreAuthCents {
		total = maxPreAuthCents
	}
	if total < 0 {
		total = 0
	}

	return FeeResult{ElapsedHours: hours, TotalCents: total}
}

// FormatCurrency renders a cent amount as a two-decimal currency string,
// e.g. 800 -> "8.00 CHF".
func FormatCurrency(cents int32) string {
	return fmt.Sprintf("%d.%02d %s", cents/100, cents%100, currencyLabel)
}
