package jobs

import (
	"context"
	"fmt"
	"time"

	"powerloop-backend/internal/logger"
	"powerloop-backend/internal/pricing"
)

// SendDailyRevenueSummary mails the operations inbox a one-day revenue
// rollup across rentals and store orders.
func (jr *JobRunner) SendDailyRevenueSummary() {
	jr.runWithRecovery("SendDailyRevenueSummary", func() {
		ctx := context.Background()
		since := time.Now().Add(-24 * time.Hour)

		var rentalCount int64
		var rentalRevenue int64
		query := `SELECT COUNT(*), COALESCE(SUM(final_amount_cents), 0)
		          FROM rentals
		          WHERE status = 'COMPLETED' AND end_time >= $1`
		if err := jr.db.QueryRowContext(ctx, query, since).Scan(&rentalCount, &rentalRevenue); err != nil {
			logger.Error("Failed to aggregate rental revenue", "error", err)
			return
		}

		var orderCount int64
		var orderRevenue int64
		query = `SELECT COUNT(*), COALESCE(SUM(total_cents), 0)
		         FROM orders
		         WHERE status = 'PAID' AND created_on >= $1`
		if err := jr.db.QueryRowContext(ctx, query, since).Scan(&orderCount, &orderRevenue); err != nil {
			logger.Error("Failed to aggregate order revenue", "error", err)
			return
		}

		body := fmt.Sprintf(
			"Daily revenue summary (%s)\n\nRentals completed: %d\nRental revenue: %s\n\nStore orders: %d\nStore revenue: %s\n\nTotal: %s\n",
			time.Now().Format("2006-01-02"),
			rentalCount, pricing.FormatCurrency(int32(rentalRevenue)),
			orderCount, pricing.FormatCurrency(int32(orderRevenue)),
			pricing.FormatCurrency(int32(rentalRevenue+orderRevenue)),
		)

		opsEmail := jr.config.SMTP.OpsEmail
		if opsEmail == "" {
			logger.Warn("No ops email configured, skipping revenue summary")
			return
		}

		subject := fmt.Sprintf("PowerLoop revenue summary %s", time.Now().Format("2006-01-02"))
		if err := jr.emailSvc.SendOpsSummary(ctx, opsEmail, subject, body); err != nil {
			logger.Error("Failed to send revenue summary", "error", err)
			return
		}

		logger.Info("Revenue summary sent",
			"rentals", rentalCount, "rental_revenue_cents", rentalRevenue,
			"orders", orderCount, "order_revenue_cents", orderRevenue)
	})
}
