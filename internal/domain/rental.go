package domain

import "time"

type RentalStatus string

const (
	RentalStatusActive    RentalStatus = "ACTIVE"
	RentalStatusCompleted RentalStatus = "COMPLETED"
)

// Rental tracks one powerbank from dispense to return.
//
// HourlyRateCents and MaxPreAuthCents are price snapshot fields, captured from
// the plan at rental creation time. All fee calculations use these snapshots,
// not live plan prices, so a plan price change never affects a running rental.
//
// A rental transitions ACTIVE -> COMPLETED exactly once: either on return, or
// by the settlement job once the accrued fee reaches the pre-auth ceiling.
type Rental struct {
	ID               int32        `json:"id"`
	UserID           int32        `json:"user_id"`
	StationID        int32        `json:"station_id"`
	ReturnStationID  *int32       `json:"return_station_id,omitempty"`
	PlanID           int32        `json:"plan_id"`
	PowerBankSerial  string       `json:"power_bank_serial"`
	StartTime        time.Time    `json:"start_time"`
	EndTime          *time.Time   `json:"end_time,omitempty"` // nil while the rental is active
	HourlyRateCents  int32        `json:"hourly_rate_cents"`
	MaxPreAuthCents  int32        `json:"max_preauth_cents"`
	PreAuthRef       string       `json:"preauth_ref"`
	FinalAmountCents int32        `json:"final_amount_cents"`
	Status           RentalStatus `json:"status"`
	CreatedOn        time.Time    `json:"created_on"`
	UpdatedOn        time.Time    `json:"updated_on"`
}
