package domain

type PlanTier string

const (
	PlanTierDaily   PlanTier = "DAILY"
	PlanTierWeekly  PlanTier = "WEEKLY"
	PlanTierMonthly PlanTier = "MONTHLY"
)

// Plan is a subscription tier. MaxPreAuthCents is the ceiling placed on the
// payment hold when a rental starts; no rental under this plan can ever settle
// above it.
type Plan struct {
	ID              int32    `json:"id"`
	Name            string   `json:"name"`
	Tier            PlanTier `json:"tier"`
	HourlyRateCents int32    `json:"hourly_rate_cents"`
	MaxPreAuthCents int32    `json:"max_preauth_cents"`
	Active          bool     `json:"active"`
}
