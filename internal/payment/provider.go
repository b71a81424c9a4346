package payment

import (
	"context"
	"errors"
)

var (
	ErrDeclined    = errors.New("payment declined")
	ErrHoldUnknown = errors.New("unknown payment hold")
)

// Provider is the external payment gateway, consumed as a black box.
// Authorize places a hold for the given amount and returns the provider's
// reference; Capture settles a hold at or below the held amount; Release
// voids a hold without charging.
type Provider interface {
	Authorize(ctx context.Context, amountCents int32, currency, idempotencyKey string) (string, error)
	Capture(ctx context.Context, ref string, amountCents int32) error
	Release(ctx context.Context, ref string) error
}
