package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid token")
	ErrPlanRequired       = errors.New("an active plan is required to rent")
	ErrRentalInProgress   = errors.New("user already has an active rental")
	ErrRentalNotActive    = errors.New("rental is not active")
	ErrRentalNotFound     = errors.New("rental not found")
	ErrStationUnavailable = errors.New("station is not available")
	ErrNoFreeSlot         = errors.New("station has no powerbank available")
	ErrOutOfStock         = errors.New("product out of stock")
	ErrEmptyCart          = errors.New("checkout requires at least one item")
	ErrForbidden          = errors.New("resource belongs to another user")
)

// TooManyAttemptsError is returned by Login while a device is locked out.
type TooManyAttemptsError struct {
	RetryAfterMinutes int
}

func (e *TooManyAttemptsError) Error() string {
	return fmt.Sprintf("too many failed attempts, retry in %d minute(s)", e.RetryAfterMinutes)
}
