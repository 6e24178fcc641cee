package billing

import (
	"errors"
	"fmt"
)

var (
	// ErrUserNotFound is returned when no user record exists for an address.
	ErrUserNotFound = errors.New("user not found")

	// ErrMembershipNotFound is returned when a membership id does not exist
	// on the user's record.
	ErrMembershipNotFound = errors.New("membership not found")

	// ErrInvalidState is returned when a retry is attempted on a membership
	// that is not in payment_failed state.
	ErrInvalidState = errors.New("membership is not in payment_failed state")

	// ErrInvalidAmount is returned for zero or negative amounts.
	ErrInvalidAmount = errors.New("invalid amount")
)

// InsufficientBalanceError reports a manual or retry charge attempt that
// the user's balance cannot cover. Automatic sweeps never return it; they
// record a failed transaction instead.
type InsufficientBalanceError struct {
	Required  float64
	Available float64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: required %.2f, available %.2f", e.Required, e.Available)
}

// IsInsufficientBalance reports whether err is an InsufficientBalanceError.
func IsInsufficientBalance(err error) bool {
	var ibe *InsufficientBalanceError
	return errors.As(err, &ibe)
}
