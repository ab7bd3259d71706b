package service

import (
	"errors"
	"fmt"
)

// Sentinel errors for the business operations. Messages double as the
// user-facing text returned in JSON responses.
var (
	ErrAllFieldsRequired   = errors.New("All fields are required")
	ErrUsernameTaken       = errors.New("Username already exists")
	ErrEmailTaken          = errors.New("Email already exists")
	ErrPasswordTooShort    = errors.New("Password must be at least 6 characters")
	ErrInvalidPhone        = errors.New("Invalid phone number format")
	ErrInvalidReferral     = errors.New("Invalid referral code")
	ErrMissingCredentials  = errors.New("Username and password are required")
	ErrInvalidCredentials  = errors.New("Invalid username or password")
	ErrPlanNotFound        = errors.New("Invalid investment plan")
	ErrInsufficientBalance = errors.New("Insufficient balance")
	ErrInvalidAmount       = errors.New("Invalid amount")
)

// MinimumInvestmentError is returned when the invested amount is below the
// plan's price; it carries the price so the message can name it.
type MinimumInvestmentError struct {
	Price float64
}

func (e *MinimumInvestmentError) Error() string {
	return fmt.Sprintf("Minimum investment for this plan is %g", e.Price)
}
