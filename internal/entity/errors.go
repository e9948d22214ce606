package entity

import "errors"

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDuplicateOrder    = errors.New("order id already exists")
	ErrSessionNotFound   = errors.New("checkout session not found")
	ErrStatsNotFound     = errors.New("stats record not found")
)

// ValidationError is returned for input rejected before any storage call.
type ValidationError struct {
	Msg string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}

func (e *ValidationError) Error() string { return e.Msg }
