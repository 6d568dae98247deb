package ledger

import "errors"

var (
	ErrUnauthorized     = errors.New("caller is not the administrator")
	ErrRoomNotExists    = errors.New("room does not exist")
	ErrRoomNotAvailable = errors.New("room is not available")
	ErrInvalidPayment   = errors.New("payment does not cover the required amount")
	ErrInvalidLevel     = errors.New("unknown room level")
	ErrValidation       = errors.New("validation error")

	// ErrInsufficientFunds is what Settler implementations return when
	// the payer cannot cover the attached payment.
	ErrInsufficientFunds = errors.New("insufficient funds for payment")
)
