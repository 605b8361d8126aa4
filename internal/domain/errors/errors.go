package errors

import "errors"

var (
	ErrAlreadyExists       = errors.New("already exists")
	ErrNotFound            = errors.New("not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrValidation          = errors.New("validation failed")
	ErrStateConflict       = errors.New("illegal state transition")
	ErrAmountMismatch      = errors.New("amount mismatch")
	ErrUnknownCorrelation  = errors.New("unknown correlation id")
	ErrGatewayUnavailable  = errors.New("payment gateway unavailable")
	ErrInvalidSignature    = errors.New("invalid event signature")
	ErrInvalidOrderStatus  = errors.New("invalid order status")
	ErrOrderNotCancellable = errors.New("order cannot be cancelled at this stage")
)
