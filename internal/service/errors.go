package service

import "errors"

// Sentinel errors for the ledger core. Handlers map these onto HTTP statuses;
// services wrap them with fmt.Errorf("%w") to add context.
//
// ErrAlreadyCleared and ErrInsufficientBalance are business-rule rejections:
// they are final, never retried, and surfaced to the caller as-is. Only
// ErrStoreUnavailable represents a transient condition.
var (
	ErrInvoiceNotFound     = errors.New("invoice not found")
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrDuplicateNumber     = errors.New("duplicate invoice number")
	ErrAlreadyCleared      = errors.New("bill is already cleared")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrInvalidPaymentMode  = errors.New("invalid payment mode")
	ErrInvalidDate         = errors.New("invalid date")
	ErrStoreUnavailable    = errors.New("store unavailable")
)
