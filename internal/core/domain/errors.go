package domain

import "errors"

// Domain errors. All of them are immediate, non-retryable failures; handlers
// map them to HTTP status codes and the menu prints them as-is.
var (
	// ErrCurrencyMismatch: arithmetic between Money values of different currencies.
	ErrCurrencyMismatch = errors.New("currency mismatch")

	// ErrUnsupportedCurrencyPair: rate requested for a pair outside USD/CLP.
	ErrUnsupportedCurrencyPair = errors.New("unsupported currency pair")

	// ErrAccountNotFound: the referenced account id is not in the store.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInsufficientFunds: withdrawal larger than the available balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidInput: boundary validation failure (non-positive amount,
	// unknown currency code, malformed number or id).
	ErrInvalidInput = errors.New("invalid input")
)
