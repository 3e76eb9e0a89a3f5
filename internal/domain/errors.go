package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrItemReferenced    = errors.New("item is referenced by a cart")
	ErrCurrencyMismatch  = errors.New("currency mismatch")
)
