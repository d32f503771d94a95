package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidScheduleInput = errors.New("invalid schedule input")

	ErrOutOfStock      = errors.New("product is out of stock")
	ErrStockExceeded   = errors.New("requested quantity exceeds available stock")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrInvalidShopType = errors.New("unknown shop type")
	ErrInvalidProduct  = errors.New("product id is required")
	ErrInvalidPrice    = errors.New("product price must not be negative")
	ErrLineNotFound    = errors.New("product is not in the cart")

	ErrEmptyCart      = errors.New("cart is empty")
	ErrMissingOrderID = errors.New("order response has no order id")

	ErrInvalidTenorRequest = errors.New("invalid tenor recommendation request")
	ErrNoAffordableTenor   = errors.New("no tenor fits the maximum monthly payment")
)

// CheckoutRejectedError carries the order backend's message verbatim.
type CheckoutRejectedError struct {
	StatusCode int
	Message    string
}

func (e *CheckoutRejectedError) Error() string {
	return fmt.Sprintf("checkout rejected (%d): %s", e.StatusCode, e.Message)
}
