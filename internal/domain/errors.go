package domain

import "errors"

var (
	// ErrOutOfStock rejects any cart mutation that would push a quantity
	// past the product's currently known stock.
	ErrOutOfStock = errors.New("stock not available")
	// ErrUnknownProduct means the referenced product is not in the catalog.
	ErrUnknownProduct = errors.New("unknown product")
	// ErrEmptyCart guards checkout entry: nothing to submit.
	ErrEmptyCart = errors.New("cart is empty, nothing to checkout")
	// ErrSubmitInFlight rejects a submit while another one is running.
	ErrSubmitInFlight = errors.New("order submission already in progress")
	// ErrOrderPlaced rejects a submit after the order has been accepted.
	ErrOrderPlaced = errors.New("order already placed")
)
